package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/Masterminds/semver/v3"
)

var ErrUnsupportedVersion = errors.New("unsupported protocol version")

// FeeCosts are the resource weights of the linear fee formula.
type FeeCosts struct {
	Base                uint64 `json:"base"`
	PerStorageCell      uint64 `json:"per_storage_cell"`
	PerModifiedContract uint64 `json:"per_modified_contract"`
	PerStep             uint64 `json:"per_step"`
}

// VersionedConstants holds constants that may change with versions of the protocol
type VersionedConstants struct {
	// Maximum depth of nested calls
	MaxRecursionDepth int `json:"max_recursion_depth"`

	// Maximum number of steps of the validation phase
	ValidateMaxNSteps uint64 `json:"validate_max_n_steps"`

	FeeCosts FeeCosts `json:"fee_costs"`
}

var (
	Ver0_13_0 = semver.MustParse("0.13.0")
	Ver0_13_1 = semver.MustParse("0.13.1")
	Ver0_13_2 = semver.MustParse("0.13.2")
)

// sorted by descending version
var versionedConstants = []struct {
	version   *semver.Version
	constants VersionedConstants
}{
	{
		version: Ver0_13_2,
		constants: VersionedConstants{
			MaxRecursionDepth: 50,
			ValidateMaxNSteps: 1_000_000,
			FeeCosts:          FeeCosts{Base: 10, PerStorageCell: 4, PerModifiedContract: 2, PerStep: 1},
		},
	},
	{
		version: Ver0_13_1,
		constants: VersionedConstants{
			MaxRecursionDepth: 50,
			ValidateMaxNSteps: 1_000_000,
			FeeCosts:          FeeCosts{Base: 10, PerStorageCell: 6, PerModifiedContract: 2, PerStep: 1},
		},
	},
	{
		version: Ver0_13_0,
		constants: VersionedConstants{
			MaxRecursionDepth: 50,
			ValidateMaxNSteps: 1_000_000,
			FeeCosts:          FeeCosts{Base: 10, PerStorageCell: 8, PerModifiedContract: 4, PerStep: 1},
		},
	},
}

// LatestVersionedConstants returns the constants of the newest supported version.
func LatestVersionedConstants() *VersionedConstants {
	constants := versionedConstants[0].constants
	return &constants
}

// LatestProtocolVersion is the newest version with known constants.
func LatestProtocolVersion() *semver.Version {
	return versionedConstants[0].version
}

// VersionedConstantsFor returns the constants in force at protocolVersion,
// that is those of the newest version not above it.
func VersionedConstantsFor(protocolVersion string) (*VersionedConstants, error) {
	version, err := ParseProtocolVersion(protocolVersion)
	if err != nil {
		return nil, err
	}

	for _, vc := range versionedConstants {
		if !version.LessThan(vc.version) {
			constants := vc.constants
			return &constants, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedVersion, version)
}

// ParseProtocolVersion parses versions such as "0.13" or "0.13.1.1" by
// keeping the first three components.
func ParseProtocolVersion(protocolVersion string) (*semver.Version, error) {
	if protocolVersion == "" {
		return versionedConstants[0].version, nil
	}

	sep := "."
	digits := strings.Split(protocolVersion, sep)
	// pad with 3 zeros in case version has less than 3 digits
	digits = append(digits, "0", "0", "0")

	// get first 3 digits only
	return semver.NewVersion(strings.Join(digits[:3], sep))
}

// LoadVersionedConstants loads VersionedConstants from a JSON file
func LoadVersionedConstants(filePath string) (*VersionedConstants, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read constants file: %w", err)
	}

	var constants VersionedConstants
	if err := json.Unmarshal(data, &constants); err != nil {
		return nil, fmt.Errorf("parse constants file: %w", err)
	}
	return &constants, nil
}
