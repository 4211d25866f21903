package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/NethermindEth/blockifier/abi"
	"github.com/NethermindEth/blockifier/api"
	"github.com/NethermindEth/blockifier/core/felt"
	"github.com/NethermindEth/blockifier/testcontracts"
	"github.com/NethermindEth/blockifier/transaction"
	"github.com/NethermindEth/blockifier/validator"
	"gopkg.in/yaml.v3"
)

// Scenario is a chain to replay: a genesis state made of fixture contracts
// followed by blocks of invoke transactions.
type Scenario struct {
	ProtocolVersion string             `yaml:"protocol_version" validate:"protocol_version"`
	Block           api.BlockInfo      `yaml:"block"`
	Chain           api.ChainInfo      `yaml:"chain"`
	Flags           api.ExecutionFlags `yaml:"flags"`
	Genesis         Genesis            `yaml:"genesis"`
	Blocks          []ScenarioBlock    `yaml:"blocks" validate:"required,dive"`
}

type Genesis struct {
	// Balance funds every account of the genesis state in both fee tokens.
	Balance   uint64                                   `yaml:"balance"`
	Contracts map[testcontracts.FeatureContract]uint16 `yaml:"contracts"`
}

type ScenarioBlock struct {
	Transactions []ScenarioTxn `yaml:"transactions" validate:"dive"`
}

// ScenarioTxn is an invoke transaction. Its __execute__ calldata is either
// built from Call or given verbatim in Calldata.
type ScenarioTxn struct {
	Sender    Address       `yaml:"sender"`
	Nonce     felt.Felt     `yaml:"nonce"`
	Version   uint64        `yaml:"version" validate:"omitempty,oneof=1 3"`
	Signature []felt.Felt   `yaml:"signature"`
	Call      *ScenarioCall `yaml:"call" validate:"required_without=Calldata,excluded_with=Calldata"`
	Calldata  []felt.Felt   `yaml:"calldata"`
}

type ScenarioCall struct {
	To         Address     `yaml:"to"`
	EntryPoint string      `yaml:"entry_point" validate:"required"`
	Calldata   []felt.Felt `yaml:"calldata"`
}

// Address is a contract address written either as a felt or as a fixture
// instance, "test_contract(cairo1)" for the first deployment of a contract
// and "test_contract(cairo1)/2" for the third.
type Address felt.Felt

func (a *Address) UnmarshalText(text []byte) error {
	name, instance, hasInstance := strings.Cut(string(text), "/")
	if !strings.Contains(name, "(") {
		if hasInstance {
			return fmt.Errorf("instance given for plain address %q", text)
		}
		return (*felt.Felt)(a).UnmarshalText(text)
	}

	var contract testcontracts.FeatureContract
	if err := contract.UnmarshalText([]byte(name)); err != nil {
		return err
	}
	var n uint64
	if hasInstance {
		var err error
		if n, err = strconv.ParseUint(instance, 10, 16); err != nil {
			return fmt.Errorf("instance of %s: %w", name, err)
		}
	}
	*a = Address(contract.InstanceAddress(uint16(n)))
	return nil
}

func (a Address) Felt() felt.Felt {
	return felt.Felt(a)
}

// defaultScenario is the fixture block context, latest protocol version and
// the default execution flags, which every scenario file starts from.
func defaultScenario() *Scenario {
	blockContext := testcontracts.BlockContext()
	return &Scenario{
		ProtocolVersion: api.LatestProtocolVersion().String(),
		Block:           blockContext.BlockInfo,
		Chain:           blockContext.ChainInfo,
		Flags:           api.DefaultExecutionFlags(),
	}
}

// LoadScenario decodes and validates a YAML scenario. Fields absent from the
// document keep their default.
func LoadScenario(r io.Reader) (*Scenario, error) {
	scenario := defaultScenario()

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(scenario); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty scenario")
		}
		return nil, fmt.Errorf("decode scenario: %w", err)
	}

	if err := validator.Validator().Struct(scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return scenario, nil
}

// BlockContext is the context of the index-th block of the scenario. Block
// numbers and timestamps increase by one from those of the scenario block.
// Unless constants is given, the constants of the protocol version are used.
func (s *Scenario) BlockContext(index int, constants *api.VersionedConstants) (*api.BlockContext, error) {
	if constants == nil {
		var err error
		if constants, err = api.VersionedConstantsFor(s.ProtocolVersion); err != nil {
			return nil, err
		}
	}

	block := s.Block
	block.BlockNumber += uint64(index)
	block.BlockTimestamp += uint64(index)
	return api.NewBlockContext(block, s.Chain, constants), nil
}

// Transactions converts the transactions of the index-th block.
func (s *Scenario) Transactions(index int) ([]*transaction.Transaction, error) {
	block := s.Blocks[index]
	txns := make([]*transaction.Transaction, len(block.Transactions))
	for i := range block.Transactions {
		txn, err := block.Transactions[i].Transaction()
		if err != nil {
			return nil, fmt.Errorf("block %d transaction %d: %w", index, i, err)
		}
		txns[i] = txn
	}
	return txns, nil
}

// Transaction builds the invoke transaction. The sender defaults to the
// account of the genesis state and the version to 1.
func (t *ScenarioTxn) Transaction() (*transaction.Transaction, error) {
	txn := &transaction.Transaction{
		SenderAddress: t.Sender.Felt(),
		Nonce:         t.Nonce,
		Version:       t.Version,
		Signature:     t.Signature,
		Calldata:      t.Calldata,
	}
	if txn.SenderAddress.IsZero() {
		txn.SenderAddress = testcontracts.AccountWithoutValidationsCairo0.InstanceAddress(0)
	}
	if txn.Version == 0 {
		txn.Version = 1
	}
	if t.Call != nil {
		txn.Calldata = transaction.EncodeCallContractCalldata(transaction.Call{
			To:       t.Call.To.Felt(),
			Selector: abi.SelectorFromName(t.Call.EntryPoint),
			Calldata: t.Call.Calldata,
		})
	}

	if err := validator.Validator().Struct(txn); err != nil {
		return nil, err
	}
	return txn, nil
}
