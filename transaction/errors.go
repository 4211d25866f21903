package transaction

import (
	"errors"
	"fmt"

	"github.com/NethermindEth/blockifier/state"
)

var (
	ErrValidationFailed    = errors.New("validation failed")
	ErrInvalidNonce        = errors.New("invalid transaction nonce")
	ErrInsufficientBalance = errors.New("insufficient fee token balance")
	ErrStateRead           = errors.New("state read failed")
	ErrMalformedCalldata   = errors.New("malformed call-contract calldata")
	ErrFeeOverflow         = errors.New("fee overflows")
)

// FatalKind classifies the outcomes that exclude a transaction from the block.
type FatalKind uint8

const (
	FatalValidationFailed FatalKind = iota + 1
	FatalInsufficientBalance
	FatalInvalidCheckpoint
	FatalClassNotFound
	FatalStateRead
)

func (k FatalKind) String() string {
	switch k {
	case FatalValidationFailed:
		return "validation failed"
	case FatalInsufficientBalance:
		return "insufficient balance"
	case FatalInvalidCheckpoint:
		return "invalid checkpoint"
	case FatalClassNotFound:
		return "class not found"
	case FatalStateRead:
		return "state read"
	default:
		return "unknown"
	}
}

func (k FatalKind) sentinel() error {
	switch k {
	case FatalValidationFailed:
		return ErrValidationFailed
	case FatalInsufficientBalance:
		return ErrInsufficientBalance
	case FatalInvalidCheckpoint:
		return state.ErrInvalidCheckpoint
	case FatalClassNotFound:
		return state.ErrClassNotFound
	case FatalStateRead:
		return ErrStateRead
	default:
		return nil
	}
}

// FatalError reports a transaction that must be excluded from the block. The
// state it was executed on is left exactly as before the transaction.
type FatalError struct {
	Kind FatalKind
	// Phase is always PhaseReverted.
	Phase    Phase
	FailedIn Phase
	Err      error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("%s during %s: %v", e.Kind, e.FailedIn, e.Err)
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is match the sentinel of the error's kind.
func (e *FatalError) Is(target error) bool {
	sentinel := e.Kind.sentinel()
	return sentinel != nil && target == sentinel
}

// fatalKindOf classifies an error returned by the state or a call frame.
func fatalKindOf(err error) FatalKind {
	switch {
	case errors.Is(err, state.ErrInvalidCheckpoint):
		return FatalInvalidCheckpoint
	case errors.Is(err, state.ErrClassNotFound):
		return FatalClassNotFound
	default:
		return FatalStateRead
	}
}
