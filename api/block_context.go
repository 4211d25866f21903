package api

import (
	"fmt"
	"strings"

	"github.com/NethermindEth/blockifier/core/felt"
)

// FeeType selects the token a transaction pays its fee in.
type FeeType uint8

const (
	FeeTypeETH FeeType = iota
	FeeTypeSTRK
)

func (f FeeType) String() string {
	switch f {
	case FeeTypeETH:
		return "ETH"
	case FeeTypeSTRK:
		return "STRK"
	default:
		return "UNKNOWN"
	}
}

func (f FeeType) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

func (f *FeeType) UnmarshalText(text []byte) error {
	switch strings.ToUpper(string(text)) {
	case "ETH":
		*f = FeeTypeETH
	case "STRK":
		*f = FeeTypeSTRK
	default:
		return fmt.Errorf("unknown fee type %q (known: ETH, STRK)", text)
	}
	return nil
}

type FeeTokenAddresses struct {
	ETH  felt.Felt `mapstructure:"eth" yaml:"eth" validate:"felt_nonzero"`
	STRK felt.Felt `mapstructure:"strk" yaml:"strk" validate:"felt_nonzero"`
}

type GasPrices struct {
	// per unit of resource, in wei
	ETH uint64 `mapstructure:"eth" yaml:"eth"`
	// per unit of resource, in fri
	STRK uint64 `mapstructure:"strk" yaml:"strk"`
}

func (g GasPrices) For(feeType FeeType) uint64 {
	if feeType == FeeTypeSTRK {
		return g.STRK
	}
	return g.ETH
}

type BlockInfo struct {
	BlockNumber      uint64    `mapstructure:"number" yaml:"number"`
	BlockTimestamp   uint64    `mapstructure:"timestamp" yaml:"timestamp"`
	SequencerAddress felt.Felt `mapstructure:"sequencer_address" yaml:"sequencer_address"`
	GasPrices        GasPrices `mapstructure:"gas_prices" yaml:"gas_prices"`
}

type ChainInfo struct {
	ChainID           string            `mapstructure:"chain_id" yaml:"chain_id" validate:"required"`
	FeeTokenAddresses FeeTokenAddresses `mapstructure:"fee_token_addresses" yaml:"fee_token_addresses"`
}

// BlockContext is the block-level input shared by all transactions of a block.
type BlockContext struct {
	BlockInfo          BlockInfo
	ChainInfo          ChainInfo
	VersionedConstants *VersionedConstants
}

func NewBlockContext(block BlockInfo, chain ChainInfo, constants *VersionedConstants) *BlockContext {
	return &BlockContext{
		BlockInfo:          block,
		ChainInfo:          chain,
		VersionedConstants: constants,
	}
}

func (b *BlockContext) FeeTokenAddress(feeType FeeType) felt.Felt {
	if feeType == FeeTypeSTRK {
		return b.ChainInfo.FeeTokenAddresses.STRK
	}
	return b.ChainInfo.FeeTokenAddresses.ETH
}
