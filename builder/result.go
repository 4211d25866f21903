package builder

import (
	"github.com/NethermindEth/blockifier/api"
	"github.com/NethermindEth/blockifier/core/felt"
	"github.com/NethermindEth/blockifier/state"
)

type BuildResult struct {
	BlockInfo     api.BlockInfo
	Receipts      []*Receipt
	Rejected      []*Rejection
	StateDiff     *state.StateDiff
	StepsConsumed uint64
}

// RevertedCount is the number of included transactions whose execution was reverted.
func (b *BuildResult) RevertedCount() int {
	reverted := 0
	for _, receipt := range b.Receipts {
		if receipt.Info.Reverted {
			reverted++
		}
	}
	return reverted
}

// FeesCollected sums the fees paid in each fee token.
func (b *BuildResult) FeesCollected() map[api.FeeType]felt.Felt {
	fees := make(map[api.FeeType]felt.Felt)
	for _, receipt := range b.Receipts {
		total := fees[receipt.Info.FeeType]
		total.Add(&total, &receipt.Info.ActualFee)
		fees[receipt.Info.FeeType] = total
	}
	return fees
}
