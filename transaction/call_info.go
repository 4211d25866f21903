package transaction

import "github.com/NethermindEth/blockifier/core/felt"

type CallExecution struct {
	Retdata []felt.Felt
	Failed  bool
	// NSteps is the number of steps spent in this frame, inner calls excluded.
	NSteps uint64
}

// CallInfo is the result of one call frame and the frames it spawned.
type CallInfo struct {
	Call       CallEntryPoint
	Execution  CallExecution
	InnerCalls []*CallInfo
}

// TotalSteps sums the steps of the call tree rooted at c.
func (c *CallInfo) TotalSteps() uint64 {
	if c == nil {
		return 0
	}
	total := c.Execution.NSteps
	for _, inner := range c.InnerCalls {
		total += inner.TotalSteps()
	}
	return total
}

// RevertReason describes the innermost failed frame of the tree.
func (c *CallInfo) RevertReason() string {
	if c == nil || !c.Execution.Failed {
		return ""
	}
	for i := len(c.InnerCalls) - 1; i >= 0; i-- {
		if reason := c.InnerCalls[i].RevertReason(); reason != "" {
			return reason
		}
	}
	return decodeRetdata(c.Execution.Retdata)
}
