package builder

import "github.com/NethermindEth/blockifier/transaction"

type EventListener interface {
	OnTxnExecuted(*transaction.ExecutionInfo)
	OnTxnRejected(transaction.FatalKind)
	OnBlockFinalised(*BuildResult)
}

type SelectiveListener struct {
	OnTxnExecutedCb    func(*transaction.ExecutionInfo)
	OnTxnRejectedCb    func(transaction.FatalKind)
	OnBlockFinalisedCb func(*BuildResult)
}

func (l *SelectiveListener) OnTxnExecuted(info *transaction.ExecutionInfo) {
	if l.OnTxnExecutedCb != nil {
		l.OnTxnExecutedCb(info)
	}
}

func (l *SelectiveListener) OnTxnRejected(kind transaction.FatalKind) {
	if l.OnTxnRejectedCb != nil {
		l.OnTxnRejectedCb(kind)
	}
}

func (l *SelectiveListener) OnBlockFinalised(result *BuildResult) {
	if l.OnBlockFinalisedCb != nil {
		l.OnBlockFinalisedCb(result)
	}
}
