package main

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/NethermindEth/blockifier/builder"
	"github.com/NethermindEth/blockifier/core/felt"
	"github.com/NethermindEth/blockifier/state"
	"github.com/NethermindEth/blockifier/utils"
	"github.com/olekukonko/tablewriter"
)

type TxnReport struct {
	Index       int       `json:"index"`
	Sender      felt.Felt `json:"sender"`
	Reverted    bool      `json:"reverted"`
	RevertError string    `json:"revert_error,omitempty"`
	ActualFee   felt.Felt `json:"actual_fee"`
	FeeType     string    `json:"fee_type"`
	Steps       uint64    `json:"steps"`
}

type RejectionReport struct {
	Index  int       `json:"index"`
	Sender felt.Felt `json:"sender"`
	Kind   string    `json:"kind"`
	Error  string    `json:"error"`
}

// BlockReport is the outcome of one block of a scenario.
type BlockReport struct {
	Number    uint64            `json:"number"`
	Txns      []TxnReport       `json:"transactions"`
	Rejected  []RejectionReport `json:"rejected"`
	Steps     uint64            `json:"steps"`
	StateDiff *state.StateDiff  `json:"state_diff"`
}

func NewBlockReport(result *builder.BuildResult) *BlockReport {
	return &BlockReport{
		Number: result.BlockInfo.BlockNumber,
		Txns: utils.Map(result.Receipts, func(receipt *builder.Receipt) TxnReport {
			return TxnReport{
				Index:       receipt.Index,
				Sender:      receipt.Txn.SenderAddress,
				Reverted:    receipt.Info.Reverted,
				RevertError: receipt.Info.RevertError,
				ActualFee:   receipt.Info.ActualFee,
				FeeType:     receipt.Info.FeeType.String(),
				Steps:       receipt.Info.Resources.NSteps,
			}
		}),
		Rejected: utils.Map(result.Rejected, func(rejection *builder.Rejection) RejectionReport {
			return RejectionReport{
				Index:  rejection.Index,
				Sender: rejection.Txn.SenderAddress,
				Kind:   rejection.Kind.String(),
				Error:  rejection.Err.Error(),
			}
		}),
		Steps:     result.StepsConsumed,
		StateDiff: result.StateDiff,
	}
}

func WriteJSON(out io.Writer, reports []*BlockReport) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(reports)
}

// WriteTable renders, per block, a table of its transactions followed by a
// table of its state diff sorted by address and key.
func WriteTable(out io.Writer, reports []*BlockReport) error {
	for _, report := range reports {
		if _, err := fmt.Fprintf(out, "Block %d\n", report.Number); err != nil {
			return err
		}

		txns := tablewriter.NewWriter(out)
		txns.SetHeader([]string{"Index", "Sender", "Status", "Fee", "Steps"})
		for i := range report.Txns {
			txn := &report.Txns[i]
			status := "SUCCEEDED"
			if txn.Reverted {
				status = "REVERTED: " + txn.RevertError
			}
			txns.Append([]string{
				strconv.Itoa(txn.Index), txn.Sender.String(), status,
				txn.ActualFee.Text(10) + " " + txn.FeeType, strconv.FormatUint(txn.Steps, 10),
			})
		}
		for i := range report.Rejected {
			rejection := &report.Rejected[i]
			txns.Append([]string{
				strconv.Itoa(rejection.Index), rejection.Sender.String(), "REJECTED: " + rejection.Kind, "", "",
			})
		}
		txns.SetFooter([]string{"", "", "", "Total", strconv.FormatUint(report.Steps, 10)})
		txns.Render()

		diff := tablewriter.NewWriter(out)
		diff.SetHeader([]string{"Kind", "Address", "Key", "Value"})
		diff.AppendBulk(diffRows(report.StateDiff))
		diff.SetFooter([]string{"", "", "Length", strconv.Itoa(report.StateDiff.Length())})
		diff.Render()
	}
	return nil
}

func diffRows(diff *state.StateDiff) [][]string {
	var rows [][]string
	for _, addr := range sortedFelts(diff.DeployedContracts) {
		classHash := diff.DeployedContracts[addr]
		rows = append(rows, []string{"deployed", addr.String(), "", classHash.String()})
	}
	for _, classHash := range sortedFelts(diff.DeclaredClasses) {
		compiledClassHash := diff.DeclaredClasses[classHash]
		rows = append(rows, []string{"declared", classHash.String(), "", compiledClassHash.String()})
	}
	for _, addr := range sortedFelts(diff.StorageDiffs) {
		storage := diff.StorageDiffs[addr]
		for _, key := range sortedFelts(storage) {
			value := storage[key]
			rows = append(rows, []string{"storage", addr.String(), key.String(), value.String()})
		}
	}
	for _, addr := range sortedFelts(diff.Nonces) {
		nonce := diff.Nonces[addr]
		rows = append(rows, []string{"nonce", addr.String(), "", nonce.String()})
	}
	return rows
}

func sortedFelts[V any](m map[felt.Felt]V) []felt.Felt {
	keys := utils.MapKeys(m)
	slices.SortFunc(keys, func(a, b felt.Felt) int {
		return a.Cmp(&b)
	})
	return keys
}
