package transaction

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/NethermindEth/blockifier/core/felt"
)

// Call is a single contract invocation routed through an account's __execute__.
type Call struct {
	To       felt.Felt
	Selector felt.Felt
	Calldata []felt.Felt
}

// EncodeCallContractCalldata lays call out as [to, selector, len, calldata...].
func EncodeCallContractCalldata(call Call) []felt.Felt {
	calldata := make([]felt.Felt, 0, CallContractCalldataIndex+len(call.Calldata))
	calldata = append(calldata, call.To, call.Selector, felt.FromUint64(uint64(len(call.Calldata))))
	return append(calldata, call.Calldata...)
}

// DecodeCallContractCalldata is the inverse of EncodeCallContractCalldata.
func DecodeCallContractCalldata(calldata []felt.Felt) (Call, error) {
	if len(calldata) < CallContractCalldataIndex {
		return Call{}, fmt.Errorf("%w: %d elements, need at least %d",
			ErrMalformedCalldata, len(calldata), CallContractCalldataIndex)
	}

	length, err := calldata[CallContractCalldataIndex-1].Uint64()
	if err != nil || length != uint64(len(calldata)-CallContractCalldataIndex) {
		return Call{}, fmt.Errorf("%w: declared length %s, got %d elements",
			ErrMalformedCalldata, &calldata[CallContractCalldataIndex-1], len(calldata)-CallContractCalldataIndex)
	}

	return Call{
		To:       calldata[0],
		Selector: calldata[1],
		Calldata: calldata[CallContractCalldataIndex:],
	}, nil
}

// shortString encodes an ASCII string of at most 31 characters as a felt.
func shortString(s string) felt.Felt {
	var f felt.Felt
	f.SetBytes([]byte(s))
	return f
}

// decodeRetdata renders retdata for revert messages: printable short strings
// as text, anything else as hex.
func decodeRetdata(retdata []felt.Felt) string {
	parts := make([]string, len(retdata))
	for i := range retdata {
		b := retdata[i].Bytes()
		s := strings.TrimLeft(string(b[:]), "\x00")
		if s != "" && strings.IndexFunc(s, func(r rune) bool {
			return r > unicode.MaxASCII || !unicode.IsPrint(r)
		}) == -1 {
			parts[i] = s
		} else {
			parts[i] = retdata[i].String()
		}
	}
	return strings.Join(parts, ", ")
}
