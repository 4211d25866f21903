package transaction

import "github.com/NethermindEth/blockifier/core/felt"

// Entry-point selectors of the account abstraction protocol. These are wire
// constants and must not be recomputed.
var (
	// selector of '__execute__'
	ExecuteEntryPointSelector = felt.MustFromString("0x15d40a3d6ca2ac30f4031e42be28da9b056fef9bb7357ac5e85627ee876e5ad")
	// selector of '__validate__'
	ValidateEntryPointSelector = felt.MustFromString("0x162da33a4585851fe8d3af3c2a9c60b557814e221e0d4f30ff0b2189d9c7775")
	// selector of 'constructor'
	ConstructorEntryPointSelector = felt.MustFromString("0x28ffe4ff0f226a9107253e17a904099aa4f63a02a5621de0576e5aa71bc5194")
)

// CallContractCalldataIndex is the index of the first called-contract calldata
// element within the calldata of a call-contract invocation. The preceding
// slots hold the target address, the selector and the inner calldata length.
const CallContractCalldataIndex = 3

// Retdata of calls that failed before reaching contract code.
var (
	entryPointNotFound         = shortString("ENTRYPOINT_NOT_FOUND")
	uninitializedStorage       = shortString("UNINITIALIZED_STORAGE_ADDRESS")
	recursionDepthExceeded     = shortString("RECURSION_DEPTH_EXCEEDED")
	contractAddressUnavailable = shortString("CONTRACT_ADDRESS_UNAVAILABLE")
	invalidCalldataLength      = shortString("INVALID_CALLDATA_LENGTH")
)
