package db

import "bytes"

type Bucket byte

// Pebble does not support buckets to differentiate between groups of
// keys like Bolt or MDBX does. We use a global prefix list as a poor
// man's bucket alternative.
const (
	ContractClassHash Bucket = iota // maps contract addresses and class hashes
	ContractNonce                   // contract nonce
	ContractStorage                 // contract storage cells
	Class                           // maps class hashes to compiled classes
	Genesis                         // set once the genesis state is written
)

// Key flattens a prefix and series of byte arrays into a single []byte.
func (b Bucket) Key(key ...[]byte) []byte {
	return append([]byte{byte(b)}, bytes.Join(key, nil)...)
}

func (b Bucket) String() string {
	switch b {
	case ContractClassHash:
		return "ContractClassHash"
	case ContractNonce:
		return "ContractNonce"
	case ContractStorage:
		return "ContractStorage"
	case Class:
		return "Class"
	case Genesis:
		return "Genesis"
	default:
		return "Unknown"
	}
}
