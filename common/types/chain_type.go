package types

import "strings"

// ChainType represents supported blockchain types
type ChainType string

const (
	// EVM represents Ethereum Virtual Machine based chains (e.g. OneChain, Ethereum, Polygon, BSC).
	EVM ChainType = "EVM"
	// SOLANA represents Solana chain.
	SOLANA ChainType = "SOLANA"
	// UNKNOWN represents unknown or unsupported chain type in the system.
	UNKNOWN ChainType = "UNKNOWN"
)

// String converts ChainType to string representation
func (t ChainType) String() string {
	return string(t)
}

// ParseChainType converts string to ChainType representation.
func ParseChainType(s string) ChainType {
	switch strings.ToUpper(s) {
	case EVM.String():
		return EVM
	case SOLANA.String():
		return SOLANA
	default:
		return UNKNOWN
	}
}

// ChainID identifies a connected ledger by its bridge-level name.
type ChainID string

const (
	OneChain ChainID = "onechain"
	Ethereum ChainID = "ethereum"
	Polygon  ChainID = "polygon"
	BSC      ChainID = "bsc"
	Solana   ChainID = "solana"
)

// numericChainIDs maps bridge chain names to the numeric ids used inside payloads.
var numericChainIDs = map[ChainID]uint64{
	OneChain: 1000,
	Ethereum: 1,
	Polygon:  137,
	BSC:      56,
	Solana:   900,
}

// String converts ChainID to string representation
func (id ChainID) String() string {
	return string(id)
}

// NumericID returns the numeric id of the chain used when encoding bridge payloads.
// Unknown chains resolve to Ethereum mainnet (1).
func (id ChainID) NumericID() uint64 {
	if n, ok := numericChainIDs[id]; ok {
		return n
	}
	return 1
}

// DefaultChainType returns the chain type for well-known chain ids.
func (id ChainID) DefaultChainType() ChainType {
	switch id {
	case OneChain, Ethereum, Polygon, BSC:
		return EVM
	case Solana:
		return SOLANA
	default:
		return UNKNOWN
	}
}
