package utils

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// lamportsPerSolExp is the base-10 exponent between lamports and SOL.
const lamportsPerSolExp = 9

// LamportsToSol converts lamports to SOL without losing precision.
func LamportsToSol(lamports uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(lamports), -lamportsPerSolExp)
}

// SolToLamports converts SOL to lamports, truncating sub-lamport amounts.
func SolToLamports(sol decimal.Decimal) uint64 {
	return sol.Shift(lamportsPerSolExp).BigInt().Uint64()
}
