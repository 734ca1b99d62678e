package types

import "math/big"

// TransactionRequest describes a contract call to submit on a chain.
//
// Fields:
// - To: the contract (or program) address receiving the call.
// - Data: the chain-specific encoded payload.
// - Value: the native value attached to the call, nil for none.
type TransactionRequest struct {
	To    string
	Data  []byte
	Value *big.Int
}

// Transaction represents a submitted blockchain transaction.
//
// Fields:
// - Hash: the hash (or signature) of the transaction.
// - ChainID: the chain the transaction was submitted to.
// - From: the address from which the transaction is sent.
// - To: the address to which the transaction is sent.
// - Value: the native value sent with the transaction.
// - Data: the payload of the transaction.
// - Nonce: the nonce of the transaction, zero where the chain has none.
type Transaction struct {
	Hash    string  `json:"hash"`
	ChainID ChainID `json:"chainId"`
	From    string  `json:"from"`
	To      string  `json:"to"`
	Value   string  `json:"value"`
	Data    []byte  `json:"data,omitempty"`
	Nonce   uint64  `json:"nonce"`
}
