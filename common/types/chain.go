package types

import (
	"context"

	"github.com/shopspring/decimal"
)

// ChainConfig holds the configuration for a specific chain implementation.
//
// Fields:
// - Name: the name of the chain.
// - ChainID: the bridge-level identifier of the chain.
// - NumericID: the network id used for transaction signing.
// - ChainType: the type of the chain.
// - RpcUrl: the URL for the chain's RPC endpoint.
// - TxType: the type of transactions supported by the chain.
// - PrivateKey: the private key for signing transactions.
// - BridgeContract: the address of the bridge contract (or program) on the chain.
// - RequestsPerSecond: the RPC request budget, zero disables limiting.
type ChainConfig struct {
	Name              string
	ChainID           ChainID
	NumericID         uint64
	ChainType         ChainType
	RpcUrl            string
	TxType            uint64
	PrivateKey        string
	BridgeContract    string
	RequestsPerSecond float64
}

// GasEstimator provides gas estimation functionality.
type GasEstimator interface {
	// EstimateGas estimates the cost of a transaction.
	//
	// Parameters:
	// - ctx: the context for managing the request.
	// - req: the transaction request to estimate.
	//
	// Returns:
	// - decimal.Decimal: the estimated cost expressed in native token units.
	// - error: an error if the gas estimation fails.
	EstimateGas(ctx context.Context, req *TransactionRequest) (decimal.Decimal, error)
}

// TransactionSender provides transaction sending functionality.
type TransactionSender interface {
	// SendTransaction signs and broadcasts a contract call.
	//
	// Parameters:
	// - ctx: the context for managing the request.
	// - req: the transaction request containing recipient, payload and value.
	//
	// Returns:
	// - *Transaction: the transaction details.
	// - error: an error if the transaction sending fails.
	SendTransaction(ctx context.Context, req *TransactionRequest) (*Transaction, error)
}

// HealthChecker reports whether the chain connection is usable.
type HealthChecker interface {
	// IsHealthy returns true if the last connection check succeeded.
	IsHealthy(ctx context.Context) bool
}

// ChainProvider combines all chain-specific functionality consumed by the bridge.
type ChainProvider interface {
	GasEstimator
	TransactionSender
	HealthChecker
}

// ChainRegistry manages multiple chains.
type ChainRegistry interface {
	// Add creates a provider from the configuration and adds it to the registry.
	//
	// Parameters:
	// - ctx: the context for managing the provider lifecycle.
	// - config: the configuration for the chain to add.
	//
	// Returns:
	// - error: an error if adding the chain fails.
	Add(ctx context.Context, config *ChainConfig) error

	// Register adds an already constructed provider under the given chain id.
	Register(chainID ChainID, provider ChainProvider) error

	// Get retrieves a chain from the registry by its chain ID, or nil.
	Get(chainID ChainID) ChainProvider

	// Remove removes a chain from the registry by its chain ID.
	Remove(chainID ChainID)

	// Chains returns the ids of all registered chains in ascending order.
	Chains() []ChainID
}
