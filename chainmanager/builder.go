package chainmanager

import (
	"github.com/ClipFinance/rwa-bridge/common/types"
	"golang.org/x/time/rate"
)

// ChainBuilder is a builder pattern implementation for chain configuration.
// It allows setting various components of the chain such as gas estimator,
// transaction sender and health checker.
type ChainBuilder struct {
	config    *types.ChainConfig      // Chain configuration.
	estimator types.GasEstimator      // Gas estimator implementation.
	sender    types.TransactionSender // Transaction sender implementation.
	health    types.HealthChecker     // Health checker implementation.
	closer    func()                  // Releases connections held by the implementation.
}

// NewChainBuilder creates a new chain builder instance.
//
// Parameters:
// - config: the chain configuration.
//
// Returns:
// - *ChainBuilder: a new ChainBuilder instance.
func NewChainBuilder(config *types.ChainConfig) *ChainBuilder {
	return &ChainBuilder{
		config: config,
	}
}

// WithGasEstimator sets gas estimator implementation.
//
// Parameters:
// - estimator: the gas estimator implementation.
//
// Returns:
// - *ChainBuilder: the updated ChainBuilder instance.
func (b *ChainBuilder) WithGasEstimator(estimator types.GasEstimator) *ChainBuilder {
	b.estimator = estimator
	return b
}

// WithTransactionSender sets transaction sender implementation.
//
// Parameters:
// - sender: the transaction sender implementation.
//
// Returns:
// - *ChainBuilder: the updated ChainBuilder instance.
func (b *ChainBuilder) WithTransactionSender(sender types.TransactionSender) *ChainBuilder {
	b.sender = sender
	return b
}

// WithHealthChecker sets health checker implementation.
//
// Parameters:
// - health: the health checker implementation.
//
// Returns:
// - *ChainBuilder: the updated ChainBuilder instance.
func (b *ChainBuilder) WithHealthChecker(health types.HealthChecker) *ChainBuilder {
	b.health = health
	return b
}

// WithCloser sets the function called when the chain is removed from the registry.
func (b *ChainBuilder) WithCloser(closer func()) *ChainBuilder {
	b.closer = closer
	return b
}

// Build creates a new chain instance with configured implementations.
// A positive RequestsPerSecond in the configuration installs a token-bucket limiter
// in front of the estimator and sender.
//
// Returns:
// - *Chain: a new Chain instance with the configured implementations.
func (b *ChainBuilder) Build() *Chain {
	chain := NewChain(b.config, b.estimator, b.sender, b.health)
	chain.closer = b.closer
	if b.config != nil && b.config.RequestsPerSecond > 0 {
		burst := int(b.config.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		chain.limiter = rate.NewLimiter(rate.Limit(b.config.RequestsPerSecond), burst)
	}
	return chain
}
