package chainmanager

import (
	"context"
	"sync"

	"github.com/ClipFinance/rwa-bridge/common/errors"
	"github.com/ClipFinance/rwa-bridge/common/types"
	pkgerrors "github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

// ErrNotImplemented is returned when a chain lacks the requested capability.
var ErrNotImplemented = errors.ErrNotImplemented

// Chain implements types.ChainProvider with thread-safe access to dependencies.
// Each dependency is protected by a read-write mutex to ensure thread-safe access.
type Chain struct {
	config    *types.ChainConfig      // Chain configuration.
	estimator types.GasEstimator      // Gas estimator implementation.
	sender    types.TransactionSender // Transaction sender implementation.
	health    types.HealthChecker     // Health checker implementation.
	limiter   *rate.Limiter           // Optional RPC request limiter.
	closer    func()
	closeOnce sync.Once

	// Mutexes for thread-safe access to dependencies.
	estimatorMutex sync.RWMutex // Mutex for gas estimator.
	senderMutex    sync.RWMutex // Mutex for transaction sender.
	healthMutex    sync.RWMutex // Mutex for health checker.
}

// NewChain creates a new Chain instance.
//
// Parameters:
// - config: the chain configuration.
// - estimator: the gas estimator implementation.
// - sender: the transaction sender implementation.
// - health: the health checker implementation.
//
// Returns:
// - *Chain: a new Chain instance.
func NewChain(
	config *types.ChainConfig,
	estimator types.GasEstimator,
	sender types.TransactionSender,
	health types.HealthChecker,
) *Chain {
	return &Chain{
		config:    config,
		estimator: estimator,
		sender:    sender,
		health:    health,
	}
}

// EstimateGas estimates transaction cost with thread-safe access.
// If the estimator is not implemented, it returns an error.
//
// Parameters:
// - ctx: context for managing the lifecycle of the gas estimation.
// - req: the transaction request to estimate.
//
// Returns:
// - decimal.Decimal: the estimated cost in native units.
// - error: an error if the estimator is not implemented or if any issue occurs during estimation.
func (c *Chain) EstimateGas(ctx context.Context, req *types.TransactionRequest) (decimal.Decimal, error) {
	estimator := c.GetEstimator()
	if estimator == nil {
		return decimal.Zero, ErrNotImplemented
	}
	if err := c.wait(ctx); err != nil {
		return decimal.Zero, err
	}
	return estimator.EstimateGas(ctx, req)
}

// SendTransaction sends a transaction with thread-safe access.
// If the sender is not implemented, it returns an error.
//
// Parameters:
// - ctx: context for managing the lifecycle of the submission.
// - req: the transaction request.
//
// Returns:
// - *types.Transaction: the transaction instance.
// - error: an error if the sender is not implemented or if any issue occurs during sending.
func (c *Chain) SendTransaction(ctx context.Context, req *types.TransactionRequest) (*types.Transaction, error) {
	sender := c.GetSender()
	if sender == nil {
		return nil, ErrNotImplemented
	}
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	return sender.SendTransaction(ctx, req)
}

// IsHealthy reports the health of the underlying connection. Chains without a
// health checker are considered healthy.
func (c *Chain) IsHealthy(ctx context.Context) bool {
	c.healthMutex.RLock()
	health := c.health
	c.healthMutex.RUnlock()

	if health == nil {
		return true
	}
	return health.IsHealthy(ctx)
}

// GetConfig returns chain configuration.
//
// Returns:
// - *types.ChainConfig: the chain configuration instance.
func (c *Chain) GetConfig() *types.ChainConfig {
	return c.config
}

// Close releases the resources of the underlying implementation. It is safe to call more than once.
func (c *Chain) Close() {
	c.closeOnce.Do(func() {
		if c.closer != nil {
			c.closer()
		}
	})
}

func (c *Chain) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return pkgerrors.Wrap(err, "rate limit wait")
	}
	return nil
}

// Helper methods with thread-safe access to dependencies

// GetEstimator returns the gas estimator with thread-safe access.
func (c *Chain) GetEstimator() types.GasEstimator {
	c.estimatorMutex.RLock()
	defer c.estimatorMutex.RUnlock()
	return c.estimator
}

// GetSender returns the transaction sender with thread-safe access.
func (c *Chain) GetSender() types.TransactionSender {
	c.senderMutex.RLock()
	defer c.senderMutex.RUnlock()
	return c.sender
}
