package chainmanager

import (
	"context"
	"sort"
	"sync"

	"github.com/ClipFinance/rwa-bridge/common/errors"
	"github.com/ClipFinance/rwa-bridge/common/types"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ChainFactory creates providers from configuration.
type ChainFactory interface {
	CreateChain(context.Context, *types.ChainConfig, *logrus.Logger) (types.ChainProvider, error)
}

type closer interface {
	Close()
}

type blockchainRegistry struct {
	logger       *logrus.Logger
	chains       map[types.ChainID]types.ChainProvider
	chainsMutex  sync.RWMutex
	factory      ChainFactory
	factoryMutex sync.RWMutex
}

// NewChainRegistry creates a registry that builds providers with the given factory.
// The factory may be nil when providers are only registered directly.
func NewChainRegistry(factory ChainFactory, logger *logrus.Logger) types.ChainRegistry {
	return &blockchainRegistry{
		chains:  make(map[types.ChainID]types.ChainProvider),
		factory: factory,
		logger:  logger,
	}
}

func (r *blockchainRegistry) Add(ctx context.Context, config *types.ChainConfig) error {
	if config == nil || config.ChainID == "" {
		return errors.ErrInvalidConfig
	}

	// Lock factory for reading to prevent changes during chain creation.
	r.factoryMutex.RLock()
	factory := r.factory
	r.factoryMutex.RUnlock()

	if factory == nil {
		return errors.ErrFactoryNotProvided
	}

	chain, err := factory.CreateChain(ctx, config, r.logger)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to create chain %s", config.ChainID)
	}

	if err := r.Register(config.ChainID, chain); err != nil {
		if c, ok := chain.(closer); ok {
			c.Close()
		}
		return err
	}

	r.logger.WithFields(logrus.Fields{
		"chain": config.ChainID,
		"type":  config.ChainType,
	}).Info("Chain added to registry")

	return nil
}

func (r *blockchainRegistry) Register(chainID types.ChainID, provider types.ChainProvider) error {
	if chainID == "" {
		return errors.ErrInvalidChainID
	}
	if provider == nil {
		return errors.ErrInvalidConfig
	}

	r.chainsMutex.Lock()
	defer r.chainsMutex.Unlock()

	if _, exists := r.chains[chainID]; exists {
		return errors.ErrChainExists
	}
	r.chains[chainID] = provider

	return nil
}

func (r *blockchainRegistry) Get(chainID types.ChainID) types.ChainProvider {
	r.chainsMutex.RLock()
	chain := r.chains[chainID]
	r.chainsMutex.RUnlock()
	return chain
}

func (r *blockchainRegistry) Remove(chainID types.ChainID) {
	r.chainsMutex.Lock()
	chain, ok := r.chains[chainID]
	delete(r.chains, chainID)
	r.chainsMutex.Unlock()

	if !ok {
		return
	}
	if c, ok := chain.(closer); ok {
		c.Close()
	}
	r.logger.WithField("chain", chainID).Info("Chain removed from registry")
}

func (r *blockchainRegistry) Chains() []types.ChainID {
	r.chainsMutex.RLock()
	ids := make([]types.ChainID, 0, len(r.chains))
	for id := range r.chains {
		ids = append(ids, id)
	}
	r.chainsMutex.RUnlock()

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
