package chains

import (
	"context"
	"sync"

	"github.com/ClipFinance/rwa-bridge/chains/evm"
	"github.com/ClipFinance/rwa-bridge/chains/solana"
	commonerrors "github.com/ClipFinance/rwa-bridge/common/errors"
	commontypes "github.com/ClipFinance/rwa-bridge/common/types"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ChainConstructor represents a function that constructs a new chain instance.
//
// Parameters:
// - ctx: the context for managing the chain's background work.
// - config: the configuration for the chain.
// - logger: the logger for logging purposes.
//
// Returns:
// - commontypes.ChainProvider: the constructed chain instance.
// - error: an error if the chain construction fails.
type ChainConstructor func(ctx context.Context, config *commontypes.ChainConfig, logger *logrus.Logger) (commontypes.ChainProvider, error)

// ChainFactory defines the interface for chain creation.
type ChainFactory interface {
	// RegisterConstructor registers a new chain constructor for a given chain type.
	//
	// Parameters:
	// - chainType: the type of the chain to register.
	// - constructor: the constructor function for the chain type.
	RegisterConstructor(chainType commontypes.ChainType, constructor ChainConstructor)

	// CreateChain creates a new chain instance based on the configuration.
	//
	// Parameters:
	// - ctx: the context for managing the chain's background work.
	// - config: the configuration for the chain.
	// - logger: the logger for logging purposes.
	//
	// Returns:
	// - commontypes.ChainProvider: the created chain instance.
	// - error: an error if the chain creation fails.
	CreateChain(ctx context.Context, config *commontypes.ChainConfig, logger *logrus.Logger) (commontypes.ChainProvider, error)
}

type chainFactory struct {
	// constructors stores the mapping of chain types to their constructors.
	constructors map[commontypes.ChainType]ChainConstructor
	// constructorsMutex protects access to the constructors map.
	constructorsMutex sync.RWMutex
}

// NewChainFactory creates a new instance of the chain factory.
//
// Returns:
// - ChainFactory: the new chain factory instance.
func NewChainFactory() ChainFactory {
	factory := &chainFactory{
		constructors: make(map[commontypes.ChainType]ChainConstructor),
	}

	// Initialize with default constructors.
	factory.registerConstructors()

	return factory
}

// RegisterConstructor registers a new chain constructor.
func (f *chainFactory) RegisterConstructor(chainType commontypes.ChainType, constructor ChainConstructor) {
	f.constructorsMutex.Lock()
	defer f.constructorsMutex.Unlock()

	f.constructors[chainType] = constructor
}

// CreateChain creates a new chain instance based on the configuration.
func (f *chainFactory) CreateChain(ctx context.Context, config *commontypes.ChainConfig, logger *logrus.Logger) (commontypes.ChainProvider, error) {
	f.constructorsMutex.RLock()
	constructor, exists := f.constructors[config.ChainType]
	f.constructorsMutex.RUnlock()

	if !exists {
		return nil, errors.Wrapf(commonerrors.ErrInvalidChainType, "chain type %s", config.ChainType)
	}

	return constructor(ctx, config, logger)
}

// registerConstructors registers the blockchain constructors for the chain factory instance.
func (f *chainFactory) registerConstructors() {
	f.RegisterConstructor(commontypes.EVM, evm.NewEvmChain)
	f.RegisterConstructor(commontypes.SOLANA, solana.NewSolanaChain)
}

// CodecFor returns the payload codec matching the chain type.
//
// Parameters:
// - chainType: the type of the chain.
//
// Returns:
// - commontypes.PayloadCodec: the codec for the chain family.
// - error: an error if the chain type has no codec.
func CodecFor(chainType commontypes.ChainType) (commontypes.PayloadCodec, error) {
	switch chainType {
	case commontypes.EVM:
		return evm.NewABICodec()
	case commontypes.SOLANA:
		return solana.BorshCodec{}, nil
	default:
		return nil, errors.Wrapf(commonerrors.ErrInvalidChainType, "chain type %s", chainType)
	}
}
