package solana

import (
	"context"
	"sync"

	"github.com/ClipFinance/rwa-bridge/chainmanager"
	"github.com/ClipFinance/rwa-bridge/common/types"
	"github.com/ClipFinance/rwa-bridge/connectionmonitor"
	sol "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// solana represents the base Solana chain implementation
type solana struct {
	config *types.ChainConfig
	logger *logrus.Logger

	// Protected fields with their own mutexes
	clientMutex sync.RWMutex
	client      *rpc.Client

	signerMutex sync.RWMutex
	signer      *sol.PrivateKey

	monitorMutex sync.RWMutex
	monitor      connectionmonitor.ConnectionMonitor
}

// NewSolanaChain creates a new Solana chain implementation.
// Chains configured without a private key can estimate but not send.
//
// Parameters:
// - ctx: the context for managing the connection monitor.
// - config: the chain configuration.
// - logger: the logger for logging events.
//
// Returns:
// - types.ChainProvider: a new Solana chain instance.
// - error: an error if any issue occurs during creation.
func NewSolanaChain(ctx context.Context, config *types.ChainConfig, logger *logrus.Logger) (types.ChainProvider, error) {
	chain := &solana{
		config: config,
		logger: logger,
		client: rpc.New(config.RpcUrl),
	}

	if err := chain.initMonitor(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to init connection monitor")
	}

	builder := chainmanager.NewChainBuilder(config)
	builder.WithGasEstimator(chain)
	builder.WithHealthChecker(chain)
	builder.WithCloser(chain.Close)

	if config.PrivateKey != "" {
		key, err := sol.PrivateKeyFromBase58(config.PrivateKey)
		if err != nil {
			chain.Close()
			return nil, errors.Wrap(err, "failed to parse private key")
		}

		chain.signerMutex.Lock()
		chain.signer = &key
		chain.signerMutex.Unlock()

		builder.WithTransactionSender(chain)
	}

	return builder.Build(), nil
}

// IsHealthy reports the state tracked by the connection monitor.
func (s *solana) IsHealthy(_ context.Context) bool {
	s.monitorMutex.RLock()
	defer s.monitorMutex.RUnlock()
	return s.monitor != nil && s.monitor.Healthy()
}

// payer returns the fee payer public key. Read-only chains use the program id,
// which is enough for fee calculation.
func (s *solana) payer(programID sol.PublicKey) sol.PublicKey {
	s.signerMutex.RLock()
	defer s.signerMutex.RUnlock()

	if s.signer == nil {
		return programID
	}
	return s.signer.PublicKey()
}

// Close should be called when chain is no longer needed
func (s *solana) Close() {
	s.monitorMutex.Lock()
	if s.monitor != nil {
		s.monitor.Stop()
	}
	s.monitorMutex.Unlock()

	s.clientMutex.Lock()
	if s.client != nil {
		_ = s.client.Close()
		s.client = nil
	}
	s.clientMutex.Unlock()
}
