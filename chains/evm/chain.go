package evm

import (
	"context"
	"sync"

	"github.com/ClipFinance/rwa-bridge/chainmanager"
	"github.com/ClipFinance/rwa-bridge/chains/evm/signer"
	"github.com/ClipFinance/rwa-bridge/common/types"
	"github.com/ClipFinance/rwa-bridge/connectionmonitor"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	// TxTypeLegacy represents the legacy transaction type.
	TxTypeLegacy = 0
	// TxTypeEIP1559 represents the EIP-1559 transaction type.
	TxTypeEIP1559 = 2
)

// evm represents the base EVM chain implementation.
type evm struct {
	config *types.ChainConfig // Chain configuration.
	logger *logrus.Logger     // Logger for logging events.

	// Protected fields with their own mutexes.
	clientMutex sync.RWMutex      // Mutex for client.
	client      *ethclient.Client // Ethereum client.

	signerMutex sync.RWMutex  // Mutex for signer.
	signer      signer.Signer // Signer for signing transactions.

	nonceMutex sync.Mutex // Serializes nonce read, signing and sending for the signer.

	monitorMutex sync.RWMutex                        // Mutex for connection monitor.
	monitor      connectionmonitor.ConnectionMonitor // Connection monitor.
}

// NewEvmChain creates a new EVM chain implementation.
// Chains configured without a private key can estimate but not send.
//
// Parameters:
// - ctx: the context for managing the connection monitor.
// - config: the chain configuration.
// - logger: the logger for logging events.
//
// Returns:
// - types.ChainProvider: a new EVM chain instance.
// - error: an error if any issue occurs during creation.
func NewEvmChain(ctx context.Context, config *types.ChainConfig, logger *logrus.Logger) (types.ChainProvider, error) {
	client, err := ethclient.DialContext(ctx, config.RpcUrl)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create client")
	}

	chain := &evm{
		config: config,
		logger: logger,
		client: client,
	}

	if err := chain.initMonitor(ctx); err != nil {
		client.Close()
		return nil, errors.Wrap(err, "failed to init connection monitor")
	}

	builder := chainmanager.NewChainBuilder(config)
	builder.WithGasEstimator(chain)
	builder.WithHealthChecker(chain)
	builder.WithCloser(chain.Close)

	if config.PrivateKey != "" {
		privKey, err := crypto.HexToECDSA(config.PrivateKey)
		if err != nil {
			chain.Close()
			return nil, errors.Wrap(err, "failed to parse private key")
		}

		s, err := signer.NewSigner(privKey)
		if err != nil {
			chain.Close()
			return nil, errors.Wrap(err, "failed to create signer")
		}

		chain.signerMutex.Lock()
		chain.signer = s
		chain.signerMutex.Unlock()

		builder.WithTransactionSender(chain)
	}

	return builder.Build(), nil
}

// IsHealthy reports the state tracked by the connection monitor.
func (e *evm) IsHealthy(_ context.Context) bool {
	e.monitorMutex.RLock()
	defer e.monitorMutex.RUnlock()
	return e.monitor != nil && e.monitor.Healthy()
}

// Close should be called when the chain is no longer needed.
// It stops the connection monitor and closes the client.
func (e *evm) Close() {
	e.monitorMutex.Lock()
	if e.monitor != nil {
		e.monitor.Stop()
	}
	e.monitorMutex.Unlock()

	e.clientMutex.Lock()
	if e.client != nil {
		e.client.Close()
		e.client = nil
	}
	e.clientMutex.Unlock()
}
