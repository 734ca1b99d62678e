package evm

import (
	"context"

	"github.com/ClipFinance/rwa-bridge/connectionmonitor"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"
)

// evmConnectionManager implements the BlockchainClient interface and manages the connection to the EVM chain.
type evmConnectionManager struct {
	chain *evm // Reference to the EVM chain instance.
}

// initMonitor initializes the connection monitor for the EVM chain.
func (e *evm) initMonitor(ctx context.Context) error {
	e.monitorMutex.Lock()
	defer e.monitorMutex.Unlock()

	connectionManager := &evmConnectionManager{chain: e}
	e.monitor = connectionmonitor.NewConnectionMonitor(connectionManager, e.logger, e.config.Name)
	return e.monitor.Start(ctx)
}

// CheckConnection checks the connection to the Ethereum client by retrieving the current block number.
func (w *evmConnectionManager) CheckConnection(ctx context.Context) error {
	w.chain.clientMutex.RLock()
	client := w.chain.client
	w.chain.clientMutex.RUnlock()

	if client == nil {
		return errors.New("client not initialized")
	}

	_, err := client.BlockNumber(ctx)
	return err
}

// Reconnect re-establishes the connection to the Ethereum client.
func (w *evmConnectionManager) Reconnect(ctx context.Context) error {
	client, err := ethclient.DialContext(ctx, w.chain.config.RpcUrl)
	if err != nil {
		return err
	}

	w.chain.clientMutex.Lock()
	old := w.chain.client
	w.chain.client = client
	w.chain.clientMutex.Unlock()

	if old != nil {
		old.Close()
	}
	return nil
}
