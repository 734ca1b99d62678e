package solana

import (
	"context"

	"github.com/ClipFinance/rwa-bridge/connectionmonitor"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/pkg/errors"
)

// nodeHealthy is the getHealth response of a node that is in sync.
const nodeHealthy = "ok"

// solanaConnectionManager implements connectionmonitor.BlockchainClient interface
type solanaConnectionManager struct {
	chain *solana
}

// CheckConnection asks the node for its health status.
func (m *solanaConnectionManager) CheckConnection(ctx context.Context) error {
	m.chain.clientMutex.RLock()
	client := m.chain.client
	m.chain.clientMutex.RUnlock()

	if client == nil {
		return errors.New("client not initialized")
	}

	status, err := client.GetHealth(ctx)
	if err != nil {
		return err
	}
	if status != nodeHealthy {
		return errors.Errorf("node is unhealthy: %s", status)
	}
	return nil
}

// Reconnect replaces the RPC client with a fresh one.
func (m *solanaConnectionManager) Reconnect(_ context.Context) error {
	client := rpc.New(m.chain.config.RpcUrl)

	m.chain.clientMutex.Lock()
	old := m.chain.client
	m.chain.client = client
	m.chain.clientMutex.Unlock()

	if old != nil {
		_ = old.Close()
	}
	return nil
}

func (s *solana) initMonitor(ctx context.Context) error {
	s.monitorMutex.Lock()
	defer s.monitorMutex.Unlock()

	connectionManager := &solanaConnectionManager{chain: s}
	s.monitor = connectionmonitor.NewConnectionMonitor(connectionManager, s.logger, s.config.Name)
	return s.monitor.Start(ctx)
}
