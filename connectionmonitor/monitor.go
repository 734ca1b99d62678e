package connectionmonitor

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	// defaultCheckInterval defines interval between connection health checks
	defaultCheckInterval = 30 * time.Second
	// reconnectTimeout defines the pause between reconnection attempts
	reconnectTimeout = 5 * time.Second
	// maxReconnectAttempts defines maximum number of reconnection attempts
	maxReconnectAttempts = 3
)

// ConnectionMonitor tracks whether a chain connection is usable.
type ConnectionMonitor interface {
	// Start runs an initial check and starts periodic monitoring
	Start(ctx context.Context) error
	// Stop stops connection monitoring
	Stop()
	// Healthy reports the result of the most recent check
	Healthy() bool
}

// BlockchainClient represents blockchain client interface
type BlockchainClient interface {
	// CheckConnection checks if connection is alive
	CheckConnection(ctx context.Context) error
	// Reconnect attempts to reconnect to blockchain node
	Reconnect(ctx context.Context) error
}

// Option customises a monitor.
type Option func(*connectionMonitor)

// WithCheckInterval overrides the interval between health checks.
func WithCheckInterval(d time.Duration) Option {
	return func(m *connectionMonitor) {
		if d > 0 {
			m.interval = d
		}
	}
}

type connectionMonitor struct {
	client       BlockchainClient
	logger       *logrus.Logger
	chainName    string
	interval     time.Duration
	stopChan     chan struct{}
	isMonitoring bool
	healthy      bool
	monitorMutex sync.RWMutex
}

// NewConnectionMonitor creates a new connection monitor instance.
//
// Parameters:
// - client: the blockchain client to monitor.
// - logger: the logger for logging purposes.
// - chainName: the name of the blockchain chain.
//
// Returns:
// - ConnectionMonitor: the new connection monitor instance.
func NewConnectionMonitor(
	client BlockchainClient,
	logger *logrus.Logger,
	chainName string,
	opts ...Option,
) ConnectionMonitor {
	m := &connectionMonitor{
		client:    client,
		logger:    logger,
		chainName: chainName,
		interval:  defaultCheckInterval,
		stopChan:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start performs a first connection check synchronously so that Healthy is
// meaningful immediately, then monitors in the background.
//
// Parameters:
// - ctx: the context for managing the request.
//
// Returns:
// - error: an error if the connection monitor is already running.
func (m *connectionMonitor) Start(ctx context.Context) error {
	m.monitorMutex.Lock()
	if m.isMonitoring {
		m.monitorMutex.Unlock()
		return errors.Errorf("connection monitor is already running for chain %s", m.chainName)
	}
	m.isMonitoring = true
	m.monitorMutex.Unlock()

	m.setHealthy(m.client.CheckConnection(ctx) == nil)

	go m.monitorConnection(ctx)
	return nil
}

// Stop stops connection monitoring.
func (m *connectionMonitor) Stop() {
	m.monitorMutex.Lock()
	defer m.monitorMutex.Unlock()

	if !m.isMonitoring {
		return
	}

	close(m.stopChan)
	m.isMonitoring = false
}

// Healthy reports whether the last check or reconnect succeeded.
func (m *connectionMonitor) Healthy() bool {
	m.monitorMutex.RLock()
	defer m.monitorMutex.RUnlock()
	return m.healthy
}

func (m *connectionMonitor) setHealthy(healthy bool) {
	m.monitorMutex.Lock()
	changed := m.healthy != healthy
	m.healthy = healthy
	m.monitorMutex.Unlock()

	if changed {
		m.logger.WithFields(logrus.Fields{
			"chain":   m.chainName,
			"healthy": healthy,
		}).Info("Chain connection state changed")
	}
}

// monitorConnection monitors the connection state and attempts to reconnect if needed.
func (m *connectionMonitor) monitorConnection(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.logger.WithField("chain", m.chainName).Info("Connection monitoring stopped due to context cancellation")
			return

		case <-m.stopChan:
			m.logger.WithField("chain", m.chainName).Info("Connection monitoring stopped")
			return

		case <-ticker.C:
			err := m.checkAndReconnect(ctx)
			m.setHealthy(err == nil)
			if err != nil {
				m.logger.WithFields(logrus.Fields{
					"chain": m.chainName,
					"error": err,
				}).Error("Failed to check or reconnect")
			}
		}
	}
}

// checkAndReconnect checks the connection state and attempts to reconnect if needed.
//
// Returns:
// - error: an error if the reconnection fails.
func (m *connectionMonitor) checkAndReconnect(ctx context.Context) error {
	err := m.client.CheckConnection(ctx)
	if err == nil {
		m.logger.WithField("chain", m.chainName).Debug("Ping successful")
		return nil
	}

	m.logger.WithFields(logrus.Fields{
		"chain": m.chainName,
		"error": err,
	}).Warn("Connection check failed, attempting to reconnect")

	for attempt := 1; attempt <= maxReconnectAttempts; attempt++ {
		if err := m.client.Reconnect(ctx); err != nil {
			m.logger.WithFields(logrus.Fields{
				"chain":   m.chainName,
				"attempt": attempt,
				"error":   err,
			}).Error("Reconnection attempt failed")

			if attempt == maxReconnectAttempts {
				return errors.Wrapf(err, "failed to reconnect to chain %s", m.chainName)
			}

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(reconnectTimeout):
				continue
			}
		}

		m.logger.WithFields(logrus.Fields{
			"chain":   m.chainName,
			"attempt": attempt,
		}).Info("Client successfully reconnected")
		return nil
	}

	return nil
}
