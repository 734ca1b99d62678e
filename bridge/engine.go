package bridge

import (
	"context"
	"sync"
	"time"

	"github.com/ClipFinance/rwa-bridge/common/errors"
	"github.com/ClipFinance/rwa-bridge/common/types"
	"github.com/sirupsen/logrus"
)

// DefaultBridgeContracts are the bridge contract addresses used when no override is configured.
var DefaultBridgeContracts = map[types.ChainID]string{
	types.OneChain: "0x1111111111111111111111111111111111111111",
	types.Ethereum: "0x2222222222222222222222222222222222222222",
	types.Polygon:  "0x3333333333333333333333333333333333333333",
	types.BSC:      "0x4444444444444444444444444444444444444444",
}

// Bridge moves assets between chains with a lock on the source chain followed
// by a deferred mint on the target chain.
type Bridge struct {
	chains    types.ChainRegistry
	routes    *RouteTable
	transfers *TransferRegistry
	scheduler Scheduler
	events    *Emitter
	logger    *logrus.Logger
	now       func() time.Time

	defaultCodec PayloadCodec
	codecs       map[types.ChainID]PayloadCodec
	contracts    map[types.ChainID]string

	// ctx bounds deferred provider calls and is cancelled by Close.
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithPayloadCodec sets the codec used for calls on the given chain.
func WithPayloadCodec(chainID types.ChainID, codec PayloadCodec) Option {
	return func(b *Bridge) {
		b.codecs[chainID] = codec
	}
}

// WithDefaultPayloadCodec sets the codec used for chains without a specific codec.
func WithDefaultPayloadCodec(codec PayloadCodec) Option {
	return func(b *Bridge) {
		b.defaultCodec = codec
	}
}

// WithBridgeContract sets the bridge contract (or program) address on the given chain.
func WithBridgeContract(chainID types.ChainID, address string) Option {
	return func(b *Bridge) {
		b.contracts[chainID] = address
	}
}

// WithScheduler replaces the timer based scheduler.
func WithScheduler(scheduler Scheduler) Option {
	return func(b *Bridge) {
		b.scheduler = scheduler
	}
}

// WithRouteTable replaces the default route table.
func WithRouteTable(routes *RouteTable) Option {
	return func(b *Bridge) {
		b.routes = routes
	}
}

// WithClock replaces time.Now for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(b *Bridge) {
		b.now = now
	}
}

// New creates a bridge engine over the given chain registry.
//
// Parameters:
// - chains: the registry resolving chain ids to providers.
// - logger: the logger for logging events.
// - opts: optional overrides.
//
// Returns:
// - *Bridge: the engine, release it with Close.
func New(chains types.ChainRegistry, logger *logrus.Logger, opts ...Option) *Bridge {
	ctx, cancel := context.WithCancel(context.Background())

	b := &Bridge{
		chains:       chains,
		routes:       DefaultRouteTable(),
		logger:       logger,
		now:          time.Now,
		defaultCodec: WordCodec{},
		codecs:       make(map[types.ChainID]PayloadCodec),
		contracts:    make(map[types.ChainID]string, len(DefaultBridgeContracts)),
		ctx:          ctx,
		cancel:       cancel,
	}
	for chainID, address := range DefaultBridgeContracts {
		b.contracts[chainID] = address
	}

	for _, opt := range opts {
		opt(b)
	}

	if b.scheduler == nil {
		b.scheduler = NewTimerScheduler()
	}
	b.events = NewEmitter(logger)
	b.transfers = NewTransferRegistry(b.routes, b.now)

	return b
}

// Subscribe registers a listener for transfer events.
func (b *Bridge) Subscribe(listener Listener) (unsubscribe func()) {
	return b.events.Subscribe(listener)
}

// BridgeAsset locks the asset on its chain and returns the pending transfer.
// The mint is attempted once the route's estimated time has elapsed.
//
// Parameters:
// - ctx: the context for the lock transaction.
// - asset: the asset to move, its chain is the source chain.
// - targetChainID: the chain to mint on.
// - recipient: the account on the target chain, empty means the asset owner.
//
// Returns:
// - types.Transfer: the pending transfer.
// - error: a validation, chain or transaction error. No record exists when an error is returned.
func (b *Bridge) BridgeAsset(ctx context.Context, asset types.Asset, targetChainID types.ChainID, recipient string) (types.Transfer, error) {
	if asset.ChainID == targetChainID {
		return types.Transfer{}, errors.NewValidationError("source and target chains cannot be the same: %s", targetChainID)
	}

	source, err := b.healthyProvider(ctx, asset.ChainID)
	if err != nil {
		return types.Transfer{}, err
	}
	if _, err := b.healthyProvider(ctx, targetChainID); err != nil {
		return types.Transfer{}, err
	}

	if recipient == "" {
		recipient = asset.Owner
	}

	contract, err := b.bridgeContract(asset.ChainID)
	if err != nil {
		return types.Transfer{}, err
	}

	data, err := b.codec(asset.ChainID).EncodeLock(asset.TokenID, targetChainID, recipient)
	if err != nil {
		return types.Transfer{}, errors.NewValidationError("cannot encode lock for asset %s: %v", asset.ID, err)
	}

	lockTx, err := source.SendTransaction(ctx, &types.TransactionRequest{To: contract, Data: data})
	if err != nil {
		return types.Transfer{}, errors.NewTransactionError(asset.ChainID, err, "lock of asset %s failed", asset.ID)
	}

	transfer, err := b.transfers.Create(asset, targetChainID, recipient, lockTx.Hash)
	if err != nil {
		return types.Transfer{}, err
	}

	id := transfer.ID
	b.scheduler.Schedule(id, time.Duration(transfer.EstimatedTime)*time.Second, func() {
		b.mint(id)
	})

	b.logger.WithFields(logrus.Fields{
		"transferID": transfer.ID,
		"route":      transfer.Route(),
		"txHash":     lockTx.Hash,
	}).Info("Bridge transfer initiated")

	b.emit(types.EventBridgeInitiated, transfer, lockTx, nil)
	for _, held := range b.transfers.announce(transfer.ID) {
		b.events.Emit(held)
	}

	return transfer, nil
}

// GetBridgeTransfer returns the transfer with the given id.
func (b *Bridge) GetBridgeTransfer(id string) (types.Transfer, bool) {
	return b.transfers.Get(id)
}

// GetBridgeTransfers returns the transfers where userAddress is sender or recipient,
// newest first. An empty address returns every transfer.
func (b *Bridge) GetBridgeTransfers(userAddress string) []types.Transfer {
	return b.transfers.List(userAddress)
}

// GetSupportedRoutes lists every ordered pair of registered chains.
func (b *Bridge) GetSupportedRoutes() []types.Route {
	return b.routes.Routes(b.chains.Chains())
}

// Close stops pending mint attempts and cancels in-flight provider calls.
func (b *Bridge) Close() {
	b.closeOnce.Do(func() {
		b.scheduler.Stop()
		b.cancel()
	})
}

func (b *Bridge) provider(chainID types.ChainID) (types.ChainProvider, error) {
	provider := b.chains.Get(chainID)
	if provider == nil {
		return nil, errors.NewChainError(chainID, "no provider registered for chain %s", chainID)
	}
	return provider, nil
}

func (b *Bridge) healthyProvider(ctx context.Context, chainID types.ChainID) (types.ChainProvider, error) {
	provider, err := b.provider(chainID)
	if err != nil {
		return nil, err
	}
	if !provider.IsHealthy(ctx) {
		return nil, errors.NewChainError(chainID, "provider for chain %s is unhealthy", chainID)
	}
	return provider, nil
}

func (b *Bridge) bridgeContract(chainID types.ChainID) (string, error) {
	contract, ok := b.contracts[chainID]
	if !ok || contract == "" {
		return "", errors.NewChainError(chainID, "no bridge contract configured for chain %s", chainID)
	}
	return contract, nil
}

func (b *Bridge) codec(chainID types.ChainID) PayloadCodec {
	if codec, ok := b.codecs[chainID]; ok {
		return codec
	}
	return b.defaultCodec
}

func (b *Bridge) emit(eventType types.EventType, transfer types.Transfer, tx *types.Transaction, err error) {
	b.events.Emit(b.event(eventType, transfer, tx, err))
}

// emitTerminal delivers a completed, failed or cancelled event. If the transfer's
// initiated event is still being delivered, the event is queued and BridgeAsset
// delivers it right after.
func (b *Bridge) emitTerminal(eventType types.EventType, transfer types.Transfer, tx *types.Transaction, err error) {
	event := b.event(eventType, transfer, tx, err)
	if b.transfers.hold(event) {
		b.logger.WithFields(logrus.Fields{
			"transferID": transfer.ID,
			"event":      eventType,
		}).Debug("Holding event until transfer is announced")
		return
	}
	b.events.Emit(event)
}

func (b *Bridge) event(eventType types.EventType, transfer types.Transfer, tx *types.Transaction, err error) types.Event {
	return types.Event{
		Type:        eventType,
		Transfer:    transfer,
		Transaction: tx,
		Err:         err,
		At:          b.now().UTC(),
	}
}
