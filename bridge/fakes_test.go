package bridge

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/ClipFinance/rwa-bridge/chainmanager"
	"github.com/ClipFinance/rwa-bridge/common/types"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// fakeProvider records every call and returns scripted results.
type fakeProvider struct {
	chainID types.ChainID

	mu          sync.Mutex
	healthy     bool
	sendErr     error
	estimate    decimal.Decimal
	estimateErr error
	onSend      func(req *types.TransactionRequest)
	sent        []types.TransactionRequest
	estimated   []types.TransactionRequest
}

func newFakeProvider(chainID types.ChainID) *fakeProvider {
	return &fakeProvider{chainID: chainID, healthy: true, estimate: decimal.RequireFromString("0.001")}
}

func (p *fakeProvider) SendTransaction(_ context.Context, req *types.TransactionRequest) (*types.Transaction, error) {
	p.mu.Lock()
	hook := p.onSend
	p.onSend = nil
	p.mu.Unlock()

	if hook != nil {
		hook(req)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.sendErr != nil {
		return nil, p.sendErr
	}
	p.sent = append(p.sent, *req)
	return &types.Transaction{
		Hash:    fmt.Sprintf("0x%s%04d", p.chainID, len(p.sent)),
		ChainID: p.chainID,
		To:      req.To,
		Data:    req.Data,
	}, nil
}

func (p *fakeProvider) EstimateGas(_ context.Context, req *types.TransactionRequest) (decimal.Decimal, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.estimated = append(p.estimated, *req)
	if p.estimateErr != nil {
		return decimal.Zero, p.estimateErr
	}
	return p.estimate, nil
}

func (p *fakeProvider) IsHealthy(context.Context) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.healthy
}

func (p *fakeProvider) setSendErr(err error) {
	p.mu.Lock()
	p.sendErr = err
	p.mu.Unlock()
}

func (p *fakeProvider) setOnSend(hook func(req *types.TransactionRequest)) {
	p.mu.Lock()
	p.onSend = hook
	p.mu.Unlock()
}

func (p *fakeProvider) sentRequests() []types.TransactionRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]types.TransactionRequest(nil), p.sent...)
}

// manualScheduler keeps tasks until the test fires them.
type manualScheduler struct {
	mu      sync.Mutex
	tasks   map[string]func()
	delays  map[string]time.Duration
	stopped bool
}

func newManualScheduler() *manualScheduler {
	return &manualScheduler{tasks: make(map[string]func()), delays: make(map[string]time.Duration)}
}

func (s *manualScheduler) Schedule(key string, delay time.Duration, task func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.tasks[key] = task
	s.delays[key] = delay
}

func (s *manualScheduler) Cancel(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.tasks[key]
	delete(s.tasks, key)
	return ok
}

func (s *manualScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = make(map[string]func())
	s.stopped = true
}

// take removes and returns the task without running it.
func (s *manualScheduler) take(key string) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	task := s.tasks[key]
	delete(s.tasks, key)
	return task
}

// fire runs the task scheduled under key and reports whether there was one.
func (s *manualScheduler) fire(key string) bool {
	task := s.take(key)
	if task == nil {
		return false
	}
	task()
	return true
}

func (s *manualScheduler) scheduled(key string) (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.tasks[key]
	return s.delays[key], ok
}

func (s *manualScheduler) isStopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

// fakeClock is a settable clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// eventRecorder collects emitted events.
type eventRecorder struct {
	mu     sync.Mutex
	events []types.Event
}

func (r *eventRecorder) listen(e types.Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

func (r *eventRecorder) all() []types.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]types.Event(nil), r.events...)
}

func (r *eventRecorder) kinds(transferID string) []types.EventType {
	var out []types.EventType
	for _, e := range r.all() {
		if e.Transfer.ID == transferID {
			out = append(out, e.Type)
		}
	}
	return out
}

// harness wires a bridge to fake providers for the four default chains.
type harness struct {
	bridge    *Bridge
	scheduler *manualScheduler
	clock     *fakeClock
	events    *eventRecorder
	providers map[types.ChainID]*fakeProvider
}

func newHarness(t *testing.T, chains ...types.ChainID) *harness {
	t.Helper()

	if len(chains) == 0 {
		chains = []types.ChainID{types.OneChain, types.Ethereum, types.Polygon, types.BSC}
	}

	logger := quietLogger()
	registry := chainmanager.NewChainRegistry(nil, logger)
	providers := make(map[types.ChainID]*fakeProvider, len(chains))
	for _, chainID := range chains {
		p := newFakeProvider(chainID)
		require.NoError(t, registry.Register(chainID, p))
		providers[chainID] = p
	}

	h := &harness{
		scheduler: newManualScheduler(),
		clock:     newFakeClock(),
		events:    &eventRecorder{},
		providers: providers,
	}
	h.bridge = New(registry, logger, WithScheduler(h.scheduler), WithClock(h.clock.Now))
	h.bridge.Subscribe(h.events.listen)
	t.Cleanup(h.bridge.Close)

	return h
}

func testAsset(chainID types.ChainID) types.Asset {
	return types.Asset{
		ID:      "asset-" + chainID.String(),
		TokenID: 7,
		ChainID: chainID,
		Owner:   "0x00000000000000000000000000000000000000a1",
		Value:   decimal.NewFromInt(2_500_000),
	}
}

var errProvider = errors.New("rpc unavailable")
