package bridge

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ClipFinance/rwa-bridge/common/errors"
	"github.com/ClipFinance/rwa-bridge/common/types"
	"github.com/google/uuid"
)

// entry guards a single transfer. Every status change goes through its mutex.
// Terminal events raised before the initiated event is delivered wait in held.
type entry struct {
	mu        sync.Mutex
	transfer  types.Transfer
	announced bool
	held      []types.Event
}

// Outcome carries the fields a terminal status writes. Transition only applies
// the ones belonging to the target status: the mint hash and completion time for
// completed, the error for failed, nothing for cancelled.
type Outcome struct {
	MintTransactionHash string
	CompletedAt         time.Time
	Error               string
}

// TransferRegistry owns the transfer records. Records are never removed.
type TransferRegistry struct {
	mu      sync.RWMutex
	entries map[string]*entry
	routes  *RouteTable
	now     func() time.Time
}

// NewTransferRegistry creates an empty registry resolving estimated times from routes.
func NewTransferRegistry(routes *RouteTable, now func() time.Time) *TransferRegistry {
	if now == nil {
		now = time.Now
	}
	return &TransferRegistry{
		entries: make(map[string]*entry),
		routes:  routes,
		now:     now,
	}
}

// Create stores a new pending transfer for a lock transaction.
//
// Parameters:
// - asset: the asset being moved, its chain is the source chain.
// - target: the target chain.
// - recipient: the account on the target chain, empty means the asset owner.
// - lockTxHash: the hash of the submitted lock transaction.
//
// Returns:
// - types.Transfer: a copy of the stored record.
// - error: a validation error if source and target are the same chain.
func (r *TransferRegistry) Create(asset types.Asset, target types.ChainID, recipient, lockTxHash string) (types.Transfer, error) {
	if asset.ChainID == target {
		return types.Transfer{}, errors.NewValidationError("source and target chains cannot be the same: %s", target)
	}
	if recipient == "" {
		recipient = asset.Owner
	}

	now := r.now().UTC()
	transfer := types.Transfer{
		ID:                  uuid.NewString(),
		AssetID:             asset.ID,
		AssetValue:          asset.Value,
		SourceChainID:       asset.ChainID,
		TargetChainID:       target,
		Sender:              asset.Owner,
		Recipient:           recipient,
		Status:              types.StatusPending,
		LockTransactionHash: lockTxHash,
		EstimatedTime:       r.routes.EstimatedTime(asset.ChainID, target),
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	r.insert(transfer, false)
	return transfer, nil
}

// insert stores a fully formed record. Records inserted as announced never hold
// back their terminal events.
func (r *TransferRegistry) insert(transfer types.Transfer, announced bool) {
	r.mu.Lock()
	r.entries[transfer.ID] = &entry{transfer: transfer, announced: announced}
	r.mu.Unlock()
}

// announce marks the initiated event of a transfer as delivered and returns the
// terminal events held back until then, in the order they were raised.
func (r *TransferRegistry) announce(id string) []types.Event {
	e, ok := r.lookup(id)
	if !ok {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.announced = true
	held := e.held
	e.held = nil
	return held
}

// hold keeps a terminal event back while its transfer has not been announced.
// It returns false when the caller should deliver the event itself.
func (r *TransferRegistry) hold(event types.Event) bool {
	e, ok := r.lookup(event.Transfer.ID)
	if !ok {
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.announced {
		return false
	}
	e.held = append(e.held, event)
	return true
}

func (r *TransferRegistry) lookup(id string) (*entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	return e, ok
}

// Get returns a copy of the transfer.
func (r *TransferRegistry) Get(id string) (types.Transfer, bool) {
	e, ok := r.lookup(id)
	if !ok {
		return types.Transfer{}, false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.transfer, true
}

// All returns copies of every record in no particular order.
func (r *TransferRegistry) All() []types.Transfer {
	r.mu.RLock()
	entries := make([]*entry, 0, len(r.entries))
	for _, e := range r.entries {
		entries = append(entries, e)
	}
	r.mu.RUnlock()

	transfers := make([]types.Transfer, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		transfers = append(transfers, e.transfer)
		e.mu.Unlock()
	}
	return transfers
}

// List returns the transfers sent or received by user, newest first.
// An empty user returns every transfer. Addresses match case-insensitively.
func (r *TransferRegistry) List(user string) []types.Transfer {
	all := r.All()

	transfers := all[:0]
	for _, t := range all {
		if user == "" || strings.EqualFold(t.Sender, user) || strings.EqualFold(t.Recipient, user) {
			transfers = append(transfers, t)
		}
	}

	sort.Slice(transfers, func(i, j int) bool {
		if transfers[i].CreatedAt.Equal(transfers[j].CreatedAt) {
			return transfers[i].ID < transfers[j].ID
		}
		return transfers[i].CreatedAt.After(transfers[j].CreatedAt)
	})
	return transfers
}

// Transition moves a pending transfer to a terminal status. It is a check-and-set:
// the change only happens while the stored status is still pending, so the first
// caller wins and every later caller gets false.
//
// Parameters:
// - id: the transfer id.
// - status: the terminal status to move to.
// - outcome: the status-specific fields, see Outcome.
//
// Returns:
// - types.Transfer: the record after the change, or as found when nothing changed.
// - bool: true if this call performed the transition.
func (r *TransferRegistry) Transition(id string, status types.TransferStatus, outcome Outcome) (types.Transfer, bool) {
	e, ok := r.lookup(id)
	if !ok {
		return types.Transfer{}, false
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.transfer.Status != types.StatusPending || !status.IsTerminal() {
		return e.transfer, false
	}

	now := r.now().UTC()
	updated := e.transfer
	updated.Status = status
	updated.UpdatedAt = now

	switch status {
	case types.StatusCompleted:
		completedAt := outcome.CompletedAt.UTC()
		if outcome.CompletedAt.IsZero() {
			completedAt = now
		}
		updated.MintTransactionHash = outcome.MintTransactionHash
		updated.CompletedAt = &completedAt
	case types.StatusFailed:
		updated.Error = outcome.Error
	}

	e.transfer = updated
	return updated, true
}
