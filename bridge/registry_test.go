package bridge

import (
	"testing"
	"time"

	commonerrors "github.com/ClipFinance/rwa-bridge/common/errors"
	"github.com/ClipFinance/rwa-bridge/common/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransferRegistryCreate(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	registry := NewTransferRegistry(DefaultRouteTable(), clock.Now)

	transfer, err := registry.Create(testAsset(types.BSC), types.OneChain, "", "0xlock")
	require.NoError(t, err)
	assert.NotEmpty(t, transfer.ID)
	assert.Equal(t, types.StatusPending, transfer.Status)
	assert.Equal(t, int64(240), transfer.EstimatedTime)
	assert.Equal(t, "0xlock", transfer.LockTransactionHash)
	assert.Equal(t, clock.Now(), transfer.CreatedAt)
	assert.Equal(t, transfer.CreatedAt, transfer.UpdatedAt)

	other, err := registry.Create(testAsset(types.BSC), types.OneChain, "", "0xlock2")
	require.NoError(t, err)
	assert.NotEqual(t, transfer.ID, other.ID)

	_, err = registry.Create(testAsset(types.BSC), types.BSC, "", "0xlock3")
	require.ErrorIs(t, err, commonerrors.ErrValidation)
	assert.Len(t, registry.All(), 2)
}

func TestTransferRegistryTransitionOnlyFromPending(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	registry := NewTransferRegistry(DefaultRouteTable(), clock.Now)
	transfer, err := registry.Create(testAsset(types.OneChain), types.Polygon, "", "0xlock")
	require.NoError(t, err)

	_, ok := registry.Transition(transfer.ID, types.StatusPending, Outcome{})
	assert.False(t, ok, "pending is not a valid target")

	clock.Advance(time.Minute)
	cancelled, ok := registry.Transition(transfer.ID, types.StatusCancelled, Outcome{
		MintTransactionHash: "0xmint",
		Error:               "ignored",
	})
	require.True(t, ok)
	assert.Equal(t, transfer.ID, cancelled.ID)
	assert.Equal(t, types.StatusCancelled, cancelled.Status)
	assert.Equal(t, clock.Now(), cancelled.UpdatedAt)
	assert.Equal(t, transfer.CreatedAt, cancelled.CreatedAt)
	assert.Empty(t, cancelled.MintTransactionHash)
	assert.Empty(t, cancelled.Error)
	assert.Nil(t, cancelled.CompletedAt)

	for _, status := range []types.TransferStatus{types.StatusCompleted, types.StatusFailed, types.StatusCancelled, types.StatusPending} {
		current, ok := registry.Transition(transfer.ID, status, Outcome{Error: "late"})
		assert.False(t, ok, "transition to %s", status)
		assert.Equal(t, cancelled, current)
	}

	stored, ok := registry.Get(transfer.ID)
	require.True(t, ok)
	assert.Equal(t, cancelled, stored)

	_, ok = registry.Transition("missing", types.StatusCompleted, Outcome{})
	assert.False(t, ok)
}

func TestTransferRegistryGetReturnsCopy(t *testing.T) {
	t.Parallel()

	registry := NewTransferRegistry(DefaultRouteTable(), nil)
	transfer, err := registry.Create(testAsset(types.OneChain), types.Polygon, "", "0xlock")
	require.NoError(t, err)

	got, _ := registry.Get(transfer.ID)
	got.Status = types.StatusCompleted

	stored, _ := registry.Get(transfer.ID)
	assert.Equal(t, types.StatusPending, stored.Status)

	_, ok := registry.Get("missing")
	assert.False(t, ok)
}

func TestTransferRegistryTransitionWritesOnlyStatusFields(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	registry := NewTransferRegistry(DefaultRouteTable(), clock.Now)
	outcome := Outcome{
		MintTransactionHash: "0xmint",
		CompletedAt:         clock.Now().Add(5 * time.Minute),
		Error:               "mint reverted",
	}

	tests := []struct {
		status    types.TransferStatus
		mintHash  string
		errMsg    string
		completed bool
	}{
		{status: types.StatusCompleted, mintHash: "0xmint", completed: true},
		{status: types.StatusFailed, errMsg: "mint reverted"},
		{status: types.StatusCancelled},
	}

	for _, tt := range tests {
		transfer, err := registry.Create(testAsset(types.Ethereum), types.BSC, "", "0xlock")
		require.NoError(t, err)

		got, ok := registry.Transition(transfer.ID, tt.status, outcome)
		require.True(t, ok, tt.status)

		assert.Equal(t, tt.status, got.Status)
		assert.Equal(t, tt.mintHash, got.MintTransactionHash, tt.status)
		assert.Equal(t, tt.errMsg, got.Error, tt.status)
		assert.Equal(t, transfer.EstimatedTime, got.EstimatedTime)
		assert.Equal(t, transfer.LockTransactionHash, got.LockTransactionHash)
		if tt.completed {
			require.NotNil(t, got.CompletedAt)
			assert.Equal(t, outcome.CompletedAt, *got.CompletedAt)
		} else {
			assert.Nil(t, got.CompletedAt, tt.status)
		}
	}
}

func TestTransferRegistryCompletedAtDefaultsToNow(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	registry := NewTransferRegistry(DefaultRouteTable(), clock.Now)
	transfer, err := registry.Create(testAsset(types.OneChain), types.Polygon, "", "0xlock")
	require.NoError(t, err)

	clock.Advance(time.Minute)
	completed, ok := registry.Transition(transfer.ID, types.StatusCompleted, Outcome{MintTransactionHash: "0xmint"})
	require.True(t, ok)
	require.NotNil(t, completed.CompletedAt)
	assert.Equal(t, clock.Now(), *completed.CompletedAt)
}

func TestTransferRegistryHoldsTerminalEventsUntilAnnounced(t *testing.T) {
	t.Parallel()

	registry := NewTransferRegistry(DefaultRouteTable(), nil)
	transfer, err := registry.Create(testAsset(types.OneChain), types.Polygon, "", "0xlock")
	require.NoError(t, err)

	cancelled := types.Event{Type: types.EventBridgeCancelled, Transfer: transfer}
	assert.True(t, registry.hold(cancelled))

	held := registry.announce(transfer.ID)
	require.Len(t, held, 1)
	assert.Equal(t, types.EventBridgeCancelled, held[0].Type)

	assert.False(t, registry.hold(cancelled), "announced transfers deliver directly")
	assert.Empty(t, registry.announce(transfer.ID))

	assert.False(t, registry.hold(types.Event{Transfer: types.Transfer{ID: "missing"}}))
}
