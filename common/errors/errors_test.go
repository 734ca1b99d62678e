package errors

import (
	"testing"

	"github.com/ClipFinance/rwa-bridge/common/types"
	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorKinds(t *testing.T) {
	t.Parallel()

	cause := pkgerrors.New("rpc unavailable")

	tests := []struct {
		name string
		err  error
		kind error
	}{
		{name: "chain", err: NewChainError(types.Ethereum, "provider not found"), kind: ErrChain},
		{name: "validation", err: NewValidationError("same chain"), kind: ErrValidation},
		{name: "not found", err: NewTransferNotFoundError("t-1"), kind: ErrTransferNotFound},
		{name: "invalid state", err: NewInvalidStateError("t-1", types.StatusCompleted), kind: ErrInvalidState},
		{name: "transaction", err: NewTransactionError(types.OneChain, cause, "lock failed"), kind: ErrTransaction},
	}

	all := []error{ErrChain, ErrValidation, ErrTransferNotFound, ErrInvalidState, ErrTransaction}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			for _, kind := range all {
				assert.Equal(t, kind == tt.kind, Is(tt.err, kind), "kind %v", kind)
			}
		})
	}
}

func TestTransactionErrorUnwrapsCause(t *testing.T) {
	t.Parallel()

	cause := pkgerrors.New("nonce too low")
	err := NewTransactionError(types.Polygon, pkgerrors.Wrap(cause, "failed to send transaction"), "mint failed")

	require.True(t, Is(err, cause))
	assert.Contains(t, err.Error(), "nonce too low")
	assert.Contains(t, err.Error(), "mint failed")

	var typed *Error
	require.True(t, pkgerrors.As(err, &typed))
	assert.Equal(t, types.Polygon, typed.ChainID)
}

func TestInvalidStateErrorMessage(t *testing.T) {
	t.Parallel()

	err := NewInvalidStateError("bridge-1", types.StatusCancelled)
	assert.Equal(t, "invalid transfer state: transfer bridge-1 has status cancelled", err.Error())
}
