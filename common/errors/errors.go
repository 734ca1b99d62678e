package errors

import (
	"fmt"

	"github.com/ClipFinance/rwa-bridge/common/types"
	"github.com/pkg/errors"
)

var (
	ErrChainNotFound      = errors.New("chain not found")
	ErrInvalidChainID     = errors.New("invalid chain id")
	ErrDatabaseConnect    = errors.New("failed to connect to database")
	ErrInvalidConfig      = errors.New("invalid chain configuration")
	ErrChainExists        = errors.New("chain already exists in registry")
	ErrFactoryNotProvided = errors.New("chain factory not provided")
	ErrInvalidChainType   = errors.New("invalid chain type")
	ErrNotImplemented     = errors.New("functionality not implemented")
)

// Error kinds surfaced by the bridge engine. Match them with errors.Is.
var (
	ErrChain            = errors.New("chain error")
	ErrValidation       = errors.New("validation error")
	ErrTransferNotFound = errors.New("transfer not found")
	ErrInvalidState     = errors.New("invalid transfer state")
	ErrTransaction      = errors.New("transaction error")
)

// Error is a typed bridge error carrying its kind and the optional underlying cause.
type Error struct {
	Kind       error
	ChainID    types.ChainID
	TransferID string
	Msg        string
	Err        error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NewChainError reports a missing or unhealthy chain provider.
func NewChainError(chainID types.ChainID, format string, args ...interface{}) error {
	return &Error{Kind: ErrChain, ChainID: chainID, Msg: fmt.Sprintf(format, args...)}
}

// NewValidationError reports a rejected request.
func NewValidationError(format string, args ...interface{}) error {
	return &Error{Kind: ErrValidation, Msg: fmt.Sprintf(format, args...)}
}

// NewTransferNotFoundError reports an unknown transfer id.
func NewTransferNotFoundError(transferID string) error {
	return &Error{Kind: ErrTransferNotFound, TransferID: transferID, Msg: "transfer " + transferID}
}

// NewInvalidStateError reports an operation that is not allowed in the transfer's current status.
func NewInvalidStateError(transferID string, status types.TransferStatus) error {
	return &Error{
		Kind:       ErrInvalidState,
		TransferID: transferID,
		Msg:        fmt.Sprintf("transfer %s has status %s", transferID, status),
	}
}

// NewTransactionError wraps a failed provider call.
func NewTransactionError(chainID types.ChainID, cause error, format string, args ...interface{}) error {
	return &Error{Kind: ErrTransaction, ChainID: chainID, Msg: fmt.Sprintf(format, args...), Err: cause}
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}
