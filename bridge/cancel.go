package bridge

import (
	"context"

	"github.com/ClipFinance/rwa-bridge/common/errors"
	"github.com/ClipFinance/rwa-bridge/common/types"
	"github.com/sirupsen/logrus"
)

// CancelBridgeTransfer submits a cancellation on the source chain and cancels a
// pending transfer along with its scheduled mint.
//
// Parameters:
// - ctx: the context for the cancellation transaction.
// - id: the transfer id.
//
// Returns:
// - *types.Transaction: the cancellation transaction.
// - error: TransferNotFound, InvalidState if the transfer is not pending or the mint
//   won the race, Chain if the source provider is gone, Transaction if the call failed.
func (b *Bridge) CancelBridgeTransfer(ctx context.Context, id string) (*types.Transaction, error) {
	transfer, ok := b.transfers.Get(id)
	if !ok {
		return nil, errors.NewTransferNotFoundError(id)
	}
	if transfer.Status != types.StatusPending {
		return nil, errors.NewInvalidStateError(id, transfer.Status)
	}

	source, err := b.provider(transfer.SourceChainID)
	if err != nil {
		return nil, err
	}

	contract, err := b.bridgeContract(transfer.SourceChainID)
	if err != nil {
		return nil, err
	}

	data, err := b.codec(transfer.SourceChainID).EncodeCancel(transfer.ID)
	if err != nil {
		return nil, errors.NewValidationError("cannot encode cancel for transfer %s: %v", transfer.ID, err)
	}

	cancelTx, err := source.SendTransaction(ctx, &types.TransactionRequest{To: contract, Data: data})
	if err != nil {
		return nil, errors.NewTransactionError(transfer.SourceChainID, err, "cancel of transfer %s failed", transfer.ID)
	}

	cancelled, ok := b.transfers.Transition(id, types.StatusCancelled, Outcome{})
	if !ok {
		b.logger.WithFields(logrus.Fields{
			"transferID": id,
			"status":     cancelled.Status,
			"txHash":     cancelTx.Hash,
		}).Warn("Cancellation submitted but transfer already left pending")
		return nil, errors.NewInvalidStateError(id, cancelled.Status)
	}

	b.scheduler.Cancel(id)

	b.logger.WithFields(logrus.Fields{
		"transferID": id,
		"route":      cancelled.Route(),
		"txHash":     cancelTx.Hash,
	}).Info("Bridge transfer cancelled")

	b.emitTerminal(types.EventBridgeCancelled, cancelled, cancelTx, nil)
	return cancelTx, nil
}
