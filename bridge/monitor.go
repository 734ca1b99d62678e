package bridge

import (
	"context"

	"github.com/ClipFinance/rwa-bridge/common/errors"
	"github.com/ClipFinance/rwa-bridge/common/types"
	"github.com/sirupsen/logrus"
)

// mint is the deferred step of a transfer. It runs at most once per transfer and
// never reports errors to a caller: a failed mint is recorded on the transfer.
func (b *Bridge) mint(id string) {
	log := b.logger.WithField("transferID", id)

	transfer, ok := b.transfers.Get(id)
	if !ok {
		log.Warn("Scheduled mint for unknown transfer")
		return
	}
	if transfer.Status != types.StatusPending {
		log.WithField("status", transfer.Status).Debug("Transfer no longer pending, skipping mint")
		return
	}

	mintTx, err := b.sendMint(b.ctx, transfer)
	if err != nil {
		b.fail(transfer, err)
		return
	}

	completed, ok := b.transfers.Transition(id, types.StatusCompleted, Outcome{
		MintTransactionHash: mintTx.Hash,
		CompletedAt:         b.now(),
	})
	if !ok {
		log.WithFields(logrus.Fields{
			"txHash": mintTx.Hash,
			"status": completed.Status,
		}).Warn("Mint submitted but transfer already left pending")
		return
	}

	log.WithFields(logrus.Fields{
		"route":  completed.Route(),
		"txHash": mintTx.Hash,
	}).Info("Bridge transfer completed")

	b.emitTerminal(types.EventBridgeCompleted, completed, mintTx, nil)
}

// sendMint submits the mint call on the target chain.
func (b *Bridge) sendMint(ctx context.Context, transfer types.Transfer) (*types.Transaction, error) {
	target, err := b.provider(transfer.TargetChainID)
	if err != nil {
		return nil, err
	}

	contract, err := b.bridgeContract(transfer.TargetChainID)
	if err != nil {
		return nil, err
	}

	data, err := b.codec(transfer.TargetChainID).EncodeMint(transfer.AssetID, transfer.Recipient)
	if err != nil {
		return nil, errors.NewValidationError("cannot encode mint for transfer %s: %v", transfer.ID, err)
	}

	mintTx, err := target.SendTransaction(ctx, &types.TransactionRequest{To: contract, Data: data})
	if err != nil {
		return nil, errors.NewTransactionError(transfer.TargetChainID, err, "mint for transfer %s failed", transfer.ID)
	}
	return mintTx, nil
}

// fail records the mint error. Losing the transition to a cancellation is silent.
func (b *Bridge) fail(transfer types.Transfer, cause error) {
	failed, ok := b.transfers.Transition(transfer.ID, types.StatusFailed, Outcome{Error: cause.Error()})
	if !ok {
		b.logger.WithField("transferID", transfer.ID).Debug("Mint failed after transfer left pending")
		return
	}

	b.logger.WithFields(logrus.Fields{
		"transferID": transfer.ID,
		"route":      transfer.Route(),
	}).WithError(cause).Error("Bridge transfer failed")

	b.emitTerminal(types.EventBridgeFailed, failed, nil, cause)
}
