package solana

import (
	"context"

	"github.com/ClipFinance/rwa-bridge/common/types"
	sol "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// SendTransaction signs and sends a bridge program instruction.
//
// Parameters:
// - ctx: the context for managing the request.
// - req: the transaction request, To holds the bridge program id.
//
// Returns:
// - *types.Transaction: the transaction details, Hash holds the signature.
// - error: an error if the signer is missing or the node rejects the transaction.
func (s *solana) SendTransaction(ctx context.Context, req *types.TransactionRequest) (*types.Transaction, error) {
	s.clientMutex.RLock()
	client := s.client
	s.clientMutex.RUnlock()

	s.signerMutex.RLock()
	signer := s.signer
	s.signerMutex.RUnlock()

	if client == nil || signer == nil {
		return nil, errors.New("client or signer not initialized")
	}

	programID, err := sol.PublicKeyFromBase58(req.To)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse program id")
	}

	latestBlockhashResult, err := client.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get latest blockhash")
	}
	latestBlockhash := latestBlockhashResult.Value.Blockhash

	payer := signer.PublicKey()
	instructions, err := buildInstructions(programID, payer, req.Data)
	if err != nil {
		return nil, err
	}

	tx, err := sol.NewTransaction(instructions, latestBlockhash, sol.TransactionPayer(payer))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create transaction")
	}

	_, err = tx.Sign(func(key sol.PublicKey) *sol.PrivateKey {
		if payer.Equals(key) {
			return signer
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign transaction")
	}

	sig, err := client.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		SkipPreflight:       false,
		PreflightCommitment: rpc.CommitmentProcessed,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to send transaction")
	}

	s.logger.WithFields(logrus.Fields{
		"chain":     s.config.ChainID,
		"signature": sig.String(),
		"slot":      latestBlockhashResult.Context.Slot,
	}).Info("Transaction sent")

	return &types.Transaction{
		Hash:    sig.String(),
		ChainID: s.config.ChainID,
		From:    payer.String(),
		To:      programID.String(),
		Value:   "0",
		Data:    req.Data,
	}, nil
}
