package solana

import (
	"context"
	"encoding/base64"

	"github.com/ClipFinance/rwa-bridge/chains/solana/utils"
	"github.com/ClipFinance/rwa-bridge/common/types"
	sol "github.com/gagliardetto/solana-go"
	computebudget "github.com/gagliardetto/solana-go/programs/compute-budget"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const (
	// defaultComputeUnits is the compute unit limit requested for bridge instructions.
	defaultComputeUnits = 200_000
	// defaultPriorityFee is the compute unit price in micro-lamports.
	defaultPriorityFee = 1_000
)

// EstimateGas returns the fee of the bridge call in SOL as reported by getFeeForMessage.
//
// Parameters:
// - ctx: the context for managing the request.
// - req: the transaction request, To holds the bridge program id.
//
// Returns:
// - decimal.Decimal: the estimated fee in SOL.
// - error: an error if the client is not initialized or the node cannot price the message.
func (s *solana) EstimateGas(ctx context.Context, req *types.TransactionRequest) (decimal.Decimal, error) {
	s.clientMutex.RLock()
	client := s.client
	s.clientMutex.RUnlock()

	if client == nil {
		return decimal.Zero, errors.New("client not initialized")
	}

	programID, err := sol.PublicKeyFromBase58(req.To)
	if err != nil {
		return decimal.Zero, errors.Wrap(err, "failed to parse program id")
	}

	blockhash, err := client.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return decimal.Zero, errors.Wrap(err, "failed to get latest blockhash")
	}

	payer := s.payer(programID)
	instructions, err := buildInstructions(programID, payer, req.Data)
	if err != nil {
		return decimal.Zero, err
	}

	tx, err := sol.NewTransaction(instructions, blockhash.Value.Blockhash, sol.TransactionPayer(payer))
	if err != nil {
		return decimal.Zero, errors.Wrap(err, "failed to create transaction")
	}

	msg, err := tx.Message.MarshalBinary()
	if err != nil {
		return decimal.Zero, errors.Wrap(err, "failed to encode message")
	}

	fee, err := client.GetFeeForMessage(ctx, base64.StdEncoding.EncodeToString(msg), rpc.CommitmentProcessed)
	if err != nil {
		return decimal.Zero, errors.Wrap(err, "failed to get fee for message")
	}
	if fee.Value == nil {
		return decimal.Zero, errors.New("fee for message is unavailable")
	}

	return utils.LamportsToSol(*fee.Value), nil
}

// buildInstructions prepends the compute budget instructions to the bridge call.
func buildInstructions(programID, payer sol.PublicKey, data []byte) ([]sol.Instruction, error) {
	setComputeUnitLimitIx, err := computebudget.NewSetComputeUnitLimitInstruction(defaultComputeUnits).ValidateAndBuild()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create compute unit limit instruction")
	}

	setPriorityFeeIx, err := computebudget.NewSetComputeUnitPriceInstruction(defaultPriorityFee).ValidateAndBuild()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create priority fee instruction")
	}

	bridgeIx := sol.NewInstruction(
		programID,
		sol.AccountMetaSlice{sol.NewAccountMeta(payer, true, true)},
		data,
	)

	return []sol.Instruction{setComputeUnitLimitIx, setPriorityFeeIx, bridgeIx}, nil
}
