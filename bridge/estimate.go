package bridge

import (
	"context"

	"github.com/ClipFinance/rwa-bridge/common/errors"
	"github.com/ClipFinance/rwa-bridge/common/types"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// GasFallback is the gas cost, in native units, assumed when a chain cannot estimate.
var GasFallback = decimal.RequireFromString("0.01")

// EstimateBridge returns the expected time and cost of bridging asset to targetChainID.
// Gas estimation failures fall back to GasFallback per chain and are not reported.
//
// Parameters:
// - ctx: the context for the gas estimation calls.
// - asset: the asset to move.
// - targetChainID: the chain to mint on.
//
// Returns:
// - types.Estimate: time, fee, gas cost and their total.
// - error: a validation error for same-chain requests, a chain error for unknown chains.
func (b *Bridge) EstimateBridge(ctx context.Context, asset types.Asset, targetChainID types.ChainID) (types.Estimate, error) {
	if asset.ChainID == targetChainID {
		return types.Estimate{}, errors.NewValidationError("source and target chains cannot be the same: %s", targetChainID)
	}

	source, err := b.provider(asset.ChainID)
	if err != nil {
		return types.Estimate{}, err
	}
	target, err := b.provider(targetChainID)
	if err != nil {
		return types.Estimate{}, err
	}

	fee := b.routes.Fee(asset.ChainID, targetChainID)

	var sourceGas, targetGas decimal.Decimal
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sourceGas = b.estimateGas(gCtx, asset.ChainID, source, func(codec PayloadCodec) ([]byte, error) {
			return codec.EncodeLock(asset.TokenID, targetChainID, asset.Owner)
		})
		return nil
	})
	g.Go(func() error {
		targetGas = b.estimateGas(gCtx, targetChainID, target, func(codec PayloadCodec) ([]byte, error) {
			return codec.EncodeMint(asset.ID, asset.Owner)
		})
		return nil
	})
	_ = g.Wait()

	gasCost := sourceGas.Add(targetGas)

	return types.Estimate{
		EstimatedTime: b.routes.EstimatedTime(asset.ChainID, targetChainID),
		BridgeFee:     fee,
		GasCost:       gasCost,
		TotalCost:     fee.Add(gasCost),
	}, nil
}

// estimateGas asks the provider for the cost of a representative call, returning
// GasFallback on any failure.
func (b *Bridge) estimateGas(ctx context.Context, chainID types.ChainID, provider types.ChainProvider, encode func(PayloadCodec) ([]byte, error)) decimal.Decimal {
	log := b.logger.WithField("chain", chainID)

	contract, err := b.bridgeContract(chainID)
	if err != nil {
		log.WithError(err).Debug("Using fallback gas estimate")
		return GasFallback
	}

	data, err := encode(b.codec(chainID))
	if err != nil {
		log.WithError(err).Debug("Using fallback gas estimate")
		return GasFallback
	}

	gas, err := provider.EstimateGas(ctx, &types.TransactionRequest{To: contract, Data: data})
	if err != nil {
		log.WithFields(logrus.Fields{"contract": contract}).WithError(err).Warn("Gas estimation failed, using fallback")
		return GasFallback
	}
	return gas
}
