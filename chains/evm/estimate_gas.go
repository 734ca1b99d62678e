package evm

import (
	"context"
	"math/big"

	"github.com/ClipFinance/rwa-bridge/common/types"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// weiDecimals is the number of decimals of the native token on EVM chains.
const weiDecimals = 18

// GasPriceData represents the gas price data for EIP-1559 transactions.
type GasPriceData struct {
	MaxFeePerGas         *big.Int // The maximum fee per gas.
	MaxPriorityFeePerGas *big.Int // The maximum priority fee per gas.
	IsEIP1559            bool     // Indicates if the transaction is EIP-1559.
}

// EstimateGas estimates the native-token cost of a transaction as gas units times the suggested gas price.
//
// Parameters:
// - ctx: the context for managing the request.
// - req: the transaction request.
//
// Returns:
// - decimal.Decimal: the estimated cost in native token units.
// - error: an error if the client is not initialized or if the gas estimation fails.
func (e *evm) EstimateGas(ctx context.Context, req *types.TransactionRequest) (decimal.Decimal, error) {
	e.clientMutex.RLock()
	client := e.client
	e.clientMutex.RUnlock()

	if client == nil {
		return decimal.Zero, errors.New("client not initialized")
	}

	units, err := e.estimateGasUnits(ctx, req)
	if err != nil {
		return decimal.Zero, err
	}

	gasPrice, err := client.SuggestGasPrice(ctx)
	if err != nil {
		return decimal.Zero, errors.Wrap(err, "failed to get gas price")
	}

	wei := new(big.Int).Mul(new(big.Int).SetUint64(units), gasPrice)
	return decimal.NewFromBigInt(wei, -weiDecimals), nil
}

// estimateGasUnits estimates the gas units a call consumes.
func (e *evm) estimateGasUnits(ctx context.Context, req *types.TransactionRequest) (uint64, error) {
	e.clientMutex.RLock()
	client := e.client
	e.clientMutex.RUnlock()

	if client == nil {
		return 0, errors.New("client not initialized")
	}

	to := common.HexToAddress(req.To)
	msg := ethereum.CallMsg{
		From:  e.fromAddress(),
		To:    &to,
		Value: req.Value,
		Data:  req.Data,
	}

	units, err := client.EstimateGas(ctx, msg)
	if err != nil {
		return 0, errors.Wrap(err, "failed to estimate gas")
	}
	return units, nil
}

// fromAddress returns the signer address, or the zero address for read-only chains.
func (e *evm) fromAddress() common.Address {
	e.signerMutex.RLock()
	defer e.signerMutex.RUnlock()

	if e.signer == nil {
		return common.Address{}
	}
	return e.signer.Address()
}

// getEIP1559GasPrice retrieves the gas price data for EIP-1559 transactions.
//
// Parameters:
// - ctx: the context for managing the request.
//
// Returns:
// - *GasPriceData: the gas price data for EIP-1559 transactions.
// - error: an error if the client is not initialized or if there is an issue retrieving the gas price data.
func (e *evm) getEIP1559GasPrice(ctx context.Context) (*GasPriceData, error) {
	e.clientMutex.RLock()
	client := e.client
	e.clientMutex.RUnlock()

	if client == nil {
		return nil, errors.New("client not initialized")
	}

	suggestedTip, err := client.SuggestGasTipCap(ctx)
	if err != nil {
		e.logger.WithField("chain", e.config.Name).WithError(err).Error("Failed to get suggested gas tip")
		suggestedTip = big.NewInt(1)
	}

	if suggestedTip.Sign() == 0 {
		suggestedTip = big.NewInt(1)
	}

	header, err := client.HeaderByNumber(ctx, nil)
	if err != nil {
		e.logger.WithField("chain", e.config.Name).WithError(err).Warn("Failed to get header by number")
		return nil, errors.Wrap(err, "failed to get header by number")
	}

	baseFee := header.BaseFee
	if baseFee == nil {
		e.logger.WithField("chain", e.config.Name).Warn("Base fee is nil")
		return nil, errors.New("base fee is nil")
	}

	baseFeeBuf := new(big.Int).Mul(baseFee, big.NewInt(130))
	baseFeeBuf = baseFeeBuf.Div(baseFeeBuf, big.NewInt(100))
	maxFeePerGas := new(big.Int).Add(baseFeeBuf, suggestedTip)

	return &GasPriceData{
		MaxFeePerGas:         maxFeePerGas,
		MaxPriorityFeePerGas: suggestedTip,
		IsEIP1559:            true,
	}, nil
}
