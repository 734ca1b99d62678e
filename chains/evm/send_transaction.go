package evm

import (
	"context"
	"math/big"

	"github.com/ClipFinance/rwa-bridge/common/types"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// gasLimitBufferPercent is added on top of the estimated gas units.
const gasLimitBufferPercent = 110

// SendTransaction signs and broadcasts a contract call to the bridge contract.
// Calls are serialized so that concurrent sends never reuse a pending nonce.
//
// Parameters:
// - ctx: the context for managing the request.
// - req: the transaction request containing destination, payload and value.
//
// Returns:
// - *types.Transaction: the transaction details.
// - error: an error if the client is not initialized or if the transaction fails.
func (e *evm) SendTransaction(ctx context.Context, req *types.TransactionRequest) (*types.Transaction, error) {
	e.clientMutex.RLock()
	client := e.client
	e.clientMutex.RUnlock()

	if client == nil {
		return nil, errors.New("client not initialized")
	}

	e.nonceMutex.Lock()
	defer e.nonceMutex.Unlock()

	from := e.fromAddress()
	nonce, err := client.PendingNonceAt(ctx, from)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get nonce")
	}

	value := req.Value
	if value == nil {
		value = big.NewInt(0)
	}

	tx, err := e.prepareTransaction(ctx, nonce, req.To, value, req.Data)
	if err != nil {
		return nil, err
	}

	signedTx, err := e.signAndSendTransaction(ctx, tx)
	if err != nil {
		return nil, err
	}

	e.logger.WithFields(logrus.Fields{
		"chain":  e.config.ChainID,
		"txHash": signedTx.Hash().Hex(),
		"nonce":  nonce,
	}).Info("Transaction sent")

	return &types.Transaction{
		Hash:    signedTx.Hash().Hex(),
		ChainID: e.config.ChainID,
		From:    from.Hex(),
		To:      req.To,
		Value:   value.String(),
		Data:    req.Data,
		Nonce:   nonce,
	}, nil
}

// prepareTransaction prepares a transaction with the given parameters.
//
// Parameters:
// - ctx: the context for managing the request.
// - nonce: the nonce for the transaction.
// - toAddress: the recipient address of the transaction.
// - value: the amount of native token to send with the transaction.
// - data: the input data for the transaction.
//
// Returns:
// - *ethtypes.Transaction: the prepared transaction.
// - error: an error if the gas estimation, gas price retrieval, or client initialization fails.
func (e *evm) prepareTransaction(ctx context.Context, nonce uint64, toAddress string, value *big.Int, data []byte) (*ethtypes.Transaction, error) {
	estimatedGas, err := e.estimateGasUnits(ctx, &types.TransactionRequest{To: toAddress, Value: value, Data: data})
	if err != nil {
		e.logger.WithField("chain", e.config.Name).WithError(err).Warn("Failed to estimate gas")
		return nil, err
	}

	gasLimit := estimatedGas * gasLimitBufferPercent / 100

	to := common.HexToAddress(toAddress)

	e.clientMutex.RLock()
	client := e.client
	e.clientMutex.RUnlock()

	if client == nil {
		return nil, errors.New("client not initialized")
	}

	if e.config.TxType == TxTypeEIP1559 {
		gasPriceData, err := e.getEIP1559GasPrice(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "failed to get EIP-1559 gas price")
		}

		return ethtypes.NewTx(&ethtypes.DynamicFeeTx{
			ChainID:   new(big.Int).SetUint64(e.config.NumericID),
			Nonce:     nonce,
			GasFeeCap: gasPriceData.MaxFeePerGas,
			GasTipCap: gasPriceData.MaxPriorityFeePerGas,
			Gas:       gasLimit,
			To:        &to,
			Value:     value,
			Data:      data,
		}), nil
	}

	gasPrice, err := client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get gas price")
	}

	gasPrice = new(big.Int).Mul(gasPrice, big.NewInt(150))
	gasPrice = new(big.Int).Div(gasPrice, big.NewInt(100))

	return ethtypes.NewTx(&ethtypes.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      gasLimit,
		To:       &to,
		Value:    value,
		Data:     data,
	}), nil
}

// signAndSendTransaction signs and sends the prepared transaction.
//
// Parameters:
// - ctx: the context for managing the request.
// - tx: the prepared transaction to be signed and sent.
//
// Returns:
// - *ethtypes.Transaction: the signed and sent transaction.
// - error: an error if the client or signer is not initialized, or if the signing or sending fails.
func (e *evm) signAndSendTransaction(ctx context.Context, tx *ethtypes.Transaction) (*ethtypes.Transaction, error) {
	e.clientMutex.RLock()
	client := e.client
	e.clientMutex.RUnlock()

	e.signerMutex.RLock()
	signer := e.signer
	e.signerMutex.RUnlock()

	if client == nil || signer == nil {
		return nil, errors.New("client or signer not initialized")
	}

	chainID := new(big.Int).SetUint64(e.config.NumericID)

	signedTx, err := signer.SignTx(tx, chainID)
	if err != nil {
		e.logger.WithField("chain", e.config.Name).WithError(err).Error("Failed to sign transaction")
		return nil, errors.Wrap(err, "failed to sign transaction")
	}

	if err = client.SendTransaction(ctx, signedTx); err != nil {
		e.logger.WithField("chain", e.config.Name).WithError(err).Error("Failed to send transaction")
		return nil, errors.Wrap(err, "failed to send transaction")
	}

	return signedTx, nil
}
