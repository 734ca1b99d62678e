package evm

import (
	"math/big"
	"strings"

	"github.com/ClipFinance/rwa-bridge/common/types"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

// bridgeABI is the subset of the bridge contract interface used by the engine.
const bridgeABI = `[
	{"type":"function","name":"lock","stateMutability":"nonpayable","inputs":[
		{"name":"tokenId","type":"uint256"},
		{"name":"targetChain","type":"uint256"},
		{"name":"recipient","type":"bytes"}],"outputs":[]},
	{"type":"function","name":"mint","stateMutability":"nonpayable","inputs":[
		{"name":"assetId","type":"bytes32"},
		{"name":"recipient","type":"address"}],"outputs":[]},
	{"type":"function","name":"cancel","stateMutability":"nonpayable","inputs":[
		{"name":"transferId","type":"bytes32"}],"outputs":[]}
]`

// ABICodec encodes bridge calls with the Solidity ABI.
type ABICodec struct {
	abi abi.ABI
}

var _ types.PayloadCodec = (*ABICodec)(nil)

// NewABICodec parses the bridge ABI.
//
// Returns:
// - *ABICodec: the codec.
// - error: an error if the ABI definition cannot be parsed.
func NewABICodec() (*ABICodec, error) {
	parsed, err := abi.JSON(strings.NewReader(bridgeABI))
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse bridge abi")
	}
	return &ABICodec{abi: parsed}, nil
}

// EncodeLock packs lock(tokenId, targetChain, recipient). Non-hex recipients are
// passed as their raw bytes so that non-EVM targets can be addressed.
func (c *ABICodec) EncodeLock(tokenID uint64, target types.ChainID, recipient string) ([]byte, error) {
	if recipient == "" {
		return nil, errors.New("recipient is empty")
	}

	var to []byte
	if common.IsHexAddress(recipient) {
		to = common.HexToAddress(recipient).Bytes()
	} else {
		to = []byte(recipient)
	}

	data, err := c.abi.Pack("lock", new(big.Int).SetUint64(tokenID), new(big.Int).SetUint64(target.NumericID()), to)
	if err != nil {
		return nil, errors.Wrap(err, "failed to pack lock")
	}
	return data, nil
}

// EncodeMint packs mint(assetId, recipient).
func (c *ABICodec) EncodeMint(assetID, recipient string) ([]byte, error) {
	if !common.IsHexAddress(recipient) {
		return nil, errors.Errorf("invalid recipient address %q", recipient)
	}

	data, err := c.abi.Pack("mint", crypto.Keccak256Hash([]byte(assetID)), common.HexToAddress(recipient))
	if err != nil {
		return nil, errors.Wrap(err, "failed to pack mint")
	}
	return data, nil
}

// EncodeCancel packs cancel(transferId).
func (c *ABICodec) EncodeCancel(transferID string) ([]byte, error) {
	data, err := c.abi.Pack("cancel", crypto.Keccak256Hash([]byte(transferID)))
	if err != nil {
		return nil, errors.Wrap(err, "failed to pack cancel")
	}
	return data, nil
}
