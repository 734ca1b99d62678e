package bridge

import (
	"math/big"
	"strings"

	"github.com/ClipFinance/rwa-bridge/common/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

// PayloadCodec encodes lock, mint and cancel calls for one chain.
type PayloadCodec = types.PayloadCodec

// wordSize is the width of one encoded argument.
const wordSize = 32

// WordCodec lays every argument out as a left-padded 32-byte word. Long string
// arguments keep their last 32 bytes. Recipients that are not hex are hashed.
type WordCodec struct{}

var _ PayloadCodec = WordCodec{}

// EncodeLock encodes tokenID, the numeric target chain id and the recipient.
func (WordCodec) EncodeLock(tokenID uint64, target types.ChainID, recipient string) ([]byte, error) {
	to, err := recipientWord(recipient)
	if err != nil {
		return nil, err
	}

	data := make([]byte, 0, 3*wordSize)
	data = append(data, uint64Word(tokenID)...)
	data = append(data, uint64Word(target.NumericID())...)
	return append(data, to...), nil
}

// EncodeMint encodes the asset id and the recipient.
func (WordCodec) EncodeMint(assetID, recipient string) ([]byte, error) {
	to, err := recipientWord(recipient)
	if err != nil {
		return nil, err
	}

	data := make([]byte, 0, 2*wordSize)
	data = append(data, word([]byte(assetID))...)
	return append(data, to...), nil
}

// EncodeCancel encodes the transfer id.
func (WordCodec) EncodeCancel(transferID string) ([]byte, error) {
	if transferID == "" {
		return nil, errors.New("transfer id is empty")
	}
	return word([]byte(transferID)), nil
}

func uint64Word(v uint64) []byte {
	return math.U256Bytes(new(big.Int).SetUint64(v))
}

func word(b []byte) []byte {
	if len(b) > wordSize {
		b = b[len(b)-wordSize:]
	}
	return common.LeftPadBytes(b, wordSize)
}

func recipientWord(recipient string) ([]byte, error) {
	if recipient == "" {
		return nil, errors.New("recipient is empty")
	}
	if strings.HasPrefix(recipient, "0x") && common.IsHexAddress(recipient) {
		return word(common.FromHex(recipient)), nil
	}
	return crypto.Keccak256([]byte(recipient)), nil
}
