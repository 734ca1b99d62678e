package solana

import (
	"github.com/ClipFinance/rwa-bridge/common/types"
	bin "github.com/gagliardetto/binary"
	sol "github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
)

// Bridge program instruction discriminators.
const (
	instructionLock uint8 = iota
	instructionMint
	instructionCancel
)

type lockArgs struct {
	Instruction uint8
	TokenID     uint64
	TargetChain uint64
	Recipient   string
}

type mintArgs struct {
	Instruction uint8
	AssetID     string
	Recipient   [32]byte
}

type cancelArgs struct {
	Instruction uint8
	TransferID  string
}

// BorshCodec encodes bridge program instructions with Borsh.
type BorshCodec struct{}

var _ types.PayloadCodec = BorshCodec{}

// EncodeLock encodes the lock instruction. Recipients on other chains are kept as strings.
func (BorshCodec) EncodeLock(tokenID uint64, target types.ChainID, recipient string) ([]byte, error) {
	if recipient == "" {
		return nil, errors.New("recipient is empty")
	}
	return marshal(lockArgs{
		Instruction: instructionLock,
		TokenID:     tokenID,
		TargetChain: target.NumericID(),
		Recipient:   recipient,
	})
}

// EncodeMint encodes the mint instruction for a base58 recipient.
func (BorshCodec) EncodeMint(assetID, recipient string) ([]byte, error) {
	owner, err := sol.PublicKeyFromBase58(recipient)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid recipient address %q", recipient)
	}
	return marshal(mintArgs{
		Instruction: instructionMint,
		AssetID:     assetID,
		Recipient:   owner,
	})
}

// EncodeCancel encodes the cancel instruction.
func (BorshCodec) EncodeCancel(transferID string) ([]byte, error) {
	return marshal(cancelArgs{
		Instruction: instructionCancel,
		TransferID:  transferID,
	})
}

func marshal(v interface{}) ([]byte, error) {
	data, err := bin.MarshalBorsh(v)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode instruction")
	}
	return data, nil
}
