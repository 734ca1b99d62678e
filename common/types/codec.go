package types

// PayloadCodec encodes bridge contract calls for a chain family.
type PayloadCodec interface {
	// EncodeLock encodes the call that locks an asset on the source chain.
	EncodeLock(tokenID uint64, target ChainID, recipient string) ([]byte, error)
	// EncodeMint encodes the call that mints the wrapped asset on the target chain.
	EncodeMint(assetID, recipient string) ([]byte, error)
	// EncodeCancel encodes the call that releases a locked asset.
	EncodeCancel(transferID string) ([]byte, error)
}
