package bridge

import (
	"testing"

	"github.com/ClipFinance/rwa-bridge/common/types"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWordCodecLockLayout(t *testing.T) {
	t.Parallel()

	data, err := WordCodec{}.EncodeLock(255, types.OneChain, "0x00000000000000000000000000000000000000Ab")
	require.NoError(t, err)

	want := "0x" +
		"00000000000000000000000000000000000000000000000000000000000000ff" +
		"00000000000000000000000000000000000000000000000000000000000003e8" +
		"00000000000000000000000000000000000000000000000000000000000000ab"
	assert.Equal(t, want, hexutil.Encode(data))
}

func TestWordCodecMintKeepsLastBytes(t *testing.T) {
	t.Parallel()

	assetID := "onechain-real-estate-demo-1-with-a-long-suffix"
	data, err := WordCodec{}.EncodeMint(assetID, "0x00000000000000000000000000000000000000cd")
	require.NoError(t, err)
	require.Len(t, data, 64)

	assert.Equal(t, []byte(assetID[len(assetID)-32:]), data[:32])
	assert.Equal(t, byte(0xcd), data[63])
}

func TestWordCodecHashesNonHexRecipients(t *testing.T) {
	t.Parallel()

	recipient := "9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin"
	data, err := WordCodec{}.EncodeMint("asset", recipient)
	require.NoError(t, err)
	assert.Equal(t, crypto.Keccak256([]byte(recipient)), data[32:])

	_, err = WordCodec{}.EncodeMint("asset", "")
	require.Error(t, err)
}

func TestWordCodecCancel(t *testing.T) {
	t.Parallel()

	data, err := WordCodec{}.EncodeCancel("t-1")
	require.NoError(t, err)
	require.Len(t, data, 32)
	assert.Equal(t, []byte("t-1"), data[29:])

	_, err = WordCodec{}.EncodeCancel("")
	require.Error(t, err)
}
