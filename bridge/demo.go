package bridge

import (
	"time"

	"github.com/ClipFinance/rwa-bridge/common/types"
	"github.com/google/uuid"
)

type demoTransfer struct {
	assetID     string
	source      types.ChainID
	target      types.ChainID
	user        string
	status      types.TransferStatus
	lockTx      string
	mintTx      string
	createdAgo  time.Duration
	completeAgo time.Duration
}

var demoTransfers = []demoTransfer{
	{
		assetID:     "onechain-real-estate-demo-1",
		source:      types.OneChain,
		target:      types.Ethereum,
		user:        "0x1234567890123456789012345678901234567890",
		status:      types.StatusCompleted,
		lockTx:      "0xabc123",
		mintTx:      "0xdef456",
		createdAgo:  90 * time.Minute,
		completeAgo: time.Hour,
	},
	{
		assetID:    "onechain-renewable-energy-demo-2",
		source:     types.Ethereum,
		target:     types.Polygon,
		user:       "0x2345678901234567890123456789012345678901",
		status:     types.StatusPending,
		lockTx:     "0x789abc",
		createdAgo: 10 * time.Minute,
	},
	{
		assetID:     "onechain-carbon-credits-demo-3",
		source:      types.Polygon,
		target:      types.OneChain,
		user:        "0x3456789012345678901234567890123456789012",
		status:      types.StatusCompleted,
		lockTx:      "0x456def",
		mintTx:      "0x123abc",
		createdAgo:  3 * time.Hour,
		completeAgo: 2 * time.Hour,
	},
}

// LoadDemoTransfers seeds the registry with sample transfers for presentations.
// Seeded transfers are stored as they are: pending ones get no scheduled mint.
func (b *Bridge) LoadDemoTransfers() []types.Transfer {
	now := b.now().UTC()

	seeded := make([]types.Transfer, 0, len(demoTransfers))
	for _, d := range demoTransfers {
		transfer := types.Transfer{
			ID:                  "demo-bridge-" + uuid.NewString(),
			AssetID:             d.assetID,
			SourceChainID:       d.source,
			TargetChainID:       d.target,
			Sender:              d.user,
			Recipient:           d.user,
			Status:              d.status,
			LockTransactionHash: d.lockTx,
			MintTransactionHash: d.mintTx,
			EstimatedTime:       b.routes.EstimatedTime(d.source, d.target),
			CreatedAt:           now.Add(-d.createdAgo),
			UpdatedAt:           now,
		}
		if d.status == types.StatusCompleted {
			completedAt := now.Add(-d.completeAgo)
			transfer.CompletedAt = &completedAt
			transfer.UpdatedAt = completedAt
		}

		b.transfers.insert(transfer, true)
		seeded = append(seeded, transfer)
	}
	return seeded
}
