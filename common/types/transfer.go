package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Asset is the tokenized real-world asset being moved. It is owned by the
// asset catalog and only read by the bridge.
type Asset struct {
	ID      string          `json:"id"`
	TokenID uint64          `json:"tokenId"`
	ChainID ChainID         `json:"chainId"`
	Owner   string          `json:"owner"`
	Value   decimal.Decimal `json:"value"`
}

// Transfer represents a cross-chain transfer with its current state.
type Transfer struct {
	ID                  string          `json:"id"`
	AssetID             string          `json:"assetId"`
	AssetValue          decimal.Decimal `json:"assetValue"`
	SourceChainID       ChainID         `json:"sourceChainId"`
	TargetChainID       ChainID         `json:"targetChainId"`
	Sender              string          `json:"sender"`
	Recipient           string          `json:"recipient"`
	Status              TransferStatus  `json:"status"`
	LockTransactionHash string          `json:"lockTransactionHash"`
	MintTransactionHash string          `json:"mintTransactionHash,omitempty"`
	Error               string          `json:"error,omitempty"`
	EstimatedTime       int64           `json:"estimatedTime"`
	CreatedAt           time.Time       `json:"createdAt"`
	UpdatedAt           time.Time       `json:"updatedAt"`
	CompletedAt         *time.Time      `json:"completedAt,omitempty"`
}

// Route returns the "source->target" label of the transfer.
func (t *Transfer) Route() string {
	return RouteLabel(t.SourceChainID, t.TargetChainID)
}

// RouteLabel formats an ordered chain pair as "source->target".
func RouteLabel(source, target ChainID) string {
	return source.String() + "->" + target.String()
}

// Route describes an ordered chain pair with timing and fee characteristics.
type Route struct {
	SourceChain   ChainID         `json:"sourceChain"`
	TargetChain   ChainID         `json:"targetChain"`
	EstimatedTime int64           `json:"estimatedTime"`
	Fee           decimal.Decimal `json:"fee"`
	Supported     bool            `json:"supported"`
}

// Estimate is the advisory cost and time of bridging an asset.
type Estimate struct {
	EstimatedTime int64           `json:"estimatedTime"`
	BridgeFee     decimal.Decimal `json:"bridgeFee"`
	GasCost       decimal.Decimal `json:"gasCost"`
	TotalCost     decimal.Decimal `json:"totalCost"`
}

// RouteCount is the number of transfers observed on one route.
type RouteCount struct {
	Route string `json:"route"`
	Count int    `json:"count"`
}

// Analytics summarises the transfer records.
//
// Fields:
// - TotalTransfers: number of records.
// - SuccessfulTransfers: number of completed records.
// - TotalVolume: sum of asset values moved.
// - VolumeApproximated: true if at least one record had no known asset value.
// - AverageTime: mean completion time in seconds over completed records.
// - PopularRoutes: top routes by transfer count.
// - UniqueUsers: estimated number of distinct senders and recipients.
type Analytics struct {
	TotalTransfers      int             `json:"totalTransfers"`
	SuccessfulTransfers int             `json:"successfulTransfers"`
	TotalVolume         decimal.Decimal `json:"totalVolume"`
	VolumeApproximated  bool            `json:"volumeApproximated"`
	AverageTime         float64         `json:"averageTime"`
	PopularRoutes       []RouteCount    `json:"popularRoutes"`
	UniqueUsers         uint64          `json:"uniqueUsers"`
}
