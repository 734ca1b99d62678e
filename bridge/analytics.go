package bridge

import (
	"sort"
	"strings"

	"github.com/ClipFinance/rwa-bridge/common/types"
	"github.com/axiomhq/hyperloglog"
	"github.com/shopspring/decimal"
)

const (
	// maxPopularRoutes caps the popular route list.
	maxPopularRoutes = 5
)

// PlaceholderVolume is counted for transfers whose asset value is unknown.
var PlaceholderVolume = decimal.NewFromInt(1_000_000)

// GetBridgeAnalytics summarises every transfer known to the engine.
func (b *Bridge) GetBridgeAnalytics() types.Analytics {
	return Aggregate(b.transfers.All())
}

// Aggregate computes the analytics summary over a set of transfers.
func Aggregate(transfers []types.Transfer) types.Analytics {
	summary := types.Analytics{
		TotalTransfers: len(transfers),
		TotalVolume:    decimal.Zero,
		PopularRoutes:  []types.RouteCount{},
	}

	users := hyperloglog.New14()
	routeCounts := make(map[string]int)
	var completedSeconds float64
	completed := 0

	for _, t := range transfers {
		if t.AssetValue.IsPositive() {
			summary.TotalVolume = summary.TotalVolume.Add(t.AssetValue)
		} else {
			summary.TotalVolume = summary.TotalVolume.Add(PlaceholderVolume)
			summary.VolumeApproximated = true
		}

		if t.Status == types.StatusCompleted {
			summary.SuccessfulTransfers++
			if t.CompletedAt != nil {
				completedSeconds += t.CompletedAt.Sub(t.CreatedAt).Seconds()
				completed++
			}
		}

		routeCounts[t.Route()]++

		for _, user := range []string{t.Sender, t.Recipient} {
			if user != "" {
				users.Insert([]byte(strings.ToLower(user)))
			}
		}
	}

	if completed > 0 {
		summary.AverageTime = completedSeconds / float64(completed)
	}
	if len(transfers) > 0 {
		summary.UniqueUsers = users.Estimate()
	}
	summary.PopularRoutes = popularRoutes(routeCounts)

	return summary
}

// popularRoutes sorts routes by count descending, breaking ties by name, and keeps the top entries.
func popularRoutes(counts map[string]int) []types.RouteCount {
	routes := make([]types.RouteCount, 0, len(counts))
	for route, count := range counts {
		routes = append(routes, types.RouteCount{Route: route, Count: count})
	}

	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Count != routes[j].Count {
			return routes[i].Count > routes[j].Count
		}
		return routes[i].Route < routes[j].Route
	})

	if len(routes) > maxPopularRoutes {
		routes = routes[:maxPopularRoutes]
	}
	return routes
}
