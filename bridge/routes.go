package bridge

import (
	"github.com/ClipFinance/rwa-bridge/common/types"
	"github.com/shopspring/decimal"
)

const (
	// DefaultEstimatedTime is the bridge time in seconds for pairs missing from the table.
	DefaultEstimatedTime int64 = 600
)

// DefaultFee is the bridge fee in USD for pairs missing from the table.
var DefaultFee = decimal.RequireFromString("10.00")

type routeKey struct {
	source types.ChainID
	target types.ChainID
}

type routeInfo struct {
	seconds int64
	fee     decimal.Decimal
}

// RouteTable is a static lookup of timing and fee per ordered chain pair.
// It is built once and only read afterwards.
type RouteTable struct {
	routes      map[routeKey]routeInfo
	defaultTime int64
	defaultFee  decimal.Decimal
}

// NewRouteTable creates an empty table answering every pair with the given defaults.
func NewRouteTable(defaultTime int64, defaultFee decimal.Decimal) *RouteTable {
	return &RouteTable{
		routes:      make(map[routeKey]routeInfo),
		defaultTime: defaultTime,
		defaultFee:  defaultFee,
	}
}

// DefaultRouteTable returns the table for the OneChain, Ethereum, Polygon and BSC routes.
func DefaultRouteTable() *RouteTable {
	usd := decimal.RequireFromString

	return NewRouteTable(DefaultEstimatedTime, DefaultFee).
		Set(types.OneChain, types.Ethereum, 300, usd("25.00")).
		Set(types.OneChain, types.Polygon, 180, usd("5.00")).
		Set(types.OneChain, types.BSC, 240, usd("8.00")).
		Set(types.Ethereum, types.OneChain, 600, usd("30.00")).
		Set(types.Ethereum, types.Polygon, 1200, usd("15.00")).
		Set(types.Ethereum, types.BSC, 900, usd("20.00")).
		Set(types.Polygon, types.OneChain, 180, usd("5.00")).
		Set(types.Polygon, types.Ethereum, 1200, usd("15.00")).
		Set(types.Polygon, types.BSC, 600, usd("8.00")).
		Set(types.BSC, types.OneChain, 240, usd("8.00")).
		Set(types.BSC, types.Ethereum, 900, usd("20.00")).
		Set(types.BSC, types.Polygon, 600, usd("8.00"))
}

// Set adds or replaces a route. It must not be called once the table is shared.
func (t *RouteTable) Set(source, target types.ChainID, seconds int64, fee decimal.Decimal) *RouteTable {
	t.routes[routeKey{source: source, target: target}] = routeInfo{seconds: seconds, fee: fee}
	return t
}

// EstimatedTime returns the expected bridge duration in seconds.
func (t *RouteTable) EstimatedTime(source, target types.ChainID) int64 {
	if r, ok := t.routes[routeKey{source: source, target: target}]; ok {
		return r.seconds
	}
	return t.defaultTime
}

// Fee returns the bridge fee in USD.
func (t *RouteTable) Fee(source, target types.ChainID) decimal.Decimal {
	if r, ok := t.routes[routeKey{source: source, target: target}]; ok {
		return r.fee
	}
	return t.defaultFee
}

// Routes enumerates every ordered pair of distinct chains. All chains passed in
// are expected to have a live provider, so each route is supported.
func (t *RouteTable) Routes(chains []types.ChainID) []types.Route {
	routes := make([]types.Route, 0, len(chains)*len(chains))
	for _, source := range chains {
		for _, target := range chains {
			if source == target {
				continue
			}
			routes = append(routes, types.Route{
				SourceChain:   source,
				TargetChain:   target,
				EstimatedTime: t.EstimatedTime(source, target),
				Fee:           t.Fee(source, target),
				Supported:     true,
			})
		}
	}
	return routes
}
