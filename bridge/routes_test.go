package bridge

import (
	"testing"

	"github.com/ClipFinance/rwa-bridge/common/types"
	"github.com/stretchr/testify/assert"
)

func TestDefaultRouteTable(t *testing.T) {
	t.Parallel()

	table := DefaultRouteTable()

	tests := []struct {
		source, target types.ChainID
		seconds        int64
		fee            string
	}{
		{types.OneChain, types.Ethereum, 300, "25.00"},
		{types.OneChain, types.Polygon, 180, "5.00"},
		{types.OneChain, types.BSC, 240, "8.00"},
		{types.Ethereum, types.OneChain, 600, "30.00"},
		{types.Ethereum, types.Polygon, 1200, "15.00"},
		{types.Ethereum, types.BSC, 900, "20.00"},
		{types.Polygon, types.OneChain, 180, "5.00"},
		{types.Polygon, types.Ethereum, 1200, "15.00"},
		{types.Polygon, types.BSC, 600, "8.00"},
		{types.BSC, types.OneChain, 240, "8.00"},
		{types.BSC, types.Ethereum, 900, "20.00"},
		{types.BSC, types.Polygon, 600, "8.00"},
		{types.Solana, types.Ethereum, 600, "10.00"},
		{types.Ethereum, types.Solana, 600, "10.00"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.seconds, table.EstimatedTime(tt.source, tt.target), "%s->%s", tt.source, tt.target)
		assert.Equal(t, tt.fee, table.Fee(tt.source, tt.target).StringFixed(2), "%s->%s", tt.source, tt.target)
	}
}

func TestRouteTableRoutes(t *testing.T) {
	t.Parallel()

	table := DefaultRouteTable()

	for n := 0; n <= 5; n++ {
		chains := []types.ChainID{types.BSC, types.Ethereum, types.OneChain, types.Polygon, types.Solana}[:n]
		routes := table.Routes(chains)
		assert.Len(t, routes, n*(n-1), "%d chains", n)
		for _, r := range routes {
			assert.True(t, r.Supported)
			assert.Equal(t, table.EstimatedTime(r.SourceChain, r.TargetChain), r.EstimatedTime)
		}
	}
}
