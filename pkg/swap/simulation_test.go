package swap

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"zen-swap/pkg/types"
)

func TestMinReceived(t *testing.T) {
	tests := []struct {
		output   string
		slippage string
		want     string
	}{
		{"100", "0.5", "99.5"},
		{"100", "0", "100"},
		{"100", "100", "0"},
		{"0.0001", "50", "0.00005"},
	}

	for _, tt := range tests {
		got := MinReceived(decimal.RequireFromString(tt.output), decimal.RequireFromString(tt.slippage))
		assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "%s at %s%%: got %s", tt.output, tt.slippage, got)
	}
}

func TestBuildSimulationWithoutPriceImpact(t *testing.T) {
	quote := makeQuote(t, `{"toTokenAmount":"500000000000000000","estimatedGas":"21000","protocols":[[[{"name":"SUSHI","part":100}]]]}`)
	req := types.SwapRequest{FromToken: "ETH", ToToken: "USDT", Amount: "0.5", Slippage: types.DefaultSlippage}
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	result := BuildSimulation(quote, req, at)

	assert.Equal(t, "0.00%", result.PriceImpactDisplay())
	assert.Equal(t, "0.4975", result.MinReceivedDisplay())
	assert.Equal(t, "0.000021 Gwei", result.GasCostDisplay())
	assert.Equal(t, "SUSHI", result.Route)
	assert.Equal(t, "500000000000000000", result.ToTokenAmount.String())
	assert.Equal(t, req, result.Request)
	assert.Equal(t, at, result.QuotedAt)
}
