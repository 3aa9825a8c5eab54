package swap

import (
	"time"

	"github.com/shopspring/decimal"

	"zen-swap/pkg/client"
	"zen-swap/pkg/types"
)

const gweiDecimals = 9

var hundred = decimal.NewFromInt(100)

// MinReceived applies the slippage tolerance (percent) to a quoted output
func MinReceived(output, slippage decimal.Decimal) decimal.Decimal {
	return output.Mul(decimal.NewFromInt(1).Sub(slippage.Div(hundred)))
}

// BuildSimulation turns a validated quote into the result shown to the user.
// Everything is derived from the raw quote, never from an earlier result.
func BuildSimulation(quote *client.QuoteResponse, req types.SwapRequest, at time.Time) types.SimulationResult {
	raw := quote.ToTokenAmount.Decimal
	output := raw.Shift(-client.AmountDecimals)

	return types.SimulationResult{
		PriceImpactPercent: quote.PriceImpact().Mul(hundred),
		MinReceived:        MinReceived(output, req.Slippage),
		GasCost:            quote.EstimatedGas.Decimal.Shift(-gweiDecimals),
		Route:              quote.RouteName(),
		ToTokenAmount:      raw,
		Request:            req,
		QuotedAt:           at,
	}
}
