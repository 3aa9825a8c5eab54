package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultSlippage is the slippage tolerance in percent used when none is given
var DefaultSlippage = decimal.NewFromFloat(0.5)

// SwapRequest represents the user's current swap inputs
type SwapRequest struct {
	FromToken string
	ToToken   string
	Amount    string
	Slippage  decimal.Decimal
}

// SimulationResult holds a simulated swap built from a quote
type SimulationResult struct {
	PriceImpactPercent decimal.Decimal
	MinReceived        decimal.Decimal
	GasCost            decimal.Decimal // Gwei
	Route              string
	ToTokenAmount      decimal.Decimal // raw, 1e18-scaled
	Request            SwapRequest
	QuotedAt           time.Time
}

// PriceImpactDisplay formats the price impact the way it is shown to users
func (r *SimulationResult) PriceImpactDisplay() string {
	return r.PriceImpactPercent.StringFixed(2) + "%"
}

// MinReceivedDisplay formats the minimum received amount
func (r *SimulationResult) MinReceivedDisplay() string {
	return r.MinReceived.StringFixed(4)
}

// GasCostDisplay formats the gas cost estimate
func (r *SimulationResult) GasCostDisplay() string {
	return r.GasCost.String() + " Gwei"
}

// TransactionRecord is a single entry of the local swap history
type TransactionRecord struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount string `json:"amount"`
	Date   string `json:"date"`
}

// TokenInfo describes a token the user can pick
type TokenInfo struct {
	Symbol  string `json:"symbol" mapstructure:"symbol"`
	Address string `json:"address" mapstructure:"address"`
	Logo    string `json:"logo,omitempty" mapstructure:"logo"`
}

// TimestampLayout is the ISO 8601 layout of TransactionRecord.Date, written
// in UTC with full precision.
const TimestampLayout = time.RFC3339Nano

// NewTransactionRecord builds a history entry for a confirmed request
func NewTransactionRecord(req SwapRequest, at time.Time) TransactionRecord {
	return TransactionRecord{
		From:   req.FromToken,
		To:     req.ToToken,
		Amount: req.Amount,
		Date:   at.UTC().Format(TimestampLayout),
	}
}

// Time parses the record date
func (r TransactionRecord) Time() (time.Time, error) {
	return time.Parse(time.RFC3339Nano, r.Date)
}
