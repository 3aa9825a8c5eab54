package client

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"zen-swap/pkg/types"
)

// AmountDecimals is the fixed scale applied to amounts sent to and received
// from the quote service.
const AmountDecimals = 18

// RouteHop is one market used by a route
type RouteHop struct {
	Name             string          `json:"name"`
	Part             decimal.Decimal `json:"part"`
	FromTokenAddress string          `json:"fromTokenAddress"`
	ToTokenAddress   string          `json:"toTokenAddress"`
}

// QuoteResponse is the subset of the aggregator quote consumed here.
// Protocols is routes -> steps -> hops.
type QuoteResponse struct {
	FromTokenAmount      decimal.NullDecimal `json:"fromTokenAmount"`
	ToTokenAmount        decimal.NullDecimal `json:"toTokenAmount"`
	EstimatedGas         decimal.NullDecimal `json:"estimatedGas"`
	EstimatedPriceImpact decimal.NullDecimal `json:"estimatedPriceImpact"`
	Protocols            [][][]RouteHop      `json:"protocols"`
}

// Validate checks that every field the simulation needs is present
func (q *QuoteResponse) Validate() error {
	if !q.ToTokenAmount.Valid {
		return errors.Wrap(types.ErrUnexpectedQuoteShape, "missing toTokenAmount")
	}
	if q.ToTokenAmount.Decimal.IsNegative() {
		return errors.Wrapf(types.ErrUnexpectedQuoteShape, "negative toTokenAmount %s", q.ToTokenAmount.Decimal)
	}
	if !q.EstimatedGas.Valid {
		return errors.Wrap(types.ErrUnexpectedQuoteShape, "missing estimatedGas")
	}
	if len(q.Protocols) == 0 || len(q.Protocols[0]) == 0 || len(q.Protocols[0][0]) == 0 {
		return errors.Wrap(types.ErrUnexpectedQuoteShape, "empty protocols")
	}
	if q.Protocols[0][0][0].Name == "" {
		return errors.Wrap(types.ErrUnexpectedQuoteShape, "first route hop has no name")
	}
	return nil
}

// RouteName returns the label of the first hop of the first route
func (q *QuoteResponse) RouteName() string {
	return q.Protocols[0][0][0].Name
}

// PriceImpact returns the estimated price impact as a fraction; zero when the
// service does not report one.
func (q *QuoteResponse) PriceImpact() decimal.Decimal {
	if !q.EstimatedPriceImpact.Valid {
		return decimal.Zero
	}
	return q.EstimatedPriceImpact.Decimal
}

// apiError is the error body returned by the aggregator
type apiError struct {
	StatusCode  int    `json:"statusCode"`
	Error       string `json:"error"`
	Description string `json:"description"`
	Message     string `json:"message"`
}

// QuoteClient requests quotes from the aggregator HTTP API
type QuoteClient struct {
	http   *resty.Client
	tokens map[string]string
	logger *logrus.Logger
}

// NewQuoteClient creates a new quote API client. tokens maps symbols to
// contract addresses.
func NewQuoteClient(baseURL string, timeout time.Duration, tokens []types.TokenInfo, logger *logrus.Logger) *QuoteClient {
	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Accept", "application/json")
	if timeout > 0 {
		httpClient.SetTimeout(timeout)
	}

	addresses := make(map[string]string, len(tokens))
	for _, token := range tokens {
		addresses[strings.ToUpper(token.Symbol)] = token.Address
	}

	return &QuoteClient{
		http:   httpClient,
		tokens: addresses,
		logger: logger,
	}
}

// TokenAddress resolves a symbol to the address sent to the API. Unknown
// symbols, and tokens without an address, are forwarded as given.
func (c *QuoteClient) TokenAddress(symbol string) string {
	if address := c.tokens[strings.ToUpper(symbol)]; address != "" {
		return address
	}
	return symbol
}

// ScaleAmount converts a human amount to the 1e18-scaled integer string
func ScaleAmount(amount string) (string, error) {
	value, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return "", errors.Wrapf(err, "invalid amount %q", amount)
	}
	return value.Shift(AmountDecimals).BigInt().String(), nil
}

// GetQuote performs exactly one quote request for req. Every failure wraps
// types.ErrQuoteRequestFailed.
func (c *QuoteClient) GetQuote(ctx context.Context, req types.SwapRequest) (*QuoteResponse, error) {
	if strings.TrimSpace(req.Amount) == "" {
		return nil, types.ErrMissingAmount
	}

	amount, err := ScaleAmount(req.Amount)
	if err != nil {
		return nil, types.QuoteFailed(err)
	}

	params := map[string]string{
		"fromTokenAddress": c.TokenAddress(req.FromToken),
		"toTokenAddress":   c.TokenAddress(req.ToToken),
		"amount":           amount,
	}

	log := c.logger.WithFields(logrus.Fields{
		"from":   req.FromToken,
		"to":     req.ToToken,
		"amount": amount,
	})
	log.Debug("Requesting quote")

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get("/quote")
	if err != nil {
		log.WithError(err).Warn("Quote request failed")
		return nil, types.QuoteFailed(errors.Wrap(err, "failed to get quote from API"))
	}

	if resp.IsError() {
		msg := describeError(resp.Body())
		log.WithField("status", resp.StatusCode()).Warn("Quote API returned an error")
		return nil, types.QuoteFailed(errors.Errorf("API error (status %d): %s", resp.StatusCode(), msg))
	}

	var quote QuoteResponse
	if err := json.Unmarshal(resp.Body(), &quote); err != nil {
		return nil, types.QuoteFailed(errors.Wrap(err, "failed to decode quote"))
	}

	if err := quote.Validate(); err != nil {
		log.WithError(err).Warn("Quote response rejected")
		return nil, types.QuoteFailed(err)
	}

	log.WithFields(logrus.Fields{
		"to_amount": quote.ToTokenAmount.Decimal.String(),
		"gas":       quote.EstimatedGas.Decimal.String(),
		"route":     quote.RouteName(),
	}).Debug("Quote received")

	return &quote, nil
}

// describeError extracts a readable message from an error body
func describeError(body []byte) string {
	if len(body) == 0 {
		return "empty response"
	}

	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err == nil {
		switch {
		case apiErr.Description != "":
			return apiErr.Description
		case apiErr.Message != "":
			return apiErr.Message
		case apiErr.Error != "":
			return apiErr.Error
		}
	}

	return string(body)
}
