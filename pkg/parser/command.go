package parser

import (
	"fmt"
	"regexp"
	"strings"

	"zen-swap/pkg/types"
)

var swapPattern = regexp.MustCompile(`^(\S+)\s+([A-Z0-9]+)\s+TO\s+([A-Z0-9]+)$`)

// ParseSwapCommand parses a natural language swap command
// Examples:
//   - "swap 1 ZTC to ETH"
//   - "1.5 ETH to USDC"
//   - "100 USDT to POL"
//
// The amount is kept exactly as typed; it is not range checked here.
func ParseSwapCommand(command string) (*types.SwapRequest, error) {
	command = strings.TrimSpace(strings.ToUpper(command))
	command = strings.TrimSpace(strings.TrimPrefix(command, "SWAP "))

	matches := swapPattern.FindStringSubmatch(command)
	if matches == nil {
		return nil, fmt.Errorf("invalid swap command format. Expected: 'swap <amount> <token> to <token>' (e.g., 'swap 1 ZTC to ETH')")
	}

	return &types.SwapRequest{
		Amount:    matches[1],
		FromToken: NormalizeTokenSymbol(matches[2]),
		ToToken:   NormalizeTokenSymbol(matches[3]),
		Slippage:  types.DefaultSlippage,
	}, nil
}

// NormalizeTokenSymbol normalizes token symbols to standard format
func NormalizeTokenSymbol(symbol string) string {
	symbol = strings.TrimSpace(strings.ToUpper(symbol))

	aliases := map[string]string{
		"WBTC":  "BTC",
		"WETH":  "ETH",
		"MATIC": "POL",
	}

	if normalized, exists := aliases[symbol]; exists {
		return normalized
	}

	return symbol
}
