package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zen-swap/pkg/types"
)

func TestParseSwapCommand(t *testing.T) {
	tests := []struct {
		name    string
		command string
		amount  string
		from    string
		to      string
	}{
		{"with swap prefix", "swap 1 ZTC to ETH", "1", "ZTC", "ETH"},
		{"lower case", "1.5 eth to usdc", "1.5", "ETH", "USDC"},
		{"alias", "100 WETH to MATIC", "100", "ETH", "POL"},
		{"extra spaces", "  swap   0.25   usdt   to   btc ", "0.25", "USDT", "BTC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := ParseSwapCommand(tt.command)
			require.NoError(t, err)
			assert.Equal(t, tt.amount, req.Amount)
			assert.Equal(t, tt.from, req.FromToken)
			assert.Equal(t, tt.to, req.ToToken)
			assert.True(t, req.Slippage.Equal(types.DefaultSlippage))
		})
	}
}

func TestParseSwapCommandInvalid(t *testing.T) {
	for _, command := range []string{"", "swap ZTC", "1 ZTC ETH", "1 ZTC into ETH"} {
		_, err := ParseSwapCommand(command)
		assert.Error(t, err, command)
	}
}
