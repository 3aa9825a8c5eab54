package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultChain(t *testing.T) {
	chain := DefaultChain()
	assert.Equal(t, "0x20D8", chain.ChainID)
	assert.Equal(t, "ZenChain Testnet", chain.ChainName)
	assert.Equal(t, 18, chain.NativeCurrency.Decimals)
}

func TestFromViperDefaults(t *testing.T) {
	v := viper.New()
	v.Set("quote_base_url", "https://quote.example/")
	v.Set("quote_timeout", 3*time.Second)
	v.Set("default_slippage", "1")
	v.Set("history_file", filepath.Join(t.TempDir(), "history.json"))

	cfg, err := FromViper(v)
	require.NoError(t, err)

	assert.Equal(t, "https://quote.example", cfg.QuoteBaseURL)
	assert.Equal(t, 3*time.Second, cfg.QuoteTimeout)
	assert.Equal(t, "1", cfg.DefaultSlippage.String())
	assert.Len(t, cfg.Tokens, len(DefaultTokens))
	assert.Equal(t, DefaultChain(), cfg.Chain)
}

func TestFromViperOverrides(t *testing.T) {
	v := viper.New()
	v.Set("quote_base_url", "https://quote.example")
	v.Set("default_slippage", "0.5")
	v.Set("history_file", "history.json")
	v.Set("tokens", map[string]string{
		"ztc": "0x0000000000000000000000000000000000000801",
		"dai": "0x6B175474E89094C44Da98b954EedeAC495271d0F",
	})
	v.Set("chain", map[string]interface{}{"chain_name": "ZenChain Local"})

	cfg, err := FromViper(v)
	require.NoError(t, err)

	assert.Equal(t, "ZenChain Local", cfg.Chain.ChainName)
	assert.Equal(t, "0x20D8", cfg.Chain.ChainID)

	assert.Equal(t, "ZTC", cfg.Tokens[0].Symbol)
	assert.Equal(t, "0x0000000000000000000000000000000000000801", cfg.Tokens[0].Address)
	last := cfg.Tokens[len(cfg.Tokens)-1]
	assert.Equal(t, "DAI", last.Symbol)
}

func TestFromViperInvalid(t *testing.T) {
	v := viper.New()
	v.Set("quote_base_url", "https://quote.example")
	v.Set("default_slippage", "lots")
	v.Set("history_file", "history.json")

	_, err := FromViper(v)
	assert.Error(t, err)

	v.Set("default_slippage", "0.5")
	v.Set("tokens", map[string]string{"eth": "not-an-address"})
	_, err = FromViper(v)
	assert.Error(t, err)
}
