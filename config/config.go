package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"zen-swap/pkg/types"
)

const (
	DefaultQuoteBaseURL    = "https://api.1inch.io/v5.0/1"
	DefaultWalletRPCURL    = "http://127.0.0.1:1248"
	DefaultHistoryFileName = ".zen-swap-history.json"
	DefaultQuoteTimeout    = 15 * time.Second

	// ZenChainTestnetID is 0x20D8
	ZenChainTestnetID = 8408
)

// DefaultTokens is the selectable token list. Tokens without an address are
// forwarded to the quote service by symbol.
var DefaultTokens = []types.TokenInfo{
	{Symbol: "ZTC", Logo: "/assets/ztc-logo.png"},
	{Symbol: "BTC", Address: "0x2260FAC5E5542a773Aa44fBCfeDf7C193bc2C599", Logo: "/assets/btc-logo.png"},
	{Symbol: "ETH", Address: "0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE", Logo: "/assets/eth-logo.png"},
	{Symbol: "USDT", Address: "0xdAC17F958D2ee523a2206206994597C13D831ec7", Logo: "/assets/usdt-logo.png"},
	{Symbol: "USDC", Address: "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", Logo: "/assets/usdc-logo.png"},
	{Symbol: "POL", Address: "0x455e53CBB86018Ac2B8092FdCd39d8444aFFC3F6", Logo: "/assets/pol-logo.png"},
}

// Config holds the application configuration
type Config struct {
	QuoteBaseURL    string
	QuoteTimeout    time.Duration
	WalletRPCURL    string
	HistoryFile     string
	DefaultSlippage decimal.Decimal
	LogLevel        string
	LogFormat       string
	Chain           types.ChainConfig
	Tokens          []types.TokenInfo
}

// DefaultChain returns the ZenChain Testnet descriptor
func DefaultChain() types.ChainConfig {
	return types.ChainConfig{
		ChainID:   fmt.Sprintf("0x%X", ZenChainTestnetID),
		ChainName: "ZenChain Testnet",
		NativeCurrency: types.NativeCurrency{
			Name:     "ZTC",
			Symbol:   "ZTC",
			Decimals: 18,
		},
		RPCUrls:           []string{"https://zenchain-testnet.api.onfinality.io/public"},
		BlockExplorerUrls: []string{"https://explorer.zenchain.io"},
	}
}

// Load reads configuration from environment variables and config file
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".zen-swap")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME")
	v.AddConfigPath(".")

	v.SetDefault("quote_base_url", DefaultQuoteBaseURL)
	v.SetDefault("quote_timeout", DefaultQuoteTimeout)
	v.SetDefault("wallet_rpc_url", DefaultWalletRPCURL)
	v.SetDefault("default_slippage", types.DefaultSlippage.String())
	v.SetDefault("log_level", "warn")
	v.SetDefault("log_format", "text")

	v.SetEnvPrefix("ZEN_SWAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return FromViper(v)
}

// FromViper builds a Config from an already populated viper instance
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		QuoteBaseURL: strings.TrimRight(v.GetString("quote_base_url"), "/"),
		QuoteTimeout: v.GetDuration("quote_timeout"),
		WalletRPCURL: v.GetString("wallet_rpc_url"),
		HistoryFile:  v.GetString("history_file"),
		LogLevel:     v.GetString("log_level"),
		LogFormat:    v.GetString("log_format"),
		Chain:        DefaultChain(),
	}

	if cfg.QuoteBaseURL == "" {
		return nil, fmt.Errorf("quote base URL not set. Please set ZEN_SWAP_QUOTE_BASE_URL or quote_base_url in .zen-swap.yaml")
	}

	slippage, err := decimal.NewFromString(v.GetString("default_slippage"))
	if err != nil {
		return nil, fmt.Errorf("invalid default_slippage: %w", err)
	}
	cfg.DefaultSlippage = slippage

	if cfg.HistoryFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		cfg.HistoryFile = filepath.Join(home, DefaultHistoryFileName)
	}

	if v.IsSet("chain") {
		if err := v.UnmarshalKey("chain", &cfg.Chain); err != nil {
			return nil, fmt.Errorf("invalid chain configuration: %w", err)
		}
	}

	tokens, err := resolveTokens(v.GetStringMapString("tokens"))
	if err != nil {
		return nil, err
	}
	cfg.Tokens = tokens

	return cfg, nil
}

// resolveTokens applies address overrides on top of DefaultTokens. Symbols
// not in the default list are appended.
func resolveTokens(overrides map[string]string) ([]types.TokenInfo, error) {
	tokens := make([]types.TokenInfo, len(DefaultTokens))
	copy(tokens, DefaultTokens)

	index := make(map[string]int, len(tokens))
	for i, token := range tokens {
		index[token.Symbol] = i
	}

	symbols := make([]string, 0, len(overrides))
	for symbol := range overrides {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	for _, symbol := range symbols {
		address := overrides[symbol]
		symbol = strings.ToUpper(symbol)
		if address != "" && !common.IsHexAddress(address) {
			return nil, fmt.Errorf("invalid address for token %s: %s", symbol, address)
		}
		if i, ok := index[symbol]; ok {
			tokens[i].Address = address
			continue
		}
		tokens = append(tokens, types.TokenInfo{Symbol: symbol, Address: address})
	}

	return tokens, nil
}
