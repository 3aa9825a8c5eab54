package types

// NativeCurrency describes the chain's gas token
type NativeCurrency struct {
	Name     string `json:"name" mapstructure:"name"`
	Symbol   string `json:"symbol" mapstructure:"symbol"`
	Decimals int    `json:"decimals" mapstructure:"decimals"`
}

// ChainConfig is the descriptor passed to wallet_addEthereumChain
type ChainConfig struct {
	ChainID           string         `json:"chainId" mapstructure:"chain_id"`
	ChainName         string         `json:"chainName" mapstructure:"chain_name"`
	NativeCurrency    NativeCurrency `json:"nativeCurrency" mapstructure:"native_currency"`
	RPCUrls           []string       `json:"rpcUrls" mapstructure:"rpc_urls"`
	BlockExplorerUrls []string       `json:"blockExplorerUrls" mapstructure:"block_explorer_urls"`
}
