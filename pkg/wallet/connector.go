package wallet

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"zen-swap/pkg/types"
)

const (
	methodAccounts         = "eth_accounts"
	methodRequestAccounts  = "eth_requestAccounts"
	methodAddEthereumChain = "wallet_addEthereumChain"
	methodChainID          = "eth_chainId"
)

// Provider is the wallet's JSON-RPC surface. *rpc.Client satisfies it.
type Provider interface {
	CallContext(ctx context.Context, result interface{}, method string, args ...interface{}) error
	Close()
}

// Dialer opens a Provider for a wallet endpoint
type Dialer func(ctx context.Context, rawURL string) (Provider, error)

// DialRPC dials a wallet JSON-RPC endpoint with go-ethereum's rpc client
func DialRPC(ctx context.Context, rawURL string) (Provider, error) {
	client, err := rpc.DialContext(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// Connector obtains an account from an external wallet and registers the
// target chain with it. It never holds keys.
type Connector struct {
	rpcURL string
	chain  types.ChainConfig
	dial   Dialer
	logger *logrus.Logger

	mu       sync.RWMutex
	provider Provider
	account  common.Address
	hasAcct  bool
}

// NewConnector creates a connector for the wallet at rpcURL
func NewConnector(rpcURL string, chain types.ChainConfig, dial Dialer, logger *logrus.Logger) *Connector {
	if dial == nil {
		dial = DialRPC
	}
	return &Connector{
		rpcURL: rpcURL,
		chain:  chain,
		dial:   dial,
		logger: logger,
	}
}

// Chain returns the chain descriptor registered on connect
func (c *Connector) Chain() types.ChainConfig {
	return c.chain
}

// getProvider dials the wallet on first use
func (c *Connector) getProvider(ctx context.Context) (Provider, error) {
	c.mu.RLock()
	provider := c.provider
	c.mu.RUnlock()
	if provider != nil {
		return provider, nil
	}

	if c.rpcURL == "" {
		return nil, errors.Wrap(types.ErrWalletUnavailable, "no wallet endpoint configured")
	}

	provider, err := c.dial(ctx, c.rpcURL)
	if err != nil {
		return nil, types.WithKind(types.ErrWalletUnavailable, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.provider != nil {
		provider.Close()
		return c.provider, nil
	}
	c.provider = provider
	return provider, nil
}

// call classifies failures: JSON-RPC errors returned by the wallet are
// rejections, anything else means the wallet could not be reached.
func (c *Connector) call(ctx context.Context, result interface{}, method string, args ...interface{}) error {
	provider, err := c.getProvider(ctx)
	if err != nil {
		return err
	}

	err = provider.CallContext(ctx, result, method, args...)
	if err == nil {
		return nil
	}

	log := c.logger.WithField("method", method).WithError(err)
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		log.WithField("code", rpcErr.ErrorCode()).Warn("Wallet rejected request")
		return types.WithKind(types.ErrWalletRequestRejected, err)
	}
	log.Warn("Wallet request failed")
	return types.WithKind(types.ErrWalletUnavailable, err)
}

// CheckConnection queries the already authorized accounts without
// prompting the user, and records the first one if present.
func (c *Connector) CheckConnection(ctx context.Context) (common.Address, bool, error) {
	var accounts []common.Address
	if err := c.call(ctx, &accounts, methodAccounts); err != nil {
		return common.Address{}, false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if len(accounts) == 0 {
		return common.Address{}, false, nil
	}

	c.account = accounts[0]
	c.hasAcct = true
	return c.account, true, nil
}

// Connect requests account access, then asks the wallet to add the chain,
// then reads the account list. Any rejection fails the whole operation.
func (c *Connector) Connect(ctx context.Context) (common.Address, error) {
	if err := c.call(ctx, nil, methodRequestAccounts); err != nil {
		return common.Address{}, err
	}

	if err := c.call(ctx, nil, methodAddEthereumChain, c.chain); err != nil {
		return common.Address{}, err
	}

	account, ok, err := c.CheckConnection(ctx)
	if err != nil {
		return common.Address{}, err
	}
	if !ok {
		return common.Address{}, errors.Wrap(types.ErrWalletRequestRejected, "wallet returned no accounts")
	}

	c.logger.WithFields(logrus.Fields{
		"account": account.Hex(),
		"chain":   c.chain.ChainName,
	}).Info("Wallet connected")

	return account, nil
}

// Account returns the connected account, if any
func (c *Connector) Account() (common.Address, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.account, c.hasAcct
}

// ChainID returns the chain the wallet is currently on
func (c *Connector) ChainID(ctx context.Context) (*big.Int, error) {
	var id hexutil.Big
	if err := c.call(ctx, &id, methodChainID); err != nil {
		return nil, err
	}
	return id.ToInt(), nil
}

// Signer returns a handle for the connected account
func (c *Connector) Signer() (*Signer, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.provider == nil {
		return nil, errors.Wrap(types.ErrSigningUnavailable, "wallet provider not connected")
	}
	if !c.hasAcct {
		return nil, errors.Wrap(types.ErrSigningUnavailable, "no connected account")
	}

	return &Signer{address: c.account}, nil
}

// Close releases the provider connection
func (c *Connector) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.provider != nil {
		c.provider.Close()
		c.provider = nil
	}
}

// Signer identifies the account that would sign a swap
type Signer struct {
	address common.Address
}

// Address returns the signer's address
func (s *Signer) Address() common.Address {
	return s.address
}
