package wallet

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zen-swap/pkg/logger"
	"zen-swap/pkg/types"
)

type rpcError struct {
	code int
	msg  string
}

func (e *rpcError) Error() string  { return e.msg }
func (e *rpcError) ErrorCode() int { return e.code }

type fakeProvider struct {
	mu       sync.Mutex
	results  map[string]interface{}
	failures map[string]error
	calls    []string
	params   map[string][]interface{}
	closed   bool
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		results:  make(map[string]interface{}),
		failures: make(map[string]error),
		params:   make(map[string][]interface{}),
	}
}

func (p *fakeProvider) CallContext(ctx context.Context, result interface{}, method string, args ...interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.calls = append(p.calls, method)
	p.params[method] = args

	if err := p.failures[method]; err != nil {
		return err
	}
	if result == nil {
		return nil
	}
	data, err := json.Marshal(p.results[method])
	if err != nil {
		return err
	}
	return json.Unmarshal(data, result)
}

func (p *fakeProvider) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
}

func dialerFor(p Provider) Dialer {
	return func(ctx context.Context, rawURL string) (Provider, error) {
		return p, nil
	}
}

const testAccount = "0x71C7656EC7ab88b098defB751B7401B5f6d8976F"

func testChain() types.ChainConfig {
	return types.ChainConfig{
		ChainID:        "0x20D8",
		ChainName:      "ZenChain Testnet",
		NativeCurrency: types.NativeCurrency{Name: "ZTC", Symbol: "ZTC", Decimals: 18},
		RPCUrls:        []string{"https://zenchain-testnet.api.onfinality.io/public"},
	}
}

func TestConnect(t *testing.T) {
	p := newFakeProvider()
	p.results[methodAccounts] = []string{testAccount}
	c := NewConnector("http://wallet", testChain(), dialerFor(p), logger.Discard())

	account, err := c.Connect(context.Background())
	require.NoError(t, err)

	assert.Equal(t, common.HexToAddress(testAccount), account)
	assert.Equal(t, []string{methodRequestAccounts, methodAddEthereumChain, methodAccounts}, p.calls)
	require.Len(t, p.params[methodAddEthereumChain], 1)
	assert.Equal(t, testChain(), p.params[methodAddEthereumChain][0])

	got, ok := c.Account()
	assert.True(t, ok)
	assert.Equal(t, account, got)

	signer, err := c.Signer()
	require.NoError(t, err)
	assert.Equal(t, account, signer.Address())
}

func TestConnectIsRepeatable(t *testing.T) {
	p := newFakeProvider()
	p.results[methodAccounts] = []string{testAccount}
	c := NewConnector("http://wallet", testChain(), dialerFor(p), logger.Discard())

	first, err := c.Connect(context.Background())
	require.NoError(t, err)
	second, err := c.Connect(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, p.calls, 6)
}

func TestConnectRejected(t *testing.T) {
	for _, method := range []string{methodRequestAccounts, methodAddEthereumChain} {
		t.Run(method, func(t *testing.T) {
			p := newFakeProvider()
			p.results[methodAccounts] = []string{testAccount}
			p.failures[method] = &rpcError{code: 4001, msg: "User rejected the request."}
			c := NewConnector("http://wallet", testChain(), dialerFor(p), logger.Discard())

			_, err := c.Connect(context.Background())
			require.Error(t, err)
			assert.True(t, errors.Is(err, types.ErrWalletRequestRejected))
			assert.Contains(t, err.Error(), "User rejected the request.")

			_, ok := c.Account()
			assert.False(t, ok)
		})
	}
}

func TestConnectTransportFailure(t *testing.T) {
	p := newFakeProvider()
	p.failures[methodRequestAccounts] = errors.New("connection refused")
	c := NewConnector("http://wallet", testChain(), dialerFor(p), logger.Discard())

	_, err := c.Connect(context.Background())
	assert.True(t, errors.Is(err, types.ErrWalletUnavailable))
}

func TestConnectNoAccounts(t *testing.T) {
	p := newFakeProvider()
	p.results[methodAccounts] = []string{}
	c := NewConnector("http://wallet", testChain(), dialerFor(p), logger.Discard())

	_, err := c.Connect(context.Background())
	assert.True(t, errors.Is(err, types.ErrWalletRequestRejected))
}

func TestWalletUnavailable(t *testing.T) {
	c := NewConnector("", testChain(), nil, logger.Discard())
	_, err := c.Connect(context.Background())
	assert.True(t, errors.Is(err, types.ErrWalletUnavailable))

	failing := func(ctx context.Context, rawURL string) (Provider, error) {
		return nil, errors.New("no such host")
	}
	c = NewConnector("http://wallet", testChain(), failing, logger.Discard())
	_, _, err = c.CheckConnection(context.Background())
	assert.True(t, errors.Is(err, types.ErrWalletUnavailable))
}

func TestCheckConnection(t *testing.T) {
	p := newFakeProvider()
	c := NewConnector("http://wallet", testChain(), dialerFor(p), logger.Discard())

	_, ok, err := c.CheckConnection(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, []string{methodAccounts}, p.calls)

	p.results[methodAccounts] = []string{testAccount}
	account, ok, err := c.CheckConnection(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, common.HexToAddress(testAccount), account)
}

func TestSignerUnavailable(t *testing.T) {
	p := newFakeProvider()
	c := NewConnector("http://wallet", testChain(), dialerFor(p), logger.Discard())

	_, err := c.Signer()
	assert.True(t, errors.Is(err, types.ErrSigningUnavailable))

	_, _, err = c.CheckConnection(context.Background())
	require.NoError(t, err)
	_, err = c.Signer()
	assert.True(t, errors.Is(err, types.ErrSigningUnavailable))
}

func TestChainID(t *testing.T) {
	p := newFakeProvider()
	p.results[methodChainID] = "0x20d8"
	c := NewConnector("http://wallet", testChain(), dialerFor(p), logger.Discard())

	id, err := c.ChainID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(8408), id.Int64())
}

func TestClose(t *testing.T) {
	p := newFakeProvider()
	c := NewConnector("http://wallet", testChain(), dialerFor(p), logger.Discard())
	_, _, err := c.CheckConnection(context.Background())
	require.NoError(t, err)

	c.Close()
	assert.True(t, p.closed)
}
