package history

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zen-swap/pkg/logger"
	"zen-swap/pkg/types"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "history.json")
	store, err := NewStore(path, logger.Discard())
	require.NoError(t, err)
	return store, path
}

func TestNewStoreMissingFile(t *testing.T) {
	store, _ := newTestStore(t)
	assert.Equal(t, 0, store.Count())
	assert.Empty(t, store.Records())
}

func TestAppendKeepsOrderAndDuplicates(t *testing.T) {
	store, _ := newTestStore(t)
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

	records := []types.TransactionRecord{
		{From: "ZTC", To: "ETH", Amount: "1", Date: now.Format(types.TimestampLayout)},
		{From: "ZTC", To: "ETH", Amount: "1", Date: now.Format(types.TimestampLayout)},
		{From: "USDT", To: "POL", Amount: "250.5", Date: now.Add(time.Minute).Format(types.TimestampLayout)},
	}
	for _, r := range records {
		require.NoError(t, store.Append(r))
	}

	assert.Equal(t, records, store.Records())
}

func TestRoundTrip(t *testing.T) {
	store, path := newTestStore(t)
	req := types.SwapRequest{FromToken: "ZTC", ToToken: "USDC", Amount: "0.000001"}

	for i := 0; i < 5; i++ {
		at := time.Date(2026, 1, 1, 0, 0, i, 123456789, time.UTC)
		require.NoError(t, store.Append(types.NewTransactionRecord(req, at)))
	}

	reloaded, err := NewStore(path, logger.Discard())
	require.NoError(t, err)
	assert.Equal(t, store.Records(), reloaded.Records())
}

func TestRecordsReturnsCopy(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.Append(types.TransactionRecord{From: "BTC", To: "ETH", Amount: "2"}))

	records := store.Records()
	records[0].Amount = "999"

	assert.Equal(t, "2", store.Records()[0].Amount)
}

func TestOnDiskLayout(t *testing.T) {
	store, path := newTestStore(t)
	require.NoError(t, store.Append(types.TransactionRecord{From: "ZTC", To: "ETH", Amount: "1", Date: "2026-10-16T12:00:00.000Z"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"transactions":[{"from":"ZTC","to":"ETH","amount":"1","date":"2026-10-16T12:00:00.000Z"}]}`, string(data))
}

func TestNewStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, err := NewStore(path, logger.Discard())
	assert.Error(t, err)
}

func TestAppendFailureLeavesHistory(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(filepath.Join(dir, "sub", "history.json"), logger.Discard())
	require.NoError(t, err)

	// a regular file where the directory should be makes the write fail
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub"), []byte("x"), 0600))

	err = store.Append(types.TransactionRecord{From: "ZTC", To: "ETH", Amount: "1"})
	assert.Error(t, err)
	assert.Equal(t, 0, store.Count())
}
