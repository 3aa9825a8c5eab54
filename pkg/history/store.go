package history

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"zen-swap/pkg/types"
)

// Store owns the persisted swap history. It is read once when created and
// rewritten in full on every append. Two processes sharing the same file
// can lose each other's writes.
type Store struct {
	filePath string
	logger   *logrus.Logger
	mu       sync.RWMutex
	records  []types.TransactionRecord
}

// historyFile is the JSON layout on disk; "transactions" is the slot name
type historyFile struct {
	Transactions []types.TransactionRecord `json:"transactions"`
}

// NewStore loads the history at filePath. A missing file is an empty history.
func NewStore(filePath string, logger *logrus.Logger) (*Store, error) {
	if filePath == "" {
		return nil, errors.New("history file path is required")
	}

	s := &Store{
		filePath: filePath,
		logger:   logger,
		records:  make([]types.TransactionRecord, 0),
	}

	if err := s.load(); err != nil {
		if !os.IsNotExist(errors.Cause(err)) {
			return nil, errors.Wrap(err, "failed to load history")
		}
		logger.WithField("file", filePath).Debug("No history file yet")
	}

	return s, nil
}

func (s *Store) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return err
	}

	var file historyFile
	if err := json.Unmarshal(data, &file); err != nil {
		return errors.Wrap(err, "failed to unmarshal history")
	}

	if file.Transactions != nil {
		s.records = file.Transactions
	}

	return nil
}

// write persists records; the caller holds the lock
func (s *Store) write(records []types.TransactionRecord) error {
	data, err := json.MarshalIndent(historyFile{Transactions: records}, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal history")
	}

	dir := filepath.Dir(s.filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, "failed to create directory")
	}

	// Write to temporary file first, then rename for atomic write
	tempFile := s.filePath + ".tmp"
	if err := os.WriteFile(tempFile, data, 0600); err != nil {
		return errors.Wrap(err, "failed to write history")
	}

	if err := os.Rename(tempFile, s.filePath); err != nil {
		return errors.Wrap(err, "failed to rename temp file")
	}

	return nil
}

// Append adds a record to the end of the history and persists the whole
// sequence. On a write failure the in-memory history is left unchanged.
func (s *Store) Append(record types.TransactionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated := make([]types.TransactionRecord, len(s.records), len(s.records)+1)
	copy(updated, s.records)
	updated = append(updated, record)

	if err := s.write(updated); err != nil {
		return err
	}
	s.records = updated

	s.logger.WithFields(logrus.Fields{
		"from":   record.From,
		"to":     record.To,
		"amount": record.Amount,
		"count":  len(updated),
	}).Debug("Appended swap to history")

	return nil
}

// Records returns a copy of the history in insertion order
func (s *Store) Records() []types.TransactionRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]types.TransactionRecord, len(s.records))
	copy(records, s.records)
	return records
}

// Count returns the number of stored records
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.records)
}

// FilePath returns the history file path
func (s *Store) FilePath() string {
	return s.filePath
}
