package storage

import (
	"encoding/json"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Storage keys
const (
	keyOptions = "options"
	keyStats   = "stats"
)

// EngineOptions stores the configurable engine settings persisted
// between runs.
type EngineOptions struct {
	HashMB       int           `json:"hash_mb"`
	MoveOverhead time.Duration `json:"move_overhead"`
	LastUsed     time.Time     `json:"last_used"`
}

// DefaultOptions returns the default engine options.
func DefaultOptions() *EngineOptions {
	return &EngineOptions{
		HashMB:       64,
		MoveOverhead: 30 * time.Millisecond,
		LastUsed:     time.Now(),
	}
}

// SearchStats accumulates search statistics across engine runs.
type SearchStats struct {
	Searches    int           `json:"searches"`
	TotalNodes  uint64        `json:"total_nodes"`
	DeepestLine int           `json:"deepest_line"`
	TotalTime   time.Duration `json:"total_time"`
}

// Record folds one finished search into the statistics.
func (st *SearchStats) Record(depth int, nodes uint64, elapsed time.Duration) {
	st.Searches++
	st.TotalNodes += nodes
	st.TotalTime += elapsed
	if depth > st.DeepestLine {
		st.DeepestLine = depth
	}
}

// NPS returns the average nodes per second across all recorded
// searches.
func (st *SearchStats) NPS() float64 {
	if st.TotalTime <= 0 {
		return 0
	}
	return float64(st.TotalNodes) / st.TotalTime.Seconds()
}

// Storage wraps BadgerDB for persistent engine state.
type Storage struct {
	db *badger.DB
}

// Open opens (or creates) a database at the given directory.
func Open(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Storage{db: db}, nil
}

// OpenDefault opens the database in the platform data directory.
func OpenDefault() (*Storage, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}
	return Open(dbDir)
}

// Close closes the database.
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveOptions saves the engine options.
func (s *Storage) SaveOptions(opts *EngineOptions) error {
	opts.LastUsed = time.Now()

	data, err := json.Marshal(opts)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyOptions), data)
	})
}

// LoadOptions loads the engine options, returning defaults when none
// were saved yet.
func (s *Storage) LoadOptions() (*EngineOptions, error) {
	opts := DefaultOptions()

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyOptions))
		if err == badger.ErrKeyNotFound {
			return nil // Use defaults
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, opts)
		})
	})

	return opts, err
}

// SaveStats saves the accumulated search statistics.
func (s *Storage) SaveStats(stats *SearchStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyStats), data)
	})
}

// LoadStats loads the accumulated search statistics, returning empty
// statistics when none were saved yet.
func (s *Storage) LoadStats() (*SearchStats, error) {
	stats := &SearchStats{}

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyStats))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, stats)
		})
	})

	return stats, err
}
