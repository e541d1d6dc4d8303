package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"github.com/hailam/chesscore/internal/engine"
)

// Storage keys
const (
	keyOptions     = "options"
	keyStats       = "stats"
	keyFirstLaunch = "first_launch"
)

// SearchStats accumulates statistics over completed searches.
type SearchStats struct {
	Searches   int           `json:"searches"`
	TotalNodes uint64        `json:"total_nodes"`
	TotalTime  time.Duration `json:"total_time"`
	MaxDepth   int           `json:"max_depth"`
	Mates      int           `json:"mates"`
	LastSearch time.Time     `json:"last_search"`
}

// NodesPerSecond returns the average search speed.
func (s *SearchStats) NodesPerSecond() uint64 {
	ms := s.TotalTime.Milliseconds()
	if ms <= 0 {
		return 0
	}
	return s.TotalNodes * 1000 / uint64(ms)
}

// Store wraps BadgerDB for persistent engine state.
type Store struct {
	db  *badger.DB
	log zerolog.Logger
}

// Open opens or creates the database in dir.
func Open(dir string, log zerolog.Logger) (*Store, error) {
	return open(badger.DefaultOptions(dir), log)
}

// OpenInMemory opens a database that lives only as long as the Store.
func OpenInMemory(log zerolog.Logger) (*Store, error) {
	return open(badger.DefaultOptions("").WithInMemory(true), log)
}

func open(opts badger.Options, log zerolog.Logger) (*Store, error) {
	log = log.With().Str("component", "storage").Logger()
	opts.Logger = badgerLogger{log}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", opts.Dir, err)
	}
	return &Store{db: db, log: log}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// IsFirstLaunch returns true until MarkFirstLaunchComplete is called.
func (s *Store) IsFirstLaunch() (bool, error) {
	first := true
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(keyFirstLaunch))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		first = false
		return nil
	})
	return first, err
}

// MarkFirstLaunchComplete records that the engine ran before.
func (s *Store) MarkFirstLaunchComplete() error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyFirstLaunch), []byte("done"))
	})
}

func (s *Store) put(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// get decodes key into v and reports whether it was present.
func (s *Store) get(key string, v any) (bool, error) {
	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
	if err != nil {
		return false, fmt.Errorf("load %s: %w", key, err)
	}
	return found, nil
}

// SaveOptions persists the engine options.
func (s *Store) SaveOptions(opts engine.Options) error {
	if err := s.put(keyOptions, opts); err != nil {
		return err
	}
	s.log.Debug().Int("hash", opts.Hash).Int("threads", opts.Threads).Msg("options saved")
	return nil
}

// LoadOptions returns the persisted options clamped to their ranges, or
// the defaults with false when none were saved.
func (s *Store) LoadOptions() (engine.Options, bool, error) {
	opts := engine.DefaultOptions()
	found, err := s.get(keyOptions, &opts)
	if err != nil {
		return engine.DefaultOptions(), false, err
	}
	opts.Clamp()
	return opts, found, nil
}

// LoadStats returns the accumulated statistics, empty when none exist.
func (s *Store) LoadStats() (*SearchStats, error) {
	stats := &SearchStats{}
	if _, err := s.get(keyStats, stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// RecordSearch adds a completed search to the statistics.
func (s *Store) RecordSearch(res engine.Result) error {
	stats, err := s.LoadStats()
	if err != nil {
		return err
	}

	stats.Searches++
	stats.TotalNodes += res.Nodes
	stats.TotalTime += res.Elapsed
	stats.MaxDepth = max(stats.MaxDepth, res.Depth)
	if engine.IsMateScore(res.Score) {
		stats.Mates++
	}
	stats.LastSearch = time.Now()

	return s.put(keyStats, stats)
}

// badgerLogger routes badger's log output through zerolog.
type badgerLogger struct {
	log zerolog.Logger
}

func (l badgerLogger) Errorf(format string, args ...any) {
	l.log.Error().Msgf(format, args...)
}

func (l badgerLogger) Warningf(format string, args ...any) {
	l.log.Warn().Msgf(format, args...)
}

func (l badgerLogger) Infof(format string, args ...any) {
	l.log.Debug().Msgf(format, args...)
}

func (l badgerLogger) Debugf(format string, args ...any) {
	l.log.Trace().Msgf(format, args...)
}
