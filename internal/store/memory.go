package store

import (
	"errors"
	"sync"
	"time"

	"github.com/i474232898/playercount-ingestion/internal/playercount"
)

var (
	// ErrNotFound is returned when no player-count data is available.
	ErrNotFound = errors.New("no player count data available")
)

// MemoryStore is a concurrency-safe in-memory view of the persisted hourly
// series, refreshed after each ingestion run so HTTP reads never touch the
// output file.
type MemoryStore struct {
	mu     sync.RWMutex
	series playercount.Series
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Replace swaps in a freshly merged series.
func (s *MemoryStore) Replace(series playercount.Series) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.series = series
}

// Latest returns the most recent sample that carries data, skipping any
// trailing no-data hours.
func (s *MemoryStore) Latest() (playercount.Sample, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := len(s.series) - 1; i >= 0; i-- {
		if s.series[i].Peak != nil {
			return s.series[i], nil
		}
	}
	return playercount.Sample{}, ErrNotFound
}

// Range returns all samples between from and to (inclusive).
func (s *MemoryStore) Range(from, to time.Time) (playercount.Series, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.series) == 0 {
		return nil, ErrNotFound
	}

	var result playercount.Series
	for _, sample := range s.series {
		if (sample.Timestamp.Equal(from) || sample.Timestamp.After(from)) &&
			(sample.Timestamp.Equal(to) || sample.Timestamp.Before(to)) {
			result = append(result, sample)
		}
	}

	if len(result) == 0 {
		return nil, ErrNotFound
	}
	return result, nil
}
