// Package session holds the editing state of one word cloud and keeps it
// persisted.
//
// A [Session] owns the roster, the layout settings and the seed. Every
// mutation saves a record to a [Store] and schedules a debounced layout
// pass through a [schedule.Debouncer]. Storage backends:
//   - memory: in-process map for tests and the server's scratch sessions
//   - file: JSON files under ~/.config/wordcloud/sessions/
//   - redis: shared storage for multi-instance servers
//   - mongo: document storage, one document per session key
//
// # Usage
//
//	store, err := session.NewFileStore("")
//	if err != nil {
//	    return err
//	}
//	s, err := session.New(ctx, session.DefaultKey, store, runner,
//	    session.WithOnLayout(func(res layout.Result) { redraw(res) }))
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//
//	s.ImportCSV(csvText)
//	s.ToggleHighlight("Alice")
//	res, err := s.RequestLayout(ctx)
package session

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/matzehuels/wordcloud/pkg/errors"
)

// DefaultKey is the record key used by single-user front ends.
const DefaultKey = "wordCloudData"

// Store persists session records as opaque bytes.
type Store interface {
	// Get returns the record for key. A missing record is reported as
	// found == false with a nil error.
	Get(ctx context.Context, key string) (data []byte, found bool, err error)

	// Set stores a record, replacing any previous one.
	Set(ctx context.Context, key string, data []byte) error

	// Delete removes a record. Deleting a missing record is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error

	// Backend names the storage backend for logs and hooks.
	Backend() string
}

// MemoryStore keeps records in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string][]byte
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string][]byte)}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.records[key]
	if !ok {
		return nil, false, nil
	}
	return slices.Clone(data), true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, data []byte) error {
	if err := errors.ValidateStoreKey(key); err != nil {
		return err
	}
	s.mu.Lock()
	s.records[key] = slices.Clone(data)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.records, key)
	s.mu.Unlock()
	return nil
}

// Keys returns the stored keys in sorted order.
func (s *MemoryStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.records))
}

func (s *MemoryStore) Close() error    { return nil }
func (s *MemoryStore) Backend() string { return "memory" }

var _ Store = (*MemoryStore)(nil)
