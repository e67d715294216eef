package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/techjobs/backend/internal/config"
)

// fakeStore is an in-memory stand-in for the durable key-value repository.
type fakeStore struct {
	mu      sync.Mutex
	records map[string][]byte
	saves   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: map[string][]byte{}}
}

func (f *fakeStore) Save(_ context.Context, name string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[name] = append([]byte(nil), data...)
	f.saves++
	return nil
}

func (f *fakeStore) Load(_ context.Context, name string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.records[name], nil
}

func (f *fakeStore) record(name string) []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.records[name]
}

func (f *fakeStore) saveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saves
}

// sequentialIDs yields "id-1", "id-2", ... so tests get stable identifiers.
func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

// tickingClock starts at a fixed instant and advances by step on every call.
func tickingClock(start time.Time, step time.Duration) func() time.Time {
	current := start.Add(-step)
	return func() time.Time {
		current = current.Add(step)
		return current
	}
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func zeroLatencyConfig() config.StoreConfig {
	return config.StoreConfig{PersistEmpty: true}
}

var baseTime = time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
