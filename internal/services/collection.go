package services

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/techjobs/backend/internal/metrics"

	"github.com/pkg/errors"
)

const (
	jobsCollection            = "jobs"
	publicMessagesCollection  = "public_messages"
	privateMessagesCollection = "private_messages"
	usersCollection           = "users"
)

type collectionStore interface {
	Save(ctx context.Context, name string, data []byte) error
	Load(ctx context.Context, name string) ([]byte, error)
}

type idGenerator func() string

type clock func() time.Time

// collection mirrors one named durable record in memory. It is loaded once
// at construction and the full serialized list is rewritten after every
// mutation.
type collection[T any] struct {
	name         string
	store        collectionStore
	persistEmpty bool

	mu    sync.Mutex
	items []T
}

func loadCollection[T any](ctx context.Context, store collectionStore, name string, persistEmpty bool) (*collection[T], error) {

	c := &collection[T]{name: name, store: store, persistEmpty: persistEmpty}

	data, err := store.Load(ctx, name)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load collection %s", name)
	}

	if len(data) > 0 {
		if err = json.Unmarshal(data, &c.items); err != nil {
			return nil, errors.Wrapf(err, "failed to decode collection %s", name)
		}
	}

	return c, nil
}

// update applies fn under the lock and persists the result when fn reports a
// change. The legacy guarded mode additionally skips writes of an empty list,
// which is how the storage behaved before transitions to empty were made
// durable.
func (c *collection[T]) update(ctx context.Context, fn func(items []T) ([]T, bool)) error {

	c.mu.Lock()
	defer c.mu.Unlock()

	items, changed := fn(c.items)
	c.items = items

	if !changed {
		return nil
	}

	if len(c.items) == 0 && !c.persistEmpty {
		return nil
	}

	data, err := json.Marshal(c.items)
	if err != nil {
		return errors.Wrapf(err, "failed to encode collection %s", c.name)
	}
	if c.items == nil {
		data = []byte("[]")
	}

	if err = c.store.Save(ctx, c.name, data); err != nil {
		return errors.Wrapf(err, "failed to persist collection %s", c.name)
	}
	return nil
}

func (c *collection[T]) snapshot() []T {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]T, len(c.items))
	copy(items, c.items)
	return items
}

// simulate emulates the wall-clock cost of a remote call. Once a mutation
// is issued it always completes, so the sleep is deliberately not
// interruptible by a context.
func simulate(latency time.Duration) {
	if latency > 0 {
		time.Sleep(latency)
	}
}

func observeOperation(operation string) func() {
	start := time.Now()
	return func() {
		metrics.StoreOperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}
}
