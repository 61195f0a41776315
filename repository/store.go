package repository

import (
	"context"
	"fmt"
	"time"

	"sportsbook/models"
	"sportsbook/service"
	"sportsbook/storage"
)

// Store owns the pool, the shared id allocator and the three entity maps.
// Build it once at startup and hand it to the unit of work factory.
type Store struct {
	Pool     storage.Pool
	IDs      service.IDAllocator
	Wagers   *storage.Map[models.Wager]
	Accounts *storage.Map[models.Account]
	Events   *storage.Map[models.Event]

	now  func() time.Time
	lock chan struct{}
}

// StoreOption customizes a Store
type StoreOption func(*storeOptions)

type storeOptions struct {
	maxValueSize int
	now          func() time.Time
	allocator    service.IDAllocator
}

// WithMaxValueSize bounds the encoded size of every entity
func WithMaxValueSize(n int) StoreOption {
	return func(o *storeOptions) { o.maxValueSize = n }
}

// WithClock replaces the wall clock used for wager timestamps
func WithClock(now func() time.Time) StoreOption {
	return func(o *storeOptions) { o.now = now }
}

// WithAllocator replaces the pool-backed id allocator
func WithAllocator(a service.IDAllocator) StoreOption {
	return func(o *storeOptions) { o.allocator = a }
}

// NewStore binds the entity maps to their fixed regions of pool
func NewStore(pool storage.Pool, opts ...StoreOption) *Store {
	o := storeOptions{
		maxValueSize: storage.DefaultMaxValueSize,
		now:          func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.allocator == nil {
		o.allocator = storage.NewAllocator(pool)
	}

	return &Store{
		Pool:     pool,
		IDs:      o.allocator,
		Wagers:   storage.NewMap[models.Wager](pool, storage.RegionWagers, o.maxValueSize),
		Accounts: storage.NewMap[models.Account](pool, storage.RegionAccounts, o.maxValueSize),
		Events:   storage.NewMap[models.Event](pool, storage.RegionEvents, o.maxValueSize),
		now:      o.now,
		lock:     make(chan struct{}, 1),
	}
}

// Now returns the store clock's current time
func (s *Store) Now() time.Time {
	return s.now()
}

// acquire blocks until the store's mutation lock is free or ctx is done
func (s *Store) acquire(ctx context.Context) error {
	select {
	case s.lock <- struct{}{}:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("failed to acquire store lock: %w", ctx.Err())
	}
}

func (s *Store) release() {
	<-s.lock
}

// Ping checks the underlying pool
func (s *Store) Ping(ctx context.Context) error {
	return s.Pool.Ping(ctx)
}

// Close closes the underlying pool
func (s *Store) Close() error {
	return s.Pool.Close()
}

// listMap collects one page of a map in ascending key order
func listMap[V any](ctx context.Context, m *storage.Map[V], offset, limit int) ([]*V, error) {
	items := make([]*V, 0)
	if limit <= 0 {
		return items, nil
	}

	skipped := 0
	err := m.Range(ctx, func(_ uint64, v V) bool {
		if skipped < offset {
			skipped++
			return true
		}
		item := v
		items = append(items, &item)
		return len(items) < limit
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", m.Region(), err)
	}
	return items, nil
}
