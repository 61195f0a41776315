package storage

import (
	"context"
	"fmt"
	"math"
)

// counterKey is the single slot the allocator uses in RegionCounter
const counterKey uint64 = 0

// firstID is the value handed out by a fresh counter
const firstID uint64 = 1

// Allocator mints globally unique, strictly increasing ids from a persistent counter.
// An id is consumed once Next returns it, whether or not the caller stores anything.
type Allocator struct {
	counter *Map[uint64]
}

// NewAllocator binds an allocator to the counter region of pool
func NewAllocator(pool Pool) *Allocator {
	return &Allocator{counter: NewMap[uint64](pool, RegionCounter, DefaultMaxValueSize)}
}

// Peek returns the id the next call to Next will mint
func (a *Allocator) Peek(ctx context.Context) (uint64, error) {
	current, ok, err := a.counter.Get(ctx, counterKey)
	if err != nil {
		return 0, fmt.Errorf("failed to read id counter: %w", err)
	}
	if !ok {
		return firstID, nil
	}
	return current, nil
}

// MaxID is the largest id Next mints; SQL pools key rows by int64
const MaxID uint64 = math.MaxInt64

// Next returns the current counter value and persists its successor
func (a *Allocator) Next(ctx context.Context) (uint64, error) {
	current, err := a.Peek(ctx)
	if err != nil {
		return 0, err
	}
	if current > MaxID {
		return 0, fmt.Errorf("id counter exhausted")
	}
	if _, _, err := a.counter.Insert(ctx, counterKey, current+1); err != nil {
		return 0, fmt.Errorf("failed to persist id counter: %w", err)
	}
	return current, nil
}
