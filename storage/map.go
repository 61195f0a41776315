package storage

import (
	"context"
	"encoding/json"
	"fmt"
)

// Map is a typed, ordered key-value container bound to one region of a Pool.
// Values are stored JSON-encoded and may not exceed maxSize bytes.
type Map[V any] struct {
	pool    Pool
	region  RegionID
	maxSize int
}

// NewMap binds a Map to region. A non-positive maxSize selects DefaultMaxValueSize.
func NewMap[V any](pool Pool, region RegionID, maxSize int) *Map[V] {
	if maxSize <= 0 {
		maxSize = DefaultMaxValueSize
	}
	return &Map[V]{pool: pool, region: region, maxSize: maxSize}
}

// Region returns the region the map is bound to
func (m *Map[V]) Region() RegionID {
	return m.region
}

// Encode serializes v, failing with ErrValueTooLarge when it exceeds the bound
func (m *Map[V]) Encode(v V) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s value: %w", m.region, err)
	}
	if len(data) > m.maxSize {
		return nil, fmt.Errorf("%w: %s value is %d bytes, limit %d", ErrValueTooLarge, m.region, len(data), m.maxSize)
	}
	return data, nil
}

// Fits reports whether v can be inserted without exceeding the bound
func (m *Map[V]) Fits(v V) error {
	_, err := m.Encode(v)
	return err
}

func (m *Map[V]) decode(data []byte) (V, error) {
	var v V
	if err := json.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("failed to decode %s value: %w", m.region, err)
	}
	return v, nil
}

// Get returns the value stored at key
func (m *Map[V]) Get(ctx context.Context, key uint64) (V, bool, error) {
	var zero V
	data, ok, err := m.pool.Get(ctx, m.region, key)
	if err != nil || !ok {
		return zero, false, err
	}
	v, err := m.decode(data)
	if err != nil {
		return zero, false, err
	}
	return v, true, nil
}

// Insert stores v at key and returns the value it replaced, if any.
// Nothing is written when v does not fit.
func (m *Map[V]) Insert(ctx context.Context, key uint64, v V) (V, bool, error) {
	var zero V
	data, err := m.Encode(v)
	if err != nil {
		return zero, false, err
	}
	prev, existed, err := m.pool.Put(ctx, m.region, key, data)
	if err != nil || !existed {
		return zero, false, err
	}
	old, err := m.decode(prev)
	if err != nil {
		return zero, true, err
	}
	return old, true, nil
}

// Remove deletes key and returns the value that was stored there
func (m *Map[V]) Remove(ctx context.Context, key uint64) (V, bool, error) {
	var zero V
	prev, existed, err := m.pool.Delete(ctx, m.region, key)
	if err != nil || !existed {
		return zero, false, err
	}
	old, err := m.decode(prev)
	if err != nil {
		return zero, true, err
	}
	return old, true, nil
}

// Range calls fn for each entry in ascending key order until fn returns false
func (m *Map[V]) Range(ctx context.Context, fn func(key uint64, v V) bool) error {
	var decodeErr error
	err := m.pool.Scan(ctx, m.region, func(key uint64, data []byte) bool {
		v, err := m.decode(data)
		if err != nil {
			decodeErr = fmt.Errorf("key %d: %w", key, err)
			return false
		}
		return fn(key, v)
	})
	if err != nil {
		return err
	}
	return decodeErr
}

// Len returns the number of entries in the map
func (m *Map[V]) Len(ctx context.Context) (int, error) {
	return m.pool.Count(ctx, m.region)
}
