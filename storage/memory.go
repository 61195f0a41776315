package storage

import (
	"bytes"
	"context"
	"maps"
	"slices"
	"sync"
)

// MemoryPool keeps every region in process memory. Contents are lost on exit;
// it backs tests and the "memory" backend.
type MemoryPool struct {
	mu      sync.RWMutex
	regions map[RegionID]map[uint64][]byte
	closed  bool
}

// NewMemoryPool creates an empty in-memory pool
func NewMemoryPool() *MemoryPool {
	return &MemoryPool{regions: make(map[RegionID]map[uint64][]byte)}
}

func (p *MemoryPool) Get(_ context.Context, region RegionID, key uint64) ([]byte, bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return nil, false, ErrClosed
	}
	v, ok := p.regions[region][key]
	if !ok {
		return nil, false, nil
	}
	return bytes.Clone(v), true, nil
}

func (p *MemoryPool) Put(_ context.Context, region RegionID, key uint64, value []byte) ([]byte, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, false, ErrClosed
	}
	entries, ok := p.regions[region]
	if !ok {
		entries = make(map[uint64][]byte)
		p.regions[region] = entries
	}
	prev, existed := entries[key]
	entries[key] = bytes.Clone(value)
	return prev, existed, nil
}

func (p *MemoryPool) Delete(_ context.Context, region RegionID, key uint64) ([]byte, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, false, ErrClosed
	}
	prev, existed := p.regions[region][key]
	if existed {
		delete(p.regions[region], key)
	}
	return prev, existed, nil
}

func (p *MemoryPool) Scan(ctx context.Context, region RegionID, fn func(key uint64, value []byte) bool) error {
	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return ErrClosed
	}
	entries := p.regions[region]
	keys := slices.Sorted(maps.Keys(entries))
	values := make([][]byte, len(keys))
	for i, k := range keys {
		values[i] = bytes.Clone(entries[k])
	}
	p.mu.RUnlock()

	for i, k := range keys {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !fn(k, values[i]) {
			return nil
		}
	}
	return nil
}

func (p *MemoryPool) Count(_ context.Context, region RegionID) (int, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return 0, ErrClosed
	}
	return len(p.regions[region]), nil
}

func (p *MemoryPool) Ping(_ context.Context) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrClosed
	}
	return nil
}

func (p *MemoryPool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closed = true
	return nil
}
