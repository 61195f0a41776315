package metrics

import (
	"context"
	"time"

	"sportsbook/service"
	"sportsbook/storage"
)

type instrumentedPool struct {
	storage.Pool
	m *Metrics
}

// InstrumentPool wraps pool so every region call is timed
func (m *Metrics) InstrumentPool(pool storage.Pool) storage.Pool {
	return &instrumentedPool{Pool: pool, m: m}
}

func (p *instrumentedPool) observe(call string, region storage.RegionID, start time.Time, err error) {
	p.m.poolDuration.WithLabelValues(call, region.String()).Observe(time.Since(start).Seconds())
	if err != nil {
		p.m.poolErrors.WithLabelValues(call, region.String()).Inc()
	}
}

func (p *instrumentedPool) Get(ctx context.Context, region storage.RegionID, key uint64) ([]byte, bool, error) {
	start := time.Now()
	value, ok, err := p.Pool.Get(ctx, region, key)
	p.observe("get", region, start, err)
	return value, ok, err
}

func (p *instrumentedPool) Put(ctx context.Context, region storage.RegionID, key uint64, value []byte) ([]byte, bool, error) {
	start := time.Now()
	prev, existed, err := p.Pool.Put(ctx, region, key, value)
	p.observe("put", region, start, err)
	return prev, existed, err
}

func (p *instrumentedPool) Delete(ctx context.Context, region storage.RegionID, key uint64) ([]byte, bool, error) {
	start := time.Now()
	prev, existed, err := p.Pool.Delete(ctx, region, key)
	p.observe("delete", region, start, err)
	return prev, existed, err
}

// Scan timing includes the time spent in fn
func (p *instrumentedPool) Scan(ctx context.Context, region storage.RegionID, fn func(key uint64, value []byte) bool) error {
	start := time.Now()
	err := p.Pool.Scan(ctx, region, fn)
	p.observe("scan", region, start, err)
	return err
}

func (p *instrumentedPool) Count(ctx context.Context, region storage.RegionID) (int, error) {
	start := time.Now()
	n, err := p.Pool.Count(ctx, region)
	p.observe("count", region, start, err)
	return n, err
}

type instrumentedAllocator struct {
	service.IDAllocator
	m *Metrics
}

// InstrumentAllocator wraps allocator so every minted id is counted
func (m *Metrics) InstrumentAllocator(allocator service.IDAllocator) service.IDAllocator {
	return &instrumentedAllocator{IDAllocator: allocator, m: m}
}

func (a *instrumentedAllocator) Next(ctx context.Context) (uint64, error) {
	id, err := a.IDAllocator.Next(ctx)
	if err == nil {
		a.m.idsAllocated.Inc()
	}
	return id, err
}
