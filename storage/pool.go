package storage

import (
	"context"
	"errors"
	"fmt"
)

// RegionID addresses a disjoint keyspace inside a Pool. The assignments are
// persisted on disk and must never change.
type RegionID uint8

const (
	RegionCounter  RegionID = 0
	RegionWagers   RegionID = 1
	RegionAccounts RegionID = 2
	RegionEvents   RegionID = 3
)

func (r RegionID) String() string {
	switch r {
	case RegionCounter:
		return "counter"
	case RegionWagers:
		return "wagers"
	case RegionAccounts:
		return "accounts"
	case RegionEvents:
		return "events"
	default:
		return fmt.Sprintf("region-%d", uint8(r))
	}
}

// DefaultMaxValueSize bounds the encoded size of a stored value
const DefaultMaxValueSize = 1024

// scanBatchSize is how many entries SQL and Redis pools fetch per round trip while scanning
const scanBatchSize = 128

// ErrValueTooLarge is returned when an encoded value exceeds the map's bound
var ErrValueTooLarge = errors.New("encoded value exceeds maximum size")

// ErrClosed is returned by pools used after Close
var ErrClosed = errors.New("storage pool closed")

// Pool is a persistent byte store partitioned into regions, keyed by uint64.
// Scan visits entries in ascending key order and stops when fn returns false;
// fn must not call back into the pool.
type Pool interface {
	Get(ctx context.Context, region RegionID, key uint64) ([]byte, bool, error)
	Put(ctx context.Context, region RegionID, key uint64, value []byte) ([]byte, bool, error)
	Delete(ctx context.Context, region RegionID, key uint64) ([]byte, bool, error)
	Scan(ctx context.Context, region RegionID, fn func(key uint64, value []byte) bool) error
	Count(ctx context.Context, region RegionID) (int, error)
	Ping(ctx context.Context) error
	Close() error
}
