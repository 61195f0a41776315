package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"sportsbook/database"
)

// SQLitePool stores every region in one table of an embedded SQLite file.
// Keys are stored as signed 64-bit integers, so ordering holds for ids below 2^63.
type SQLitePool struct {
	db *database.SQLiteDB
}

// NewSQLitePool wraps an opened, migrated SQLite database
func NewSQLitePool(db *database.SQLiteDB) *SQLitePool {
	return &SQLitePool{db: db}
}

// OpenSQLitePool opens the SQLite file at path and returns a pool over it
func OpenSQLitePool(path string) (*SQLitePool, error) {
	db, err := database.OpenSQLite(path)
	if err != nil {
		return nil, err
	}
	return NewSQLitePool(db), nil
}

func (p *SQLitePool) Get(ctx context.Context, region RegionID, key uint64) ([]byte, bool, error) {
	var value []byte
	err := p.db.QueryRowContext(ctx,
		`SELECT value FROM entries WHERE region = ? AND id = ?`,
		int64(region), int64(key),
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get %s/%d: %w", region, key, err)
	}
	return value, true, nil
}

func (p *SQLitePool) Put(ctx context.Context, region RegionID, key uint64, value []byte) ([]byte, bool, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var prev []byte
	existed := true
	err = tx.QueryRowContext(ctx,
		`SELECT value FROM entries WHERE region = ? AND id = ?`,
		int64(region), int64(key),
	).Scan(&prev)
	if errors.Is(err, sql.ErrNoRows) {
		existed = false
	} else if err != nil {
		return nil, false, fmt.Errorf("failed to read %s/%d: %w", region, key, err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO entries (region, id, value) VALUES (?, ?, ?)
		 ON CONFLICT (region, id) DO UPDATE SET value = excluded.value`,
		int64(region), int64(key), value,
	)
	if err != nil {
		return nil, false, fmt.Errorf("failed to put %s/%d: %w", region, key, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return prev, existed, nil
}

func (p *SQLitePool) Delete(ctx context.Context, region RegionID, key uint64) ([]byte, bool, error) {
	var prev []byte
	err := p.db.QueryRowContext(ctx,
		`DELETE FROM entries WHERE region = ? AND id = ? RETURNING value`,
		int64(region), int64(key),
	).Scan(&prev)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to delete %s/%d: %w", region, key, err)
	}
	return prev, true, nil
}

func (p *SQLitePool) Scan(ctx context.Context, region RegionID, fn func(key uint64, value []byte) bool) error {
	after := int64(-1)
	for {
		batch, err := p.scanBatch(ctx, region, after)
		if err != nil {
			return err
		}
		for _, e := range batch {
			if !fn(uint64(e.id), e.value) {
				return nil
			}
			after = e.id
		}
		if len(batch) < scanBatchSize {
			return nil
		}
	}
}

type sqlEntry struct {
	id    int64
	value []byte
}

// scanBatch reads one page eagerly so no connection is held while fn runs
func (p *SQLitePool) scanBatch(ctx context.Context, region RegionID, after int64) ([]sqlEntry, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT id, value FROM entries WHERE region = ? AND id > ? ORDER BY id LIMIT ?`,
		int64(region), after, scanBatchSize,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", region, err)
	}
	defer rows.Close()

	batch := make([]sqlEntry, 0, scanBatchSize)
	for rows.Next() {
		var e sqlEntry
		if err := rows.Scan(&e.id, &e.value); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", region, err)
		}
		batch = append(batch, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s: %w", region, err)
	}
	return batch, nil
}

func (p *SQLitePool) Count(ctx context.Context, region RegionID) (int, error) {
	var n int
	err := p.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM entries WHERE region = ?`, int64(region),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", region, err)
	}
	return n, nil
}

func (p *SQLitePool) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

func (p *SQLitePool) Close() error {
	return p.db.Close()
}
