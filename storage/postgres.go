package storage

import (
	"context"
	"errors"
	"fmt"

	"sportsbook/database"

	"github.com/jackc/pgx/v5"
)

// PostgresPool stores every region in one Postgres table.
// Keys are stored as BIGINT, so ordering holds for ids below 2^63.
type PostgresPool struct {
	db *database.DB
}

// NewPostgresPool wraps an open, migrated connection pool
func NewPostgresPool(db *database.DB) *PostgresPool {
	return &PostgresPool{db: db}
}

func (p *PostgresPool) Get(ctx context.Context, region RegionID, key uint64) ([]byte, bool, error) {
	var value []byte
	err := p.db.QueryRow(ctx,
		`SELECT value FROM entries WHERE region = $1 AND id = $2`,
		int16(region), int64(key),
	).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get %s/%d: %w", region, key, err)
	}
	return value, true, nil
}

func (p *PostgresPool) Put(ctx context.Context, region RegionID, key uint64, value []byte) ([]byte, bool, error) {
	var (
		prev    []byte
		existed bool
	)
	err := p.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`SELECT value FROM entries WHERE region = $1 AND id = $2 FOR UPDATE`,
			int16(region), int64(key),
		).Scan(&prev)
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			existed = false
		case err != nil:
			return fmt.Errorf("failed to read %s/%d: %w", region, key, err)
		default:
			existed = true
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO entries (region, id, value) VALUES ($1, $2, $3)
			 ON CONFLICT (region, id) DO UPDATE SET value = EXCLUDED.value`,
			int16(region), int64(key), value,
		)
		if err != nil {
			return fmt.Errorf("failed to put %s/%d: %w", region, key, err)
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return prev, existed, nil
}

func (p *PostgresPool) Delete(ctx context.Context, region RegionID, key uint64) ([]byte, bool, error) {
	var prev []byte
	err := p.db.QueryRow(ctx,
		`DELETE FROM entries WHERE region = $1 AND id = $2 RETURNING value`,
		int16(region), int64(key),
	).Scan(&prev)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to delete %s/%d: %w", region, key, err)
	}
	return prev, true, nil
}

func (p *PostgresPool) Scan(ctx context.Context, region RegionID, fn func(key uint64, value []byte) bool) error {
	after := int64(-1)
	for {
		rows, err := p.db.Query(ctx,
			`SELECT id, value FROM entries WHERE region = $1 AND id > $2 ORDER BY id LIMIT $3`,
			int16(region), after, scanBatchSize,
		)
		if err != nil {
			return fmt.Errorf("failed to scan %s: %w", region, err)
		}
		batch, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (sqlEntry, error) {
			var e sqlEntry
			err := row.Scan(&e.id, &e.value)
			return e, err
		})
		if err != nil {
			return fmt.Errorf("failed to read %s rows: %w", region, err)
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

func (p *PostgresPool) Count(ctx context.Context, region RegionID) (int, error) {
	var n int
	err := p.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM entries WHERE region = $1`, int16(region),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", region, err)
	}
	return n, nil
}

func (p *PostgresPool) Ping(ctx context.Context) error {
	return p.db.Ping(ctx)
}

func (p *PostgresPool) Close() error {
	p.db.Close()
	return nil
}
