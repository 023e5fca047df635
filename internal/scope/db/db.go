package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dsjohal14/peoplepicker/internal/scope/record"
)

// usersQuery reads the picker columns; id order is the source order
const usersQuery = `SELECT id, COALESCE(name, ''), COALESCE(surname, ''), COALESCE(info, ''),
	COALESCE(avatar, ''), COALESCE(domain, '')
FROM users
ORDER BY id`

// DB wraps the database connection pool
type DB struct {
	pool *pgxpool.Pool
}

// New creates a new database connection
func New(ctx context.Context, connString string) (*DB, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the database connection
func (d *DB) Close() {
	d.pool.Close()
}

// LoadUsers reads every user row in table order
func (d *DB) LoadUsers(ctx context.Context) ([]record.Record, error) {
	rows, err := d.pool.Query(ctx, usersQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}

	records, err := pgx.CollectRows(rows, scanUser)
	if err != nil {
		return nil, fmt.Errorf("failed to read users: %w", err)
	}
	return records, nil
}

func scanUser(row pgx.CollectableRow) (record.Record, error) {
	var rec record.Record
	err := row.Scan(&rec.ID, &rec.Name, &rec.Surname, &rec.Info, &rec.Avatar, &rec.Domain)
	return rec, err
}
