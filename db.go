package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// sqlDialect holds the driver name and the statements SQLStore runs against it.
// PostgreSQL and SQLite differ only in placeholder syntax and timestamp types.
type sqlDialect struct {
	driver string
	schema string
	get    string
	upsert string
	delete string
}

var postgresDialect = sqlDialect{
	driver: "postgres",
	schema: `CREATE TABLE IF NOT EXISTS kv_store (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	get:    `SELECT value FROM kv_store WHERE key = $1`,
	upsert: `INSERT INTO kv_store (key, value, updated_at) VALUES ($1, $2, now()) ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
	delete: `DELETE FROM kv_store WHERE key = $1`,
}

var sqliteDialect = sqlDialect{
	driver: "sqlite",
	schema: `CREATE TABLE IF NOT EXISTS kv_store (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	get:    `SELECT value FROM kv_store WHERE key = ?`,
	upsert: `INSERT INTO kv_store (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP) ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
	delete: `DELETE FROM kv_store WHERE key = ?`,
}

// SQLStore is a KeyValueStore backed by a single kv_store table.
type SQLStore struct {
	db      *sql.DB
	dialect sqlDialect
}

func NewSQLStore(db *sql.DB, dialect sqlDialect) *SQLStore {
	return &SQLStore{db: db, dialect: dialect}
}

// openSQLStore opens a connection with openFunc, verifies it is reachable and makes
// sure the kv_store table exists. openFunc is sql.Open outside of tests.
func openSQLStore(ctx context.Context, dialect sqlDialect, dsn string, openFunc func(driverName, dataSourceName string) (*sql.DB, error)) (*SQLStore, error) {
	db, err := openFunc(dialect.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("couldn't prepare connection to database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("couldn't connect to database: %w", err)
	}

	store := NewSQLStore(db, dialect)
	if err := store.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// Migrate creates the kv_store table if it does not exist yet.
func (s *SQLStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.dialect.schema); err != nil {
		return fmt.Errorf("could not create kv_store table: %w", err)
	}
	return nil
}

func (s *SQLStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, s.dialect.get, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrKeyNotFound
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (s *SQLStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, s.dialect.upsert, key, value)
	return err
}

func (s *SQLStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, s.dialect.delete, key)
	return err
}

func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}
