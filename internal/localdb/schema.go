package localdb

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema menyiapkan tabel lokal terminal. DB ini milik satu terminal,
// jadi migrasi cukup create-if-not-exists saat start.
func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS products_mirror (
			id         TEXT PRIMARY KEY,
			sku        TEXT NOT NULL DEFAULT '',
			name       TEXT NOT NULL,
			price      BIGINT NOT NULL,
			stock      INT NOT NULL DEFAULT 0,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS customers_mirror (
			id     TEXT PRIMARY KEY,
			name   TEXT NOT NULL,
			phone  TEXT NOT NULL DEFAULT '',
			points INT NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS pending_transactions (
			id          TEXT PRIMARY KEY,
			payload     JSONB NOT NULL,
			sync_status TEXT NOT NULL DEFAULT 'pending',
			last_error  TEXT NOT NULL DEFAULT '',
			attempts    INT NOT NULL DEFAULT 0,
			enqueued_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_pending_tx_enqueued
			ON pending_transactions (enqueued_at)`,
	}
	for _, q := range stmts {
		if _, err := db.Exec(ctx, q); err != nil {
			return err
		}
	}
	return nil
}
