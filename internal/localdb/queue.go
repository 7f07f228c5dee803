package localdb

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ariefcatur/go-pos-engine.git/internal/pos"
)

// QueueRepo: antrian pending transaction yang durable menembus restart.
// Dikuras FIFO berdasarkan enqueued_at; item gagal tetap tinggal (status
// error) dan ikut terambil lagi di pass berikutnya.
type QueueRepo struct{ DB *pgxpool.Pool }

func (r *QueueRepo) Enqueue(ctx context.Context, tx pos.PendingTransaction) error {
	payload, err := json.Marshal(tx.Sale)
	if err != nil {
		return err
	}
	_, err = r.DB.Exec(ctx, `
		INSERT INTO pending_transactions(id, payload, sync_status, enqueued_at)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (id) DO NOTHING`,
		tx.ID, payload, string(pos.SyncPending), tx.EnqueuedAt)
	return err
}

// ListPending: urutan FIFO, termasuk item berstatus error (retry pass depan).
func (r *QueueRepo) ListPending(ctx context.Context) ([]pos.PendingTransaction, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, payload, sync_status, last_error, attempts, enqueued_at
		FROM pending_transactions
		WHERE sync_status IN ('pending','error')
		ORDER BY enqueued_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []pos.PendingTransaction
	for rows.Next() {
		var (
			tx      pos.PendingTransaction
			payload []byte
			status  string
		)
		if err := rows.Scan(&tx.ID, &payload, &status, &tx.LastError, &tx.Attempts, &tx.EnqueuedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(payload, &tx.Sale); err != nil {
			return nil, err
		}
		tx.SyncStatus = pos.SyncStatus(status)
		out = append(out, tx)
	}
	return out, rows.Err()
}

// MarkSynced: sukses = keluar dari antrian.
func (r *QueueRepo) MarkSynced(ctx context.Context, id string) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM pending_transactions WHERE id=$1`, id)
	return err
}

// MarkError: item tetap di antrian, hanya catat sebab & hitungan percobaan.
func (r *QueueRepo) MarkError(ctx context.Context, id, cause string) error {
	_, err := r.DB.Exec(ctx, `
		UPDATE pending_transactions
		SET sync_status='error', last_error=$2, attempts=attempts+1
		WHERE id=$1`, id, cause)
	return err
}

func (r *QueueRepo) Depth(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRow(ctx, `
		SELECT COUNT(*) FROM pending_transactions
		WHERE sync_status IN ('pending','error')`).Scan(&n)
	return n, err
}
