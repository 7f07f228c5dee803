package localdb

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ariefcatur/go-pos-engine.git/internal/pos"
)

var ErrNotFound = errors.New("not found")

// MirrorRepo: cermin read-only katalog backend. Server selalu otoritatif;
// sinkronisasi menimpa per id, tidak ada konflik edit lokal.
type MirrorRepo struct{ DB *pgxpool.Pool }

func (r *MirrorRepo) UpsertProducts(ctx context.Context, products []pos.Product) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, p := range products {
		_, err := tx.Exec(ctx, `
			INSERT INTO products_mirror(id, sku, name, price, stock, updated_at)
			VALUES ($1,$2,$3,$4,$5,$6)
			ON CONFLICT (id) DO UPDATE
			SET sku=EXCLUDED.sku, name=EXCLUDED.name, price=EXCLUDED.price,
			    stock=EXCLUDED.stock, updated_at=EXCLUDED.updated_at`,
			p.ID, p.SKU, p.Name, p.Price, p.Stock, p.UpdatedAt)
		if err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *MirrorRepo) UpsertCustomers(ctx context.Context, customers []pos.Customer) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, c := range customers {
		_, err := tx.Exec(ctx, `
			INSERT INTO customers_mirror(id, name, phone, points)
			VALUES ($1,$2,$3,$4)
			ON CONFLICT (id) DO UPDATE
			SET name=EXCLUDED.name, phone=EXCLUDED.phone, points=EXCLUDED.points`,
			c.ID, c.Name, c.Phone, c.Points)
		if err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *MirrorRepo) GetProduct(ctx context.Context, id string) (pos.Product, error) {
	var p pos.Product
	err := r.DB.QueryRow(ctx, `SELECT id, sku, name, price, stock, updated_at
	                           FROM products_mirror WHERE id=$1`, id).
		Scan(&p.ID, &p.SKU, &p.Name, &p.Price, &p.Stock, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return pos.Product{}, ErrNotFound
	}
	return p, err
}

func (r *MirrorRepo) ListProducts(ctx context.Context) ([]pos.Product, error) {
	rows, err := r.DB.Query(ctx, `SELECT id, sku, name, price, stock, updated_at
	                              FROM products_mirror ORDER BY sku`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []pos.Product
	for rows.Next() {
		var p pos.Product
		if err := rows.Scan(&p.ID, &p.SKU, &p.Name, &p.Price, &p.Stock, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *MirrorRepo) GetCustomer(ctx context.Context, id string) (pos.Customer, error) {
	var c pos.Customer
	err := r.DB.QueryRow(ctx, `SELECT id, name, phone, points
	                           FROM customers_mirror WHERE id=$1`, id).
		Scan(&c.ID, &c.Name, &c.Phone, &c.Points)
	if errors.Is(err, pgx.ErrNoRows) {
		return pos.Customer{}, ErrNotFound
	}
	return c, err
}

func (r *MirrorRepo) ListCustomers(ctx context.Context) ([]pos.Customer, error) {
	rows, err := r.DB.Query(ctx, `SELECT id, name, phone, points
	                              FROM customers_mirror ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []pos.Customer
	for rows.Next() {
		var c pos.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.Points); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
