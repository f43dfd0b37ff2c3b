package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"mcommerce/internal/core/domain"
)

type txKey struct{}

// querier is satisfied by both the pool and an open transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// Repository implements every repository port, the unit of work and the
// permission checker on top of pgxpool.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository returns a new repository instance.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// conn returns the transaction carried by ctx, or the pool.
func (r *Repository) conn(ctx context.Context) querier {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return r.pool
}

// WithinTx runs fn inside a serializable transaction. Repositories called
// with the context handed to fn use that transaction; a nested call joins it.
func (r *Repository) WithinTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return fn(ctx)
	}
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return domain.Store("failed to begin transaction", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		if cerr := tx.Commit(ctx); cerr != nil {
			err = domain.Store("failed to commit transaction", cerr)
		}
	}()
	return fn(context.WithValue(ctx, txKey{}, tx))
}

// HasPermission implements port.PermissionChecker.
func (r *Repository) HasPermission(ctx context.Context, userID string, perm domain.Permission) (bool, error) {
	var ok bool
	err := r.conn(ctx).QueryRow(ctx, `
        SELECT EXISTS (
            SELECT 1
            FROM user_roles ur
            JOIN role_permissions rp ON rp.role_id = ur.role_id
            WHERE ur.user_id = $1 AND rp.permission = $2
        )`, userID, string(perm)).Scan(&ok)
	if err != nil {
		return false, domain.Store("failed to check permission", err)
	}
	return ok, nil
}

// UpsertRole stores a role and replaces its permission set.
func (r *Repository) UpsertRole(ctx context.Context, role domain.Role) error {
	return r.WithinTx(ctx, func(ctx context.Context) error {
		q := r.conn(ctx)
		if _, err := q.Exec(ctx, `INSERT INTO roles (id, name) VALUES ($1, $2)
ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name`, role.ID, role.Name); err != nil {
			return domain.Store("failed to save role", err)
		}
		if _, err := q.Exec(ctx, `DELETE FROM role_permissions WHERE role_id = $1`, role.ID); err != nil {
			return domain.Store("failed to save role", err)
		}
		for _, p := range role.Permissions {
			if _, err := q.Exec(ctx, `INSERT INTO role_permissions (role_id, permission) VALUES ($1, $2)`, role.ID, string(p)); err != nil {
				return domain.Store("failed to save role", err)
			}
		}
		return nil
	})
}

// AssignRole gives userID the role, creating the role when needed.
func (r *Repository) AssignRole(ctx context.Context, userID string, role domain.Role) error {
	return r.WithinTx(ctx, func(ctx context.Context) error {
		if err := r.UpsertRole(ctx, role); err != nil {
			return err
		}
		_, err := r.conn(ctx).Exec(ctx, `INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2)
ON CONFLICT DO NOTHING`, userID, role.ID)
		if err != nil {
			return domain.Store("failed to assign role", err)
		}
		return nil
	})
}
