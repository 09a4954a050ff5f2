// README: Postgres connection pool and row-level-security scoped transactions.
package infra

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewDB(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return pool, nil
}

// WithUser runs fn in a transaction scoped to uid. The RLS policies in
// migrations/ compare row owners with current_setting('app.user_id').
func WithUser(ctx context.Context, db *pgxpool.Pool, uid string, fn func(pgx.Tx) error) error {
	return pgx.BeginFunc(ctx, db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "SELECT set_config('app.user_id', $1, true)", uid); err != nil {
			return fmt.Errorf("set rls scope: %w", err)
		}
		return fn(tx)
	})
}
