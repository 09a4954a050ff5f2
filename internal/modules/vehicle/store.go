// README: Vehicle store backed by PostgreSQL (RLS scoped per user).
package vehicle

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"townguide/internal/infra"
	"townguide/internal/types"
)

const uniqueViolation = "23505"

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// Insert returns ErrDuplicatePlate when uid already saved plate.
func (s *Store) Insert(ctx context.Context, uid types.ID, plate string) error {
	err := infra.WithUser(ctx, s.db, uid.String(), func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO vehicles (user_id, license_plate) VALUES ($1, $2)`,
			uid.String(), plate)
		return err
	})
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicatePlate
	}
	return err
}

func (s *Store) List(ctx context.Context, uid types.ID) ([]Vehicle, error) {
	var out []Vehicle
	err := infra.WithUser(ctx, s.db, uid.String(), func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `
			SELECT id, license_plate, created_at FROM vehicles
			WHERE user_id = $1 ORDER BY created_at DESC
		`, uid.String())
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var v Vehicle
			if err := rows.Scan(&v.ID, &v.LicensePlate, &v.CreatedAt); err != nil {
				return err
			}
			out = append(out, v)
		}
		return rows.Err()
	})
	return out, err
}
