// README: Pricing store backed by PostgreSQL.
package pricing

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) GetZone(ctx context.Context, code string) (Zone, error) {
	var z Zone
	err := s.db.QueryRow(ctx, `
		SELECT zone, name, hourly_rate, currency, max_hours
		FROM parking_zones WHERE zone = $1
	`, code).Scan(&z.Code, &z.Name, &z.HourlyRate.Amount, &z.HourlyRate.Currency, &z.MaxHours)
	if errors.Is(err, pgx.ErrNoRows) {
		return Zone{}, ErrZoneNotFound
	}
	return z, err
}
