// README: Profile store backed by PostgreSQL (RLS scoped per user).
package profile

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"townguide/internal/infra"
	"townguide/internal/types"
)

var ErrNotFound = errors.New("profile not found")

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Get(ctx context.Context, uid types.ID) (Profile, error) {
	var p Profile
	err := infra.WithUser(ctx, s.db, uid.String(), func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, `
			SELECT indoor_preference, outdoor_preference, romantic_score,
			       family_score, pizza_preference, culture_preference
			FROM profiles WHERE user_id = $1
		`, uid.String()).Scan(
			&p.IndoorPreference, &p.OutdoorPreference, &p.RomanticScore,
			&p.FamilyScore, &p.PizzaPreference, &p.CulturePreference,
		)
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return Profile{}, ErrNotFound
	}
	return p, err
}

func (s *Store) Upsert(ctx context.Context, uid types.ID, p Profile) error {
	return infra.WithUser(ctx, s.db, uid.String(), func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO profiles (user_id, indoor_preference, outdoor_preference, romantic_score,
			                      family_score, pizza_preference, culture_preference, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
			ON CONFLICT (user_id) DO UPDATE SET
				indoor_preference = EXCLUDED.indoor_preference,
				outdoor_preference = EXCLUDED.outdoor_preference,
				romantic_score = EXCLUDED.romantic_score,
				family_score = EXCLUDED.family_score,
				pizza_preference = EXCLUDED.pizza_preference,
				culture_preference = EXCLUDED.culture_preference,
				updated_at = NOW()
		`, uid.String(), p.IndoorPreference, p.OutdoorPreference, p.RomanticScore,
			p.FamilyScore, p.PizzaPreference, p.CulturePreference)
		return err
	})
}
