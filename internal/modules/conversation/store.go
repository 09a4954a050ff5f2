// README: Conversation state store backed by PostgreSQL (jsonb, RLS scoped per user).
package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"townguide/internal/infra"
	"townguide/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// Get returns ErrNotFound when the user has no row yet.
func (s *Store) Get(ctx context.Context, uid types.ID) (State, error) {
	var raw []byte
	err := infra.WithUser(ctx, s.db, uid.String(), func(tx pgx.Tx) error {
		return tx.QueryRow(ctx,
			`SELECT state FROM conversation_states WHERE user_id = $1`, uid.String(),
		).Scan(&raw)
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return State{}, ErrNotFound
	}
	if err != nil {
		return State{}, err
	}
	var st State
	if err := json.Unmarshal(raw, &st); err != nil {
		return State{}, fmt.Errorf("decode state: %w", err)
	}
	return st, nil
}

func (s *Store) Upsert(ctx context.Context, uid types.ID, st State) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	return infra.WithUser(ctx, s.db, uid.String(), func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO conversation_states (user_id, state, updated_at)
			VALUES ($1, $2, NOW())
			ON CONFLICT (user_id) DO UPDATE SET state = EXCLUDED.state, updated_at = NOW()
		`, uid.String(), raw)
		return err
	})
}
