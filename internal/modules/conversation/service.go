package conversation

import (
	"context"
	"errors"

	"townguide/internal/types"
)

// Service loads and saves per-user conversation state.
type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

// Load returns (nil, nil) for a user without saved state.
func (s *Service) Load(ctx context.Context, uid types.ID) (*State, error) {
	st, err := s.store.Get(ctx, uid)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *Service) Save(ctx context.Context, uid types.ID, st State) error {
	return s.store.Upsert(ctx, uid, st.Normalize())
}
