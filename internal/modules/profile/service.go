package profile

import (
	"context"
	"errors"

	"townguide/internal/types"
)

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

// Get returns nil without error when the user never stored preferences.
func (s *Service) Get(ctx context.Context, uid types.ID) (*Profile, error) {
	p, err := s.store.Get(ctx, uid)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Service) Save(ctx context.Context, uid types.ID, p Profile) error {
	return s.store.Upsert(ctx, uid, p.Clamp())
}
