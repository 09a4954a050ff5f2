package vehicle

import (
	"context"
	"regexp"
	"strings"

	"townguide/internal/types"
)

var plateRe = regexp.MustCompile(`^[A-Z]{2,4}[0-9]{3}$`)

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

// SavePlate stores a normalized plate for uid.
func (s *Service) SavePlate(ctx context.Context, uid types.ID, plate string) error {
	plate = strings.ToUpper(strings.NewReplacer(" ", "", "-", "").Replace(plate))
	if !plateRe.MatchString(plate) {
		return ErrInvalidPlate
	}
	return s.store.Insert(ctx, uid, plate)
}

func (s *Service) List(ctx context.Context, uid types.ID) ([]Vehicle, error) {
	return s.store.List(ctx, uid)
}
