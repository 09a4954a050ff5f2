// README: Pricing service computes parking fee quotes.
package pricing

import (
	"context"
	"errors"

	"townguide/internal/types"
)

// ZoneSource is satisfied by *Store.
type ZoneSource interface {
	GetZone(ctx context.Context, code string) (Zone, error)
}

type Service struct {
	zones       ZoneSource
	defaultRate types.Money
}

// NewService quotes from zones when available and from defaultRate
// otherwise. zones may be nil.
func NewService(zones ZoneSource, defaultRate types.Money) *Service {
	return &Service{zones: zones, defaultRate: defaultRate}
}

// Estimate prices hours of parking in zone. Store failures fall back to the
// default rate; only caller errors are returned.
func (s *Service) Estimate(ctx context.Context, zone string, hours int) (Quote, error) {
	if hours <= 0 {
		return Quote{}, ErrInvalidDuration
	}
	if zone == "" {
		zone = DefaultZone
	}

	rate := s.defaultRate
	maxHours := 0
	if s.zones != nil {
		z, err := s.zones.GetZone(ctx, zone)
		switch {
		case err == nil:
			rate, maxHours = z.HourlyRate, z.MaxHours
		case errors.Is(err, ErrZoneNotFound):
			zone = DefaultZone
		}
	}
	if maxHours > 0 && hours > maxHours {
		return Quote{}, ErrExceedsMaxHours
	}
	return Quote{
		Zone:       zone,
		Hours:      hours,
		HourlyRate: rate,
		Total:      rate.Mul(hours),
	}, nil
}
