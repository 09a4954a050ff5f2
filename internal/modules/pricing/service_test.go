package pricing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"townguide/internal/testutil"
	"townguide/internal/types"
)

type stubZones struct {
	zones map[string]Zone
	err   error
}

func (s *stubZones) GetZone(_ context.Context, code string) (Zone, error) {
	if s.err != nil {
		return Zone{}, s.err
	}
	z, ok := s.zones[code]
	if !ok {
		return Zone{}, ErrZoneNotFound
	}
	return z, nil
}

var huf400 = types.Money{Amount: 400, Currency: "HUF"}

func TestService_Estimate(t *testing.T) {
	zones := &stubZones{zones: map[string]Zone{
		"belvaros": {Code: "belvaros", HourlyRate: types.Money{Amount: 500, Currency: "HUF"}, MaxHours: 3},
	}}

	tests := []struct {
		name    string
		zones   ZoneSource
		zone    string
		hours   int
		want    int64
		wantErr error
	}{
		{name: "zone tariff", zones: zones, zone: "belvaros", hours: 2, want: 1000},
		{name: "max stay exceeded", zones: zones, zone: "belvaros", hours: 4, wantErr: ErrExceedsMaxHours},
		{name: "unknown zone uses default", zones: zones, zone: "nowhere", hours: 3, want: 1200},
		{name: "no store", zones: nil, zone: "", hours: 1, want: 400},
		{name: "store down", zones: &stubZones{err: errors.New("conn refused")}, zone: "belvaros", hours: 5, want: 2000},
		{name: "zero hours", zones: zones, zone: "belvaros", hours: 0, wantErr: ErrInvalidDuration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewService(tt.zones, huf400)
			got, err := s.Estimate(context.Background(), tt.zone, tt.hours)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Total.Amount)
			assert.Equal(t, "HUF", got.Total.Currency)
			assert.Equal(t, tt.hours, got.Hours)
		})
	}
}

func TestStore_GetZone(t *testing.T) {
	db := testutil.NewDB(t)
	store := NewStore(db)

	z, err := store.GetZone(context.Background(), "belvaros")
	require.NoError(t, err)
	assert.Equal(t, int64(500), z.HourlyRate.Amount)
	assert.Equal(t, 3, z.MaxHours)

	_, err = store.GetZone(context.Background(), "atlantis")
	assert.ErrorIs(t, err, ErrZoneNotFound)
}
