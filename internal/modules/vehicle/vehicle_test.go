package vehicle

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"townguide/internal/testutil"
)

func TestSavePlate_Invalid(t *testing.T) {
	svc := NewService(nil)
	for _, p := range []string{"", "123ABC", "A1", "ABCDE123"} {
		assert.ErrorIs(t, svc.SavePlate(context.Background(), "u1", p), ErrInvalidPlate, p)
	}
}

func TestSavePlate_DuplicateMapped(t *testing.T) {
	db := testutil.NewDB(t, "vehicles")
	svc := NewService(NewStore(db))
	ctx := context.Background()

	require.NoError(t, svc.SavePlate(ctx, "u1", "abc-123"))
	assert.ErrorIs(t, svc.SavePlate(ctx, "u1", "ABC123"), ErrDuplicatePlate)
	require.NoError(t, svc.SavePlate(ctx, "u2", "ABC123"), "plates are unique per user only")

	list, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "ABC123", list[0].LicensePlate)
}
