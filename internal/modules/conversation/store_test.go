package conversation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"townguide/internal/testutil"
	"townguide/internal/types"
)

func TestService_LoadSave(t *testing.T) {
	db := testutil.NewDB(t, "conversation_states")
	svc := NewService(NewStore(db))
	ctx := context.Background()

	st, err := svc.Load(ctx, types.ID("user_new"))
	require.NoError(t, err)
	assert.Nil(t, st, "a new user has no state")

	want := State{Phase: PhaseParkingCollectDuration, Parking: &ParkingData{LicensePlate: "ABC123"}, Mobility: MobilityCar}
	require.NoError(t, svc.Save(ctx, "user_a", want))

	got, err := svc.Load(ctx, "user_a")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want, *got)

	require.NoError(t, svc.Save(ctx, "user_a", State{Phase: PhaseIdle}))
	got, err = svc.Load(ctx, "user_a")
	require.NoError(t, err)
	assert.Equal(t, State{Phase: PhaseIdle}, *got)
}

func TestStore_RowsAreScopedPerUser(t *testing.T) {
	db := testutil.NewDB(t, "conversation_states")
	store := NewStore(db)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, "owner", State{Phase: PhaseArrivalPlanning, Arrival: &ArrivalData{Time: "10:00"}}))

	_, err := store.Get(ctx, "someone_else")
	assert.ErrorIs(t, err, ErrNotFound)
}
