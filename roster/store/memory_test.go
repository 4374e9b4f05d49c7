package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/roster-engine/roster"
	"github.com/warp/roster-engine/roster/store"
)

func seedUser(t *testing.T, m *store.Memory, username string) roster.UserID {
	t.Helper()
	id, err := m.CreateUser(context.Background(), &roster.User{Username: username, Role: roster.RoleStaff})
	require.NoError(t, err)
	return id
}

func TestMemory_WithTxRollsBackOnError(t *testing.T) {
	// GIVEN: A committed user
	// WHEN: A transaction creates a shift and then fails
	// THEN: The shift is gone; the pre-existing user survives

	m := store.NewMemory()
	ctx := context.Background()
	alice := seedUser(t, m, "alice")

	boom := errors.New("boom")
	var shiftID roster.ShiftID
	err := m.WithTx(ctx, func(tx roster.Store) error {
		id, err := tx.CreateShift(ctx, &roster.Shift{
			UserID: alice,
			Date:   roster.NewDate(2025, time.October, 1),
			Start:  roster.NewTimeOfDay(9, 0),
			End:    roster.NewTimeOfDay(17, 0),
			Status: roster.ShiftScheduled,
		})
		if err != nil {
			return err
		}
		shiftID = id
		return boom
	})
	require.ErrorIs(t, err, boom)

	gone, err := m.GetShift(ctx, shiftID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	still, err := m.GetUser(ctx, alice)
	require.NoError(t, err)
	assert.NotNil(t, still)
}

func TestMemory_WithTxCommits(t *testing.T) {
	m := store.NewMemory()
	ctx := context.Background()
	alice := seedUser(t, m, "alice")

	var shiftID roster.ShiftID
	err := m.WithTx(ctx, func(tx roster.Store) error {
		id, err := tx.CreateShift(ctx, &roster.Shift{
			UserID: alice,
			Date:   roster.NewDate(2025, time.October, 1),
			Start:  roster.NewTimeOfDay(9, 0),
			End:    roster.NewTimeOfDay(17, 0),
			Status: roster.ShiftScheduled,
		})
		shiftID = id
		return err
	})
	require.NoError(t, err)

	got, err := m.GetShift(ctx, shiftID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, alice, got.UserID)
}

func TestMemory_GetReturnsCopy(t *testing.T) {
	// Mutating a fetched shift must not leak into the store.

	m := store.NewMemory()
	ctx := context.Background()
	alice := seedUser(t, m, "alice")

	id, err := m.CreateShift(ctx, &roster.Shift{
		UserID: alice,
		Date:   roster.NewDate(2025, time.October, 1),
		Start:  roster.NewTimeOfDay(9, 0),
		End:    roster.NewTimeOfDay(17, 0),
		Status: roster.ShiftScheduled,
	})
	require.NoError(t, err)

	fetched, err := m.GetShift(ctx, id)
	require.NoError(t, err)
	fetched.Status = roster.ShiftCancelled

	again, err := m.GetShift(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, roster.ShiftScheduled, again.Status)
}

func TestMemory_ShiftsByUserAndDateSorted(t *testing.T) {
	m := store.NewMemory()
	ctx := context.Background()
	alice := seedUser(t, m, "alice")
	d := roster.NewDate(2025, time.October, 1)

	mk := func(h int) roster.ShiftID {
		id, err := m.CreateShift(ctx, &roster.Shift{
			UserID: alice,
			Date:   d,
			Start:  roster.NewTimeOfDay(h, 0),
			End:    roster.NewTimeOfDay(h+2, 0),
			Status: roster.ShiftScheduled,
		})
		require.NoError(t, err)
		return id
	}

	last := mk(14)
	first := mk(8)
	middle := mk(11)

	shifts, err := m.ShiftsByUserAndDate(ctx, alice, d)
	require.NoError(t, err)
	require.Len(t, shifts, 3)
	assert.Equal(t, first, shifts[0].ID)
	assert.Equal(t, middle, shifts[1].ID)
	assert.Equal(t, last, shifts[2].ID)
}

func TestMemory_AuditQueryFilters(t *testing.T) {
	m := store.NewMemory()
	ctx := context.Background()
	now := time.Date(2025, time.October, 1, 9, 0, 0, 0, time.UTC)

	entries := []roster.AuditEntry{
		{ID: "a", At: now, ActorID: 1, Action: roster.AuditClockIn, EntityKind: "time_log", EntityID: 10},
		{ID: "b", At: now, ActorID: 2, Action: roster.AuditClockOut, EntityKind: "time_log", EntityID: 10},
		{ID: "c", At: now, ActorID: 1, Action: roster.AuditShiftCreated, EntityKind: "shift", EntityID: 5},
	}
	for _, e := range entries {
		require.NoError(t, m.Append(ctx, e))
	}

	actor := roster.UserID(1)
	byActor, err := m.Query(ctx, roster.AuditFilter{ActorID: &actor})
	require.NoError(t, err)
	assert.Len(t, byActor, 2)

	byKind, err := m.Query(ctx, roster.AuditFilter{EntityKind: "shift"})
	require.NoError(t, err)
	require.Len(t, byKind, 1)
	assert.Equal(t, "c", byKind[0].ID)

	action := roster.AuditClockOut
	entity := int64(10)
	narrow, err := m.Query(ctx, roster.AuditFilter{Action: &action, EntityID: &entity})
	require.NoError(t, err)
	require.Len(t, narrow, 1)
	assert.Equal(t, "b", narrow[0].ID)
}
