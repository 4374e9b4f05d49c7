package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/roster-engine/roster"
	"github.com/warp/roster-engine/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func seedUser(t *testing.T, s *sqlite.Store, username string, role roster.Role) roster.UserID {
	t.Helper()
	id, err := s.CreateUser(context.Background(), &roster.User{
		Username: username,
		Email:    username + "@example.com",
		Name:     username,
		Role:     role,
	})
	require.NoError(t, err)
	return id
}

func seedShift(t *testing.T, s *sqlite.Store, userID roster.UserID, d roster.Date, startH, endH int) roster.ShiftID {
	t.Helper()
	id, err := s.CreateShift(context.Background(), &roster.Shift{
		UserID: userID,
		Date:   d,
		Start:  roster.NewTimeOfDay(startH, 0),
		End:    roster.NewTimeOfDay(endH, 0),
		Status: roster.ShiftScheduled,
	})
	require.NoError(t, err)
	return id
}

// =============================================================================
// ROUND TRIPS
// =============================================================================

func TestSQLite_UserRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id := seedUser(t, s, "alice", roster.RoleSupervisor)

	got, err := s.GetUser(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, roster.RoleSupervisor, got.Role)

	missing, err := s.GetUser(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSQLite_ShiftRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := seedUser(t, s, "alice", roster.RoleStaff)
	d := roster.NewDate(2025, time.October, 1)

	id := seedShift(t, s, alice, d, 9, 17)

	got, err := s.GetShift(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Date.Equal(d))
	assert.Equal(t, "09:00-17:00", got.Interval())
	assert.Equal(t, roster.ShiftScheduled, got.Status)

	got.Status = roster.ShiftCompleted
	require.NoError(t, s.UpdateShift(ctx, got))

	again, err := s.GetShift(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, roster.ShiftCompleted, again.Status)
}

func TestSQLite_UpdateMissingShift(t *testing.T) {
	s := newTestStore(t)

	err := s.UpdateShift(context.Background(), &roster.Shift{
		ID:     999,
		Date:   roster.NewDate(2025, time.October, 1),
		Status: roster.ShiftScheduled,
	})
	assert.ErrorIs(t, err, roster.ErrNotFound)
}

func TestSQLite_ShiftsByUserAndDateOrdered(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := seedUser(t, s, "alice", roster.RoleStaff)
	d := roster.NewDate(2025, time.October, 1)

	late := seedShift(t, s, alice, d, 14, 18)
	early := seedShift(t, s, alice, d, 8, 12)
	seedShift(t, s, alice, d.AddDays(1), 9, 17) // other day, excluded

	shifts, err := s.ShiftsByUserAndDate(ctx, alice, d)
	require.NoError(t, err)
	require.Len(t, shifts, 2)
	assert.Equal(t, early, shifts[0].ID)
	assert.Equal(t, late, shifts[1].ID)
}

func TestSQLite_LeaveRequestRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := seedUser(t, s, "alice", roster.RoleStaff)
	boss := seedUser(t, s, "boss", roster.RoleSupervisor)

	created := time.Date(2025, time.September, 20, 10, 0, 0, 0, time.UTC)
	id, err := s.CreateLeaveRequest(ctx, &roster.LeaveRequest{
		RequesterID: alice,
		StartDate:   roster.NewDate(2025, time.October, 1),
		EndDate:     roster.NewDate(2025, time.October, 3),
		Type:        "vacation",
		Status:      roster.RequestPending,
		Reason:      "family trip",
		CreatedAt:   created,
	})
	require.NoError(t, err)

	got, err := s.GetLeaveRequest(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Nil(t, got.ApproverID)
	assert.Nil(t, got.DecidedAt)
	assert.Equal(t, "family trip", got.Reason)
	assert.True(t, got.CreatedAt.Equal(created))

	decided := created.Add(24 * time.Hour)
	got.Status = roster.RequestApproved
	got.ApproverID = &boss
	got.DecidedAt = &decided
	require.NoError(t, s.UpdateLeaveRequest(ctx, got))

	again, err := s.GetLeaveRequest(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, again.ApproverID)
	assert.Equal(t, boss, *again.ApproverID)
	require.NotNil(t, again.DecidedAt)
	assert.True(t, again.DecidedAt.Equal(decided))
}

func TestSQLite_LeaveRequestsOverlapping(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := seedUser(t, s, "alice", roster.RoleStaff)

	mk := func(start, end roster.Date) roster.LeaveRequestID {
		id, err := s.CreateLeaveRequest(ctx, &roster.LeaveRequest{
			RequesterID: alice,
			StartDate:   start,
			EndDate:     end,
			Type:        "vacation",
			Status:      roster.RequestPending,
			CreatedAt:   time.Now().UTC(),
		})
		require.NoError(t, err)
		return id
	}

	weekStart := roster.NewDate(2025, time.October, 6)
	weekEnd := weekStart.AddDays(6)

	inside := mk(weekStart.AddDays(1), weekStart.AddDays(2))
	straddles := mk(weekStart.AddDays(-3), weekStart)
	mk(weekEnd.AddDays(1), weekEnd.AddDays(3)) // after, excluded

	overlapping, err := s.LeaveRequestsOverlapping(ctx, weekStart, weekEnd)
	require.NoError(t, err)
	require.Len(t, overlapping, 2)
	assert.Equal(t, inside, overlapping[0].ID)
	assert.Equal(t, straddles, overlapping[1].ID)
}

// =============================================================================
// TIME LOGS
// =============================================================================

func TestSQLite_OpenTimeLog(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := seedUser(t, s, "alice", roster.RoleStaff)
	shiftID := seedShift(t, s, alice, roster.NewDate(2025, time.October, 1), 9, 17)

	none, err := s.OpenTimeLog(ctx, shiftID, alice)
	require.NoError(t, err)
	assert.Nil(t, none)

	in := time.Date(2025, time.October, 1, 9, 0, 0, 0, time.UTC)
	logID, err := s.CreateTimeLog(ctx, &roster.TimeLog{ShiftID: shiftID, UserID: alice, ClockIn: in})
	require.NoError(t, err)

	open, err := s.OpenTimeLog(ctx, shiftID, alice)
	require.NoError(t, err)
	require.NotNil(t, open)
	assert.Equal(t, logID, open.ID)
	assert.True(t, open.IsOpen())

	out := in.Add(8 * time.Hour)
	open.ClockOut = &out
	require.NoError(t, s.UpdateTimeLog(ctx, open))

	closedNow, err := s.OpenTimeLog(ctx, shiftID, alice)
	require.NoError(t, err)
	assert.Nil(t, closedNow)
}

func TestSQLite_SecondOpenLogRejectedByIndex(t *testing.T) {
	// The partial unique index enforces the single-open-log invariant even
	// if application checks are bypassed.

	s := newTestStore(t)
	ctx := context.Background()
	alice := seedUser(t, s, "alice", roster.RoleStaff)
	shiftID := seedShift(t, s, alice, roster.NewDate(2025, time.October, 1), 9, 17)

	in := time.Date(2025, time.October, 1, 9, 0, 0, 0, time.UTC)
	_, err := s.CreateTimeLog(ctx, &roster.TimeLog{ShiftID: shiftID, UserID: alice, ClockIn: in})
	require.NoError(t, err)

	_, err = s.CreateTimeLog(ctx, &roster.TimeLog{ShiftID: shiftID, UserID: alice, ClockIn: in})
	assert.Error(t, err)
}

func TestSQLite_TimeLogsByShiftDates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := seedUser(t, s, "alice", roster.RoleStaff)

	inWeek := seedShift(t, s, alice, roster.NewDate(2025, time.October, 6), 9, 17)
	outWeek := seedShift(t, s, alice, roster.NewDate(2025, time.October, 20), 9, 17)

	in := time.Date(2025, time.October, 6, 9, 0, 0, 0, time.UTC)
	_, err := s.CreateTimeLog(ctx, &roster.TimeLog{ShiftID: inWeek, UserID: alice, ClockIn: in})
	require.NoError(t, err)
	_, err = s.CreateTimeLog(ctx, &roster.TimeLog{ShiftID: outWeek, UserID: alice, ClockIn: in.AddDate(0, 0, 14)})
	require.NoError(t, err)

	logs, err := s.TimeLogsByShiftDates(ctx,
		roster.NewDate(2025, time.October, 6), roster.NewDate(2025, time.October, 12))
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, inWeek, logs[0].ShiftID)
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

func TestSQLite_WithTxRollsBackOnError(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := seedUser(t, s, "alice", roster.RoleStaff)

	boom := errors.New("boom")
	var shiftID roster.ShiftID
	err := s.WithTx(ctx, func(tx roster.Store) error {
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

	gone, err := s.GetShift(ctx, shiftID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestSQLite_WithTxCommits(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := seedUser(t, s, "alice", roster.RoleStaff)

	var shiftID roster.ShiftID
	err := s.WithTx(ctx, func(tx roster.Store) error {
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

	got, err := s.GetShift(ctx, shiftID)
	require.NoError(t, err)
	require.NotNil(t, got)
}

// =============================================================================
// AUDIT
// =============================================================================

func TestSQLite_AuditAppendAndQuery(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2025, time.October, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, s.Append(ctx, roster.AuditEntry{
		ID: "a", At: now, ActorID: 1, Action: roster.AuditClockIn,
		EntityKind: "time_log", EntityID: 10,
	}))
	require.NoError(t, s.Append(ctx, roster.AuditEntry{
		ID: "b", At: now.Add(time.Minute), ActorID: 2, Action: roster.AuditShiftCreated,
		EntityKind: "shift", EntityID: 5, Detail: "2025-10-01 09:00-17:00",
	}))

	all, err := s.Query(ctx, roster.AuditFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byKind, err := s.Query(ctx, roster.AuditFilter{EntityKind: "shift"})
	require.NoError(t, err)
	require.Len(t, byKind, 1)
	assert.Equal(t, "b", byKind[0].ID)
	assert.Equal(t, "2025-10-01 09:00-17:00", byKind[0].Detail)
}
