package roster_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/roster-engine/roster"
)

// =============================================================================
// ROSTER VIEW
// =============================================================================

func TestRoster_GroupsByDay(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.user(t, "alice", roster.RoleStaff)
	bob := e.user(t, "bob", roster.RoleStaff)

	oct1 := date(2025, time.October, 1)
	oct2 := date(2025, time.October, 2)

	e.shift(t, alice, oct2, "09:00", "17:00")
	e.shift(t, alice, oct1, "14:00", "18:00")
	e.shift(t, bob, oct1, "08:00", "12:00")

	view, err := e.reports.Roster(ctx, oct1, date(2025, time.October, 7))
	require.NoError(t, err)

	require.Len(t, view.Days, 2)
	assert.Equal(t, oct1, view.Days[0].Date)
	require.Len(t, view.Days[0].Shifts, 2)
	// Within a day, shifts come back ordered by start time.
	assert.Equal(t, "08:00-12:00", view.Days[0].Shifts[0].Interval())
	assert.Equal(t, "14:00-18:00", view.Days[0].Shifts[1].Interval())

	assert.Equal(t, oct2, view.Days[1].Date)
	assert.Len(t, view.Days[1].Shifts, 1)

	assert.Equal(t, 3, view.TotalShifts)
	assert.Equal(t, "16", view.TotalHours.String())
	assert.Equal(t, 2, view.StaffCount)
	assert.Equal(t, 2, view.DaysWithCoverage)
}

func TestRoster_EmptyWindow(t *testing.T) {
	e := newEnv(t)

	view, err := e.reports.Roster(context.Background(),
		date(2025, time.October, 1), date(2025, time.October, 7))
	require.NoError(t, err)

	assert.Empty(t, view.Days)
	assert.Zero(t, view.TotalShifts)
	assert.True(t, view.TotalHours.IsZero())
}

func TestRoster_InvertedRange(t *testing.T) {
	e := newEnv(t)

	_, err := e.reports.Roster(context.Background(),
		date(2025, time.October, 7), date(2025, time.October, 1))

	assert.ErrorIs(t, err, roster.ErrValidation)
}

// =============================================================================
// WEEKLY REPORT
// =============================================================================

func TestWeeklyReport(t *testing.T) {
	// GIVEN: Alice scheduled 8h Monday and worked all of it; Bob scheduled
	//        4h Tuesday but never clocked in
	// THEN: Per-user hours, completion rates and overall efficiency line up

	e := newEnv(t)
	ctx := context.Background()
	alice := e.user(t, "alice", roster.RoleStaff)
	bob := e.user(t, "bob", roster.RoleStaff)

	monday := date(2025, time.October, 6)
	tuesday := monday.AddDays(1)

	sa := e.shift(t, alice, monday, "09:00", "17:00")
	e.shift(t, bob, tuesday, "08:00", "12:00")

	day := time.Date(2025, time.October, 6, 0, 0, 0, 0, time.UTC)
	e.clock.times = []time.Time{day.Add(9 * time.Hour), day.Add(17 * time.Hour)}
	e.clock.i = 0
	_, err := e.timeLogs.ClockIn(ctx, sa.ID, alice)
	require.NoError(t, err)
	_, err = e.timeLogs.ClockOut(ctx, sa.ID, alice)
	require.NoError(t, err)

	report, err := e.reports.WeeklyReport(ctx, monday)
	require.NoError(t, err)

	assert.Equal(t, monday, report.WeekStart)
	assert.Equal(t, monday.AddDays(6), report.WeekEnd)

	require.Len(t, report.Users, 2)
	aliceStats := report.Users[0]
	bobStats := report.Users[1]

	assert.Equal(t, alice, aliceStats.UserID)
	assert.Equal(t, "8", aliceStats.ScheduledHours.String())
	assert.Equal(t, "8", aliceStats.WorkedHours.String())
	assert.Equal(t, 1, aliceStats.CompletedShifts)
	assert.Equal(t, "100", aliceStats.CompletionRate.String())

	assert.Equal(t, bob, bobStats.UserID)
	assert.Equal(t, "4", bobStats.ScheduledHours.String())
	assert.True(t, bobStats.WorkedHours.IsZero())
	assert.Zero(t, bobStats.CompletedShifts)
	assert.True(t, bobStats.CompletionRate.IsZero())

	assert.Equal(t, "12", report.TotalScheduled.String())
	assert.Equal(t, "8", report.TotalWorked.String())
	// 8 / 12 worked.
	assert.Equal(t, "66.7", report.Efficiency.Round(1).String())
}

func TestWeeklyReport_IncludesOverlappingLeave(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.user(t, "alice", roster.RoleStaff)

	monday := date(2025, time.October, 6)

	// Starts before the week, ends inside it.
	_, err := e.leave.Submit(ctx, alice,
		monday.AddDays(-2), monday.AddDays(1), "vacation", "")
	require.NoError(t, err)

	// Entirely after the week.
	_, err = e.leave.Submit(ctx, alice,
		monday.AddDays(10), monday.AddDays(12), "vacation", "")
	require.NoError(t, err)

	report, err := e.reports.WeeklyReport(ctx, monday)
	require.NoError(t, err)
	assert.Len(t, report.Leave, 1)
}

func TestWeeklyReport_ZeroWeekStart(t *testing.T) {
	e := newEnv(t)

	_, err := e.reports.WeeklyReport(context.Background(), roster.Date{})
	assert.ErrorIs(t, err, roster.ErrValidation)
}
