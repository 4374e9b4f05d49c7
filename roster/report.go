/*
report.go - Roster views and weekly performance reporting

PURPOSE:
  Read-only aggregation over the shift registry and time log tracker:
  the roster view groups a date window's shifts by day, and the weekly
  report compares scheduled hours against actually worked hours per user.
  All hour arithmetic uses decimal to keep report totals exact.

SEE ALSO:
  - shift.go: DurationHours derivation
  - timelog.go: WorkedMinutes derivation
*/
package roster

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"
)

// ReportService answers read-only roster and reporting queries.
type ReportService struct {
	Store Store
}

// =============================================================================
// ROSTER VIEW - Shifts in a window, grouped by day
// =============================================================================

type RosterDay struct {
	Date   Date
	Shifts []Shift
}

type RosterView struct {
	From             Date
	To               Date
	Days             []RosterDay
	TotalShifts      int
	TotalHours       decimal.Decimal
	StaffCount       int
	DaysWithCoverage int
}

// Roster returns all shifts with work date in [from, to], grouped by day,
// each day ordered by start time.
func (s *ReportService) Roster(ctx context.Context, from, to Date) (*RosterView, error) {
	if from.After(to) {
		return nil, &ValidationError{Field: "from", Reason: "range start is after range end"}
	}

	shifts, err := s.Store.ShiftsInRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	view := &RosterView{From: from, To: to, TotalHours: decimal.Zero}
	staff := make(map[UserID]struct{})

	var day *RosterDay
	for _, sh := range shifts {
		if day == nil || !day.Date.Equal(sh.Date) {
			view.Days = append(view.Days, RosterDay{Date: sh.Date})
			day = &view.Days[len(view.Days)-1]
		}
		day.Shifts = append(day.Shifts, sh)

		view.TotalShifts++
		view.TotalHours = view.TotalHours.Add(sh.DurationHours())
		staff[sh.UserID] = struct{}{}
	}

	view.StaffCount = len(staff)
	view.DaysWithCoverage = len(view.Days)
	return view, nil
}

// =============================================================================
// WEEKLY REPORT - Scheduled vs worked hours per user
// =============================================================================

type UserWeekStats struct {
	UserID          UserID
	ScheduledHours  decimal.Decimal
	WorkedHours     decimal.Decimal
	ShiftCount      int
	CompletedShifts int
	// CompletionRate is completed shifts over scheduled shifts, as a
	// percentage.
	CompletionRate decimal.Decimal
}

type WeeklyReport struct {
	WeekStart      Date
	WeekEnd        Date
	Users          []UserWeekStats
	TotalScheduled decimal.Decimal
	TotalWorked    decimal.Decimal
	// Efficiency is total worked over total scheduled hours, as a
	// percentage. Zero when nothing was scheduled.
	Efficiency decimal.Decimal
	Leave      []LeaveRequest
}

// WeeklyReport aggregates the seven days starting at weekStart.
func (s *ReportService) WeeklyReport(ctx context.Context, weekStart Date) (*WeeklyReport, error) {
	if weekStart.IsZero() {
		return nil, &ValidationError{Field: "week_start", Reason: "week start date is required"}
	}
	weekEnd := weekStart.AddDays(6)

	shifts, err := s.Store.ShiftsInRange(ctx, weekStart, weekEnd)
	if err != nil {
		return nil, err
	}
	logs, err := s.Store.TimeLogsByShiftDates(ctx, weekStart, weekEnd)
	if err != nil {
		return nil, err
	}
	leave, err := s.Store.LeaveRequestsOverlapping(ctx, weekStart, weekEnd)
	if err != nil {
		return nil, err
	}

	stats := make(map[UserID]*UserWeekStats)
	forUser := func(id UserID) *UserWeekStats {
		st, ok := stats[id]
		if !ok {
			st = &UserWeekStats{
				UserID:         id,
				ScheduledHours: decimal.Zero,
				WorkedHours:    decimal.Zero,
			}
			stats[id] = st
		}
		return st
	}

	report := &WeeklyReport{
		WeekStart:      weekStart,
		WeekEnd:        weekEnd,
		TotalScheduled: decimal.Zero,
		TotalWorked:    decimal.Zero,
		Efficiency:     decimal.Zero,
		Leave:          leave,
	}

	for _, sh := range shifts {
		st := forUser(sh.UserID)
		hours := sh.DurationHours()
		st.ScheduledHours = st.ScheduledHours.Add(hours)
		st.ShiftCount++
		if sh.Status == ShiftCompleted {
			st.CompletedShifts++
		}
		report.TotalScheduled = report.TotalScheduled.Add(hours)
	}

	for _, l := range logs {
		st, ok := stats[l.UserID]
		if !ok {
			continue
		}
		worked := l.WorkedHours()
		st.WorkedHours = st.WorkedHours.Add(worked)
		report.TotalWorked = report.TotalWorked.Add(worked)
	}

	hundred := decimal.NewFromInt(100)
	for _, st := range stats {
		if st.ShiftCount > 0 {
			st.CompletionRate = decimal.NewFromInt(int64(st.CompletedShifts)).
				Div(decimal.NewFromInt(int64(st.ShiftCount))).Mul(hundred)
		}
		report.Users = append(report.Users, *st)
	}
	sort.Slice(report.Users, func(i, j int) bool {
		return report.Users[i].UserID < report.Users[j].UserID
	})

	if report.TotalScheduled.IsPositive() {
		report.Efficiency = report.TotalWorked.Div(report.TotalScheduled).Mul(hundred)
	}

	return report, nil
}
