/*
Package roster provides the core staff rostering engine.

PURPOSE:
  This package contains the domain types and workflows for managing a single
  organization's roster: scheduled shifts, actual attendance (time logs),
  leave requests, and shift-swap requests, with role-gated approval
  transitions and overlap/conflict detection across all of them.

KEY CONCEPTS IN THIS FILE (types.go):
  - User/Role: Who is on the roster and who may approve requests
  - Shift: One scheduled work period (date + start/end time of day)
  - TimeLog: One actual attendance record (clock-in / clock-out)
  - LeaveRequest/SwapRequest: Pending -> Approved | Rejected workflows

DESIGN PRINCIPLES:
  1. Conflicts are advisory at creation, authoritative at approval: every
     approval re-validates inside the store transaction.
  2. Decisions are one-way: a decided request is never mutated again.
  3. Precision: decimal.Decimal for hour arithmetic, no floating-point drift.
  4. All clock reads go through the Clock interface for testability.

USAGE:
  shifts := &roster.ShiftService{Store: store, Clock: roster.SystemClock{}}
  shift, err := shifts.CreateShift(ctx, userID, date, start, end)
  conflicts, err := shifts.FindConflicts(ctx, userID, date, start, end, 0)

SEE ALSO:
  - time.go: Date/TimeOfDay values and the Overlaps predicate
  - shift.go, timelog.go, leave.go, swap.go: The four workflows
  - store.go: Persistence, directory, clock, and audit collaborators
*/
package roster

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS - Store-assigned integer ids
// =============================================================================

type UserID int64
type ShiftID int64
type TimeLogID int64
type LeaveRequestID int64
type SwapRequestID int64

// =============================================================================
// USER - Referenced by id; owned by the identity collaborator
// =============================================================================

type Role string

const (
	RoleStaff      Role = "staff"
	RoleSupervisor Role = "supervisor"
	RoleAdmin      Role = "admin"
)

// Valid reports whether the role is one of the three known roles.
func (r Role) Valid() bool {
	return r == RoleStaff || r == RoleSupervisor || r == RoleAdmin
}

// CanApproveRequests reports whether the role may decide leave and swap
// requests. Supervisors and admins approve; staff do not.
func (r Role) CanApproveRequests() bool {
	return r == RoleAdmin || r == RoleSupervisor
}

type User struct {
	ID       UserID
	Username string
	Email    string
	Name     string
	Role     Role
}

// =============================================================================
// SHIFT - One scheduled work period
// =============================================================================

type ShiftStatus string

const (
	ShiftScheduled  ShiftStatus = "scheduled"
	ShiftInProgress ShiftStatus = "in_progress"
	ShiftCompleted  ShiftStatus = "completed"
	ShiftCancelled  ShiftStatus = "cancelled"
)

type Shift struct {
	ID     ShiftID
	UserID UserID
	Date   Date
	Start  TimeOfDay
	End    TimeOfDay
	Status ShiftStatus
}

// DurationHours returns the scheduled length of the shift in hours.
// A shift whose end time is not after its start time crosses midnight.
func (s *Shift) DurationHours() decimal.Decimal {
	minutes := s.End.Minutes() - s.Start.Minutes()
	if s.End <= s.Start {
		minutes += 24 * 60
	}
	return decimal.NewFromInt(int64(minutes)).Div(decimal.NewFromInt(60))
}

// OverlapsInterval reports whether the shift overlaps the candidate
// (date, start, end) interval, half-open.
func (s *Shift) OverlapsInterval(date Date, start, end TimeOfDay) bool {
	return Overlaps(s.Date, s.Start, s.End, date, start, end)
}

// Interval renders the shift's time window as "HH:MM-HH:MM".
func (s *Shift) Interval() string {
	return s.Start.String() + "-" + s.End.String()
}

// Blocking reports whether the shift occupies its time slot for conflict
// purposes. Completed and cancelled shifts do not block.
func (s *Shift) Blocking() bool {
	return s.Status == ShiftScheduled || s.Status == ShiftInProgress
}

// =============================================================================
// TIME LOG - Actual attendance against a shift (Open -> Closed)
// =============================================================================

type TimeLog struct {
	ID       TimeLogID
	ShiftID  ShiftID
	UserID   UserID
	ClockIn  time.Time
	ClockOut *time.Time
}

// IsOpen reports whether the log is still awaiting clock-out.
func (l *TimeLog) IsOpen() bool {
	return l.ClockOut == nil
}

// WorkedMinutes returns whole minutes between clock-in and clock-out,
// or 0 while the log is open.
func (l *TimeLog) WorkedMinutes() int {
	if l.ClockOut == nil {
		return 0
	}
	return int(l.ClockOut.Sub(l.ClockIn).Minutes())
}

// WorkedHours returns the worked time in hours.
func (l *TimeLog) WorkedHours() decimal.Decimal {
	return decimal.NewFromInt(int64(l.WorkedMinutes())).Div(decimal.NewFromInt(60))
}

// IsOvertime reports whether worked hours strictly exceed the scheduled hours.
func (l *TimeLog) IsOvertime(scheduledHours decimal.Decimal) bool {
	return l.WorkedHours().GreaterThan(scheduledHours)
}

// =============================================================================
// REQUEST STATUS - Shared Pending -> Approved | Rejected lifecycle
// =============================================================================

type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

// Decided reports whether the request has reached a terminal status.
func (s RequestStatus) Decided() bool {
	return s == RequestApproved || s == RequestRejected
}

func (s RequestStatus) Valid() bool {
	return s == RequestPending || s == RequestApproved || s == RequestRejected
}

// =============================================================================
// LEAVE REQUEST - Petition for a date range off
// =============================================================================

type LeaveRequest struct {
	ID          LeaveRequestID
	RequesterID UserID
	ApproverID  *UserID
	StartDate   Date
	EndDate     Date
	Type        string
	Status      RequestStatus
	Reason      string
	CreatedAt   time.Time
	DecidedAt   *time.Time
}

// DurationDays returns the inclusive length of the leave in days.
func (r *LeaveRequest) DurationDays() int {
	return DaysBetween(r.StartDate, r.EndDate) + 1
}

// OverlapsShift reports whether the leave's inclusive date range covers the
// shift's work date.
func (r *LeaveRequest) OverlapsShift(s *Shift) bool {
	return !(r.EndDate.Before(s.Date) || r.StartDate.After(s.Date))
}

// =============================================================================
// SWAP REQUEST - Proposal to transfer shift ownership
// =============================================================================

type SwapRequest struct {
	ID         SwapRequestID
	ShiftID    ShiftID
	FromUserID UserID
	ToUserID   UserID
	ApproverID *UserID
	Status     RequestStatus
	Note       string
	CreatedAt  time.Time
	DecidedAt  *time.Time
}

func (r *SwapRequest) String() string {
	return fmt.Sprintf("swap %d: shift %d from user %d to user %d (%s)",
		r.ID, r.ShiftID, r.FromUserID, r.ToUserID, r.Status)
}
