/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

DERIVED FIELDS:
  duration_hours, worked_minutes, duration_days and conflicts are computed
  at serialization time from the domain model; they are never stored.

SEE ALSO:
  - handlers.go: Uses these types
  - roster/types.go: Domain model these map to
*/
package api

import (
	"time"

	"github.com/warp/roster-engine/roster"
)

// =============================================================================
// USERS
// =============================================================================

// UserDTO represents a user in API responses.
type UserDTO struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

// CreateUserRequest is the request to create a user.
type CreateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

func toUserDTO(u *roster.User) UserDTO {
	return UserDTO{
		ID:       int64(u.ID),
		Username: u.Username,
		Email:    u.Email,
		Name:     u.Name,
		Role:     string(u.Role),
	}
}

// =============================================================================
// SHIFTS
// =============================================================================

// ShiftDTO represents a shift in API responses. Conflicts is only populated
// on creation responses and explicit conflict queries.
type ShiftDTO struct {
	ID            int64    `json:"id"`
	UserID        int64    `json:"user_id"`
	Date          string   `json:"date"`
	StartTime     string   `json:"start_time"`
	EndTime       string   `json:"end_time"`
	Status        string   `json:"status"`
	DurationHours float64  `json:"duration_hours"`
	Conflicts     []string `json:"conflicts,omitempty"`
}

// CreateShiftRequest is the request to schedule a shift.
type CreateShiftRequest struct {
	UserID    int64  `json:"user_id"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

func toShiftDTO(s *roster.Shift) ShiftDTO {
	hours, _ := s.DurationHours().Float64()
	return ShiftDTO{
		ID:            int64(s.ID),
		UserID:        int64(s.UserID),
		Date:          s.Date.String(),
		StartTime:     s.Start.String(),
		EndTime:       s.End.String(),
		Status:        string(s.Status),
		DurationHours: hours,
	}
}

// =============================================================================
// TIME LOGS
// =============================================================================

// TimeLogDTO represents an attendance record.
type TimeLogDTO struct {
	ID            int64   `json:"id"`
	ShiftID       int64   `json:"shift_id"`
	UserID        int64   `json:"user_id"`
	ClockIn       string  `json:"clock_in"`
	ClockOut      *string `json:"clock_out,omitempty"`
	Open          bool    `json:"open"`
	WorkedMinutes int     `json:"worked_minutes"`
}

// ClockRequest identifies who is clocking in or out of a shift.
type ClockRequest struct {
	UserID int64 `json:"user_id"`
}

func toTimeLogDTO(l *roster.TimeLog) TimeLogDTO {
	dto := TimeLogDTO{
		ID:            int64(l.ID),
		ShiftID:       int64(l.ShiftID),
		UserID:        int64(l.UserID),
		ClockIn:       l.ClockIn.Format(time.RFC3339),
		Open:          l.IsOpen(),
		WorkedMinutes: l.WorkedMinutes(),
	}
	if l.ClockOut != nil {
		dto.ClockOut = strPtr(l.ClockOut.Format(time.RFC3339))
	}
	return dto
}

// =============================================================================
// LEAVE REQUESTS
// =============================================================================

// LeaveRequestDTO represents a leave request in API responses.
type LeaveRequestDTO struct {
	ID           int64   `json:"id"`
	RequesterID  int64   `json:"requester_id"`
	ApproverID   *int64  `json:"approver_id,omitempty"`
	StartDate    string  `json:"start_date"`
	EndDate      string  `json:"end_date"`
	Type         string  `json:"type"`
	Status       string  `json:"status"`
	Reason       string  `json:"reason"`
	DurationDays int     `json:"duration_days"`
	CreatedAt    string  `json:"created_at"`
	DecidedAt    *string `json:"decided_at,omitempty"`
}

// SubmitLeaveRequest is the request body for submitting leave.
type SubmitLeaveRequest struct {
	RequesterID int64  `json:"requester_id"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Type        string `json:"type"`
	Reason      string `json:"reason"`
}

// DecisionRequest is the request body for approving or rejecting a request.
// Reason is only used on rejection.
type DecisionRequest struct {
	ApproverID int64  `json:"approver_id"`
	Reason     string `json:"reason"`
}

func toLeaveRequestDTO(r *roster.LeaveRequest) LeaveRequestDTO {
	dto := LeaveRequestDTO{
		ID:           int64(r.ID),
		RequesterID:  int64(r.RequesterID),
		StartDate:    r.StartDate.String(),
		EndDate:      r.EndDate.String(),
		Type:         r.Type,
		Status:       string(r.Status),
		Reason:       r.Reason,
		DurationDays: r.DurationDays(),
		CreatedAt:    r.CreatedAt.Format(time.RFC3339),
	}
	if r.ApproverID != nil {
		id := int64(*r.ApproverID)
		dto.ApproverID = &id
	}
	if r.DecidedAt != nil {
		dto.DecidedAt = strPtr(r.DecidedAt.Format(time.RFC3339))
	}
	return dto
}

// =============================================================================
// SWAP REQUESTS
// =============================================================================

// SwapRequestDTO represents a swap request in API responses. Conflicts is
// only populated on explicit conflict queries.
type SwapRequestDTO struct {
	ID         int64    `json:"id"`
	ShiftID    int64    `json:"shift_id"`
	FromUserID int64    `json:"from_user_id"`
	ToUserID   int64    `json:"to_user_id"`
	ApproverID *int64   `json:"approver_id,omitempty"`
	Status     string   `json:"status"`
	Note       string   `json:"note"`
	CreatedAt  string   `json:"created_at"`
	DecidedAt  *string  `json:"decided_at,omitempty"`
	Conflicts  []string `json:"conflicts,omitempty"`
}

// SubmitSwapRequest is the request body for proposing a swap.
type SubmitSwapRequest struct {
	ShiftID    int64  `json:"shift_id"`
	FromUserID int64  `json:"from_user_id"`
	ToUserID   int64  `json:"to_user_id"`
	Note       string `json:"note"`
}

func toSwapRequestDTO(r *roster.SwapRequest) SwapRequestDTO {
	dto := SwapRequestDTO{
		ID:         int64(r.ID),
		ShiftID:    int64(r.ShiftID),
		FromUserID: int64(r.FromUserID),
		ToUserID:   int64(r.ToUserID),
		Status:     string(r.Status),
		Note:       r.Note,
		CreatedAt:  r.CreatedAt.Format(time.RFC3339),
	}
	if r.ApproverID != nil {
		id := int64(*r.ApproverID)
		dto.ApproverID = &id
	}
	if r.DecidedAt != nil {
		dto.DecidedAt = strPtr(r.DecidedAt.Format(time.RFC3339))
	}
	return dto
}

// =============================================================================
// ROSTER AND REPORTS
// =============================================================================

// RosterDayDTO is one day of the roster view.
type RosterDayDTO struct {
	Date   string     `json:"date"`
	Shifts []ShiftDTO `json:"shifts"`
}

// RosterViewDTO is the grouped roster for a date window.
type RosterViewDTO struct {
	From             string         `json:"from"`
	To               string         `json:"to"`
	Days             []RosterDayDTO `json:"days"`
	TotalShifts      int            `json:"total_shifts"`
	TotalHours       float64        `json:"total_hours"`
	StaffCount       int            `json:"staff_count"`
	DaysWithCoverage int            `json:"days_with_coverage"`
}

func toRosterViewDTO(v *roster.RosterView) RosterViewDTO {
	hours, _ := v.TotalHours.Float64()
	dto := RosterViewDTO{
		From:             v.From.String(),
		To:               v.To.String(),
		Days:             make([]RosterDayDTO, len(v.Days)),
		TotalShifts:      v.TotalShifts,
		TotalHours:       hours,
		StaffCount:       v.StaffCount,
		DaysWithCoverage: v.DaysWithCoverage,
	}
	for i, day := range v.Days {
		d := RosterDayDTO{Date: day.Date.String(), Shifts: make([]ShiftDTO, len(day.Shifts))}
		for j := range day.Shifts {
			d.Shifts[j] = toShiftDTO(&day.Shifts[j])
		}
		dto.Days[i] = d
	}
	return dto
}

// UserWeekStatsDTO is one user's row in the weekly report.
type UserWeekStatsDTO struct {
	UserID          int64   `json:"user_id"`
	ScheduledHours  float64 `json:"scheduled_hours"`
	WorkedHours     float64 `json:"worked_hours"`
	ShiftCount      int     `json:"shift_count"`
	CompletedShifts int     `json:"completed_shifts"`
	CompletionRate  float64 `json:"completion_rate"`
}

// WeeklyReportDTO is the scheduled-vs-worked summary for one week.
type WeeklyReportDTO struct {
	WeekStart      string             `json:"week_start"`
	WeekEnd        string             `json:"week_end"`
	Users          []UserWeekStatsDTO `json:"users"`
	TotalScheduled float64            `json:"total_scheduled"`
	TotalWorked    float64            `json:"total_worked"`
	Efficiency     float64            `json:"efficiency"`
	Leave          []LeaveRequestDTO  `json:"leave"`
}

func toWeeklyReportDTO(r *roster.WeeklyReport) WeeklyReportDTO {
	scheduled, _ := r.TotalScheduled.Float64()
	worked, _ := r.TotalWorked.Float64()
	efficiency, _ := r.Efficiency.Round(1).Float64()

	dto := WeeklyReportDTO{
		WeekStart:      r.WeekStart.String(),
		WeekEnd:        r.WeekEnd.String(),
		Users:          make([]UserWeekStatsDTO, len(r.Users)),
		TotalScheduled: scheduled,
		TotalWorked:    worked,
		Efficiency:     efficiency,
		Leave:          make([]LeaveRequestDTO, len(r.Leave)),
	}
	for i, u := range r.Users {
		sch, _ := u.ScheduledHours.Float64()
		wrk, _ := u.WorkedHours.Float64()
		rate, _ := u.CompletionRate.Round(1).Float64()
		dto.Users[i] = UserWeekStatsDTO{
			UserID:          int64(u.UserID),
			ScheduledHours:  sch,
			WorkedHours:     wrk,
			ShiftCount:      u.ShiftCount,
			CompletedShifts: u.CompletedShifts,
			CompletionRate:  rate,
		}
	}
	for i := range r.Leave {
		dto.Leave[i] = toLeaveRequestDTO(&r.Leave[i])
	}
	return dto
}

// =============================================================================
// AUDIT
// =============================================================================

// AuditEntryDTO represents one audit log entry.
type AuditEntryDTO struct {
	ID         string `json:"id"`
	At         string `json:"at"`
	ActorID    int64  `json:"actor_id"`
	Action     string `json:"action"`
	EntityKind string `json:"entity_kind"`
	EntityID   int64  `json:"entity_id"`
	Detail     string `json:"detail,omitempty"`
}

func toAuditEntryDTO(e roster.AuditEntry) AuditEntryDTO {
	return AuditEntryDTO{
		ID:         e.ID,
		At:         e.At.Format(time.RFC3339),
		ActorID:    int64(e.ActorID),
		Action:     string(e.Action),
		EntityKind: e.EntityKind,
		EntityID:   e.EntityID,
		Detail:     e.Detail,
	}
}

// ErrorResponse is the standard error payload.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func strPtr(s string) *string {
	return &s
}
