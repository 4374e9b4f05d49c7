/*
handlers.go - HTTP API handlers for the rostering system

PURPOSE:
  Exposes the rostering engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Users:
    GET    /api/users                  List all users
    POST   /api/users                  Create user
    GET    /api/users/{id}             Get user details

  Shifts:
    POST   /api/shifts                 Schedule a shift (response carries
                                       advisory conflicts)
    GET    /api/shifts/{id}            Get shift details
    GET    /api/shifts/{id}/conflicts  Conflicting shifts for the same slot
    POST   /api/shifts/{id}/clock-in   Open a time log
    POST   /api/shifts/{id}/clock-out  Close the open time log

  Leave:
    POST   /api/leave                  Submit leave request
    GET    /api/leave/{id}             Get leave request
    POST   /api/leave/{id}/approve     Approve (supervisor/admin)
    POST   /api/leave/{id}/reject      Reject with reason

  Swaps:
    GET    /api/swaps                  List swap requests (?status=pending)
    POST   /api/swaps                  Propose a swap
    GET    /api/swaps/{id}             Get swap request
    GET    /api/swaps/{id}/conflicts   Advisory conflict descriptions
    POST   /api/swaps/{id}/approve     Approve and reassign the shift
    POST   /api/swaps/{id}/reject      Reject with note

  Reports:
    GET    /api/roster?from=&to=       Grouped roster view
    GET    /api/reports/weekly?week_start=  Scheduled vs worked hours

  Audit:
    GET    /api/audit                  Filtered audit trail

ERROR HANDLING:
  Domain errors map to HTTP status by sentinel:
  - 400: Validation errors, invalid input
  - 403: Actor not allowed to perform the action
  - 404: Resource not found
  - 409: Conflict or invalid state transition
  - 500: Internal errors

SECURITY NOTE:
  Actor identity comes from request bodies, not from an authenticated
  session. Deploy behind the identity gateway, which injects verified IDs.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/warp/roster-engine/roster"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Users    *roster.UserService
	Shifts   *roster.ShiftService
	TimeLogs *roster.TimeLogService
	Leave    *roster.LeaveService
	Swaps    *roster.SwapService
	Reports  *roster.ReportService
	Audit    roster.AuditLog
}

// NewHandler wires the domain services over the given store and audit log.
func NewHandler(store roster.TxStore, audit roster.AuditLog, clock roster.Clock) *Handler {
	dir := &roster.StoreDirectory{Users: store}
	return &Handler{
		Users:    &roster.UserService{Store: store},
		Shifts:   &roster.ShiftService{Store: store, Clock: clock, Audit: audit},
		TimeLogs: &roster.TimeLogService{Store: store, Clock: clock, Audit: audit},
		Leave:    &roster.LeaveService{Store: store, Directory: dir, Clock: clock, Audit: audit},
		Swaps:    &roster.SwapService{Store: store, Directory: dir, Clock: clock, Audit: audit},
		Reports:  &roster.ReportService{Store: store},
		Audit:    audit,
	}
}

// =============================================================================
// USER HANDLERS
// =============================================================================

// ListUsers returns all users.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Users.ListUsers(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	dtos := make([]UserDTO, len(users))
	for i := range users {
		dtos[i] = toUserDTO(&users[i])
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateUser creates a new user.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	u, err := h.Users.CreateUser(r.Context(), req.Username, req.Email, req.Name, roster.Role(req.Role))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toUserDTO(u))
}

// GetUser returns a single user.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	u, err := h.Users.GetUser(r.Context(), roster.UserID(id))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserDTO(u))
}

// =============================================================================
// SHIFT HANDLERS
// =============================================================================

// CreateShift schedules a shift. The response includes advisory conflict
// descriptions; creation itself never blocks on conflicts.
func (h *Handler) CreateShift(w http.ResponseWriter, r *http.Request) {
	var req CreateShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	date, err := roster.ParseDate(req.Date)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	start, err := roster.ParseTimeOfDay(req.StartTime)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	end, err := roster.ParseTimeOfDay(req.EndTime)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	ctx := r.Context()
	userID := roster.UserID(req.UserID)

	conflicts, err := h.Shifts.FindConflicts(ctx, userID, date, start, end, 0)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	shift, err := h.Shifts.CreateShift(ctx, userID, date, start, end)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	dto := toShiftDTO(shift)
	for _, c := range conflicts {
		dto.Conflicts = append(dto.Conflicts, c.Date.String()+" "+c.Interval())
	}
	writeJSON(w, http.StatusCreated, dto)
}

// GetShift returns a single shift.
func (h *Handler) GetShift(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	shift, err := h.Shifts.GetShift(r.Context(), roster.ShiftID(id))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toShiftDTO(shift))
}

// GetShiftConflicts returns the shifts colliding with this shift's slot.
func (h *Handler) GetShiftConflicts(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	shift, err := h.Shifts.GetShift(ctx, roster.ShiftID(id))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	conflicts, err := h.Shifts.FindConflicts(ctx, shift.UserID, shift.Date, shift.Start, shift.End, shift.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	dtos := make([]ShiftDTO, len(conflicts))
	for i := range conflicts {
		dtos[i] = toShiftDTO(&conflicts[i])
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ClockIn opens a time log for the shift.
func (h *Handler) ClockIn(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req ClockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	log, err := h.TimeLogs.ClockIn(r.Context(), roster.ShiftID(id), roster.UserID(req.UserID))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTimeLogDTO(log))
}

// ClockOut closes the open time log for the shift.
func (h *Handler) ClockOut(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req ClockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	log, err := h.TimeLogs.ClockOut(r.Context(), roster.ShiftID(id), roster.UserID(req.UserID))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTimeLogDTO(log))
}

// =============================================================================
// LEAVE HANDLERS
// =============================================================================

// SubmitLeave creates a pending leave request.
func (h *Handler) SubmitLeave(w http.ResponseWriter, r *http.Request) {
	var req SubmitLeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	start, err := roster.ParseDate(req.StartDate)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	end, err := roster.ParseDate(req.EndDate)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	leave, err := h.Leave.Submit(r.Context(), roster.UserID(req.RequesterID), start, end, req.Type, req.Reason)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toLeaveRequestDTO(leave))
}

// GetLeave returns a single leave request.
func (h *Handler) GetLeave(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	leave, err := h.Leave.Get(r.Context(), roster.LeaveRequestID(id))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toLeaveRequestDTO(leave))
}

// ApproveLeave approves a pending leave request.
func (h *Handler) ApproveLeave(w http.ResponseWriter, r *http.Request) {
	h.decideLeave(w, r, true)
}

// RejectLeave rejects a pending leave request.
func (h *Handler) RejectLeave(w http.ResponseWriter, r *http.Request) {
	h.decideLeave(w, r, false)
}

func (h *Handler) decideLeave(w http.ResponseWriter, r *http.Request, approve bool) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req DecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	var leave *roster.LeaveRequest
	var err error
	if approve {
		leave, err = h.Leave.Approve(r.Context(), roster.LeaveRequestID(id), roster.UserID(req.ApproverID))
	} else {
		leave, err = h.Leave.Reject(r.Context(), roster.LeaveRequestID(id), roster.UserID(req.ApproverID), req.Reason)
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toLeaveRequestDTO(leave))
}

// =============================================================================
// SWAP HANDLERS
// =============================================================================

// ListSwaps returns swap requests, optionally filtered by status.
func (h *Handler) ListSwaps(w http.ResponseWriter, r *http.Request) {
	status := roster.RequestStatus(r.URL.Query().Get("status"))
	swaps, err := h.Swaps.List(r.Context(), status)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	dtos := make([]SwapRequestDTO, len(swaps))
	for i := range swaps {
		dtos[i] = toSwapRequestDTO(&swaps[i])
	}
	writeJSON(w, http.StatusOK, dtos)
}

// SubmitSwap proposes a swap of a shift to another user.
func (h *Handler) SubmitSwap(w http.ResponseWriter, r *http.Request) {
	var req SubmitSwapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	swap, err := h.Swaps.Submit(r.Context(), roster.ShiftID(req.ShiftID),
		roster.UserID(req.FromUserID), roster.UserID(req.ToUserID), req.Note)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSwapRequestDTO(swap))
}

// GetSwap returns a single swap request.
func (h *Handler) GetSwap(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	swap, err := h.Swaps.Get(r.Context(), roster.SwapRequestID(id))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSwapRequestDTO(swap))
}

// GetSwapConflicts returns advisory conflict descriptions for the swap.
func (h *Handler) GetSwapConflicts(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	swap, err := h.Swaps.Get(ctx, roster.SwapRequestID(id))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	conflicts, err := h.Swaps.CheckConflicts(ctx, swap)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	dto := toSwapRequestDTO(swap)
	dto.Conflicts = conflicts
	writeJSON(w, http.StatusOK, dto)
}

// ApproveSwap approves a pending swap request and reassigns the shift.
func (h *Handler) ApproveSwap(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req DecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	swap, err := h.Swaps.Approve(r.Context(), roster.SwapRequestID(id), roster.UserID(req.ApproverID))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSwapRequestDTO(swap))
}

// RejectSwap rejects a pending swap request.
func (h *Handler) RejectSwap(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req DecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	swap, err := h.Swaps.Reject(r.Context(), roster.SwapRequestID(id), roster.UserID(req.ApproverID), req.Reason)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSwapRequestDTO(swap))
}

// =============================================================================
// REPORT HANDLERS
// =============================================================================

// GetRoster returns the grouped roster for ?from= and ?to=.
func (h *Handler) GetRoster(w http.ResponseWriter, r *http.Request) {
	from, err := roster.ParseDate(r.URL.Query().Get("from"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	to, err := roster.ParseDate(r.URL.Query().Get("to"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	view, err := h.Reports.Roster(r.Context(), from, to)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRosterViewDTO(view))
}

// GetWeeklyReport returns the weekly report starting at ?week_start=.
func (h *Handler) GetWeeklyReport(w http.ResponseWriter, r *http.Request) {
	weekStart, err := roster.ParseDate(r.URL.Query().Get("week_start"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	report, err := h.Reports.WeeklyReport(r.Context(), weekStart)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toWeeklyReportDTO(report))
}

// =============================================================================
// AUDIT HANDLERS
// =============================================================================

// GetAudit returns audit entries matching the query filters.
// GET /api/audit?actor_id=&action=&entity_kind=&entity_id=
func (h *Handler) GetAudit(w http.ResponseWriter, r *http.Request) {
	var filter roster.AuditFilter
	q := r.URL.Query()

	if v := q.Get("actor_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid actor_id", err)
			return
		}
		actor := roster.UserID(id)
		filter.ActorID = &actor
	}
	if v := q.Get("action"); v != "" {
		action := roster.AuditAction(v)
		filter.Action = &action
	}
	filter.EntityKind = q.Get("entity_kind")
	if v := q.Get("entity_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid entity_id", err)
			return
		}
		filter.EntityID = &id
	}

	entries, err := h.Audit.Query(r.Context(), filter)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	dtos := make([]AuditEntryDTO, len(entries))
	for i, e := range entries {
		dtos[i] = toAuditEntryDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// HELPERS
// =============================================================================

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid id", err)
		return 0, false
	}
	return id, true
}

// writeDomainError maps domain error sentinels to HTTP status codes.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, roster.ErrValidation):
		writeError(w, http.StatusBadRequest, "Validation failed", err)
	case errors.Is(err, roster.ErrNotFound):
		writeError(w, http.StatusNotFound, "Not found", err)
	case errors.Is(err, roster.ErrNotAllowed):
		writeError(w, http.StatusForbidden, "Not allowed", err)
	case errors.Is(err, roster.ErrState), errors.Is(err, roster.ErrConflict):
		writeError(w, http.StatusConflict, "Conflict", err)
	default:
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
