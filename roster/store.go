/*
store.go - Persistence, identity, clock, and audit collaborators

PURPOSE:
  Defines the interfaces between the rostering workflows and the outside
  world. The Store handles entity persistence; the Directory resolves user
  ids to roles; the Clock supplies timestamps; the AuditLog records who did
  what. Different implementations can use SQLite or in-memory storage.

KEY INTERFACES:
  Store:     Create/get/update/query over the four entity kinds
  TxStore:   Store plus WithTx for atomic precondition-check-then-write
  Directory: User id -> role lookup (authorization collaborator)
  Clock:     Current-time source, injectable for tests
  AuditLog:  Append-only record of workflow actions

TRANSACTION CONTRACT:
  Every state transition (approve/reject/clock-in/clock-out) runs inside
  WithTx: read current state, validate preconditions, write new state.
  If the callback returns an error the transaction is rolled back and no
  partial effect is observable. Conflict queries outside a transaction are
  advisory only; approvals re-validate inside their own transaction.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: Production SQLite
  - roster/store/memory.go: In-memory for testing

SEE ALSO:
  - shift.go, timelog.go, leave.go, swap.go: Consumers of these interfaces
*/
package roster

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// STORE - Persistence collaborator
// =============================================================================

// UserStore persists roster users. Credential material is handled by the
// external identity system; only the role is read here.
type UserStore interface {
	// CreateUser persists a new user and assigns its id.
	CreateUser(ctx context.Context, u *User) (UserID, error)

	// GetUser returns the user, or nil when no such id exists.
	GetUser(ctx context.Context, id UserID) (*User, error)

	// ListUsers returns all users ordered by id.
	ListUsers(ctx context.Context) ([]User, error)
}

// ShiftStore persists shifts and answers the range queries the conflict
// engine and reports are built on.
type ShiftStore interface {
	// CreateShift persists a new shift and assigns its id.
	CreateShift(ctx context.Context, s *Shift) (ShiftID, error)

	// GetShift returns the shift, or nil when no such id exists.
	GetShift(ctx context.Context, id ShiftID) (*Shift, error)

	// UpdateShift overwrites an existing shift record.
	UpdateShift(ctx context.Context, s *Shift) error

	// ShiftsByUserAndDate returns a user's shifts on one date, ascending
	// by start time, insertion order preserved for ties.
	ShiftsByUserAndDate(ctx context.Context, userID UserID, date Date) ([]Shift, error)

	// ShiftsInRange returns all shifts with work date in [from, to],
	// ascending by date then start time.
	ShiftsInRange(ctx context.Context, from, to Date) ([]Shift, error)
}

// TimeLogStore persists attendance records.
type TimeLogStore interface {
	// CreateTimeLog persists a new log and assigns its id.
	CreateTimeLog(ctx context.Context, l *TimeLog) (TimeLogID, error)

	// UpdateTimeLog overwrites an existing log record.
	UpdateTimeLog(ctx context.Context, l *TimeLog) error

	// OpenTimeLog returns the open (clock-out unset) log for the
	// (shift, user) pair, or nil when none exists. At most one such log
	// exists at any time.
	OpenTimeLog(ctx context.Context, shiftID ShiftID, userID UserID) (*TimeLog, error)

	// TimeLogsByShiftDates returns logs whose referenced shift has a work
	// date in [from, to].
	TimeLogsByShiftDates(ctx context.Context, from, to Date) ([]TimeLog, error)
}

// LeaveStore persists leave requests.
type LeaveStore interface {
	CreateLeaveRequest(ctx context.Context, r *LeaveRequest) (LeaveRequestID, error)
	GetLeaveRequest(ctx context.Context, id LeaveRequestID) (*LeaveRequest, error)
	UpdateLeaveRequest(ctx context.Context, r *LeaveRequest) error

	// LeaveRequestsOverlapping returns requests whose inclusive [start, end]
	// range intersects [from, to].
	LeaveRequestsOverlapping(ctx context.Context, from, to Date) ([]LeaveRequest, error)
}

// SwapStore persists swap requests.
type SwapStore interface {
	CreateSwapRequest(ctx context.Context, r *SwapRequest) (SwapRequestID, error)
	GetSwapRequest(ctx context.Context, id SwapRequestID) (*SwapRequest, error)
	UpdateSwapRequest(ctx context.Context, r *SwapRequest) error
	ListSwapRequests(ctx context.Context, status RequestStatus) ([]SwapRequest, error)
}

// Store is the full persistence surface the workflows consume.
type Store interface {
	UserStore
	ShiftStore
	TimeLogStore
	LeaveStore
	SwapStore
}

// TxStore wraps Store with a transaction boundary.
type TxStore interface {
	Store

	// WithTx executes fn against a transactional view of the store.
	// If fn returns an error, all writes are rolled back.
	WithTx(ctx context.Context, fn func(Store) error) error
}

// =============================================================================
// DIRECTORY - Identity/authorization collaborator
// =============================================================================

// Directory resolves user ids to users. The workflows only read Role from
// the result; authentication and credentials live behind this interface.
type Directory interface {
	Lookup(ctx context.Context, id UserID) (*User, error)
}

// StoreDirectory adapts a UserStore into a Directory.
type StoreDirectory struct {
	Users UserStore
}

func (d *StoreDirectory) Lookup(ctx context.Context, id UserID) (*User, error) {
	u, err := d.Users.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, &NotFoundError{Kind: "user", ID: int64(id)}
	}
	return u, nil
}

// =============================================================================
// CLOCK - Injectable time source
// =============================================================================

// Clock supplies the current timestamp for clock-in/out and decision times.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// =============================================================================
// AUDIT LOG - Append-only record of who did what when
// =============================================================================

type AuditAction string

const (
	AuditShiftCreated    AuditAction = "shift_created"
	AuditClockIn         AuditAction = "clock_in"
	AuditClockOut        AuditAction = "clock_out"
	AuditRequestCreated  AuditAction = "request_created"
	AuditRequestApproved AuditAction = "request_approved"
	AuditRequestRejected AuditAction = "request_rejected"
)

// AuditEntry records one workflow action.
type AuditEntry struct {
	ID         string
	At         time.Time
	ActorID    UserID
	Action     AuditAction
	EntityKind string
	EntityID   int64
	Detail     string
}

// AuditLog stores audit entries. Append-only.
type AuditLog interface {
	Append(ctx context.Context, entry AuditEntry) error
	Query(ctx context.Context, filter AuditFilter) ([]AuditEntry, error)
}

type AuditFilter struct {
	ActorID    *UserID
	Action     *AuditAction
	EntityKind string
	EntityID   *int64
}

// recordAudit appends a workflow action to the audit log. Audit failures do
// not abort the business operation.
func recordAudit(ctx context.Context, log AuditLog, at time.Time, actor UserID, action AuditAction, kind string, id int64, detail string) {
	if log == nil {
		return
	}
	_ = log.Append(ctx, AuditEntry{
		ID:         uuid.NewString(),
		At:         at,
		ActorID:    actor,
		Action:     action,
		EntityKind: kind,
		EntityID:   id,
		Detail:     detail,
	})
}
