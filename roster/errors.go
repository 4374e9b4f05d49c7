/*
errors.go - Centralized error types for the rostering engine

PURPOSE:
  All failure kinds in one place. Every workflow returns one of the five
  typed failures below; nothing is silently coerced and no transition is
  retried. The calling layer (HTTP, CLI) translates these into user-facing
  messages.

ERROR CATEGORIES:
  1. Validation errors  - Malformed or logically inconsistent input
  2. Not-found errors   - Referenced shift/user/request does not exist
  3. State errors       - Transition attempted from a non-pending/non-open state
  4. Authorization errors - Actor lacks the required role
  5. Conflict errors    - Overlap detected where the operation requires none

USAGE:
  Callers match on the sentinels:

    if errors.Is(err, roster.ErrConflict) {
        var ce *roster.ConflictError
        errors.As(err, &ce)
        // ce.Conflicts holds one description per overlapping shift
    }

SEE ALSO:
  - shift.go, timelog.go, leave.go, swap.go: Where these are raised
  - api/handlers.go: HTTP status mapping
*/
package roster

import (
	"errors"
	"fmt"
	"strings"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrValidation is returned for malformed or inconsistent input,
	// e.g. a leave range whose start date is after its end date.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrState is returned when a transition is attempted from a state
	// that does not permit it, e.g. approving an already-decided request.
	ErrState = errors.New("invalid state for transition")

	// ErrNotAllowed is returned when the acting user lacks the role
	// required for the operation.
	ErrNotAllowed = errors.New("not allowed")

	// ErrConflict is returned when an overlap is detected where the
	// operation requires absence of conflict.
	ErrConflict = errors.New("scheduling conflict")
)

// =============================================================================
// STRUCTURED ERRORS - Carry enough context for the caller to act on
// =============================================================================

// ValidationError reports a malformed or logically inconsistent field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NotFoundError reports a missing entity by kind and id.
type NotFoundError struct {
	Kind string // "user", "shift", "time_log", "leave_request", "swap_request"
	ID   int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// StateError reports a transition attempted from the wrong state.
type StateError struct {
	Kind     string
	ID       int64
	Current  string
	Required string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s %d is %s, must be %s", e.Kind, e.ID, e.Current, e.Required)
}

func (e *StateError) Unwrap() error { return ErrState }

// AuthorizationError reports an actor lacking the required capability.
type AuthorizationError struct {
	UserID UserID
	Action string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("user %d cannot %s", e.UserID, e.Action)
}

func (e *AuthorizationError) Unwrap() error { return ErrNotAllowed }

// ConflictError reports detected overlaps, one description per conflict.
type ConflictError struct {
	Kind      string
	ID        int64
	Conflicts []string
}

func (e *ConflictError) Error() string {
	if len(e.Conflicts) == 0 {
		return fmt.Sprintf("%s %d: conflict detected", e.Kind, e.ID)
	}
	return fmt.Sprintf("%s %d conflicts with: %s", e.Kind, e.ID, strings.Join(e.Conflicts, ", "))
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError reports whether the error is due to invalid client input
// rather than an internal failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrState) ||
		errors.Is(err, ErrNotAllowed) ||
		errors.Is(err, ErrConflict)
}

// IsNotFound reports whether the error indicates a missing entity.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
