/*
shift.go - Shift registry: scheduling and conflict queries

PURPOSE:
  Stores scheduled work periods per user and answers overlap queries for a
  candidate (user, date, start, end) tuple. Conflict presence at creation
  time is advisory: the calling context decides whether to proceed. The swap
  workflow reuses FindConflicts for its authoritative approval-time check.

CONFLICT SEMANTICS:
  A candidate interval conflicts with every existing shift for the same user
  on the same date that still blocks its slot (scheduled or in-progress) and
  overlaps per the half-open predicate in time.go. Results come back
  ascending by start time; ties keep insertion order.

SEE ALSO:
  - time.go: Overlaps predicate
  - swap.go: Approval-time re-validation built on FindConflicts
*/
package roster

import (
	"context"
	"fmt"
	"sort"
)

// ShiftService is the shift registry.
type ShiftService struct {
	Store TxStore
	Clock Clock
	Audit AuditLog
}

// CreateShift validates and persists a new shift in scheduled status.
// It does not reject on conflicts; callers inspect FindConflicts first if
// they want to warn or block.
func (s *ShiftService) CreateShift(ctx context.Context, userID UserID, date Date, start, end TimeOfDay) (*Shift, error) {
	if date.IsZero() {
		return nil, &ValidationError{Field: "date", Reason: "work date is required"}
	}

	u, err := s.Store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, &NotFoundError{Kind: "user", ID: int64(userID)}
	}

	shift := &Shift{
		UserID: userID,
		Date:   date,
		Start:  start,
		End:    end,
		Status: ShiftScheduled,
	}

	id, err := s.Store.CreateShift(ctx, shift)
	if err != nil {
		return nil, fmt.Errorf("failed to create shift: %w", err)
	}
	shift.ID = id

	recordAudit(ctx, s.Audit, s.Clock.Now(), userID, AuditShiftCreated, "shift", int64(id),
		fmt.Sprintf("%s %s", date, shift.Interval()))

	return shift, nil
}

// GetShift returns the shift or a NotFoundError.
func (s *ShiftService) GetShift(ctx context.Context, id ShiftID) (*Shift, error) {
	shift, err := s.Store.GetShift(ctx, id)
	if err != nil {
		return nil, err
	}
	if shift == nil {
		return nil, &NotFoundError{Kind: "shift", ID: int64(id)}
	}
	return shift, nil
}

// FindConflicts returns every blocking shift for the user on the date that
// overlaps the candidate interval, excluding excludeID when non-zero.
// An empty result means no conflict; it is never an error to find nothing.
func (s *ShiftService) FindConflicts(ctx context.Context, userID UserID, date Date, start, end TimeOfDay, excludeID ShiftID) ([]Shift, error) {
	return findConflicts(ctx, s.Store, userID, date, start, end, excludeID)
}

// findConflicts is shared with the swap workflow so approval-time checks run
// against the transactional store view.
func findConflicts(ctx context.Context, store Store, userID UserID, date Date, start, end TimeOfDay, excludeID ShiftID) ([]Shift, error) {
	existing, err := store.ShiftsByUserAndDate(ctx, userID, date)
	if err != nil {
		return nil, err
	}

	var conflicts []Shift
	for _, sh := range existing {
		if sh.ID == excludeID {
			continue
		}
		if !sh.Blocking() {
			continue
		}
		if sh.OverlapsInterval(date, start, end) {
			conflicts = append(conflicts, sh)
		}
	}

	sort.SliceStable(conflicts, func(i, j int) bool {
		return conflicts[i].Start < conflicts[j].Start
	})
	return conflicts, nil
}
