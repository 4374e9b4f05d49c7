/*
timelog.go - Time log tracker: clock-in / clock-out state machine

PURPOSE:
  Records actual attendance against a shift. Each TimeLog is a two-state
  machine: Open (clock-in set, clock-out unset) -> Closed (both set), with
  no further transitions. At most one open log exists per (shift, user) pair.

SIDE EFFECTS ON THE SHIFT:
  Clock-in moves the referenced shift to in_progress; clock-out moves it to
  completed. Both run inside one store transaction so the precondition check
  and the writes commit atomically.

SEE ALSO:
  - types.go: TimeLog derived values (WorkedMinutes, IsOvertime)
*/
package roster

import (
	"context"
)

// TimeLogService is the time log tracker.
type TimeLogService struct {
	Store TxStore
	Clock Clock
	Audit AuditLog
}

// ClockIn opens a time log for the (shift, user) pair at the current time
// and marks the shift in progress. Fails with a ConflictError when an open
// log already exists for the pair.
func (s *TimeLogService) ClockIn(ctx context.Context, shiftID ShiftID, userID UserID) (*TimeLog, error) {
	now := s.Clock.Now()

	var created *TimeLog
	err := s.Store.WithTx(ctx, func(tx Store) error {
		shift, err := tx.GetShift(ctx, shiftID)
		if err != nil {
			return err
		}
		if shift == nil {
			return &NotFoundError{Kind: "shift", ID: int64(shiftID)}
		}
		if shift.UserID != userID {
			return &ValidationError{Field: "user_id", Reason: "shift is not assigned to this user"}
		}

		open, err := tx.OpenTimeLog(ctx, shiftID, userID)
		if err != nil {
			return err
		}
		if open != nil {
			return &ConflictError{
				Kind:      "time_log",
				ID:        int64(open.ID),
				Conflicts: []string{"already clocked in for this shift"},
			}
		}

		log := &TimeLog{ShiftID: shiftID, UserID: userID, ClockIn: now}
		id, err := tx.CreateTimeLog(ctx, log)
		if err != nil {
			return err
		}
		log.ID = id

		shift.Status = ShiftInProgress
		if err := tx.UpdateShift(ctx, shift); err != nil {
			return err
		}

		created = log
		return nil
	})
	if err != nil {
		return nil, err
	}

	recordAudit(ctx, s.Audit, now, userID, AuditClockIn, "time_log", int64(created.ID), "")
	return created, nil
}

// ClockOut closes the open time log for the (shift, user) pair at the
// current time and marks the shift completed. Fails with a NotFoundError
// when no open log exists.
func (s *TimeLogService) ClockOut(ctx context.Context, shiftID ShiftID, userID UserID) (*TimeLog, error) {
	now := s.Clock.Now()

	var closed *TimeLog
	err := s.Store.WithTx(ctx, func(tx Store) error {
		open, err := tx.OpenTimeLog(ctx, shiftID, userID)
		if err != nil {
			return err
		}
		if open == nil {
			return &NotFoundError{Kind: "time_log", ID: int64(shiftID)}
		}

		out := now
		open.ClockOut = &out
		if err := tx.UpdateTimeLog(ctx, open); err != nil {
			return err
		}

		shift, err := tx.GetShift(ctx, shiftID)
		if err != nil {
			return err
		}
		if shift == nil {
			return &NotFoundError{Kind: "shift", ID: int64(shiftID)}
		}
		shift.Status = ShiftCompleted
		if err := tx.UpdateShift(ctx, shift); err != nil {
			return err
		}

		closed = open
		return nil
	})
	if err != nil {
		return nil, err
	}

	recordAudit(ctx, s.Audit, now, userID, AuditClockOut, "time_log", int64(closed.ID), "")
	return closed, nil
}
