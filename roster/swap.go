/*
swap.go - Swap request workflow

PURPOSE:
  Pending -> Approved | Rejected state machine proposing a transfer of shift
  ownership. Approval mutates the Shift Registry: the shift's owner becomes
  the to-user, in the same store transaction as the status change.

APPROVAL-TIME RE-VALIDATION:
  Conflicts found at submit time are advisory and may be stale by approval
  time, so Approve re-runs the conflict check against the transactional
  store view. The default policy hard-blocks on any conflict; the Warn
  policy records the conflicts to the audit log and proceeds, for operators
  who accept double-booking after review.

SEE ALSO:
  - shift.go: findConflicts, the shared conflict query
  - leave.go: The sibling workflow without shift write-back
*/
package roster

import (
	"context"
	"fmt"
)

// ConflictPolicy controls how swap approval treats detected conflicts.
type ConflictPolicy int

const (
	// ConflictBlock rejects the approval with a ConflictError. Default.
	ConflictBlock ConflictPolicy = iota

	// ConflictWarn records the conflicts and approves anyway.
	ConflictWarn
)

// SwapService is the swap request workflow.
type SwapService struct {
	Store     TxStore
	Directory Directory
	Clock     Clock
	Audit     AuditLog
	Policy    ConflictPolicy
}

// Submit creates a pending swap request. The shift must currently be
// assigned to the from-user.
func (s *SwapService) Submit(ctx context.Context, shiftID ShiftID, fromUserID, toUserID UserID, note string) (*SwapRequest, error) {
	shift, err := s.Store.GetShift(ctx, shiftID)
	if err != nil {
		return nil, err
	}
	if shift == nil {
		return nil, &NotFoundError{Kind: "shift", ID: int64(shiftID)}
	}
	if shift.UserID != fromUserID {
		return nil, &ValidationError{Field: "from_user_id", Reason: "shift is not assigned to this user"}
	}
	if fromUserID == toUserID {
		return nil, &ValidationError{Field: "to_user_id", Reason: "cannot swap a shift to its current owner"}
	}
	if _, err := s.Directory.Lookup(ctx, toUserID); err != nil {
		return nil, err
	}

	now := s.Clock.Now()
	req := &SwapRequest{
		ShiftID:    shiftID,
		FromUserID: fromUserID,
		ToUserID:   toUserID,
		Status:     RequestPending,
		Note:       note,
		CreatedAt:  now,
	}

	id, err := s.Store.CreateSwapRequest(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create swap request: %w", err)
	}
	req.ID = id

	recordAudit(ctx, s.Audit, now, fromUserID, AuditRequestCreated, "swap_request", int64(id),
		fmt.Sprintf("shift %d to user %d", shiftID, toUserID))

	return req, nil
}

// Get returns the request or a NotFoundError.
func (s *SwapService) Get(ctx context.Context, id SwapRequestID) (*SwapRequest, error) {
	req, err := s.Store.GetSwapRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, &NotFoundError{Kind: "swap_request", ID: int64(id)}
	}
	return req, nil
}

// List returns swap requests, filtered by status when non-empty.
func (s *SwapService) List(ctx context.Context, status RequestStatus) ([]SwapRequest, error) {
	if status != "" && !status.Valid() {
		return nil, &ValidationError{Field: "status", Reason: fmt.Sprintf("unknown status %q", status)}
	}
	return s.Store.ListSwapRequests(ctx, status)
}

// CheckConflicts returns one human-readable description per shift of the
// to-user that would collide with the swapped shift. A dangling shift
// reference yields a single "not found" description. Results are advisory;
// Approve re-runs this check inside its transaction.
func (s *SwapService) CheckConflicts(ctx context.Context, req *SwapRequest) ([]string, error) {
	return checkSwapConflicts(ctx, s.Store, req)
}

func checkSwapConflicts(ctx context.Context, store Store, req *SwapRequest) ([]string, error) {
	shift, err := store.GetShift(ctx, req.ShiftID)
	if err != nil {
		return nil, err
	}
	if shift == nil {
		return []string{fmt.Sprintf("shift %d not found", req.ShiftID)}, nil
	}

	conflicts, err := findConflicts(ctx, store, req.ToUserID, shift.Date, shift.Start, shift.End, shift.ID)
	if err != nil {
		return nil, err
	}

	descriptions := make([]string, len(conflicts))
	for i, c := range conflicts {
		descriptions[i] = fmt.Sprintf("user %d already has shift %d on %s (%s)",
			req.ToUserID, c.ID, c.Date, c.Interval())
	}
	return descriptions, nil
}

// Approve transitions a pending request to approved and reassigns the shift
// to the to-user. The conflict check re-runs inside the transaction; under
// the default policy any conflict aborts with a ConflictError and the shift
// is left untouched.
func (s *SwapService) Approve(ctx context.Context, id SwapRequestID, approverID UserID) (*SwapRequest, error) {
	approver, err := s.Directory.Lookup(ctx, approverID)
	if err != nil {
		return nil, err
	}
	if !approver.Role.CanApproveRequests() {
		return nil, &AuthorizationError{UserID: approverID, Action: "approve swap requests"}
	}

	now := s.Clock.Now()
	var approved *SwapRequest
	var warned []string
	err = s.Store.WithTx(ctx, func(tx Store) error {
		req, err := tx.GetSwapRequest(ctx, id)
		if err != nil {
			return err
		}
		if req == nil {
			return &NotFoundError{Kind: "swap_request", ID: int64(id)}
		}
		if req.Status != RequestPending {
			return &StateError{
				Kind:     "swap_request",
				ID:       int64(id),
				Current:  string(req.Status),
				Required: string(RequestPending),
			}
		}

		shift, err := tx.GetShift(ctx, req.ShiftID)
		if err != nil {
			return err
		}
		if shift == nil {
			return &NotFoundError{Kind: "shift", ID: int64(req.ShiftID)}
		}
		if shift.UserID != req.FromUserID {
			return &ValidationError{Field: "from_user_id", Reason: "shift is no longer assigned to the requesting user"}
		}

		conflicts, err := checkSwapConflicts(ctx, tx, req)
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			if s.Policy == ConflictBlock {
				return &ConflictError{Kind: "swap_request", ID: int64(id), Conflicts: conflicts}
			}
			warned = conflicts
		}

		shift.UserID = req.ToUserID
		if err := tx.UpdateShift(ctx, shift); err != nil {
			return err
		}

		req.Status = RequestApproved
		req.ApproverID = &approverID
		req.DecidedAt = &now
		if err := tx.UpdateSwapRequest(ctx, req); err != nil {
			return err
		}

		approved = req
		return nil
	})
	if err != nil {
		return nil, err
	}

	detail := ""
	if len(warned) > 0 {
		detail = fmt.Sprintf("approved despite conflicts: %v", warned)
	}
	recordAudit(ctx, s.Audit, now, approverID, AuditRequestApproved, "swap_request", int64(id), detail)

	return approved, nil
}

// Reject transitions a pending request to rejected; the shift is untouched.
// A non-empty reason is appended to the request's note.
func (s *SwapService) Reject(ctx context.Context, id SwapRequestID, approverID UserID, reason string) (*SwapRequest, error) {
	approver, err := s.Directory.Lookup(ctx, approverID)
	if err != nil {
		return nil, err
	}
	if !approver.Role.CanApproveRequests() {
		return nil, &AuthorizationError{UserID: approverID, Action: "approve swap requests"}
	}

	now := s.Clock.Now()
	var rejected *SwapRequest
	err = s.Store.WithTx(ctx, func(tx Store) error {
		req, err := tx.GetSwapRequest(ctx, id)
		if err != nil {
			return err
		}
		if req == nil {
			return &NotFoundError{Kind: "swap_request", ID: int64(id)}
		}
		if req.Status != RequestPending {
			return &StateError{
				Kind:     "swap_request",
				ID:       int64(id),
				Current:  string(req.Status),
				Required: string(RequestPending),
			}
		}

		req.Status = RequestRejected
		req.ApproverID = &approverID
		req.DecidedAt = &now
		req.Note = appendText(req.Note, reason)

		if err := tx.UpdateSwapRequest(ctx, req); err != nil {
			return err
		}
		rejected = req
		return nil
	})
	if err != nil {
		return nil, err
	}

	recordAudit(ctx, s.Audit, now, approverID, AuditRequestRejected, "swap_request", int64(id), reason)

	return rejected, nil
}
