/*
leave.go - Leave request workflow

PURPOSE:
  Pending -> Approved | Rejected state machine over a requester's inclusive
  date range. Decisions are gated on the Directory: only roles with
  CanApproveRequests may decide, and a decided request is terminal.

REASON HANDLING:
  Rejection with a reason APPENDS to the existing reason text. The
  requester's original justification is never overwritten.

SEE ALSO:
  - types.go: LeaveRequest derived values (DurationDays, OverlapsShift)
  - swap.go: The sibling workflow with shift write-back on approval
*/
package roster

import (
	"context"
	"fmt"
)

// LeaveService is the leave request workflow.
type LeaveService struct {
	Store     TxStore
	Directory Directory
	Clock     Clock
	Audit     AuditLog
}

// Submit creates a pending leave request for an inclusive date range.
// Fails with a ValidationError when the start date is after the end date.
func (s *LeaveService) Submit(ctx context.Context, requesterID UserID, start, end Date, leaveType, reason string) (*LeaveRequest, error) {
	if start.IsZero() || end.IsZero() {
		return nil, &ValidationError{Field: "dates", Reason: "start and end dates are required"}
	}
	if start.After(end) {
		return nil, &ValidationError{Field: "start_date", Reason: "start date is after end date"}
	}
	if leaveType == "" {
		return nil, &ValidationError{Field: "type", Reason: "leave type is required"}
	}

	if _, err := s.Directory.Lookup(ctx, requesterID); err != nil {
		return nil, err
	}

	now := s.Clock.Now()
	req := &LeaveRequest{
		RequesterID: requesterID,
		StartDate:   start,
		EndDate:     end,
		Type:        leaveType,
		Status:      RequestPending,
		Reason:      reason,
		CreatedAt:   now,
	}

	id, err := s.Store.CreateLeaveRequest(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create leave request: %w", err)
	}
	req.ID = id

	recordAudit(ctx, s.Audit, now, requesterID, AuditRequestCreated, "leave_request", int64(id),
		fmt.Sprintf("%s to %s (%s)", start, end, leaveType))

	return req, nil
}

// Get returns the request or a NotFoundError.
func (s *LeaveService) Get(ctx context.Context, id LeaveRequestID) (*LeaveRequest, error) {
	req, err := s.Store.GetLeaveRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, &NotFoundError{Kind: "leave_request", ID: int64(id)}
	}
	return req, nil
}

// Approve transitions a pending request to approved. Fails with an
// AuthorizationError when the approver cannot approve requests, and with a
// StateError when the request is already decided.
func (s *LeaveService) Approve(ctx context.Context, id LeaveRequestID, approverID UserID) (*LeaveRequest, error) {
	return s.decide(ctx, id, approverID, RequestApproved, "")
}

// Reject transitions a pending request to rejected. A non-empty reason is
// appended to the request's existing reason text.
func (s *LeaveService) Reject(ctx context.Context, id LeaveRequestID, approverID UserID, reason string) (*LeaveRequest, error) {
	return s.decide(ctx, id, approverID, RequestRejected, reason)
}

func (s *LeaveService) decide(ctx context.Context, id LeaveRequestID, approverID UserID, outcome RequestStatus, reason string) (*LeaveRequest, error) {
	approver, err := s.Directory.Lookup(ctx, approverID)
	if err != nil {
		return nil, err
	}
	if !approver.Role.CanApproveRequests() {
		return nil, &AuthorizationError{UserID: approverID, Action: "approve leave requests"}
	}

	now := s.Clock.Now()
	var decided *LeaveRequest
	err = s.Store.WithTx(ctx, func(tx Store) error {
		req, err := tx.GetLeaveRequest(ctx, id)
		if err != nil {
			return err
		}
		if req == nil {
			return &NotFoundError{Kind: "leave_request", ID: int64(id)}
		}
		if req.Status != RequestPending {
			return &StateError{
				Kind:     "leave_request",
				ID:       int64(id),
				Current:  string(req.Status),
				Required: string(RequestPending),
			}
		}

		req.Status = outcome
		req.ApproverID = &approverID
		req.DecidedAt = &now
		if outcome == RequestRejected {
			req.Reason = appendText(req.Reason, reason)
		}

		if err := tx.UpdateLeaveRequest(ctx, req); err != nil {
			return err
		}
		decided = req
		return nil
	})
	if err != nil {
		return nil, err
	}

	action := AuditRequestApproved
	if outcome == RequestRejected {
		action = AuditRequestRejected
	}
	recordAudit(ctx, s.Audit, now, approverID, action, "leave_request", int64(id), reason)

	return decided, nil
}

// appendText concatenates onto existing text without overwriting it.
func appendText(existing, extra string) string {
	if extra == "" {
		return existing
	}
	if existing == "" {
		return extra
	}
	return existing + "; " + extra
}
