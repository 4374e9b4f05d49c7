package roster_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/roster-engine/roster"
)

// =============================================================================
// SUBMISSION
// =============================================================================

func TestSubmitLeave(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.user(t, "alice", roster.RoleStaff)

	req, err := e.leave.Submit(ctx, alice,
		date(2025, time.October, 1), date(2025, time.October, 3), "vacation", "family trip")
	require.NoError(t, err)

	assert.Equal(t, roster.RequestPending, req.Status)
	assert.Equal(t, 3, req.DurationDays(), "inclusive range Oct 1-3 spans three days")
	assert.Nil(t, req.ApproverID)
	assert.Nil(t, req.DecidedAt)
}

func TestSubmitLeave_SingleDay(t *testing.T) {
	e := newEnv(t)
	alice := e.user(t, "alice", roster.RoleStaff)
	d := date(2025, time.October, 1)

	req, err := e.leave.Submit(context.Background(), alice, d, d, "sick", "")
	require.NoError(t, err)
	assert.Equal(t, 1, req.DurationDays())
}

func TestSubmitLeave_StartAfterEnd(t *testing.T) {
	e := newEnv(t)
	alice := e.user(t, "alice", roster.RoleStaff)

	_, err := e.leave.Submit(context.Background(), alice,
		date(2025, time.October, 3), date(2025, time.October, 1), "vacation", "")

	assert.ErrorIs(t, err, roster.ErrValidation)
}

func TestSubmitLeave_MissingType(t *testing.T) {
	e := newEnv(t)
	alice := e.user(t, "alice", roster.RoleStaff)

	_, err := e.leave.Submit(context.Background(), alice,
		date(2025, time.October, 1), date(2025, time.October, 3), "", "")

	assert.ErrorIs(t, err, roster.ErrValidation)
}

func TestSubmitLeave_UnknownRequester(t *testing.T) {
	e := newEnv(t)

	_, err := e.leave.Submit(context.Background(), 999,
		date(2025, time.October, 1), date(2025, time.October, 3), "vacation", "")

	assert.ErrorIs(t, err, roster.ErrNotFound)
}

// =============================================================================
// APPROVAL
// =============================================================================

func TestApproveLeave(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.user(t, "alice", roster.RoleStaff)
	boss := e.user(t, "boss", roster.RoleSupervisor)

	req, err := e.leave.Submit(ctx, alice,
		date(2025, time.October, 1), date(2025, time.October, 3), "vacation", "")
	require.NoError(t, err)

	approved, err := e.leave.Approve(ctx, req.ID, boss)
	require.NoError(t, err)
	assert.Equal(t, roster.RequestApproved, approved.Status)
	require.NotNil(t, approved.ApproverID)
	assert.Equal(t, boss, *approved.ApproverID)
	assert.NotNil(t, approved.DecidedAt)
}

func TestApproveLeave_StaffCannotApprove(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.user(t, "alice", roster.RoleStaff)
	bob := e.user(t, "bob", roster.RoleStaff)

	req, err := e.leave.Submit(ctx, alice,
		date(2025, time.October, 1), date(2025, time.October, 3), "vacation", "")
	require.NoError(t, err)

	_, err = e.leave.Approve(ctx, req.ID, bob)
	assert.ErrorIs(t, err, roster.ErrNotAllowed)

	// Still pending.
	got, err := e.leave.Get(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, roster.RequestPending, got.Status)
}

func TestApproveLeave_AlreadyDecided(t *testing.T) {
	// GIVEN: A request approved by the supervisor
	// WHEN: An admin tries to approve (or reject) it again
	// THEN: A StateError is returned and the original decision stands

	e := newEnv(t)
	ctx := context.Background()
	alice := e.user(t, "alice", roster.RoleStaff)
	boss := e.user(t, "boss", roster.RoleSupervisor)
	admin := e.user(t, "admin", roster.RoleAdmin)

	req, err := e.leave.Submit(ctx, alice,
		date(2025, time.October, 1), date(2025, time.October, 3), "vacation", "")
	require.NoError(t, err)

	_, err = e.leave.Approve(ctx, req.ID, boss)
	require.NoError(t, err)

	_, err = e.leave.Approve(ctx, req.ID, admin)
	assert.ErrorIs(t, err, roster.ErrState)
	_, err = e.leave.Reject(ctx, req.ID, admin, "changed my mind")
	assert.ErrorIs(t, err, roster.ErrState)

	got, err := e.leave.Get(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, roster.RequestApproved, got.Status)
	assert.Equal(t, boss, *got.ApproverID)
}

// =============================================================================
// REJECTION
// =============================================================================

func TestRejectLeave_AppendsReason(t *testing.T) {
	// The requester's own justification survives rejection; the approver's
	// reason is appended after it.

	e := newEnv(t)
	ctx := context.Background()
	alice := e.user(t, "alice", roster.RoleStaff)
	boss := e.user(t, "boss", roster.RoleSupervisor)

	req, err := e.leave.Submit(ctx, alice,
		date(2025, time.October, 1), date(2025, time.October, 3), "vacation", "need rest")
	require.NoError(t, err)

	rejected, err := e.leave.Reject(ctx, req.ID, boss, "insufficient notice")
	require.NoError(t, err)
	assert.Equal(t, roster.RequestRejected, rejected.Status)
	assert.Equal(t, "need rest; insufficient notice", rejected.Reason)
}

func TestRejectLeave_EmptyReasonKeepsOriginal(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.user(t, "alice", roster.RoleStaff)
	admin := e.user(t, "admin", roster.RoleAdmin)

	req, err := e.leave.Submit(ctx, alice,
		date(2025, time.October, 1), date(2025, time.October, 3), "vacation", "need rest")
	require.NoError(t, err)

	rejected, err := e.leave.Reject(ctx, req.ID, admin, "")
	require.NoError(t, err)
	assert.Equal(t, "need rest", rejected.Reason)
}

// =============================================================================
// LEAVE / SHIFT OVERLAP
// =============================================================================

func TestLeaveOverlapsShift(t *testing.T) {
	req := roster.LeaveRequest{
		StartDate: date(2025, time.October, 1),
		EndDate:   date(2025, time.October, 3),
	}

	inside := roster.Shift{Date: date(2025, time.October, 2)}
	boundary := roster.Shift{Date: date(2025, time.October, 3)}
	outside := roster.Shift{Date: date(2025, time.October, 4)}

	assert.True(t, req.OverlapsShift(&inside))
	assert.True(t, req.OverlapsShift(&boundary), "inclusive end date")
	assert.False(t, req.OverlapsShift(&outside))
}
