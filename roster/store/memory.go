// Package store provides Store implementations.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/roster-engine/roster"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory implements roster.TxStore and roster.AuditLog with in-process maps.
type Memory struct {
	mu sync.RWMutex
	d  data
}

// data holds the actual state. Its methods assume the caller holds the
// Memory lock; WithTx hands it out directly as the transactional view.
type data struct {
	users    map[roster.UserID]roster.User
	shifts   map[roster.ShiftID]roster.Shift
	timeLogs map[roster.TimeLogID]roster.TimeLog
	leave    map[roster.LeaveRequestID]roster.LeaveRequest
	swaps    map[roster.SwapRequestID]roster.SwapRequest
	audit    []roster.AuditEntry
	nextID   int64
}

func NewMemory() *Memory {
	return &Memory{d: data{
		users:    make(map[roster.UserID]roster.User),
		shifts:   make(map[roster.ShiftID]roster.Shift),
		timeLogs: make(map[roster.TimeLogID]roster.TimeLog),
		leave:    make(map[roster.LeaveRequestID]roster.LeaveRequest),
		swaps:    make(map[roster.SwapRequestID]roster.SwapRequest),
	}}
}

var _ roster.TxStore = (*Memory)(nil)
var _ roster.AuditLog = (*Memory)(nil)

// WithTx executes fn against the store. For the memory store the
// transaction is simulated with a snapshot, restored when fn fails.
func (m *Memory) WithTx(ctx context.Context, fn func(roster.Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := m.d.clone()
	if err := fn(&m.d); err != nil {
		m.d = snapshot
		return err
	}
	return nil
}

func (d *data) clone() data {
	c := data{
		users:    make(map[roster.UserID]roster.User, len(d.users)),
		shifts:   make(map[roster.ShiftID]roster.Shift, len(d.shifts)),
		timeLogs: make(map[roster.TimeLogID]roster.TimeLog, len(d.timeLogs)),
		leave:    make(map[roster.LeaveRequestID]roster.LeaveRequest, len(d.leave)),
		swaps:    make(map[roster.SwapRequestID]roster.SwapRequest, len(d.swaps)),
		audit:    append([]roster.AuditEntry(nil), d.audit...),
		nextID:   d.nextID,
	}
	for k, v := range d.users {
		c.users[k] = v
	}
	for k, v := range d.shifts {
		c.shifts[k] = v
	}
	for k, v := range d.timeLogs {
		c.timeLogs[k] = v
	}
	for k, v := range d.leave {
		c.leave[k] = v
	}
	for k, v := range d.swaps {
		c.swaps[k] = v
	}
	return c
}

func (d *data) next() int64 {
	d.nextID++
	return d.nextID
}

// =============================================================================
// USERS
// =============================================================================

func (d *data) CreateUser(_ context.Context, u *roster.User) (roster.UserID, error) {
	id := roster.UserID(d.next())
	u.ID = id
	d.users[id] = *u
	return id, nil
}

func (d *data) GetUser(_ context.Context, id roster.UserID) (*roster.User, error) {
	u, ok := d.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (d *data) ListUsers(_ context.Context) ([]roster.User, error) {
	users := make([]roster.User, 0, len(d.users))
	for _, u := range d.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

// =============================================================================
// SHIFTS
// =============================================================================

func (d *data) CreateShift(_ context.Context, s *roster.Shift) (roster.ShiftID, error) {
	id := roster.ShiftID(d.next())
	s.ID = id
	d.shifts[id] = *s
	return id, nil
}

func (d *data) GetShift(_ context.Context, id roster.ShiftID) (*roster.Shift, error) {
	s, ok := d.shifts[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (d *data) UpdateShift(_ context.Context, s *roster.Shift) error {
	if _, ok := d.shifts[s.ID]; !ok {
		return &roster.NotFoundError{Kind: "shift", ID: int64(s.ID)}
	}
	d.shifts[s.ID] = *s
	return nil
}

func (d *data) ShiftsByUserAndDate(_ context.Context, userID roster.UserID, date roster.Date) ([]roster.Shift, error) {
	var shifts []roster.Shift
	for _, s := range d.shifts {
		if s.UserID == userID && s.Date.Equal(date) {
			shifts = append(shifts, s)
		}
	}
	// Ids are assigned in insertion order, so sorting by (start, id) keeps
	// insertion order for equal start times.
	sort.Slice(shifts, func(i, j int) bool {
		if shifts[i].Start != shifts[j].Start {
			return shifts[i].Start < shifts[j].Start
		}
		return shifts[i].ID < shifts[j].ID
	})
	return shifts, nil
}

func (d *data) ShiftsInRange(_ context.Context, from, to roster.Date) ([]roster.Shift, error) {
	var shifts []roster.Shift
	for _, s := range d.shifts {
		if s.Date.AfterOrEqual(from) && s.Date.BeforeOrEqual(to) {
			shifts = append(shifts, s)
		}
	}
	sort.Slice(shifts, func(i, j int) bool {
		if !shifts[i].Date.Equal(shifts[j].Date) {
			return shifts[i].Date.Before(shifts[j].Date)
		}
		if shifts[i].Start != shifts[j].Start {
			return shifts[i].Start < shifts[j].Start
		}
		return shifts[i].ID < shifts[j].ID
	})
	return shifts, nil
}

// =============================================================================
// TIME LOGS
// =============================================================================

func (d *data) CreateTimeLog(_ context.Context, l *roster.TimeLog) (roster.TimeLogID, error) {
	id := roster.TimeLogID(d.next())
	l.ID = id
	d.timeLogs[id] = *l
	return id, nil
}

func (d *data) UpdateTimeLog(_ context.Context, l *roster.TimeLog) error {
	if _, ok := d.timeLogs[l.ID]; !ok {
		return &roster.NotFoundError{Kind: "time_log", ID: int64(l.ID)}
	}
	d.timeLogs[l.ID] = *l
	return nil
}

func (d *data) OpenTimeLog(_ context.Context, shiftID roster.ShiftID, userID roster.UserID) (*roster.TimeLog, error) {
	for _, l := range d.timeLogs {
		if l.ShiftID == shiftID && l.UserID == userID && l.ClockOut == nil {
			log := l
			return &log, nil
		}
	}
	return nil, nil
}

func (d *data) TimeLogsByShiftDates(_ context.Context, from, to roster.Date) ([]roster.TimeLog, error) {
	var logs []roster.TimeLog
	for _, l := range d.timeLogs {
		s, ok := d.shifts[l.ShiftID]
		if !ok {
			continue
		}
		if s.Date.AfterOrEqual(from) && s.Date.BeforeOrEqual(to) {
			logs = append(logs, l)
		}
	}
	sort.Slice(logs, func(i, j int) bool { return logs[i].ID < logs[j].ID })
	return logs, nil
}

// =============================================================================
// LEAVE REQUESTS
// =============================================================================

func (d *data) CreateLeaveRequest(_ context.Context, r *roster.LeaveRequest) (roster.LeaveRequestID, error) {
	id := roster.LeaveRequestID(d.next())
	r.ID = id
	d.leave[id] = *r
	return id, nil
}

func (d *data) GetLeaveRequest(_ context.Context, id roster.LeaveRequestID) (*roster.LeaveRequest, error) {
	r, ok := d.leave[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (d *data) UpdateLeaveRequest(_ context.Context, r *roster.LeaveRequest) error {
	if _, ok := d.leave[r.ID]; !ok {
		return &roster.NotFoundError{Kind: "leave_request", ID: int64(r.ID)}
	}
	d.leave[r.ID] = *r
	return nil
}

func (d *data) LeaveRequestsOverlapping(_ context.Context, from, to roster.Date) ([]roster.LeaveRequest, error) {
	var requests []roster.LeaveRequest
	for _, r := range d.leave {
		if r.EndDate.Before(from) || r.StartDate.After(to) {
			continue
		}
		requests = append(requests, r)
	}
	sort.Slice(requests, func(i, j int) bool { return requests[i].ID < requests[j].ID })
	return requests, nil
}

// =============================================================================
// SWAP REQUESTS
// =============================================================================

func (d *data) CreateSwapRequest(_ context.Context, r *roster.SwapRequest) (roster.SwapRequestID, error) {
	id := roster.SwapRequestID(d.next())
	r.ID = id
	d.swaps[id] = *r
	return id, nil
}

func (d *data) GetSwapRequest(_ context.Context, id roster.SwapRequestID) (*roster.SwapRequest, error) {
	r, ok := d.swaps[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (d *data) UpdateSwapRequest(_ context.Context, r *roster.SwapRequest) error {
	if _, ok := d.swaps[r.ID]; !ok {
		return &roster.NotFoundError{Kind: "swap_request", ID: int64(r.ID)}
	}
	d.swaps[r.ID] = *r
	return nil
}

func (d *data) ListSwapRequests(_ context.Context, status roster.RequestStatus) ([]roster.SwapRequest, error) {
	var requests []roster.SwapRequest
	for _, r := range d.swaps {
		if status != "" && r.Status != status {
			continue
		}
		requests = append(requests, r)
	}
	sort.Slice(requests, func(i, j int) bool { return requests[i].ID < requests[j].ID })
	return requests, nil
}

// =============================================================================
// AUDIT LOG
// =============================================================================

func (d *data) Append(_ context.Context, entry roster.AuditEntry) error {
	d.audit = append(d.audit, entry)
	return nil
}

func (d *data) Query(_ context.Context, filter roster.AuditFilter) ([]roster.AuditEntry, error) {
	var entries []roster.AuditEntry
	for _, e := range d.audit {
		if filter.ActorID != nil && e.ActorID != *filter.ActorID {
			continue
		}
		if filter.Action != nil && e.Action != *filter.Action {
			continue
		}
		if filter.EntityKind != "" && e.EntityKind != filter.EntityKind {
			continue
		}
		if filter.EntityID != nil && e.EntityID != *filter.EntityID {
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// =============================================================================
// LOCKED DELEGATION - Memory wraps data with the mutex
// =============================================================================

func (m *Memory) CreateUser(ctx context.Context, u *roster.User) (roster.UserID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.d.CreateUser(ctx, u)
}

func (m *Memory) GetUser(ctx context.Context, id roster.UserID) (*roster.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.d.GetUser(ctx, id)
}

func (m *Memory) ListUsers(ctx context.Context) ([]roster.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.d.ListUsers(ctx)
}

func (m *Memory) CreateShift(ctx context.Context, s *roster.Shift) (roster.ShiftID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.d.CreateShift(ctx, s)
}

func (m *Memory) GetShift(ctx context.Context, id roster.ShiftID) (*roster.Shift, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.d.GetShift(ctx, id)
}

func (m *Memory) UpdateShift(ctx context.Context, s *roster.Shift) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.d.UpdateShift(ctx, s)
}

func (m *Memory) ShiftsByUserAndDate(ctx context.Context, userID roster.UserID, date roster.Date) ([]roster.Shift, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.d.ShiftsByUserAndDate(ctx, userID, date)
}

func (m *Memory) ShiftsInRange(ctx context.Context, from, to roster.Date) ([]roster.Shift, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.d.ShiftsInRange(ctx, from, to)
}

func (m *Memory) CreateTimeLog(ctx context.Context, l *roster.TimeLog) (roster.TimeLogID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.d.CreateTimeLog(ctx, l)
}

func (m *Memory) UpdateTimeLog(ctx context.Context, l *roster.TimeLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.d.UpdateTimeLog(ctx, l)
}

func (m *Memory) OpenTimeLog(ctx context.Context, shiftID roster.ShiftID, userID roster.UserID) (*roster.TimeLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.d.OpenTimeLog(ctx, shiftID, userID)
}

func (m *Memory) TimeLogsByShiftDates(ctx context.Context, from, to roster.Date) ([]roster.TimeLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.d.TimeLogsByShiftDates(ctx, from, to)
}

func (m *Memory) CreateLeaveRequest(ctx context.Context, r *roster.LeaveRequest) (roster.LeaveRequestID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.d.CreateLeaveRequest(ctx, r)
}

func (m *Memory) GetLeaveRequest(ctx context.Context, id roster.LeaveRequestID) (*roster.LeaveRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.d.GetLeaveRequest(ctx, id)
}

func (m *Memory) UpdateLeaveRequest(ctx context.Context, r *roster.LeaveRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.d.UpdateLeaveRequest(ctx, r)
}

func (m *Memory) LeaveRequestsOverlapping(ctx context.Context, from, to roster.Date) ([]roster.LeaveRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.d.LeaveRequestsOverlapping(ctx, from, to)
}

func (m *Memory) CreateSwapRequest(ctx context.Context, r *roster.SwapRequest) (roster.SwapRequestID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.d.CreateSwapRequest(ctx, r)
}

func (m *Memory) GetSwapRequest(ctx context.Context, id roster.SwapRequestID) (*roster.SwapRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.d.GetSwapRequest(ctx, id)
}

func (m *Memory) UpdateSwapRequest(ctx context.Context, r *roster.SwapRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.d.UpdateSwapRequest(ctx, r)
}

func (m *Memory) ListSwapRequests(ctx context.Context, status roster.RequestStatus) ([]roster.SwapRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.d.ListSwapRequests(ctx, status)
}

func (m *Memory) Append(ctx context.Context, entry roster.AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.d.Append(ctx, entry)
}

func (m *Memory) Query(ctx context.Context, filter roster.AuditFilter) ([]roster.AuditEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.d.Query(ctx, filter)
}
