/*
Package sqlite provides a SQLite-backed implementation of the storage
interfaces.

PURPOSE:
  Implements roster.TxStore and roster.AuditLog using SQLite. In production
  the same patterns apply to PostgreSQL - only minor SQL dialect differences.

KEY TABLES:
  users:          Roster users (role only; credentials live elsewhere)
  shifts:         Scheduled work periods
  time_logs:      Attendance records (clock-in / clock-out)
  leave_requests: Leave workflow state
  swap_requests:  Swap workflow state
  audit_log:      Append-only action trail

INVARIANT ENFORCEMENT:
  idx_time_logs_open is a partial unique index that makes "at most one open
  time log per (shift, user)" a database guarantee, not just an application
  check.

TRANSACTIONS:
  WithTx wraps the callback in BEGIN/COMMIT; any error from the callback
  rolls the transaction back, so precondition checks and state writes
  commit atomically.

WAL MODE:
  The database is opened with WAL (Write-Ahead Logging):
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/roster.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - roster/store.go: Interface definitions
  - roster/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/roster-engine/roster"
)

// Store implements roster.TxStore and roster.AuditLog using SQLite.
type Store struct {
	db *sql.DB
	queries
}

var _ roster.TxStore = (*Store)(nil)
var _ roster.AuditLog = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Each pooled connection to :memory: would get its own database.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db, queries: queries{db: db}}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// WithTx executes fn within a database transaction.
func (s *Store) WithTx(ctx context.Context, fn func(roster.Store) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(queries{db: tx}); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		email TEXT,
		name TEXT,
		role TEXT NOT NULL DEFAULT 'staff'
	);

	CREATE TABLE IF NOT EXISTS shifts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL REFERENCES users(id),
		work_date TEXT NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'scheduled'
	);

	CREATE INDEX IF NOT EXISTS idx_shifts_user_date
		ON shifts(user_id, work_date);
	CREATE INDEX IF NOT EXISTS idx_shifts_date
		ON shifts(work_date);

	CREATE TABLE IF NOT EXISTS time_logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		shift_id INTEGER NOT NULL REFERENCES shifts(id) ON DELETE CASCADE,
		user_id INTEGER NOT NULL REFERENCES users(id),
		clock_in TEXT NOT NULL,
		clock_out TEXT
	);

	-- At most one open time log per (shift, user) pair.
	CREATE UNIQUE INDEX IF NOT EXISTS idx_time_logs_open
		ON time_logs(shift_id, user_id)
		WHERE clock_out IS NULL;

	CREATE TABLE IF NOT EXISTS leave_requests (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		requester_id INTEGER NOT NULL REFERENCES users(id),
		approver_id INTEGER REFERENCES users(id),
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		type TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		reason TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		decided_at TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_leave_requester
		ON leave_requests(requester_id);
	CREATE INDEX IF NOT EXISTS idx_leave_dates
		ON leave_requests(start_date, end_date);

	CREATE TABLE IF NOT EXISTS swap_requests (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		shift_id INTEGER NOT NULL REFERENCES shifts(id),
		from_user_id INTEGER NOT NULL REFERENCES users(id),
		to_user_id INTEGER NOT NULL REFERENCES users(id),
		approver_id INTEGER REFERENCES users(id),
		status TEXT NOT NULL DEFAULT 'pending',
		note TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		decided_at TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_swaps_status
		ON swap_requests(status);

	CREATE TABLE IF NOT EXISTS audit_log (
		id TEXT PRIMARY KEY,
		at TEXT NOT NULL,
		actor_id INTEGER NOT NULL,
		action TEXT NOT NULL,
		entity_kind TEXT NOT NULL,
		entity_id INTEGER NOT NULL,
		detail TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_audit_entity
		ON audit_log(entity_kind, entity_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// QUERIES - Shared between the root connection and open transactions
// =============================================================================

// dbtx is the subset of *sql.DB and *sql.Tx the queries need.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type queries struct {
	db dbtx
}

var _ roster.Store = queries{}

type rowScanner interface {
	Scan(dest ...any) error
}

// =============================================================================
// USERS
// =============================================================================

func (q queries) CreateUser(ctx context.Context, u *roster.User) (roster.UserID, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO users (username, email, name, role) VALUES (?, ?, ?, ?)`,
		u.Username, u.Email, u.Name, string(u.Role))
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	u.ID = roster.UserID(id)
	return u.ID, nil
}

func (q queries) GetUser(ctx context.Context, id roster.UserID) (*roster.User, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT id, username, email, name, role FROM users WHERE id = ?`, int64(id))

	var u roster.User
	var role string
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Name, &role)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	u.Role = roster.Role(role)
	return &u, nil
}

func (q queries) ListUsers(ctx context.Context) ([]roster.User, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, username, email, name, role FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []roster.User
	for rows.Next() {
		var u roster.User
		var role string
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.Name, &role); err != nil {
			return nil, err
		}
		u.Role = roster.Role(role)
		users = append(users, u)
	}
	return users, rows.Err()
}

// =============================================================================
// SHIFTS
// =============================================================================

func (q queries) CreateShift(ctx context.Context, s *roster.Shift) (roster.ShiftID, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO shifts (user_id, work_date, start_time, end_time, status)
		 VALUES (?, ?, ?, ?, ?)`,
		int64(s.UserID), s.Date.String(), s.Start.String(), s.End.String(), string(s.Status))
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	s.ID = roster.ShiftID(id)
	return s.ID, nil
}

func (q queries) GetShift(ctx context.Context, id roster.ShiftID) (*roster.Shift, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT id, user_id, work_date, start_time, end_time, status
		 FROM shifts WHERE id = ?`, int64(id))

	s, err := scanShift(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (q queries) UpdateShift(ctx context.Context, s *roster.Shift) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE shifts SET user_id = ?, work_date = ?, start_time = ?, end_time = ?, status = ?
		 WHERE id = ?`,
		int64(s.UserID), s.Date.String(), s.Start.String(), s.End.String(), string(s.Status), int64(s.ID))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &roster.NotFoundError{Kind: "shift", ID: int64(s.ID)}
	}
	return nil
}

func (q queries) ShiftsByUserAndDate(ctx context.Context, userID roster.UserID, date roster.Date) ([]roster.Shift, error) {
	// "HH:MM" strings sort lexicographically in chronological order.
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, user_id, work_date, start_time, end_time, status
		 FROM shifts WHERE user_id = ? AND work_date = ?
		 ORDER BY start_time, id`,
		int64(userID), date.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectShifts(rows)
}

func (q queries) ShiftsInRange(ctx context.Context, from, to roster.Date) ([]roster.Shift, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, user_id, work_date, start_time, end_time, status
		 FROM shifts WHERE work_date >= ? AND work_date <= ?
		 ORDER BY work_date, start_time, id`,
		from.String(), to.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectShifts(rows)
}

func scanShift(row rowScanner) (*roster.Shift, error) {
	var s roster.Shift
	var workDate, start, end, status string
	if err := row.Scan(&s.ID, &s.UserID, &workDate, &start, &end, &status); err != nil {
		return nil, err
	}

	var err error
	if s.Date, err = roster.ParseDate(workDate); err != nil {
		return nil, err
	}
	if s.Start, err = roster.ParseTimeOfDay(start); err != nil {
		return nil, err
	}
	if s.End, err = roster.ParseTimeOfDay(end); err != nil {
		return nil, err
	}
	s.Status = roster.ShiftStatus(status)
	return &s, nil
}

func collectShifts(rows *sql.Rows) ([]roster.Shift, error) {
	var shifts []roster.Shift
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, *s)
	}
	return shifts, rows.Err()
}

// =============================================================================
// TIME LOGS
// =============================================================================

func (q queries) CreateTimeLog(ctx context.Context, l *roster.TimeLog) (roster.TimeLogID, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO time_logs (shift_id, user_id, clock_in, clock_out)
		 VALUES (?, ?, ?, ?)`,
		int64(l.ShiftID), int64(l.UserID), l.ClockIn.Format(time.RFC3339), nullTime(l.ClockOut))
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	l.ID = roster.TimeLogID(id)
	return l.ID, nil
}

func (q queries) UpdateTimeLog(ctx context.Context, l *roster.TimeLog) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE time_logs SET shift_id = ?, user_id = ?, clock_in = ?, clock_out = ?
		 WHERE id = ?`,
		int64(l.ShiftID), int64(l.UserID), l.ClockIn.Format(time.RFC3339), nullTime(l.ClockOut), int64(l.ID))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &roster.NotFoundError{Kind: "time_log", ID: int64(l.ID)}
	}
	return nil
}

func (q queries) OpenTimeLog(ctx context.Context, shiftID roster.ShiftID, userID roster.UserID) (*roster.TimeLog, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT id, shift_id, user_id, clock_in, clock_out
		 FROM time_logs WHERE shift_id = ? AND user_id = ? AND clock_out IS NULL`,
		int64(shiftID), int64(userID))

	l, err := scanTimeLog(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (q queries) TimeLogsByShiftDates(ctx context.Context, from, to roster.Date) ([]roster.TimeLog, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT t.id, t.shift_id, t.user_id, t.clock_in, t.clock_out
		 FROM time_logs t JOIN shifts s ON t.shift_id = s.id
		 WHERE s.work_date >= ? AND s.work_date <= ?
		 ORDER BY t.id`,
		from.String(), to.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []roster.TimeLog
	for rows.Next() {
		l, err := scanTimeLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, *l)
	}
	return logs, rows.Err()
}

func scanTimeLog(row rowScanner) (*roster.TimeLog, error) {
	var l roster.TimeLog
	var clockIn string
	var clockOut sql.NullString
	if err := row.Scan(&l.ID, &l.ShiftID, &l.UserID, &clockIn, &clockOut); err != nil {
		return nil, err
	}

	in, err := time.Parse(time.RFC3339, clockIn)
	if err != nil {
		return nil, err
	}
	l.ClockIn = in

	if clockOut.Valid {
		out, err := time.Parse(time.RFC3339, clockOut.String)
		if err != nil {
			return nil, err
		}
		l.ClockOut = &out
	}
	return &l, nil
}

// =============================================================================
// LEAVE REQUESTS
// =============================================================================

func (q queries) CreateLeaveRequest(ctx context.Context, r *roster.LeaveRequest) (roster.LeaveRequestID, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO leave_requests
		 (requester_id, approver_id, start_date, end_date, type, status, reason, created_at, decided_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		int64(r.RequesterID), nullUserID(r.ApproverID), r.StartDate.String(), r.EndDate.String(),
		r.Type, string(r.Status), r.Reason, r.CreatedAt.Format(time.RFC3339), nullTime(r.DecidedAt))
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	r.ID = roster.LeaveRequestID(id)
	return r.ID, nil
}

func (q queries) GetLeaveRequest(ctx context.Context, id roster.LeaveRequestID) (*roster.LeaveRequest, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT id, requester_id, approver_id, start_date, end_date, type, status, reason, created_at, decided_at
		 FROM leave_requests WHERE id = ?`, int64(id))

	r, err := scanLeaveRequest(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (q queries) UpdateLeaveRequest(ctx context.Context, r *roster.LeaveRequest) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE leave_requests
		 SET requester_id = ?, approver_id = ?, start_date = ?, end_date = ?, type = ?,
		     status = ?, reason = ?, created_at = ?, decided_at = ?
		 WHERE id = ?`,
		int64(r.RequesterID), nullUserID(r.ApproverID), r.StartDate.String(), r.EndDate.String(),
		r.Type, string(r.Status), r.Reason, r.CreatedAt.Format(time.RFC3339), nullTime(r.DecidedAt),
		int64(r.ID))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &roster.NotFoundError{Kind: "leave_request", ID: int64(r.ID)}
	}
	return nil
}

func (q queries) LeaveRequestsOverlapping(ctx context.Context, from, to roster.Date) ([]roster.LeaveRequest, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, requester_id, approver_id, start_date, end_date, type, status, reason, created_at, decided_at
		 FROM leave_requests WHERE end_date >= ? AND start_date <= ?
		 ORDER BY id`,
		from.String(), to.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []roster.LeaveRequest
	for rows.Next() {
		r, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, *r)
	}
	return requests, rows.Err()
}

func scanLeaveRequest(row rowScanner) (*roster.LeaveRequest, error) {
	var r roster.LeaveRequest
	var approver sql.NullInt64
	var start, end, status, createdAt string
	var decidedAt sql.NullString
	if err := row.Scan(&r.ID, &r.RequesterID, &approver, &start, &end, &r.Type, &status, &r.Reason, &createdAt, &decidedAt); err != nil {
		return nil, err
	}

	var err error
	if r.StartDate, err = roster.ParseDate(start); err != nil {
		return nil, err
	}
	if r.EndDate, err = roster.ParseDate(end); err != nil {
		return nil, err
	}
	r.Status = roster.RequestStatus(status)
	if r.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, err
	}
	if approver.Valid {
		id := roster.UserID(approver.Int64)
		r.ApproverID = &id
	}
	if decidedAt.Valid {
		t, err := time.Parse(time.RFC3339, decidedAt.String)
		if err != nil {
			return nil, err
		}
		r.DecidedAt = &t
	}
	return &r, nil
}

// =============================================================================
// SWAP REQUESTS
// =============================================================================

func (q queries) CreateSwapRequest(ctx context.Context, r *roster.SwapRequest) (roster.SwapRequestID, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO swap_requests
		 (shift_id, from_user_id, to_user_id, approver_id, status, note, created_at, decided_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		int64(r.ShiftID), int64(r.FromUserID), int64(r.ToUserID), nullUserID(r.ApproverID),
		string(r.Status), r.Note, r.CreatedAt.Format(time.RFC3339), nullTime(r.DecidedAt))
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	r.ID = roster.SwapRequestID(id)
	return r.ID, nil
}

func (q queries) GetSwapRequest(ctx context.Context, id roster.SwapRequestID) (*roster.SwapRequest, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT id, shift_id, from_user_id, to_user_id, approver_id, status, note, created_at, decided_at
		 FROM swap_requests WHERE id = ?`, int64(id))

	r, err := scanSwapRequest(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (q queries) UpdateSwapRequest(ctx context.Context, r *roster.SwapRequest) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE swap_requests
		 SET shift_id = ?, from_user_id = ?, to_user_id = ?, approver_id = ?,
		     status = ?, note = ?, created_at = ?, decided_at = ?
		 WHERE id = ?`,
		int64(r.ShiftID), int64(r.FromUserID), int64(r.ToUserID), nullUserID(r.ApproverID),
		string(r.Status), r.Note, r.CreatedAt.Format(time.RFC3339), nullTime(r.DecidedAt),
		int64(r.ID))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &roster.NotFoundError{Kind: "swap_request", ID: int64(r.ID)}
	}
	return nil
}

func (q queries) ListSwapRequests(ctx context.Context, status roster.RequestStatus) ([]roster.SwapRequest, error) {
	query := `SELECT id, shift_id, from_user_id, to_user_id, approver_id, status, note, created_at, decided_at
	          FROM swap_requests`
	args := []any{}
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY id`

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []roster.SwapRequest
	for rows.Next() {
		r, err := scanSwapRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, *r)
	}
	return requests, rows.Err()
}

func scanSwapRequest(row rowScanner) (*roster.SwapRequest, error) {
	var r roster.SwapRequest
	var approver sql.NullInt64
	var status, createdAt string
	var decidedAt sql.NullString
	if err := row.Scan(&r.ID, &r.ShiftID, &r.FromUserID, &r.ToUserID, &approver, &status, &r.Note, &createdAt, &decidedAt); err != nil {
		return nil, err
	}

	r.Status = roster.RequestStatus(status)
	var err error
	if r.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, err
	}
	if approver.Valid {
		id := roster.UserID(approver.Int64)
		r.ApproverID = &id
	}
	if decidedAt.Valid {
		t, err := time.Parse(time.RFC3339, decidedAt.String)
		if err != nil {
			return nil, err
		}
		r.DecidedAt = &t
	}
	return &r, nil
}

// =============================================================================
// AUDIT LOG
// =============================================================================

func (s *Store) Append(ctx context.Context, entry roster.AuditEntry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO audit_log (id, at, actor_id, action, entity_kind, entity_id, detail)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.At.Format(time.RFC3339), int64(entry.ActorID), string(entry.Action),
		entry.EntityKind, entry.EntityID, entry.Detail)
	return err
}

func (s *Store) Query(ctx context.Context, filter roster.AuditFilter) ([]roster.AuditEntry, error) {
	query := `SELECT id, at, actor_id, action, entity_kind, entity_id, detail FROM audit_log WHERE 1=1`
	args := []any{}
	if filter.ActorID != nil {
		query += ` AND actor_id = ?`
		args = append(args, int64(*filter.ActorID))
	}
	if filter.Action != nil {
		query += ` AND action = ?`
		args = append(args, string(*filter.Action))
	}
	if filter.EntityKind != "" {
		query += ` AND entity_kind = ?`
		args = append(args, filter.EntityKind)
	}
	if filter.EntityID != nil {
		query += ` AND entity_id = ?`
		args = append(args, *filter.EntityID)
	}
	query += ` ORDER BY at, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []roster.AuditEntry
	for rows.Next() {
		var e roster.AuditEntry
		var at, action string
		if err := rows.Scan(&e.ID, &at, &e.ActorID, &action, &e.EntityKind, &e.EntityID, &e.Detail); err != nil {
			return nil, err
		}
		e.Action = roster.AuditAction(action)
		if e.At, err = time.Parse(time.RFC3339, at); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// =============================================================================
// NULLABLE HELPERS
// =============================================================================

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(time.RFC3339)
}

func nullUserID(id *roster.UserID) any {
	if id == nil {
		return nil
	}
	return int64(*id)
}
