package roster

import (
	"context"
	"fmt"
)

// UserService manages roster users. Credentials and sessions are owned by
// the external identity system; only the role matters here.
type UserService struct {
	Store TxStore
}

// CreateUser validates the role and persists a new user. An empty role
// defaults to staff.
func (s *UserService) CreateUser(ctx context.Context, username, email, name string, role Role) (*User, error) {
	if username == "" {
		return nil, &ValidationError{Field: "username", Reason: "username is required"}
	}
	if role == "" {
		role = RoleStaff
	}
	if !role.Valid() {
		return nil, &ValidationError{Field: "role", Reason: fmt.Sprintf("unknown role %q (use staff, supervisor, or admin)", role)}
	}

	u := &User{Username: username, Email: email, Name: name, Role: role}
	id, err := s.Store.CreateUser(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	u.ID = id
	return u, nil
}

// GetUser returns the user or a NotFoundError.
func (s *UserService) GetUser(ctx context.Context, id UserID) (*User, error) {
	u, err := s.Store.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, &NotFoundError{Kind: "user", ID: int64(id)}
	}
	return u, nil
}

// ListUsers returns all users ordered by id.
func (s *UserService) ListUsers(ctx context.Context) ([]User, error) {
	return s.Store.ListUsers(ctx)
}
