package utils

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	StaffIDKey   contextKey = "staff_id"
	StaffRoleKey contextKey = "staff_role"
)

// SetStaffContext sets the acting staff member into context (called by middleware)
func SetStaffContext(ctx context.Context, id uuid.UUID, role string) context.Context {
	ctx = context.WithValue(ctx, StaffIDKey, id)
	ctx = context.WithValue(ctx, StaffRoleKey, role)
	return ctx
}

// GetStaffIDFromContext retrieves the staff id safely
func GetStaffIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(StaffIDKey).(uuid.UUID)
	return id, ok
}

func GetStaffRoleFromContext(ctx context.Context) string {
	role, _ := ctx.Value(StaffRoleKey).(string)
	return role
}

// StaffIDPtr returns the acting staff id or nil for anonymous requests.
func StaffIDPtr(ctx context.Context) *uuid.UUID {
	id, ok := GetStaffIDFromContext(ctx)
	if !ok {
		return nil
	}
	return &id
}
