package common

import "context"

type contextKey string

const adminContextKey contextKey = "adminUser"

// AdminUser represents the JWT-derived operator.
type AdminUser struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// ContextWithAdmin stores the authenticated operator into context.
func ContextWithAdmin(ctx context.Context, user AdminUser) context.Context {
	return context.WithValue(ctx, adminContextKey, user)
}

// AdminFromContext extracts the authenticated operator from context.
func AdminFromContext(ctx context.Context) (AdminUser, bool) {
	user, ok := ctx.Value(adminContextKey).(AdminUser)
	return user, ok
}
