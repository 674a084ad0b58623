package auth

import (
	"context"
	"strings"

	"github.com/andrescamacho/portbattle-go/internal/domain/shared"
)

// Context keys for passing authentication data through context
type authContextKey int

const (
	identityKey authContextKey = iota + 1000 // Offset from logger keys
)

// Identity is the authenticated caller as reported by the identity provider.
// UserID is the platform user id; DiscordID is set for Discord-linked accounts.
type Identity struct {
	UserID      string
	DiscordID   string
	DisplayName string
	Roles       []string
}

// IsZero reports whether no caller is authenticated
func (i Identity) IsZero() bool {
	return i.UserID == "" && i.DiscordID == ""
}

// Key returns the identity key used for per-captain uniqueness and cooldowns
func (i Identity) Key() string {
	if i.UserID != "" {
		return i.UserID
	}
	return i.DiscordID
}

// HasRole reports whether the identity carries role, case-insensitively
func (i Identity) HasRole(role string) bool {
	for _, r := range i.Roles {
		if strings.EqualFold(r, role) {
			return true
		}
	}
	return false
}

// WithIdentity injects the authenticated caller into the context
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext extracts the caller; ok is false for anonymous requests
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	if !ok || id.IsZero() {
		return Identity{}, false
	}
	return id, true
}

// RequireIdentity returns the caller or an Unauthorized error
func RequireIdentity(ctx context.Context) (Identity, error) {
	id, ok := IdentityFromContext(ctx)
	if !ok {
		return Identity{}, shared.NewUnauthorizedError("authentication required")
	}
	return id, nil
}
