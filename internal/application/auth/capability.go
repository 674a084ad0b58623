package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/andrescamacho/portbattle-go/internal/domain/shared"
)

// Capability is a permission the identity provider may grant
type Capability string

const (
	CapabilityAdmin        Capability = "ADMIN"
	CapabilityCreateBattle Capability = "CREATE_BATTLE"
)

// CapabilityChecker answers "does this identity hold this capability?"
// Every command consults the same checker.
type CapabilityChecker interface {
	HasCapability(ctx context.Context, id Identity, capability Capability) bool
}

// ConfigCapabilityChecker grants capabilities from configured admin ids and
// identity roles. Admins hold every capability.
type ConfigCapabilityChecker struct {
	admins       map[string]struct{}
	creatorRoles map[string]struct{}
}

// NewConfigCapabilityChecker builds a checker from admin identity keys (user or
// Discord ids) and the role names that grant CREATE_BATTLE
func NewConfigCapabilityChecker(adminIDs, creatorRoles []string) *ConfigCapabilityChecker {
	c := &ConfigCapabilityChecker{
		admins:       make(map[string]struct{}, len(adminIDs)),
		creatorRoles: make(map[string]struct{}, len(creatorRoles)),
	}
	for _, id := range adminIDs {
		if id = strings.TrimSpace(id); id != "" {
			c.admins[id] = struct{}{}
		}
	}
	for _, r := range creatorRoles {
		if r = strings.TrimSpace(r); r != "" {
			c.creatorRoles[strings.ToUpper(r)] = struct{}{}
		}
	}
	return c
}

func (c *ConfigCapabilityChecker) HasCapability(_ context.Context, id Identity, capability Capability) bool {
	if id.IsZero() {
		return false
	}
	if c.isAdmin(id) {
		return true
	}
	switch capability {
	case CapabilityCreateBattle:
		for _, r := range id.Roles {
			if _, ok := c.creatorRoles[strings.ToUpper(r)]; ok {
				return true
			}
		}
	}
	return false
}

func (c *ConfigCapabilityChecker) isAdmin(id Identity) bool {
	if id.HasRole(string(CapabilityAdmin)) {
		return true
	}
	for _, key := range []string{id.UserID, id.DiscordID} {
		if key == "" {
			continue
		}
		if _, ok := c.admins[key]; ok {
			return true
		}
	}
	return false
}

// Require returns the caller if it holds capability: Unauthorized when anonymous,
// Forbidden when the capability is missing
func Require(ctx context.Context, checker CapabilityChecker, capability Capability) (Identity, error) {
	id, err := RequireIdentity(ctx)
	if err != nil {
		return Identity{}, err
	}
	if !checker.HasCapability(ctx, id, capability) {
		return Identity{}, shared.NewForbiddenError(fmt.Sprintf("missing capability %s", capability))
	}
	return id, nil
}

// RequireOwnerOrAdmin lets the resource owner through, otherwise demands ADMIN
func RequireOwnerOrAdmin(ctx context.Context, checker CapabilityChecker, ownerID string) (Identity, error) {
	id, err := RequireIdentity(ctx)
	if err != nil {
		return Identity{}, err
	}
	if ownerID != "" && id.UserID == ownerID {
		return id, nil
	}
	if !checker.HasCapability(ctx, id, CapabilityAdmin) {
		return Identity{}, shared.NewForbiddenError("only the creator or an admin may do this")
	}
	return id, nil
}

// IsAdmin is a convenience for optional admin-only behavior
func IsAdmin(ctx context.Context, checker CapabilityChecker) bool {
	id, ok := IdentityFromContext(ctx)
	return ok && checker.HasCapability(ctx, id, CapabilityAdmin)
}
