// Package membership models membership applications, reviewer vouches and the
// re-application cooldown applied after a rejection.
package membership

import (
	"strings"
	"time"

	"github.com/andrescamacho/portbattle-go/internal/domain/shared"
)

// ApplicationCooldown gates re-application for one applicant identity
// (a Discord id or a user id)
type ApplicationCooldown struct {
	identityKey  string
	canReapplyAt time.Time
	reason       string
	overriddenBy string
	overriddenAt *time.Time
	updatedAt    time.Time
}

// NewApplicationCooldown blocks identityKey for days starting at now
func NewApplicationCooldown(identityKey string, days int, reason string, now time.Time) (*ApplicationCooldown, error) {
	identityKey = strings.TrimSpace(identityKey)
	if identityKey == "" {
		return nil, shared.NewValidationError("identityKey", "required")
	}
	if days < 0 {
		return nil, shared.NewValidationError("days", "must not be negative")
	}
	return &ApplicationCooldown{
		identityKey:  identityKey,
		canReapplyAt: now.AddDate(0, 0, days),
		reason:       strings.TrimSpace(reason),
		updatedAt:    now,
	}, nil
}

// ReconstructApplicationCooldown rebuilds a cooldown from persistence
func ReconstructApplicationCooldown(
	identityKey string,
	canReapplyAt time.Time,
	reason, overriddenBy string,
	overriddenAt *time.Time,
	updatedAt time.Time,
) *ApplicationCooldown {
	return &ApplicationCooldown{
		identityKey:  identityKey,
		canReapplyAt: canReapplyAt,
		reason:       reason,
		overriddenBy: overriddenBy,
		overriddenAt: overriddenAt,
		updatedAt:    updatedAt,
	}
}

func (c *ApplicationCooldown) IdentityKey() string      { return c.identityKey }
func (c *ApplicationCooldown) CanReapplyAt() time.Time  { return c.canReapplyAt }
func (c *ApplicationCooldown) Reason() string           { return c.reason }
func (c *ApplicationCooldown) OverriddenBy() string     { return c.overriddenBy }
func (c *ApplicationCooldown) OverriddenAt() *time.Time { return c.overriddenAt }
func (c *ApplicationCooldown) UpdatedAt() time.Time     { return c.updatedAt }

// Override clears the block immediately and records the admin who did it
func (c *ApplicationCooldown) Override(actorID string, now time.Time) {
	c.canReapplyAt = now
	c.overriddenBy = actorID
	c.overriddenAt = &now
	c.updatedAt = now
}

// CheckEligibility evaluates the cooldown at now
func (c *ApplicationCooldown) CheckEligibility(now time.Time) Eligibility {
	if c == nil || !now.Before(c.canReapplyAt) {
		return Eligibility{Eligible: true}
	}
	return Eligibility{Until: c.canReapplyAt, Reason: c.reason}
}

// Eligibility is either Eligible or Blocked until an instant
type Eligibility struct {
	Eligible bool
	Until    time.Time
	Reason   string
}

// Err returns a CooldownActiveError when blocked
func (e Eligibility) Err(identityKey string) error {
	if e.Eligible {
		return nil
	}
	return shared.NewCooldownActiveError(identityKey, e.Until, e.Reason)
}
