package membership

import "context"

// CooldownRepository defines persistence operations for application cooldowns
type CooldownRepository interface {
	// Find returns the cooldown for identityKey, or nil when none was ever applied
	Find(ctx context.Context, identityKey string) (*ApplicationCooldown, error)

	// Upsert replaces any prior cooldown for the same identity
	Upsert(ctx context.Context, c *ApplicationCooldown) error
}

// ApplicationRepository defines persistence operations for applications and vouches
type ApplicationRepository interface {
	// Create returns an APPLICATION_PENDING conflict when the identity already
	// has a pending application
	Create(ctx context.Context, a *Application) error

	FindByID(ctx context.Context, id string) (*Application, error)

	// AddVouch returns DuplicateVouch when the reviewer already vouched
	AddVouch(ctx context.Context, v *Vouch) error
	ListVouches(ctx context.Context, applicationID string) ([]*Vouch, error)

	// Review persists the decision applied to a. A non-nil cooldown is upserted
	// in the same transaction.
	Review(ctx context.Context, a *Application, cooldown *ApplicationCooldown) error
}
