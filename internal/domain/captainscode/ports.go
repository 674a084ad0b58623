package captainscode

import "context"

// CaptainsCodeRepository defines persistence operations for captains codes.
// Usage is only ever incremented by the signup repository, together with the
// signup insert.
type CaptainsCodeRepository interface {
	// Create persists a new code; a code string collision returns a Conflict error
	Create(ctx context.Context, c *CaptainsCode) error

	// FindByCode returns the code or a NotFound error
	FindByCode(ctx context.Context, code string) (*CaptainsCode, error)

	ListByBattle(ctx context.Context, battleID string) ([]*CaptainsCode, error)

	Deactivate(ctx context.Context, code string) error
}
