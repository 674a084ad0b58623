package screening

import "context"

// ScreeningRepository defines persistence operations for screening fleets and signups
type ScreeningRepository interface {
	CreateFleet(ctx context.Context, f *ScreeningFleet) error
	FindFleet(ctx context.Context, id string) (*ScreeningFleet, error)
	ListFleets(ctx context.Context, battleID string) ([]*ScreeningFleet, error)

	// CreateSignup returns DuplicateSignup when the captain already holds an
	// active signup for the same fleet
	CreateSignup(ctx context.Context, s *ScreeningSignup) error
	FindSignup(ctx context.Context, id string) (*ScreeningSignup, error)
	ListSignups(ctx context.Context, fleetID string) ([]*ScreeningSignup, error)

	// CountActiveSignups counts PENDING and APPROVED signups of a fleet
	CountActiveSignups(ctx context.Context, fleetID string) (int, error)

	// ReviewSignup persists the decision applied to s; AlreadyReviewed when the
	// stored signup is no longer PENDING
	ReviewSignup(ctx context.Context, s *ScreeningSignup) error
}
