package signup

import "context"

// AutoDeniedReason is recorded on pending siblings of an approved signup
const AutoDeniedReason = "another captain was approved for this role"

// ReviewOutcome is the result of a review: the reviewed signup plus any sibling
// signups of the same role that were denied because it was approved
type ReviewOutcome struct {
	Signup     *Signup
	AutoDenied []*Signup
}

// SignupRepository defines persistence operations for role signups.
//
// The store is the authority for the per-role and per-captain uniqueness rules:
// Submit returns RoleAlreadyClaimed or DuplicateCaptain when the losing writer of
// a race hits the corresponding unique index.
type SignupRepository interface {
	// Submit inserts a PENDING signup. When s.RedeemsCode() the captains code usage
	// is incremented in the same transaction, failing with a CodeRejectedError if
	// the code is no longer usable.
	Submit(ctx context.Context, s *Signup) error

	FindByID(ctx context.Context, id string) (*Signup, error)
	ListByBattle(ctx context.Context, battleID string) ([]*Signup, error)

	// ListActiveByRole returns PENDING and APPROVED signups of a role
	ListActiveByRole(ctx context.Context, roleID string) ([]*Signup, error)

	// FindActiveByCaptain returns the captain's active signup in a battle, or nil
	FindActiveByCaptain(ctx context.Context, battleID, userID string) (*Signup, error)

	// Review persists the decision applied to s by Signup.Review. It fails with
	// AlreadyReviewed when the stored signup is no longer PENDING. Approving denies
	// every other pending signup of the same role in the same transaction.
	Review(ctx context.Context, s *Signup) (*ReviewOutcome, error)
}
