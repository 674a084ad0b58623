// Package signup models a captain's claim on a fleet role and its review lifecycle.
package signup

import (
	"strings"
	"time"

	"github.com/andrescamacho/portbattle-go/internal/domain/shared"
)

// CaptainInfo is the captain-supplied part of a signup
type CaptainInfo struct {
	CaptainName     string
	ClanName        string
	WillingToScreen bool
	Comments        string
	ContactInfo     string
	IsExternal      bool
	CaptainsCode    string
}

// Signup is a captain's claim on one FleetRole.
//
// BattleID is denormalized from the role so the store can enforce one active
// signup per captain per battle. UserID is empty for external captains.
type Signup struct {
	shared.ReviewState

	id         string
	battleID   string
	roleID     string
	info       CaptainInfo
	userID     string
	overrideBy string
}

// NewSignup validates the captain info and creates a PENDING signup
func NewSignup(battleID, roleID, userID string, info CaptainInfo, now time.Time) (*Signup, error) {
	info.CaptainName = strings.TrimSpace(info.CaptainName)
	info.ClanName = strings.TrimSpace(info.ClanName)
	info.ContactInfo = strings.TrimSpace(info.ContactInfo)
	info.CaptainsCode = strings.ToUpper(strings.TrimSpace(info.CaptainsCode))

	var missing []string
	if roleID == "" {
		missing = append(missing, "roleId")
	}
	if info.CaptainName == "" {
		missing = append(missing, "captainName")
	}
	if info.IsExternal && info.ContactInfo == "" {
		missing = append(missing, "contactInfo")
	}
	if len(missing) > 0 {
		return nil, shared.NewMultiValidationError(missing, "required")
	}
	if !info.IsExternal && userID == "" {
		return nil, shared.NewUnauthorizedError("member signups require an authenticated identity")
	}

	return &Signup{
		ReviewState: shared.NewReviewState(now),
		id:          shared.NewID(),
		battleID:    battleID,
		roleID:      roleID,
		info:        info,
		userID:      userID,
	}, nil
}

// ReconstructSignup rebuilds a signup from persistence
func ReconstructSignup(
	id, battleID, roleID, userID, overrideBy string,
	info CaptainInfo,
	state shared.ReviewState,
) *Signup {
	return &Signup{
		ReviewState: state,
		id:          id,
		battleID:    battleID,
		roleID:      roleID,
		info:        info,
		userID:      userID,
		overrideBy:  overrideBy,
	}
}

func (s *Signup) ID() string           { return s.id }
func (s *Signup) BattleID() string     { return s.battleID }
func (s *Signup) RoleID() string       { return s.roleID }
func (s *Signup) UserID() string       { return s.userID }
func (s *Signup) Info() CaptainInfo    { return s.info }
func (s *Signup) IsExternal() bool     { return s.info.IsExternal }
func (s *Signup) CaptainsCode() string { return s.info.CaptainsCode }
func (s *Signup) OverrideBy() string   { return s.overrideBy }

// GrantOverride lets an external signup through without a captains code.
// Only callers holding the admin capability may use it.
func (s *Signup) GrantOverride(adminID string) {
	s.overrideBy = adminID
}

// RedeemsCode reports whether creating this signup must consume a code use
func (s *Signup) RedeemsCode() bool {
	return s.info.IsExternal && s.overrideBy == "" && s.info.CaptainsCode != ""
}

// Review applies an admin decision
func (s *Signup) Review(decision shared.Decision, actorID, reason string, now time.Time) error {
	return s.ReviewState.Review("signup", s.id, decision, actorID, reason, now)
}
