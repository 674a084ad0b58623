package screening

import (
	"strings"
	"time"

	"github.com/andrescamacho/portbattle-go/internal/domain/shared"
)

// ScreeningSignup is a captain's request to join a screening fleet
type ScreeningSignup struct {
	shared.ReviewState

	id          string
	fleetID     string
	userID      string
	captainName string
	clanName    string
	shipName    string
}

// NewScreeningSignup creates a PENDING signup; userID identifies the captain
func NewScreeningSignup(fleetID, userID, captainName, clanName, shipName string, now time.Time) (*ScreeningSignup, error) {
	if userID == "" {
		return nil, shared.NewUnauthorizedError("screening signups require an authenticated identity")
	}
	captainName = strings.TrimSpace(captainName)
	if captainName == "" {
		return nil, shared.NewValidationError("captainName", "required")
	}
	return &ScreeningSignup{
		ReviewState: shared.NewReviewState(now),
		id:          shared.NewID(),
		fleetID:     fleetID,
		userID:      userID,
		captainName: captainName,
		clanName:    strings.TrimSpace(clanName),
		shipName:    strings.TrimSpace(shipName),
	}, nil
}

// ReconstructScreeningSignup rebuilds a signup from persistence
func ReconstructScreeningSignup(id, fleetID, userID, captainName, clanName, shipName string, state shared.ReviewState) *ScreeningSignup {
	return &ScreeningSignup{
		ReviewState: state,
		id:          id,
		fleetID:     fleetID,
		userID:      userID,
		captainName: captainName,
		clanName:    clanName,
		shipName:    shipName,
	}
}

func (s *ScreeningSignup) ID() string          { return s.id }
func (s *ScreeningSignup) FleetID() string     { return s.fleetID }
func (s *ScreeningSignup) UserID() string      { return s.userID }
func (s *ScreeningSignup) CaptainName() string { return s.captainName }
func (s *ScreeningSignup) ClanName() string    { return s.clanName }
func (s *ScreeningSignup) ShipName() string    { return s.shipName }

// Review applies an admin decision
func (s *ScreeningSignup) Review(decision shared.Decision, actorID, reason string, now time.Time) error {
	return s.ReviewState.Review("screening signup", s.id, decision, actorID, reason, now)
}
