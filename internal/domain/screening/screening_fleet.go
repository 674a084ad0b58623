// Package screening models auxiliary screening detachments attached to a battle
// and the captains signing up for them.
package screening

import (
	"fmt"
	"strings"
	"time"

	"github.com/andrescamacho/portbattle-go/internal/domain/catalog"
	"github.com/andrescamacho/portbattle-go/internal/domain/shared"
)

// FleetType distinguishes offensive from defensive screens
type FleetType string

const (
	FleetTypeOffensive FleetType = "OFFENSIVE"
	FleetTypeDefensive FleetType = "DEFENSIVE"
)

// ParseFleetType accepts either label in any case
func ParseFleetType(s string) (FleetType, error) {
	switch FleetType(strings.ToUpper(strings.TrimSpace(s))) {
	case FleetTypeOffensive:
		return FleetTypeOffensive, nil
	case FleetTypeDefensive:
		return FleetTypeDefensive, nil
	}
	return "", shared.NewValidationError("type", fmt.Sprintf("must be OFFENSIVE or DEFENSIVE, got %q", s))
}

// Requirements is the creator-supplied description of a screening fleet
type Requirements struct {
	Type          FleetType
	Observation   string
	RequiredShips []string
	Nation        string
	Commander     string
	// ShipsRequired is an advisory headcount; nil means no cap
	ShipsRequired *int
}

// ScreeningFleet is one detachment request of a battle. No BR budget applies.
type ScreeningFleet struct {
	id        string
	battleID  string
	req       Requirements
	createdBy string
	createdAt time.Time
}

// NewScreeningFleet validates requirements against the catalog.
// Required ships may be ship names or rate tokens such as "5th Rate".
func NewScreeningFleet(cat catalog.Catalog, battleID string, req Requirements, createdBy string, now time.Time) (*ScreeningFleet, error) {
	if battleID == "" {
		return nil, shared.NewValidationError("battleId", "required")
	}
	if req.Type != FleetTypeOffensive && req.Type != FleetTypeDefensive {
		return nil, shared.NewValidationError("type", fmt.Sprintf("invalid screening type %q", req.Type))
	}
	if req.ShipsRequired != nil && *req.ShipsRequired < 1 {
		return nil, shared.NewValidationError("shipsRequired", "must be at least 1 when set")
	}

	ships := make([]string, 0, len(req.RequiredShips))
	for _, token := range req.RequiredShips {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		if ship, ok := cat.Ship(token); ok {
			ships = append(ships, ship.Name)
			continue
		}
		if cat.IsRateToken(token) {
			rate, _ := catalog.ParseRate(token)
			ships = append(ships, rate.String())
			continue
		}
		return nil, shared.NewValidationError("requiredShips", fmt.Sprintf("unknown ship or rate %q", token))
	}
	req.RequiredShips = ships

	req.Nation = strings.TrimSpace(req.Nation)
	if req.Nation != "" && !cat.IsNation(req.Nation) {
		return nil, shared.NewValidationError("nation", fmt.Sprintf("unknown nation %q", req.Nation))
	}
	req.Observation = strings.TrimSpace(req.Observation)
	req.Commander = strings.TrimSpace(req.Commander)

	return &ScreeningFleet{
		id:        shared.NewID(),
		battleID:  battleID,
		req:       req,
		createdBy: createdBy,
		createdAt: now,
	}, nil
}

// ReconstructScreeningFleet rebuilds a fleet from persistence
func ReconstructScreeningFleet(id, battleID string, req Requirements, createdBy string, createdAt time.Time) *ScreeningFleet {
	return &ScreeningFleet{
		id:        id,
		battleID:  battleID,
		req:       req,
		createdBy: createdBy,
		createdAt: createdAt,
	}
}

func (f *ScreeningFleet) ID() string                 { return f.id }
func (f *ScreeningFleet) BattleID() string           { return f.battleID }
func (f *ScreeningFleet) Type() FleetType            { return f.req.Type }
func (f *ScreeningFleet) Requirements() Requirements { return f.req }
func (f *ScreeningFleet) CreatedBy() string          { return f.createdBy }
func (f *ScreeningFleet) CreatedAt() time.Time       { return f.createdAt }

// IsOverCapacity reports whether activeSignups exceeds the advisory headcount
func (f *ScreeningFleet) IsOverCapacity(activeSignups int) bool {
	return f.req.ShipsRequired != nil && activeSignups > *f.req.ShipsRequired
}
