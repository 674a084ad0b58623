// Package fleet models fleet compositions: named fleet setups of a battle and
// the ordered, capacity-one role slots inside them.
package fleet

import (
	"strings"
	"time"

	"github.com/andrescamacho/portbattle-go/internal/domain/shared"
)

// FleetSetup is one named fleet plan of a battle ("Main Fleet", "Alternate 1").
// At most one setup per battle is active.
type FleetSetup struct {
	id         string
	battleID   string
	name       string
	isActive   bool
	setupOrder int
	brTotal    int
	createdAt  time.Time
}

// NewFleetSetup creates an inactive setup; its order is assigned on persistence
func NewFleetSetup(battleID, name string, now time.Time) (*FleetSetup, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewValidationError("name", "required")
	}
	if battleID == "" {
		return nil, shared.NewValidationError("battleId", "required")
	}
	return &FleetSetup{
		id:        shared.NewID(),
		battleID:  battleID,
		name:      name,
		createdAt: now,
	}, nil
}

// ReconstructFleetSetup rebuilds a setup from persistence
func ReconstructFleetSetup(id, battleID, name string, isActive bool, setupOrder, brTotal int, createdAt time.Time) *FleetSetup {
	return &FleetSetup{
		id:         id,
		battleID:   battleID,
		name:       name,
		isActive:   isActive,
		setupOrder: setupOrder,
		brTotal:    brTotal,
		createdAt:  createdAt,
	}
}

func (s *FleetSetup) ID() string           { return s.id }
func (s *FleetSetup) BattleID() string     { return s.battleID }
func (s *FleetSetup) Name() string         { return s.name }
func (s *FleetSetup) IsActive() bool       { return s.isActive }
func (s *FleetSetup) SetupOrder() int      { return s.setupOrder }
func (s *FleetSetup) BRTotal() int         { return s.brTotal }
func (s *FleetSetup) CreatedAt() time.Time { return s.createdAt }

// AssignOrder is called by the repository once the next free order is known
func (s *FleetSetup) AssignOrder(order int) {
	s.setupOrder = order
}

// CheckBudget returns a BudgetExceededError if adding delta BR to current breaks limit
func CheckBudget(limit, current, delta int) error {
	if current+delta > limit {
		return shared.NewBudgetExceededError(limit, current, delta)
	}
	return nil
}
