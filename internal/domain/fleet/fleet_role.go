package fleet

import (
	"fmt"

	"github.com/andrescamacho/portbattle-go/internal/domain/catalog"
	"github.com/andrescamacho/portbattle-go/internal/domain/shared"
)

// FleetRole is one capacity-one slot of a setup.
//
// BRValue is copied from the catalog when the ship is assigned, so later catalog
// edits never change a committed plan.
type FleetRole struct {
	id        string
	setupID   string
	roleOrder int
	shipName  string
	brValue   int
}

// NewFleetRole creates a role for ship. roleOrder 0 means "append after the last role".
func NewFleetRole(setupID string, roleOrder int, ship catalog.Ship) (*FleetRole, error) {
	if setupID == "" {
		return nil, shared.NewValidationError("setupId", "required")
	}
	if roleOrder < 0 {
		return nil, shared.NewValidationError("roleOrder", "must not be negative")
	}
	if ship.Name == "" {
		return nil, shared.NewValidationError("shipName", "required")
	}
	return &FleetRole{
		id:        shared.NewID(),
		setupID:   setupID,
		roleOrder: roleOrder,
		shipName:  ship.Name,
		brValue:   ship.BR,
	}, nil
}

// ReconstructFleetRole rebuilds a role from persistence
func ReconstructFleetRole(id, setupID string, roleOrder int, shipName string, brValue int) *FleetRole {
	return &FleetRole{
		id:        id,
		setupID:   setupID,
		roleOrder: roleOrder,
		shipName:  shipName,
		brValue:   brValue,
	}
}

func (r *FleetRole) ID() string       { return r.id }
func (r *FleetRole) SetupID() string  { return r.setupID }
func (r *FleetRole) RoleOrder() int   { return r.roleOrder }
func (r *FleetRole) ShipName() string { return r.shipName }
func (r *FleetRole) BRValue() int     { return r.brValue }

// AssignOrder is called by the repository when the role was appended
func (r *FleetRole) AssignOrder(order int) {
	r.roleOrder = order
}

// ResolveShip looks a ship up and checks it may sail in the battle's waters
func ResolveShip(cat catalog.Catalog, shipName string, water catalog.WaterType) (catalog.Ship, error) {
	ship, ok := cat.Ship(shipName)
	if !ok {
		return catalog.Ship{}, shared.NewValidationError("shipName", fmt.Sprintf("unknown ship %q", shipName))
	}
	if !cat.AllowedInWater(ship, water) {
		return catalog.Ship{}, &shared.DomainError{
			Kind:    shared.KindValidation,
			Code:    "SHIP_NOT_ALLOWED_IN_WATER",
			Message: fmt.Sprintf("%s (%s) cannot enter %s ports", ship.Name, ship.Rate, water),
			Fields:  []string{"shipName"},
		}
	}
	return ship, nil
}
