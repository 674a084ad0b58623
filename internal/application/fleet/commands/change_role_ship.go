package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/portbattle-go/internal/adapters/metrics"
	"github.com/andrescamacho/portbattle-go/internal/application/auth"
	"github.com/andrescamacho/portbattle-go/internal/application/battle/dtos"
	"github.com/andrescamacho/portbattle-go/internal/application/mediator"
	"github.com/andrescamacho/portbattle-go/internal/domain/battle"
	"github.com/andrescamacho/portbattle-go/internal/domain/catalog"
	"github.com/andrescamacho/portbattle-go/internal/domain/fleet"
	"github.com/andrescamacho/portbattle-go/internal/domain/shared"
)

// ChangeRoleShipCommand assigns a different ship to an existing role
type ChangeRoleShipCommand struct {
	RoleID   string
	ShipName string
}

// ChangeRoleShipHandler handles the ChangeRoleShip command
type ChangeRoleShipHandler struct {
	guard   battleGuard
	catalog catalog.Catalog
}

// NewChangeRoleShipHandler creates a new ChangeRoleShipHandler
func NewChangeRoleShipHandler(
	battleRepo battle.BattleRepository,
	fleetRepo fleet.FleetRepository,
	cat catalog.Catalog,
	checker auth.CapabilityChecker,
) *ChangeRoleShipHandler {
	return &ChangeRoleShipHandler{
		guard:   battleGuard{battleRepo: battleRepo, fleetRepo: fleetRepo, checker: checker},
		catalog: cat,
	}
}

// Handle executes the ChangeRoleShip command
func (h *ChangeRoleShipHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*ChangeRoleShipCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ChangeRoleShipCommand")
	}

	role, setup, b, _, err := h.guard.editableRole(ctx, cmd.RoleID)
	if err != nil {
		return nil, err
	}

	ship, err := fleet.ResolveShip(h.catalog, cmd.ShipName, b.WaterType())
	if err != nil {
		return nil, err
	}

	delta := ship.BR - role.BRValue()
	if err := fleet.CheckBudget(b.BRLimit(), setup.BRTotal(), delta); err != nil {
		metrics.RecordBudgetRejected()
		return nil, err
	}

	if err := h.guard.fleetRepo.ChangeRoleShip(ctx, role.ID(), ship.Name, ship.BR); err != nil {
		if shared.CodeOf(err) == shared.CodeBudgetExceeded {
			metrics.RecordBudgetRejected()
		}
		return nil, err
	}

	updated := fleet.ReconstructFleetRole(role.ID(), role.SetupID(), role.RoleOrder(), ship.Name, ship.BR)
	total := setup.BRTotal() + delta
	if fresh, err := h.guard.fleetRepo.FindSetup(ctx, setup.ID()); err == nil {
		total = fresh.BRTotal()
	}

	return &RoleResponse{
		Role:    dtos.ToRoleDTO(updated),
		BRTotal: total,
		BRLimit: b.BRLimit(),
	}, nil
}
