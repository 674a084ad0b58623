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

// AddRoleCommand adds a role slot for ShipName to a setup.
// RoleOrder 0 appends after the current last role.
type AddRoleCommand struct {
	SetupID   string
	RoleOrder int
	ShipName  string
}

// RoleResponse returns a role and the BR total of its setup after the change
type RoleResponse struct {
	Role    dtos.RoleDTO
	BRTotal int
	BRLimit int
}

// AddRoleHandler handles the AddRole command
type AddRoleHandler struct {
	guard   battleGuard
	catalog catalog.Catalog
}

// NewAddRoleHandler creates a new AddRoleHandler
func NewAddRoleHandler(
	battleRepo battle.BattleRepository,
	fleetRepo fleet.FleetRepository,
	cat catalog.Catalog,
	checker auth.CapabilityChecker,
) *AddRoleHandler {
	return &AddRoleHandler{
		guard:   battleGuard{battleRepo: battleRepo, fleetRepo: fleetRepo, checker: checker},
		catalog: cat,
	}
}

// Handle executes the AddRole command
func (h *AddRoleHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*AddRoleCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *AddRoleCommand")
	}

	setup, b, _, err := h.guard.editableSetup(ctx, cmd.SetupID)
	if err != nil {
		return nil, err
	}

	ship, err := fleet.ResolveShip(h.catalog, cmd.ShipName, b.WaterType())
	if err != nil {
		return nil, err
	}

	// Early, friendly rejection; the repository's conditional update is the authority
	if err := fleet.CheckBudget(b.BRLimit(), setup.BRTotal(), ship.BR); err != nil {
		metrics.RecordBudgetRejected()
		return nil, err
	}

	role, err := fleet.NewFleetRole(setup.ID(), cmd.RoleOrder, ship)
	if err != nil {
		return nil, err
	}
	if err := h.guard.fleetRepo.AddRole(ctx, role); err != nil {
		if shared.CodeOf(err) == shared.CodeBudgetExceeded {
			metrics.RecordBudgetRejected()
		}
		return nil, err
	}

	total := setup.BRTotal() + role.BRValue()
	if fresh, err := h.guard.fleetRepo.FindSetup(ctx, setup.ID()); err == nil {
		total = fresh.BRTotal()
	}

	return &RoleResponse{
		Role:    dtos.ToRoleDTO(role),
		BRTotal: total,
		BRLimit: b.BRLimit(),
	}, nil
}
