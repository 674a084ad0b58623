package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/portbattle-go/internal/application/auth"
	"github.com/andrescamacho/portbattle-go/internal/domain/battle"
	"github.com/andrescamacho/portbattle-go/internal/domain/fleet"
	"github.com/andrescamacho/portbattle-go/internal/domain/shared"
)

// battleGuard loads the parent battle of a fleet change and checks the caller
// may edit it
type battleGuard struct {
	battleRepo battle.BattleRepository
	fleetRepo  fleet.FleetRepository
	checker    auth.CapabilityChecker
}

func (g battleGuard) editableBattle(ctx context.Context, battleID string) (*battle.PortBattle, auth.Identity, error) {
	b, err := g.battleRepo.FindByID(ctx, battleID)
	if err != nil {
		return nil, auth.Identity{}, err
	}
	caller, err := auth.RequireOwnerOrAdmin(ctx, g.checker, b.CreatorID())
	if err != nil {
		return nil, auth.Identity{}, err
	}
	if b.Status().IsRetired() {
		return nil, auth.Identity{}, shared.NewConflictError(shared.CodeInvalidTransition,
			fmt.Sprintf("battle %s is %s; its fleets can no longer change", b.ID(), b.Status()))
	}
	return b, caller, nil
}

func (g battleGuard) editableSetup(ctx context.Context, setupID string) (*fleet.FleetSetup, *battle.PortBattle, auth.Identity, error) {
	setup, err := g.fleetRepo.FindSetup(ctx, setupID)
	if err != nil {
		return nil, nil, auth.Identity{}, err
	}
	b, caller, err := g.editableBattle(ctx, setup.BattleID())
	if err != nil {
		return nil, nil, auth.Identity{}, err
	}
	return setup, b, caller, nil
}

func (g battleGuard) editableRole(ctx context.Context, roleID string) (*fleet.FleetRole, *fleet.FleetSetup, *battle.PortBattle, auth.Identity, error) {
	role, err := g.fleetRepo.FindRole(ctx, roleID)
	if err != nil {
		return nil, nil, nil, auth.Identity{}, err
	}
	setup, b, caller, err := g.editableSetup(ctx, role.SetupID())
	if err != nil {
		return nil, nil, nil, auth.Identity{}, err
	}
	return role, setup, b, caller, nil
}
