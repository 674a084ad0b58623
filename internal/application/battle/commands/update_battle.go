package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/portbattle-go/internal/application/auth"
	"github.com/andrescamacho/portbattle-go/internal/application/battle/dtos"
	"github.com/andrescamacho/portbattle-go/internal/application/mediator"
	"github.com/andrescamacho/portbattle-go/internal/domain/battle"
	"github.com/andrescamacho/portbattle-go/internal/domain/catalog"
	"github.com/andrescamacho/portbattle-go/internal/domain/fleet"
	"github.com/andrescamacho/portbattle-go/internal/domain/shared"
)

// UpdateBattleCommand edits a PLANNED battle
type UpdateBattleCommand struct {
	BattleID string
	BattleInput
}

// UpdateBattleHandler handles the UpdateBattle command
type UpdateBattleHandler struct {
	battleRepo battle.BattleRepository
	fleetRepo  fleet.FleetRepository
	catalog    catalog.Catalog
	checker    auth.CapabilityChecker
	clock      shared.Clock
}

// NewUpdateBattleHandler creates a new UpdateBattleHandler
func NewUpdateBattleHandler(
	battleRepo battle.BattleRepository,
	fleetRepo fleet.FleetRepository,
	cat catalog.Catalog,
	checker auth.CapabilityChecker,
	clock shared.Clock,
) *UpdateBattleHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &UpdateBattleHandler{
		battleRepo: battleRepo,
		fleetRepo:  fleetRepo,
		catalog:    cat,
		checker:    checker,
		clock:      clock,
	}
}

// Handle executes the UpdateBattle command
func (h *UpdateBattleHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*UpdateBattleCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *UpdateBattleCommand")
	}

	b, err := h.battleRepo.FindByID(ctx, cmd.BattleID)
	if err != nil {
		return nil, err
	}
	if _, err := auth.RequireOwnerOrAdmin(ctx, h.checker, b.CreatorID()); err != nil {
		return nil, err
	}

	details, err := cmd.ToDetails()
	if err != nil {
		return nil, err
	}

	// A lower limit must still cover every committed setup
	if details.BRLimit < b.BRLimit() {
		setups, err := h.fleetRepo.ListSetups(ctx, b.ID())
		if err != nil {
			return nil, err
		}
		for _, s := range setups {
			if err := fleet.CheckBudget(details.BRLimit, s.BRTotal(), 0); err != nil {
				return nil, err
			}
		}
	}

	if err := b.UpdateDetails(details, h.clock.Now()); err != nil {
		return nil, err
	}
	// Committed ships must still be able to enter the port
	water := b.WaterType()
	admitShip := func(shipName string) error {
		_, err := fleet.ResolveShip(h.catalog, shipName, water)
		return err
	}
	if err := h.battleRepo.UpdateDetails(ctx, b, admitShip); err != nil {
		return nil, fmt.Errorf("failed to update battle: %w", err)
	}

	return &BattleResponse{Battle: dtos.ToBattleDTO(b)}, nil
}
