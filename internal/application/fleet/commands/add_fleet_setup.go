package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/portbattle-go/internal/application/auth"
	"github.com/andrescamacho/portbattle-go/internal/application/battle/dtos"
	"github.com/andrescamacho/portbattle-go/internal/application/mediator"
	"github.com/andrescamacho/portbattle-go/internal/domain/battle"
	"github.com/andrescamacho/portbattle-go/internal/domain/fleet"
	"github.com/andrescamacho/portbattle-go/internal/domain/shared"
)

// AddFleetSetupCommand appends a new, inactive setup to a battle
type AddFleetSetupCommand struct {
	BattleID string
	Name     string
}

// SetupResponse returns a setup
type SetupResponse struct {
	Setup dtos.SetupDTO
}

// AddFleetSetupHandler handles the AddFleetSetup command
type AddFleetSetupHandler struct {
	guard battleGuard
	clock shared.Clock
}

// NewAddFleetSetupHandler creates a new AddFleetSetupHandler
func NewAddFleetSetupHandler(
	battleRepo battle.BattleRepository,
	fleetRepo fleet.FleetRepository,
	checker auth.CapabilityChecker,
	clock shared.Clock,
) *AddFleetSetupHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &AddFleetSetupHandler{
		guard: battleGuard{battleRepo: battleRepo, fleetRepo: fleetRepo, checker: checker},
		clock: clock,
	}
}

// Handle executes the AddFleetSetup command
func (h *AddFleetSetupHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*AddFleetSetupCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *AddFleetSetupCommand")
	}

	b, _, err := h.guard.editableBattle(ctx, cmd.BattleID)
	if err != nil {
		return nil, err
	}

	setup, err := fleet.NewFleetSetup(b.ID(), cmd.Name, h.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := h.guard.fleetRepo.AppendSetup(ctx, setup); err != nil {
		return nil, err
	}

	return &SetupResponse{Setup: dtos.ToSetupDTO(setup)}, nil
}
