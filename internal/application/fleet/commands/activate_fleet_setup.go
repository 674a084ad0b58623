package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/portbattle-go/internal/application/auth"
	"github.com/andrescamacho/portbattle-go/internal/application/battle/dtos"
	"github.com/andrescamacho/portbattle-go/internal/application/logging"
	"github.com/andrescamacho/portbattle-go/internal/application/mediator"
	"github.com/andrescamacho/portbattle-go/internal/domain/battle"
	"github.com/andrescamacho/portbattle-go/internal/domain/fleet"
)

// ActivateFleetSetupCommand makes a setup the active plan of its battle
type ActivateFleetSetupCommand struct {
	SetupID string
}

// ActivateFleetSetupHandler handles the ActivateFleetSetup command
type ActivateFleetSetupHandler struct {
	guard battleGuard
}

// NewActivateFleetSetupHandler creates a new ActivateFleetSetupHandler
func NewActivateFleetSetupHandler(
	battleRepo battle.BattleRepository,
	fleetRepo fleet.FleetRepository,
	checker auth.CapabilityChecker,
) *ActivateFleetSetupHandler {
	return &ActivateFleetSetupHandler{
		guard: battleGuard{battleRepo: battleRepo, fleetRepo: fleetRepo, checker: checker},
	}
}

// Handle executes the ActivateFleetSetup command
func (h *ActivateFleetSetupHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*ActivateFleetSetupCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ActivateFleetSetupCommand")
	}

	setup, b, caller, err := h.guard.editableSetup(ctx, cmd.SetupID)
	if err != nil {
		return nil, err
	}

	if err := h.guard.fleetRepo.ActivateSetup(ctx, b.ID(), setup.ID()); err != nil {
		return nil, err
	}

	activated, err := h.guard.fleetRepo.FindSetup(ctx, setup.ID())
	if err != nil {
		return nil, err
	}

	logging.LoggerFromContext(ctx).Log("INFO", "fleet setup activated", map[string]interface{}{
		"battle_id": b.ID(),
		"setup_id":  setup.ID(),
		"actor":     caller.UserID,
	})

	return &SetupResponse{Setup: dtos.ToSetupDTO(activated)}, nil
}
