package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/portbattle-go/internal/application/auth"
	"github.com/andrescamacho/portbattle-go/internal/application/battle/dtos"
	"github.com/andrescamacho/portbattle-go/internal/application/logging"
	"github.com/andrescamacho/portbattle-go/internal/application/mediator"
	"github.com/andrescamacho/portbattle-go/internal/domain/battle"
	"github.com/andrescamacho/portbattle-go/internal/domain/shared"
)

// TransitionStatusCommand moves a battle along its lifecycle
type TransitionStatusCommand struct {
	BattleID  string
	NewStatus string
}

// TransitionStatusHandler handles the TransitionStatus command
type TransitionStatusHandler struct {
	battleRepo battle.BattleRepository
	checker    auth.CapabilityChecker
	clock      shared.Clock
}

// NewTransitionStatusHandler creates a new TransitionStatusHandler
func NewTransitionStatusHandler(
	battleRepo battle.BattleRepository,
	checker auth.CapabilityChecker,
	clock shared.Clock,
) *TransitionStatusHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &TransitionStatusHandler{
		battleRepo: battleRepo,
		checker:    checker,
		clock:      clock,
	}
}

// Handle executes the TransitionStatus command
func (h *TransitionStatusHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*TransitionStatusCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *TransitionStatusCommand")
	}

	next, err := battle.ParseStatus(cmd.NewStatus)
	if err != nil {
		return nil, shared.NewValidationError("status", err.Error())
	}

	b, err := h.battleRepo.FindByID(ctx, cmd.BattleID)
	if err != nil {
		return nil, err
	}

	caller, err := auth.RequireOwnerOrAdmin(ctx, h.checker, b.CreatorID())
	if err != nil {
		return nil, err
	}

	from := b.Status()
	now := h.clock.Now()
	if err := b.TransitionTo(next, now); err != nil {
		return nil, err
	}

	// Compare-and-swap on the stored status; a concurrent transition loses here
	if err := h.battleRepo.UpdateStatus(ctx, b.ID(), from, next, now); err != nil {
		return nil, err
	}

	logging.LoggerFromContext(ctx).Log("INFO", "port battle status changed", map[string]interface{}{
		"battle_id": b.ID(),
		"from":      from,
		"to":        next,
		"actor":     caller.UserID,
	})

	return &BattleResponse{Battle: dtos.ToBattleDTO(b)}, nil
}
