package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/portbattle-go/internal/application/auth"
	"github.com/andrescamacho/portbattle-go/internal/application/battle/dtos"
	"github.com/andrescamacho/portbattle-go/internal/application/mediator"
	"github.com/andrescamacho/portbattle-go/internal/domain/battle"
	"github.com/andrescamacho/portbattle-go/internal/domain/catalog"
	"github.com/andrescamacho/portbattle-go/internal/domain/screening"
	"github.com/andrescamacho/portbattle-go/internal/domain/shared"
)

// CreateScreeningFleetCommand attaches a screening fleet to a battle
type CreateScreeningFleetCommand struct {
	BattleID      string
	Type          string
	Observation   string
	RequiredShips []string
	Nation        string
	Commander     string
	ShipsRequired *int
}

// ScreeningFleetResponse returns a screening fleet
type ScreeningFleetResponse struct {
	Fleet dtos.ScreeningFleetDTO
}

// CreateScreeningFleetHandler handles the CreateScreeningFleet command
type CreateScreeningFleetHandler struct {
	battleRepo    battle.BattleRepository
	screeningRepo screening.ScreeningRepository
	catalog       catalog.Catalog
	checker       auth.CapabilityChecker
	clock         shared.Clock
}

// NewCreateScreeningFleetHandler creates a new CreateScreeningFleetHandler
func NewCreateScreeningFleetHandler(
	battleRepo battle.BattleRepository,
	screeningRepo screening.ScreeningRepository,
	cat catalog.Catalog,
	checker auth.CapabilityChecker,
	clock shared.Clock,
) *CreateScreeningFleetHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &CreateScreeningFleetHandler{
		battleRepo:    battleRepo,
		screeningRepo: screeningRepo,
		catalog:       cat,
		checker:       checker,
		clock:         clock,
	}
}

// Handle executes the CreateScreeningFleet command
func (h *CreateScreeningFleetHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*CreateScreeningFleetCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *CreateScreeningFleetCommand")
	}

	admin, err := auth.Require(ctx, h.checker, auth.CapabilityAdmin)
	if err != nil {
		return nil, err
	}

	fleetType, err := screening.ParseFleetType(cmd.Type)
	if err != nil {
		return nil, err
	}

	b, err := h.battleRepo.FindByID(ctx, cmd.BattleID)
	if err != nil {
		return nil, err
	}
	if b.Status().IsRetired() {
		return nil, shared.NewConflictError(shared.CodeInvalidTransition,
			fmt.Sprintf("battle %s is %s; screening fleets can no longer be added", b.ID(), b.Status()))
	}

	f, err := screening.NewScreeningFleet(h.catalog, b.ID(), screening.Requirements{
		Type:          fleetType,
		Observation:   cmd.Observation,
		RequiredShips: cmd.RequiredShips,
		Nation:        cmd.Nation,
		Commander:     cmd.Commander,
		ShipsRequired: cmd.ShipsRequired,
	}, admin.UserID, h.clock.Now())
	if err != nil {
		return nil, err
	}

	if err := h.screeningRepo.CreateFleet(ctx, f); err != nil {
		return nil, err
	}

	return &ScreeningFleetResponse{Fleet: dtos.ToScreeningFleetDTO(f)}, nil
}
