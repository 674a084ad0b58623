package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/portbattle-go/internal/adapters/metrics"
	"github.com/andrescamacho/portbattle-go/internal/application/auth"
	"github.com/andrescamacho/portbattle-go/internal/application/battle/dtos"
	"github.com/andrescamacho/portbattle-go/internal/application/logging"
	"github.com/andrescamacho/portbattle-go/internal/application/mediator"
	"github.com/andrescamacho/portbattle-go/internal/domain/battle"
	"github.com/andrescamacho/portbattle-go/internal/domain/catalog"
	"github.com/andrescamacho/portbattle-go/internal/domain/shared"
)

// BattleInput carries the editable fields of a port battle
type BattleInput struct {
	PortName               string
	MeetupTime             time.Time
	BattleStartTime        time.Time
	WaterType              string
	MeetupLocation         string
	BRLimit                int
	Nation                 string
	BattleCommander        string
	ScreeningCommander     string
	ReinforcementCommander string
}

// ToDetails parses the input into domain details
func (in BattleInput) ToDetails() (battle.Details, error) {
	water, err := catalog.ParseWaterType(in.WaterType)
	if err != nil {
		return battle.Details{}, shared.NewValidationError("waterType", err.Error())
	}
	return battle.Details{
		PortName:        in.PortName,
		MeetupTime:      in.MeetupTime,
		BattleStartTime: in.BattleStartTime,
		WaterType:       water,
		MeetupLocation:  in.MeetupLocation,
		BRLimit:         in.BRLimit,
		Nation:          in.Nation,
		Commanders: battle.Commanders{
			Battle:        in.BattleCommander,
			Screening:     in.ScreeningCommander,
			Reinforcement: in.ReinforcementCommander,
		},
	}, nil
}

// CreateBattleCommand creates a PLANNED port battle owned by the caller
type CreateBattleCommand struct {
	BattleInput
}

// BattleResponse returns the created or changed battle
type BattleResponse struct {
	Battle dtos.BattleDTO
}

// CreateBattleHandler handles the CreateBattle command
type CreateBattleHandler struct {
	battleRepo battle.BattleRepository
	checker    auth.CapabilityChecker
	clock      shared.Clock
}

// NewCreateBattleHandler creates a new CreateBattleHandler
func NewCreateBattleHandler(
	battleRepo battle.BattleRepository,
	checker auth.CapabilityChecker,
	clock shared.Clock,
) *CreateBattleHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &CreateBattleHandler{
		battleRepo: battleRepo,
		checker:    checker,
		clock:      clock,
	}
}

// Handle executes the CreateBattle command
func (h *CreateBattleHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*CreateBattleCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *CreateBattleCommand")
	}

	caller, err := auth.Require(ctx, h.checker, auth.CapabilityCreateBattle)
	if err != nil {
		return nil, err
	}

	details, err := cmd.ToDetails()
	if err != nil {
		return nil, err
	}

	b, err := battle.NewPortBattle(details, caller.UserID, h.clock.Now())
	if err != nil {
		return nil, err
	}

	if err := h.battleRepo.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to persist battle: %w", err)
	}

	metrics.RecordBattleCreated(string(b.WaterType()))
	logging.LoggerFromContext(ctx).Log("INFO", "port battle created", map[string]interface{}{
		"battle_id": b.ID(),
		"port":      b.PortName(),
		"creator":   caller.UserID,
	})

	return &BattleResponse{Battle: dtos.ToBattleDTO(b)}, nil
}
