package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/portbattle-go/internal/adapters/metrics"
	"github.com/andrescamacho/portbattle-go/internal/application/auth"
	"github.com/andrescamacho/portbattle-go/internal/application/battle/dtos"
	"github.com/andrescamacho/portbattle-go/internal/application/mediator"
	"github.com/andrescamacho/portbattle-go/internal/domain/battle"
	"github.com/andrescamacho/portbattle-go/internal/domain/screening"
	"github.com/andrescamacho/portbattle-go/internal/domain/shared"
)

// ScreeningSignUpCommand signs the caller up for a screening fleet
type ScreeningSignUpCommand struct {
	FleetID     string
	CaptainName string
	ClanName    string
	ShipName    string
}

// ScreeningSignUpResponse returns the signup. OverCapacity is advisory: the
// signup was accepted either way.
type ScreeningSignUpResponse struct {
	Signup       dtos.ScreeningSignupDTO
	OverCapacity bool
}

// ScreeningSignUpHandler handles the ScreeningSignUp command
type ScreeningSignUpHandler struct {
	battleRepo    battle.BattleRepository
	screeningRepo screening.ScreeningRepository
	clock         shared.Clock
}

// NewScreeningSignUpHandler creates a new ScreeningSignUpHandler
func NewScreeningSignUpHandler(
	battleRepo battle.BattleRepository,
	screeningRepo screening.ScreeningRepository,
	clock shared.Clock,
) *ScreeningSignUpHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &ScreeningSignUpHandler{
		battleRepo:    battleRepo,
		screeningRepo: screeningRepo,
		clock:         clock,
	}
}

// Handle executes the ScreeningSignUp command
func (h *ScreeningSignUpHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*ScreeningSignUpCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ScreeningSignUpCommand")
	}

	caller, err := auth.RequireIdentity(ctx)
	if err != nil {
		return nil, err
	}

	f, err := h.screeningRepo.FindFleet(ctx, cmd.FleetID)
	if err != nil {
		return nil, err
	}
	b, err := h.battleRepo.FindByID(ctx, f.BattleID())
	if err != nil {
		return nil, err
	}
	if b.Status().IsRetired() {
		return nil, shared.NewConflictError(shared.CodeInvalidTransition,
			fmt.Sprintf("battle %s is %s; signups are closed", b.ID(), b.Status()))
	}

	s, err := screening.NewScreeningSignup(f.ID(), caller.UserID, cmd.CaptainName, cmd.ClanName, cmd.ShipName, h.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := h.screeningRepo.CreateSignup(ctx, s); err != nil {
		return nil, err
	}
	metrics.RecordSignupSubmitted(false)

	active, err := h.screeningRepo.CountActiveSignups(ctx, f.ID())
	if err != nil {
		return nil, err
	}

	return &ScreeningSignUpResponse{
		Signup:       dtos.ToScreeningSignupDTO(s),
		OverCapacity: f.IsOverCapacity(active),
	}, nil
}
