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
	"github.com/andrescamacho/portbattle-go/internal/domain/captainscode"
	"github.com/andrescamacho/portbattle-go/internal/domain/fleet"
	"github.com/andrescamacho/portbattle-go/internal/domain/shared"
	"github.com/andrescamacho/portbattle-go/internal/domain/signup"
)

// SubmitSignupCommand claims a role for a captain.
//
// Member signups need an authenticated caller. External signups need contact
// info and a valid captains code, unless an admin sets AdminOverride.
type SubmitSignupCommand struct {
	RoleID          string
	CaptainName     string
	ClanName        string
	WillingToScreen bool
	Comments        string
	ContactInfo     string
	IsExternal      bool
	CaptainsCode    string
	AdminOverride   bool
}

// SubmitSignupResponse returns the PENDING signup
type SubmitSignupResponse struct {
	Signup dtos.SignupDTO
}

// SubmitSignupHandler handles the SubmitSignup command
type SubmitSignupHandler struct {
	battleRepo battle.BattleRepository
	fleetRepo  fleet.FleetRepository
	signupRepo signup.SignupRepository
	codeRepo   captainscode.CaptainsCodeRepository
	checker    auth.CapabilityChecker
	clock      shared.Clock
}

// NewSubmitSignupHandler creates a new SubmitSignupHandler
func NewSubmitSignupHandler(
	battleRepo battle.BattleRepository,
	fleetRepo fleet.FleetRepository,
	signupRepo signup.SignupRepository,
	codeRepo captainscode.CaptainsCodeRepository,
	checker auth.CapabilityChecker,
	clock shared.Clock,
) *SubmitSignupHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &SubmitSignupHandler{
		battleRepo: battleRepo,
		fleetRepo:  fleetRepo,
		signupRepo: signupRepo,
		codeRepo:   codeRepo,
		checker:    checker,
		clock:      clock,
	}
}

// Handle executes the SubmitSignup command
func (h *SubmitSignupHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*SubmitSignupCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *SubmitSignupCommand")
	}
	now := h.clock.Now()

	// Resolve role -> setup -> battle
	role, err := h.fleetRepo.FindRole(ctx, cmd.RoleID)
	if err != nil {
		return nil, err
	}
	setup, err := h.fleetRepo.FindSetup(ctx, role.SetupID())
	if err != nil {
		return nil, err
	}
	b, err := h.battleRepo.FindByID(ctx, setup.BattleID())
	if err != nil {
		return nil, err
	}
	if b.Status().IsRetired() {
		return nil, shared.NewConflictError(shared.CodeInvalidTransition,
			fmt.Sprintf("battle %s is %s and no longer accepts signups", b.ID(), b.Status()))
	}

	// External captains are not tied to the account that entered them
	caller, _ := auth.IdentityFromContext(ctx)
	ownerID := caller.UserID
	if cmd.IsExternal {
		ownerID = ""
	}
	s, err := signup.NewSignup(b.ID(), role.ID(), ownerID, signup.CaptainInfo{
		CaptainName:     cmd.CaptainName,
		ClanName:        cmd.ClanName,
		WillingToScreen: cmd.WillingToScreen,
		Comments:        cmd.Comments,
		ContactInfo:     cmd.ContactInfo,
		IsExternal:      cmd.IsExternal,
		CaptainsCode:    cmd.CaptainsCode,
	}, now)
	if err != nil {
		return nil, err
	}

	if s.IsExternal() {
		if err := h.authorizeExternal(ctx, cmd, s, caller, now); err != nil {
			return nil, err
		}
	}

	// Friendly pre-checks; the unique indexes decide races
	if s.UserID() != "" {
		existing, err := h.signupRepo.FindActiveByCaptain(ctx, b.ID(), s.UserID())
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, shared.NewDuplicateCaptainError(b.ID())
		}
	}
	active, err := h.signupRepo.ListActiveByRole(ctx, role.ID())
	if err != nil {
		return nil, err
	}
	if len(active) > 0 {
		return nil, shared.NewRoleAlreadyClaimedError(role.ID())
	}

	if err := h.signupRepo.Submit(ctx, s); err != nil {
		return nil, err
	}

	metrics.RecordSignupSubmitted(s.IsExternal())
	if s.RedeemsCode() {
		metrics.RecordCodeRedeemed()
	}
	logging.LoggerFromContext(ctx).Log("INFO", "signup submitted", map[string]interface{}{
		"battle_id": b.ID(),
		"role_id":   role.ID(),
		"signup_id": s.ID(),
		"external":  s.IsExternal(),
	})

	dto := dtos.ToSignupDTO(s)
	dto.ShipName = role.ShipName()
	dto.RoleOrder = role.RoleOrder()
	return &SubmitSignupResponse{Signup: dto}, nil
}

// authorizeExternal checks the captains code, or the admin override that replaces it
func (h *SubmitSignupHandler) authorizeExternal(
	ctx context.Context,
	cmd *SubmitSignupCommand,
	s *signup.Signup,
	caller auth.Identity,
	now time.Time,
) error {
	if cmd.AdminOverride {
		if !h.checker.HasCapability(ctx, caller, auth.CapabilityAdmin) {
			return shared.NewForbiddenError("only admins may sign up external captains without a code")
		}
		s.GrantOverride(caller.UserID)
		return nil
	}

	if s.CaptainsCode() == "" {
		return shared.NewValidationError("captainsCode", "required for external signups")
	}

	code, err := h.codeRepo.FindByCode(ctx, s.CaptainsCode())
	if err != nil && !shared.IsKind(err, shared.KindNotFound) {
		return err
	}
	return captainscode.Evaluate(code, now, s.BattleID()).Err(s.CaptainsCode())
}
