package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/portbattle-go/internal/application/auth"
	"github.com/andrescamacho/portbattle-go/internal/application/battle/dtos"
	"github.com/andrescamacho/portbattle-go/internal/application/mediator"
	"github.com/andrescamacho/portbattle-go/internal/domain/battle"
	"github.com/andrescamacho/portbattle-go/internal/domain/fleet"
	"github.com/andrescamacho/portbattle-go/internal/domain/screening"
	"github.com/andrescamacho/portbattle-go/internal/domain/shared"
	"github.com/andrescamacho/portbattle-go/internal/domain/signup"
)

// GetBattleQuery loads the full aggregate of one battle
type GetBattleQuery struct {
	BattleID string
}

// GetBattleHandler handles the GetBattle query
type GetBattleHandler struct {
	battleRepo    battle.BattleRepository
	fleetRepo     fleet.FleetRepository
	signupRepo    signup.SignupRepository
	screeningRepo screening.ScreeningRepository
	checker       auth.CapabilityChecker
}

// NewGetBattleHandler creates a new GetBattleHandler
func NewGetBattleHandler(
	battleRepo battle.BattleRepository,
	fleetRepo fleet.FleetRepository,
	signupRepo signup.SignupRepository,
	screeningRepo screening.ScreeningRepository,
	checker auth.CapabilityChecker,
) *GetBattleHandler {
	return &GetBattleHandler{
		battleRepo:    battleRepo,
		fleetRepo:     fleetRepo,
		signupRepo:    signupRepo,
		screeningRepo: screeningRepo,
		checker:       checker,
	}
}

// Handle executes the GetBattle query
func (h *GetBattleHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*GetBattleQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetBattleQuery")
	}
	if _, err := shared.ParseID("battleId", query.BattleID); err != nil {
		return nil, err
	}

	agg, err := h.load(ctx, query.BattleID)
	if err != nil {
		if !shared.IsKind(err, shared.KindUnavailable) {
			return nil, err
		}
		logFallback(ctx, "GetBattle", err)
		mock, found := fallbackAggregate(query.BattleID)
		if !found {
			return nil, shared.NewNotFoundError("port battle", query.BattleID)
		}
		return &mock, nil
	}

	if !h.canSeeContacts(ctx, agg.Battle.CreatorID) {
		redactContacts(agg)
	}
	return agg, nil
}

func (h *GetBattleHandler) load(ctx context.Context, battleID string) (*dtos.BattleAggregateDTO, error) {
	b, err := h.battleRepo.FindByID(ctx, battleID)
	if err != nil {
		return nil, err
	}

	signups, err := h.signupRepo.ListByBattle(ctx, battleID)
	if err != nil {
		return nil, err
	}
	byRole := make(map[string][]dtos.SignupDTO)
	for _, s := range signups {
		byRole[s.RoleID()] = append(byRole[s.RoleID()], dtos.ToSignupDTO(s))
	}

	setups, err := h.fleetRepo.ListSetups(ctx, battleID)
	if err != nil {
		return nil, err
	}
	setupDTOs := make([]dtos.SetupDTO, 0, len(setups))
	for _, s := range setups {
		roles, err := h.fleetRepo.ListRoles(ctx, s.ID())
		if err != nil {
			return nil, err
		}
		setupDTO := dtos.ToSetupDTO(s)
		for _, r := range roles {
			roleDTO := dtos.ToRoleDTO(r)
			if rs, ok := byRole[r.ID()]; ok {
				roleDTO.Signups = rs
			}
			setupDTO.Roles = append(setupDTO.Roles, roleDTO)
		}
		setupDTOs = append(setupDTOs, setupDTO)
	}

	fleets, err := h.screeningRepo.ListFleets(ctx, battleID)
	if err != nil {
		return nil, err
	}
	fleetDTOs := make([]dtos.ScreeningFleetDTO, 0, len(fleets))
	for _, f := range fleets {
		fleetSignups, err := h.screeningRepo.ListSignups(ctx, f.ID())
		if err != nil {
			return nil, err
		}
		fleetDTO := dtos.ToScreeningFleetDTO(f)
		for _, s := range fleetSignups {
			fleetDTO.Signups = append(fleetDTO.Signups, dtos.ToScreeningSignupDTO(s))
		}
		fleetDTO.OverCapacity = f.IsOverCapacity(dtos.CountActive(fleetDTO.Signups))
		fleetDTOs = append(fleetDTOs, fleetDTO)
	}

	return &dtos.BattleAggregateDTO{
		Battle:          dtos.ToBattleDTO(b),
		Setups:          setupDTOs,
		ScreeningFleets: fleetDTOs,
	}, nil
}

func (h *GetBattleHandler) canSeeContacts(ctx context.Context, creatorID string) bool {
	id, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return false
	}
	return id.UserID == creatorID || h.checker.HasCapability(ctx, id, auth.CapabilityAdmin)
}

// redactContacts hides external captains' contact details from the public view
func redactContacts(agg *dtos.BattleAggregateDTO) {
	for i := range agg.Setups {
		for j := range agg.Setups[i].Roles {
			for k := range agg.Setups[i].Roles[j].Signups {
				agg.Setups[i].Roles[j].Signups[k].ContactInfo = ""
			}
		}
	}
}
