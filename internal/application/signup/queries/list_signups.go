package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/portbattle-go/internal/application/auth"
	"github.com/andrescamacho/portbattle-go/internal/application/battle/dtos"
	"github.com/andrescamacho/portbattle-go/internal/application/mediator"
	"github.com/andrescamacho/portbattle-go/internal/domain/battle"
	"github.com/andrescamacho/portbattle-go/internal/domain/fleet"
	"github.com/andrescamacho/portbattle-go/internal/domain/shared"
	"github.com/andrescamacho/portbattle-go/internal/domain/signup"
)

// ListSignupsQuery lists every signup of a battle with its role context.
// Only the battle creator or an admin may list them.
type ListSignupsQuery struct {
	BattleID string
}

// ListSignupsResponse contains the signups, oldest first
type ListSignupsResponse struct {
	Requests []dtos.SignupDTO
}

// ListSignupsHandler handles the ListSignups query
type ListSignupsHandler struct {
	battleRepo battle.BattleRepository
	fleetRepo  fleet.FleetRepository
	signupRepo signup.SignupRepository
	checker    auth.CapabilityChecker
}

// NewListSignupsHandler creates a new ListSignupsHandler
func NewListSignupsHandler(
	battleRepo battle.BattleRepository,
	fleetRepo fleet.FleetRepository,
	signupRepo signup.SignupRepository,
	checker auth.CapabilityChecker,
) *ListSignupsHandler {
	return &ListSignupsHandler{
		battleRepo: battleRepo,
		fleetRepo:  fleetRepo,
		signupRepo: signupRepo,
		checker:    checker,
	}
}

// Handle executes the ListSignups query
func (h *ListSignupsHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*ListSignupsQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ListSignupsQuery")
	}
	if query.BattleID == "" {
		return nil, shared.NewValidationError("portBattleId", "required")
	}

	if _, err := auth.RequireIdentity(ctx); err != nil {
		return nil, err
	}
	b, err := h.battleRepo.FindByID(ctx, query.BattleID)
	if err != nil {
		return nil, err
	}
	if _, err := auth.RequireOwnerOrAdmin(ctx, h.checker, b.CreatorID()); err != nil {
		return nil, err
	}

	roles := make(map[string]*fleet.FleetRole)
	setups, err := h.fleetRepo.ListSetups(ctx, b.ID())
	if err != nil {
		return nil, err
	}
	for _, s := range setups {
		rs, err := h.fleetRepo.ListRoles(ctx, s.ID())
		if err != nil {
			return nil, err
		}
		for _, r := range rs {
			roles[r.ID()] = r
		}
	}

	signups, err := h.signupRepo.ListByBattle(ctx, b.ID())
	if err != nil {
		return nil, err
	}
	out := make([]dtos.SignupDTO, 0, len(signups))
	for _, s := range signups {
		dto := dtos.ToSignupDTO(s)
		if r, ok := roles[s.RoleID()]; ok {
			dto.ShipName = r.ShipName()
			dto.RoleOrder = r.RoleOrder()
		}
		out = append(out, dto)
	}

	return &ListSignupsResponse{Requests: out}, nil
}
