package queries

import (
	"context"
	"fmt"
	"strings"

	"github.com/andrescamacho/portbattle-go/internal/application/mediator"
	"github.com/andrescamacho/portbattle-go/internal/application/membership/dtos"
	"github.com/andrescamacho/portbattle-go/internal/domain/membership"
	"github.com/andrescamacho/portbattle-go/internal/domain/shared"
)

// CheckEligibilityQuery asks whether an identity may submit an application
type CheckEligibilityQuery struct {
	IdentityKey string
}

// CheckEligibilityResponse wraps the cooldown view
type CheckEligibilityResponse struct {
	Cooldown dtos.CooldownDTO
}

// CheckEligibilityHandler handles the CheckEligibility query
type CheckEligibilityHandler struct {
	cooldownRepo membership.CooldownRepository
	clock        shared.Clock
}

// NewCheckEligibilityHandler creates a new CheckEligibilityHandler
func NewCheckEligibilityHandler(cooldownRepo membership.CooldownRepository, clock shared.Clock) *CheckEligibilityHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &CheckEligibilityHandler{cooldownRepo: cooldownRepo, clock: clock}
}

// Handle executes the CheckEligibility query
func (h *CheckEligibilityHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*CheckEligibilityQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *CheckEligibilityQuery")
	}
	key := strings.TrimSpace(query.IdentityKey)
	if key == "" {
		return nil, shared.NewValidationError("identityKey", "required")
	}

	c, err := h.cooldownRepo.Find(ctx, key)
	if err != nil {
		return nil, err
	}
	return &CheckEligibilityResponse{Cooldown: dtos.ToCooldownDTO(key, c, h.clock.Now())}, nil
}
