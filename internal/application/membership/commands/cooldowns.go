package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/andrescamacho/portbattle-go/internal/application/auth"
	"github.com/andrescamacho/portbattle-go/internal/application/logging"
	"github.com/andrescamacho/portbattle-go/internal/application/mediator"
	"github.com/andrescamacho/portbattle-go/internal/application/membership/dtos"
	"github.com/andrescamacho/portbattle-go/internal/domain/membership"
	"github.com/andrescamacho/portbattle-go/internal/domain/shared"
)

// ApplyCooldownCommand blocks an identity from applying for Days days
type ApplyCooldownCommand struct {
	IdentityKey string
	Days        int
	Reason      string
}

// OverrideCooldownCommand lifts an identity's cooldown immediately
type OverrideCooldownCommand struct {
	IdentityKey string
}

// CooldownResponse returns the resulting cooldown state
type CooldownResponse struct {
	Cooldown dtos.CooldownDTO
}

// ApplyCooldownHandler handles the ApplyCooldown command
type ApplyCooldownHandler struct {
	cooldownRepo membership.CooldownRepository
	checker      auth.CapabilityChecker
	clock        shared.Clock
}

// NewApplyCooldownHandler creates a new ApplyCooldownHandler
func NewApplyCooldownHandler(cooldownRepo membership.CooldownRepository, checker auth.CapabilityChecker, clock shared.Clock) *ApplyCooldownHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &ApplyCooldownHandler{cooldownRepo: cooldownRepo, checker: checker, clock: clock}
}

// Handle executes the ApplyCooldown command
func (h *ApplyCooldownHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*ApplyCooldownCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ApplyCooldownCommand")
	}
	if _, err := auth.Require(ctx, h.checker, auth.CapabilityAdmin); err != nil {
		return nil, err
	}

	now := h.clock.Now()
	c, err := membership.NewApplicationCooldown(cmd.IdentityKey, cmd.Days, cmd.Reason, now)
	if err != nil {
		return nil, err
	}
	if err := h.cooldownRepo.Upsert(ctx, c); err != nil {
		return nil, err
	}
	return &CooldownResponse{Cooldown: dtos.ToCooldownDTO(c.IdentityKey(), c, now)}, nil
}

// OverrideCooldownHandler handles the OverrideCooldown command
type OverrideCooldownHandler struct {
	cooldownRepo membership.CooldownRepository
	checker      auth.CapabilityChecker
	clock        shared.Clock
}

// NewOverrideCooldownHandler creates a new OverrideCooldownHandler
func NewOverrideCooldownHandler(cooldownRepo membership.CooldownRepository, checker auth.CapabilityChecker, clock shared.Clock) *OverrideCooldownHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &OverrideCooldownHandler{cooldownRepo: cooldownRepo, checker: checker, clock: clock}
}

// Handle executes the OverrideCooldown command
func (h *OverrideCooldownHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*OverrideCooldownCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *OverrideCooldownCommand")
	}
	admin, err := auth.Require(ctx, h.checker, auth.CapabilityAdmin)
	if err != nil {
		return nil, err
	}

	key := strings.TrimSpace(cmd.IdentityKey)
	if key == "" {
		return nil, shared.NewValidationError("identityKey", "required")
	}
	c, err := h.cooldownRepo.Find(ctx, key)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, shared.NewNotFoundError("cooldown", key)
	}

	now := h.clock.Now()
	c.Override(admin.UserID, now)
	if err := h.cooldownRepo.Upsert(ctx, c); err != nil {
		return nil, err
	}

	logging.LoggerFromContext(ctx).Log("INFO", "cooldown overridden", map[string]interface{}{
		"identity": key,
		"actor":    admin.UserID,
	})
	return &CooldownResponse{Cooldown: dtos.ToCooldownDTO(key, c, now)}, nil
}
