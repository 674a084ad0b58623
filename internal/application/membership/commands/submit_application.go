package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/andrescamacho/portbattle-go/internal/application/auth"
	"github.com/andrescamacho/portbattle-go/internal/application/mediator"
	"github.com/andrescamacho/portbattle-go/internal/application/membership/dtos"
	"github.com/andrescamacho/portbattle-go/internal/domain/membership"
	"github.com/andrescamacho/portbattle-go/internal/domain/shared"
)

// SubmitApplicationCommand files a membership application. IdentityKey is only
// honored for admins filing on behalf of someone; everyone else applies as
// themselves.
type SubmitApplicationCommand struct {
	IdentityKey   string
	ApplicantName string
	Answers       map[string]string
}

// SubmitApplicationHandler handles the SubmitApplication command
type SubmitApplicationHandler struct {
	applicationRepo membership.ApplicationRepository
	cooldownRepo    membership.CooldownRepository
	checker         auth.CapabilityChecker
	clock           shared.Clock
}

// NewSubmitApplicationHandler creates a new SubmitApplicationHandler
func NewSubmitApplicationHandler(
	applicationRepo membership.ApplicationRepository,
	cooldownRepo membership.CooldownRepository,
	checker auth.CapabilityChecker,
	clock shared.Clock,
) *SubmitApplicationHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &SubmitApplicationHandler{
		applicationRepo: applicationRepo,
		cooldownRepo:    cooldownRepo,
		checker:         checker,
		clock:           clock,
	}
}

// Handle executes the SubmitApplication command
func (h *SubmitApplicationHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*SubmitApplicationCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *SubmitApplicationCommand")
	}

	caller, err := auth.RequireIdentity(ctx)
	if err != nil {
		return nil, err
	}
	key := caller.Key()
	if onBehalf := strings.TrimSpace(cmd.IdentityKey); onBehalf != "" && onBehalf != key {
		if !auth.IsAdmin(ctx, h.checker) {
			return nil, shared.NewForbiddenError("only admins may apply on behalf of another identity")
		}
		key = onBehalf
	}

	now := h.clock.Now()
	c, err := h.cooldownRepo.Find(ctx, key)
	if err != nil {
		return nil, err
	}
	if err := c.CheckEligibility(now).Err(key); err != nil {
		return nil, err
	}

	a, err := membership.NewApplication(key, cmd.ApplicantName, cmd.Answers, now)
	if err != nil {
		return nil, err
	}
	if err := h.applicationRepo.Create(ctx, a); err != nil {
		return nil, err
	}

	return &ApplicationResponse{Application: dtos.ToApplicationDTO(a, nil)}, nil
}

// ApplicationResponse wraps an application view
type ApplicationResponse struct {
	Application dtos.ApplicationDTO
}
