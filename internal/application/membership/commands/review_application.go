package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/portbattle-go/internal/adapters/metrics"
	"github.com/andrescamacho/portbattle-go/internal/application/auth"
	"github.com/andrescamacho/portbattle-go/internal/application/logging"
	"github.com/andrescamacho/portbattle-go/internal/application/mediator"
	"github.com/andrescamacho/portbattle-go/internal/application/membership/dtos"
	"github.com/andrescamacho/portbattle-go/internal/domain/membership"
	"github.com/andrescamacho/portbattle-go/internal/domain/shared"
)

// ReviewApplicationCommand approves or denies a pending application. On deny a
// cooldown of CooldownDays is applied; nil uses the configured default and 0
// applies none.
type ReviewApplicationCommand struct {
	ApplicationID string
	Decision      string
	Reason        string
	CooldownDays  *int
}

// ReviewApplicationResponse returns the reviewed application and any cooldown applied
type ReviewApplicationResponse struct {
	Application dtos.ApplicationDTO
	Cooldown    *dtos.CooldownDTO
}

// ReviewApplicationHandler handles the ReviewApplication command
type ReviewApplicationHandler struct {
	applicationRepo     membership.ApplicationRepository
	checker             auth.CapabilityChecker
	notifier            shared.Notifier
	clock               shared.Clock
	defaultCooldownDays int
}

// NewReviewApplicationHandler creates a new ReviewApplicationHandler
func NewReviewApplicationHandler(
	applicationRepo membership.ApplicationRepository,
	checker auth.CapabilityChecker,
	notifier shared.Notifier,
	clock shared.Clock,
	defaultCooldownDays int,
) *ReviewApplicationHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if notifier == nil {
		notifier = shared.NopNotifier{}
	}
	return &ReviewApplicationHandler{
		applicationRepo:     applicationRepo,
		checker:             checker,
		notifier:            notifier,
		clock:               clock,
		defaultCooldownDays: defaultCooldownDays,
	}
}

// Handle executes the ReviewApplication command
func (h *ReviewApplicationHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*ReviewApplicationCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ReviewApplicationCommand")
	}

	admin, err := auth.Require(ctx, h.checker, auth.CapabilityAdmin)
	if err != nil {
		return nil, err
	}
	decision, err := shared.ParseDecision(cmd.Decision)
	if err != nil {
		return nil, err
	}

	a, err := h.applicationRepo.FindByID(ctx, cmd.ApplicationID)
	if err != nil {
		return nil, err
	}
	now := h.clock.Now()
	if err := a.Review(decision, admin.UserID, cmd.Reason, now); err != nil {
		return nil, err
	}

	var cooldown *membership.ApplicationCooldown
	if decision == shared.DecisionDeny {
		days := h.defaultCooldownDays
		if cmd.CooldownDays != nil {
			days = *cmd.CooldownDays
		}
		if days > 0 {
			cooldown, err = membership.NewApplicationCooldown(a.IdentityKey(), days, cmd.Reason, now)
			if err != nil {
				return nil, err
			}
		} else if days < 0 {
			return nil, shared.NewValidationError("cooldownDays", "must not be negative")
		}
	}

	if err := h.applicationRepo.Review(ctx, a, cooldown); err != nil {
		return nil, err
	}
	metrics.RecordSignupReviewed("application", string(decision))

	vouches, err := h.applicationRepo.ListVouches(ctx, a.ID())
	if err != nil {
		return nil, err
	}

	resp := &ReviewApplicationResponse{Application: dtos.ToApplicationDTO(a, vouches)}
	if cooldown != nil {
		view := dtos.ToCooldownDTO(cooldown.IdentityKey(), cooldown, now)
		resp.Cooldown = &view
	}

	h.notifier.Notify(ctx, shared.Notification{
		Kind:  shared.NotificationApplicationReviewed,
		Title: fmt.Sprintf("Application %s", a.Status()),
		Body:  fmt.Sprintf("%s: %s", a.ApplicantName(), a.Status()),
		Fields: map[string]string{
			"Applicant": a.ApplicantName(),
			"Reason":    a.ReviewReason(),
		},
	})
	logging.LoggerFromContext(ctx).Log("INFO", "application reviewed", map[string]interface{}{
		"application_id": a.ID(),
		"decision":       decision,
		"cooldown":       cooldown != nil,
	})

	return resp, nil
}
