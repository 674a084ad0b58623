package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/portbattle-go/internal/adapters/metrics"
	"github.com/andrescamacho/portbattle-go/internal/application/auth"
	"github.com/andrescamacho/portbattle-go/internal/application/logging"
	"github.com/andrescamacho/portbattle-go/internal/application/mediator"
	"github.com/andrescamacho/portbattle-go/internal/domain/battle"
	"github.com/andrescamacho/portbattle-go/internal/domain/fleet"
	"github.com/andrescamacho/portbattle-go/internal/domain/shared"
	"github.com/andrescamacho/portbattle-go/internal/domain/signup"
)

// RemoveRoleCommand deletes a role slot that has no approved captain
type RemoveRoleCommand struct {
	RoleID string
}

// RemoveRoleResponse confirms the removal
type RemoveRoleResponse struct {
	RoleID          string
	DeniedSignupIDs []string
}

// PendingDeniedReason is recorded on pending signups of a removed role
const PendingDeniedReason = "role removed from fleet setup"

// RemoveRoleHandler handles the RemoveRole command
type RemoveRoleHandler struct {
	guard      battleGuard
	signupRepo signup.SignupRepository
	notifier   shared.Notifier
	clock      shared.Clock
}

// NewRemoveRoleHandler creates a new RemoveRoleHandler
func NewRemoveRoleHandler(
	battleRepo battle.BattleRepository,
	fleetRepo fleet.FleetRepository,
	signupRepo signup.SignupRepository,
	checker auth.CapabilityChecker,
	notifier shared.Notifier,
	clock shared.Clock,
) *RemoveRoleHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if notifier == nil {
		notifier = shared.NopNotifier{}
	}
	return &RemoveRoleHandler{
		guard:      battleGuard{battleRepo: battleRepo, fleetRepo: fleetRepo, checker: checker},
		signupRepo: signupRepo,
		notifier:   notifier,
		clock:      clock,
	}
}

// Handle executes the RemoveRole command
func (h *RemoveRoleHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*RemoveRoleCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *RemoveRoleCommand")
	}

	role, _, b, caller, err := h.guard.editableRole(ctx, cmd.RoleID)
	if err != nil {
		return nil, err
	}

	deniedIDs, err := h.guard.fleetRepo.RemoveRole(ctx, role.ID(), caller.Key(), PendingDeniedReason, h.clock.Now())
	if err != nil {
		return nil, err
	}

	logger := logging.LoggerFromContext(ctx)
	for _, id := range deniedIDs {
		metrics.RecordSignupReviewed("role", string(shared.DecisionDeny))
		s, err := h.signupRepo.FindByID(ctx, id)
		if err != nil {
			logger.Log("WARNING", "denied signup not found for notification", map[string]interface{}{
				"signup_id": id,
				"error":     err.Error(),
			})
			continue
		}
		h.notifier.Notify(ctx, shared.Notification{
			Kind:     shared.NotificationSignupDenied,
			BattleID: b.ID(),
			Title:    "Signup denied",
			Body:     fmt.Sprintf("%s: %s (%s)", s.Info().CaptainName, s.Status(), PendingDeniedReason),
			Fields: map[string]string{
				"Captain": s.Info().CaptainName,
				"Clan":    s.Info().ClanName,
				"Ship":    role.ShipName(),
				"Reason":  s.ReviewReason(),
			},
		})
	}

	logger.Log("INFO", "fleet role removed", map[string]interface{}{
		"battle_id":      b.ID(),
		"role_id":        role.ID(),
		"ship":           role.ShipName(),
		"denied_signups": len(deniedIDs),
	})

	return &RemoveRoleResponse{RoleID: role.ID(), DeniedSignupIDs: deniedIDs}, nil
}
