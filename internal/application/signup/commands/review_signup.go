package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/portbattle-go/internal/adapters/metrics"
	"github.com/andrescamacho/portbattle-go/internal/application/auth"
	"github.com/andrescamacho/portbattle-go/internal/application/battle/dtos"
	"github.com/andrescamacho/portbattle-go/internal/application/logging"
	"github.com/andrescamacho/portbattle-go/internal/application/mediator"
	"github.com/andrescamacho/portbattle-go/internal/domain/shared"
	"github.com/andrescamacho/portbattle-go/internal/domain/signup"
)

// ReviewSignupCommand approves or denies a PENDING signup
type ReviewSignupCommand struct {
	SignupID string
	Decision string
	Reason   string
}

// ReviewSignupResponse returns the reviewed signup and the siblings denied with it
type ReviewSignupResponse struct {
	Signup     dtos.SignupDTO
	AutoDenied []dtos.SignupDTO
}

// ReviewSignupHandler handles the ReviewSignup command
type ReviewSignupHandler struct {
	signupRepo signup.SignupRepository
	checker    auth.CapabilityChecker
	notifier   shared.Notifier
	clock      shared.Clock
}

// NewReviewSignupHandler creates a new ReviewSignupHandler
func NewReviewSignupHandler(
	signupRepo signup.SignupRepository,
	checker auth.CapabilityChecker,
	notifier shared.Notifier,
	clock shared.Clock,
) *ReviewSignupHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if notifier == nil {
		notifier = shared.NopNotifier{}
	}
	return &ReviewSignupHandler{
		signupRepo: signupRepo,
		checker:    checker,
		notifier:   notifier,
		clock:      clock,
	}
}

// Handle executes the ReviewSignup command
func (h *ReviewSignupHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*ReviewSignupCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ReviewSignupCommand")
	}

	admin, err := auth.Require(ctx, h.checker, auth.CapabilityAdmin)
	if err != nil {
		return nil, err
	}

	decision, err := shared.ParseDecision(cmd.Decision)
	if err != nil {
		return nil, err
	}

	s, err := h.signupRepo.FindByID(ctx, cmd.SignupID)
	if err != nil {
		return nil, err
	}
	if err := s.Review(decision, admin.UserID, cmd.Reason, h.clock.Now()); err != nil {
		return nil, err
	}
	outcome, err := h.signupRepo.Review(ctx, s)
	if err != nil {
		return nil, err
	}

	metrics.RecordSignupReviewed("role", string(decision))
	h.notify(ctx, outcome.Signup)
	autoDenied := make([]dtos.SignupDTO, 0, len(outcome.AutoDenied))
	for _, s := range outcome.AutoDenied {
		metrics.RecordSignupReviewed("role", string(shared.DecisionDeny))
		h.notify(ctx, s)
		autoDenied = append(autoDenied, dtos.ToSignupDTO(s))
	}

	logging.LoggerFromContext(ctx).Log("INFO", "signup reviewed", map[string]interface{}{
		"signup_id":   outcome.Signup.ID(),
		"decision":    decision,
		"actor":       admin.UserID,
		"auto_denied": len(outcome.AutoDenied),
	})

	return &ReviewSignupResponse{
		Signup:     dtos.ToSignupDTO(outcome.Signup),
		AutoDenied: autoDenied,
	}, nil
}

func (h *ReviewSignupHandler) notify(ctx context.Context, s *signup.Signup) {
	kind := shared.NotificationSignupDenied
	title := "Signup denied"
	if s.Status() == shared.ReviewStatusApproved {
		kind = shared.NotificationSignupApproved
		title = "Signup approved"
	}
	h.notifier.Notify(ctx, shared.Notification{
		Kind:     kind,
		BattleID: s.BattleID(),
		Title:    title,
		Body:     fmt.Sprintf("%s: %s", s.Info().CaptainName, s.Status()),
		Fields: map[string]string{
			"Captain": s.Info().CaptainName,
			"Clan":    s.Info().ClanName,
			"Reason":  s.ReviewReason(),
		},
	})
}
