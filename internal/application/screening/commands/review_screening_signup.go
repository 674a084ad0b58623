package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/portbattle-go/internal/adapters/metrics"
	"github.com/andrescamacho/portbattle-go/internal/application/auth"
	"github.com/andrescamacho/portbattle-go/internal/application/battle/dtos"
	"github.com/andrescamacho/portbattle-go/internal/application/mediator"
	"github.com/andrescamacho/portbattle-go/internal/domain/screening"
	"github.com/andrescamacho/portbattle-go/internal/domain/shared"
)

// ReviewScreeningSignupCommand approves or denies a PENDING screening signup
type ReviewScreeningSignupCommand struct {
	SignupID string
	Decision string
	Reason   string
}

// ScreeningSignupResponse returns a screening signup
type ScreeningSignupResponse struct {
	Signup dtos.ScreeningSignupDTO
}

// ReviewScreeningSignupHandler handles the ReviewScreeningSignup command
type ReviewScreeningSignupHandler struct {
	screeningRepo screening.ScreeningRepository
	checker       auth.CapabilityChecker
	notifier      shared.Notifier
	clock         shared.Clock
}

// NewReviewScreeningSignupHandler creates a new ReviewScreeningSignupHandler
func NewReviewScreeningSignupHandler(
	screeningRepo screening.ScreeningRepository,
	checker auth.CapabilityChecker,
	notifier shared.Notifier,
	clock shared.Clock,
) *ReviewScreeningSignupHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if notifier == nil {
		notifier = shared.NopNotifier{}
	}
	return &ReviewScreeningSignupHandler{
		screeningRepo: screeningRepo,
		checker:       checker,
		notifier:      notifier,
		clock:         clock,
	}
}

// Handle executes the ReviewScreeningSignup command
func (h *ReviewScreeningSignupHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*ReviewScreeningSignupCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ReviewScreeningSignupCommand")
	}

	admin, err := auth.Require(ctx, h.checker, auth.CapabilityAdmin)
	if err != nil {
		return nil, err
	}
	decision, err := shared.ParseDecision(cmd.Decision)
	if err != nil {
		return nil, err
	}

	s, err := h.screeningRepo.FindSignup(ctx, cmd.SignupID)
	if err != nil {
		return nil, err
	}
	if err := s.Review(decision, admin.UserID, cmd.Reason, h.clock.Now()); err != nil {
		return nil, err
	}
	if err := h.screeningRepo.ReviewSignup(ctx, s); err != nil {
		return nil, err
	}
	metrics.RecordSignupReviewed("screening", string(decision))

	battleID := ""
	if f, err := h.screeningRepo.FindFleet(ctx, s.FleetID()); err == nil {
		battleID = f.BattleID()
	}

	kind := shared.NotificationScreeningSignupDenied
	title := "Screening signup denied"
	if s.Status() == shared.ReviewStatusApproved {
		kind = shared.NotificationScreeningSignupApproved
		title = "Screening signup approved"
	}
	h.notifier.Notify(ctx, shared.Notification{
		Kind:     kind,
		BattleID: battleID,
		Title:    title,
		Body:     fmt.Sprintf("%s (%s): %s", s.CaptainName(), s.ShipName(), s.Status()),
		Fields: map[string]string{
			"Captain": s.CaptainName(),
			"Clan":    s.ClanName(),
			"Reason":  s.ReviewReason(),
		},
	})

	return &ScreeningSignupResponse{Signup: dtos.ToScreeningSignupDTO(s)}, nil
}
