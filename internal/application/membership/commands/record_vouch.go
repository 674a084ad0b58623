package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/portbattle-go/internal/application/auth"
	"github.com/andrescamacho/portbattle-go/internal/application/mediator"
	"github.com/andrescamacho/portbattle-go/internal/application/membership/dtos"
	"github.com/andrescamacho/portbattle-go/internal/domain/membership"
	"github.com/andrescamacho/portbattle-go/internal/domain/shared"
)

// RecordVouchCommand records a member's vouch or concern on a pending application
type RecordVouchCommand struct {
	ApplicationID string
	Type          string
	Comments      string
}

// VouchResponse returns the recorded vouch
type VouchResponse struct {
	Vouch dtos.VouchDTO
}

// RecordVouchHandler handles the RecordVouch command
type RecordVouchHandler struct {
	applicationRepo membership.ApplicationRepository
	clock           shared.Clock
}

// NewRecordVouchHandler creates a new RecordVouchHandler
func NewRecordVouchHandler(applicationRepo membership.ApplicationRepository, clock shared.Clock) *RecordVouchHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &RecordVouchHandler{applicationRepo: applicationRepo, clock: clock}
}

// Handle executes the RecordVouch command
func (h *RecordVouchHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*RecordVouchCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *RecordVouchCommand")
	}

	caller, err := auth.RequireIdentity(ctx)
	if err != nil {
		return nil, err
	}
	vouchType, err := membership.ParseVouchType(cmd.Type)
	if err != nil {
		return nil, err
	}

	a, err := h.applicationRepo.FindByID(ctx, cmd.ApplicationID)
	if err != nil {
		return nil, err
	}
	if !a.IsPending() {
		return nil, shared.NewAlreadyReviewedError("application", a.ID(), a.Status())
	}

	v, err := membership.NewVouch(a.ID(), caller.Key(), vouchType, cmd.Comments, h.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := h.applicationRepo.AddVouch(ctx, v); err != nil {
		return nil, err
	}
	return &VouchResponse{Vouch: dtos.ToVouchDTO(v)}, nil
}
