package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/portbattle-go/internal/application/auth"
	"github.com/andrescamacho/portbattle-go/internal/application/battle/dtos"
	"github.com/andrescamacho/portbattle-go/internal/application/mediator"
	"github.com/andrescamacho/portbattle-go/internal/domain/captainscode"
)

// DeactivateCodeCommand revokes a captains code
type DeactivateCodeCommand struct {
	Code string
}

// DeactivateCodeHandler handles the DeactivateCode command
type DeactivateCodeHandler struct {
	codeRepo captainscode.CaptainsCodeRepository
	checker  auth.CapabilityChecker
}

// NewDeactivateCodeHandler creates a new DeactivateCodeHandler
func NewDeactivateCodeHandler(codeRepo captainscode.CaptainsCodeRepository, checker auth.CapabilityChecker) *DeactivateCodeHandler {
	return &DeactivateCodeHandler{codeRepo: codeRepo, checker: checker}
}

// Handle executes the DeactivateCode command
func (h *DeactivateCodeHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*DeactivateCodeCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *DeactivateCodeCommand")
	}

	if _, err := auth.Require(ctx, h.checker, auth.CapabilityAdmin); err != nil {
		return nil, err
	}

	code := captainscode.Normalize(cmd.Code)
	if err := h.codeRepo.Deactivate(ctx, code); err != nil {
		return nil, err
	}
	c, err := h.codeRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	return &CodeResponse{Code: dtos.ToCaptainsCodeDTO(c)}, nil
}
