package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/portbattle-go/internal/application/auth"
	"github.com/andrescamacho/portbattle-go/internal/application/battle/dtos"
	"github.com/andrescamacho/portbattle-go/internal/application/mediator"
	"github.com/andrescamacho/portbattle-go/internal/domain/captainscode"
)

// ListCodesQuery lists the captains codes of a battle
type ListCodesQuery struct {
	BattleID string
}

// ListCodesResponse contains the codes, newest first
type ListCodesResponse struct {
	Codes []dtos.CaptainsCodeDTO
}

// ListCodesHandler handles the ListCodes query
type ListCodesHandler struct {
	codeRepo captainscode.CaptainsCodeRepository
	checker  auth.CapabilityChecker
}

// NewListCodesHandler creates a new ListCodesHandler
func NewListCodesHandler(codeRepo captainscode.CaptainsCodeRepository, checker auth.CapabilityChecker) *ListCodesHandler {
	return &ListCodesHandler{codeRepo: codeRepo, checker: checker}
}

// Handle executes the ListCodes query
func (h *ListCodesHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*ListCodesQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ListCodesQuery")
	}

	if _, err := auth.Require(ctx, h.checker, auth.CapabilityAdmin); err != nil {
		return nil, err
	}

	codes, err := h.codeRepo.ListByBattle(ctx, query.BattleID)
	if err != nil {
		return nil, err
	}
	out := make([]dtos.CaptainsCodeDTO, 0, len(codes))
	for _, c := range codes {
		out = append(out, dtos.ToCaptainsCodeDTO(c))
	}
	return &ListCodesResponse{Codes: out}, nil
}
