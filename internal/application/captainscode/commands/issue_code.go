package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/portbattle-go/internal/application/auth"
	"github.com/andrescamacho/portbattle-go/internal/application/battle/dtos"
	"github.com/andrescamacho/portbattle-go/internal/application/logging"
	"github.com/andrescamacho/portbattle-go/internal/application/mediator"
	"github.com/andrescamacho/portbattle-go/internal/domain/battle"
	"github.com/andrescamacho/portbattle-go/internal/domain/captainscode"
	"github.com/andrescamacho/portbattle-go/internal/domain/shared"
	"github.com/andrescamacho/portbattle-go/pkg/utils"
)

// maxIssueAttempts bounds retries when a generated code collides with an existing one
const maxIssueAttempts = 5

// IssueCodeCommand issues a new captains code for a battle
type IssueCodeCommand struct {
	BattleID    string
	MaxUsage    int
	TTL         time.Duration
	Description string
}

// CodeResponse returns a captains code
type CodeResponse struct {
	Code dtos.CaptainsCodeDTO
}

// IssueCodeHandler handles the IssueCode command
type IssueCodeHandler struct {
	battleRepo battle.BattleRepository
	codeRepo   captainscode.CaptainsCodeRepository
	checker    auth.CapabilityChecker
	clock      shared.Clock
	generate   func() string
}

// NewIssueCodeHandler creates a new IssueCodeHandler
func NewIssueCodeHandler(
	battleRepo battle.BattleRepository,
	codeRepo captainscode.CaptainsCodeRepository,
	checker auth.CapabilityChecker,
	clock shared.Clock,
) *IssueCodeHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &IssueCodeHandler{
		battleRepo: battleRepo,
		codeRepo:   codeRepo,
		checker:    checker,
		clock:      clock,
		generate:   utils.GenerateShortCode,
	}
}

// Handle executes the IssueCode command
func (h *IssueCodeHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*IssueCodeCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *IssueCodeCommand")
	}

	admin, err := auth.Require(ctx, h.checker, auth.CapabilityAdmin)
	if err != nil {
		return nil, err
	}

	b, err := h.battleRepo.FindByID(ctx, cmd.BattleID)
	if err != nil {
		return nil, err
	}
	if b.Status().IsRetired() {
		return nil, shared.NewConflictError(shared.CodeInvalidTransition,
			fmt.Sprintf("battle %s is %s; codes can no longer be issued", b.ID(), b.Status()))
	}

	now := h.clock.Now()
	for attempt := 1; attempt <= maxIssueAttempts; attempt++ {
		code, err := captainscode.NewCaptainsCode(h.generate(), b.ID(), cmd.Description, cmd.MaxUsage, cmd.TTL, admin.UserID, now)
		if err != nil {
			return nil, err
		}

		err = h.codeRepo.Create(ctx, code)
		if err == nil {
			logging.LoggerFromContext(ctx).Log("INFO", "captains code issued", map[string]interface{}{
				"battle_id": b.ID(),
				"code":      code.Code(),
				"max_usage": code.MaxUsage(),
				"expires":   code.ExpiresAt(),
			})
			return &CodeResponse{Code: dtos.ToCaptainsCodeDTO(code)}, nil
		}
		if !shared.IsKind(err, shared.KindConflict) {
			return nil, err
		}
	}

	return nil, fmt.Errorf("failed to generate a unique captains code after %d attempts", maxIssueAttempts)
}
