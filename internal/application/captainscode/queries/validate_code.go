package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/portbattle-go/internal/application/mediator"
	"github.com/andrescamacho/portbattle-go/internal/domain/captainscode"
	"github.com/andrescamacho/portbattle-go/internal/domain/shared"
)

// ValidateCodeQuery checks a captains code against a battle without using it
type ValidateCodeQuery struct {
	Code     string
	BattleID string
}

// ValidateCodeResponse reports the validation result
type ValidateCodeResponse struct {
	Result        captainscode.ValidationResult
	Valid         bool
	ExpiresAt     *time.Time
	RemainingUses int
}

// ValidateCodeHandler handles the ValidateCode query
type ValidateCodeHandler struct {
	codeRepo captainscode.CaptainsCodeRepository
	clock    shared.Clock
}

// NewValidateCodeHandler creates a new ValidateCodeHandler
func NewValidateCodeHandler(codeRepo captainscode.CaptainsCodeRepository, clock shared.Clock) *ValidateCodeHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &ValidateCodeHandler{codeRepo: codeRepo, clock: clock}
}

// Handle executes the ValidateCode query
func (h *ValidateCodeHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*ValidateCodeQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ValidateCodeQuery")
	}
	if query.BattleID == "" {
		return nil, shared.NewValidationError("battleId", "required")
	}

	code, err := h.codeRepo.FindByCode(ctx, captainscode.Normalize(query.Code))
	if err != nil && !shared.IsKind(err, shared.KindNotFound) {
		return nil, err
	}

	result := captainscode.Evaluate(code, h.clock.Now(), query.BattleID)
	resp := &ValidateCodeResponse{Result: result, Valid: result.IsValid()}
	if result.IsValid() {
		expires := code.ExpiresAt()
		resp.ExpiresAt = &expires
		resp.RemainingUses = code.RemainingUses()
	}
	return resp, nil
}
