package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/portbattle-go/internal/adapters/metrics"
	"github.com/andrescamacho/portbattle-go/internal/application/battle/dtos"
	"github.com/andrescamacho/portbattle-go/internal/application/logging"
	"github.com/andrescamacho/portbattle-go/internal/application/mediator"
	"github.com/andrescamacho/portbattle-go/internal/domain/battle"
	"github.com/andrescamacho/portbattle-go/internal/domain/shared"
)

// ListBattlesQuery lists battles ordered by start time, optionally within a
// window on battle start
type ListBattlesQuery struct {
	Start *time.Time
	End   *time.Time
}

// ListBattlesResponse contains the battle summaries
type ListBattlesResponse struct {
	Battles    []dtos.BattleDTO
	IsMockData bool
}

// ListBattlesHandler handles the ListBattles query
type ListBattlesHandler struct {
	battleRepo battle.BattleRepository
}

// NewListBattlesHandler creates a new ListBattlesHandler
func NewListBattlesHandler(battleRepo battle.BattleRepository) *ListBattlesHandler {
	return &ListBattlesHandler{battleRepo: battleRepo}
}

// Handle executes the ListBattles query
func (h *ListBattlesHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*ListBattlesQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ListBattlesQuery")
	}
	if err := validateWindow(query.Start, query.End); err != nil {
		return nil, err
	}

	summaries := []dtos.BattleDTO{}
	for b, err := range battle.All(ctx, h.battleRepo, battle.ListOptions{Start: query.Start, End: query.End}) {
		if err != nil {
			if shared.IsKind(err, shared.KindUnavailable) {
				logFallback(ctx, "ListBattles", err)
				return &ListBattlesResponse{Battles: fallbackSummaries(query.Start, query.End), IsMockData: true}, nil
			}
			return nil, err
		}
		summaries = append(summaries, dtos.ToBattleDTO(b))
	}

	return &ListBattlesResponse{Battles: summaries}, nil
}

func validateWindow(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return shared.NewValidationError("end", "must not be before start")
	}
	return nil
}

func logFallback(ctx context.Context, query string, cause error) {
	metrics.RecordFallbackRead(query)
	logging.LoggerFromContext(ctx).Log("WARNING", "store unavailable, serving mock data", map[string]interface{}{
		"query": query,
		"error": cause.Error(),
	})
}
