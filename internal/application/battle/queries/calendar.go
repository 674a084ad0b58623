package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/portbattle-go/internal/application/battle/dtos"
	"github.com/andrescamacho/portbattle-go/internal/application/mediator"
	"github.com/andrescamacho/portbattle-go/internal/domain/battle"
	"github.com/andrescamacho/portbattle-go/internal/domain/shared"
)

// CalendarQuery returns calendar events for battles starting within [Start, End]
type CalendarQuery struct {
	Start *time.Time
	End   *time.Time
}

// CalendarEventDTO is one battle as a calendar entry
type CalendarEventDTO struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Status    string    `json:"status"`
	WaterType string    `json:"waterType"`
	BRLimit   int       `json:"brLimit"`
}

// CalendarResponse contains the calendar events
type CalendarResponse struct {
	Events     []CalendarEventDTO
	IsMockData bool
}

// CalendarHandler handles the Calendar query
type CalendarHandler struct {
	battleRepo battle.BattleRepository
}

// NewCalendarHandler creates a new CalendarHandler
func NewCalendarHandler(battleRepo battle.BattleRepository) *CalendarHandler {
	return &CalendarHandler{battleRepo: battleRepo}
}

// Handle executes the Calendar query
func (h *CalendarHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*CalendarQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *CalendarQuery")
	}
	if err := validateWindow(query.Start, query.End); err != nil {
		return nil, err
	}

	events := []CalendarEventDTO{}
	for b, err := range battle.All(ctx, h.battleRepo, battle.ListOptions{Start: query.Start, End: query.End}) {
		if err != nil {
			if shared.IsKind(err, shared.KindUnavailable) {
				logFallback(ctx, "Calendar", err)
				return &CalendarResponse{Events: toEvents(fallbackSummaries(query.Start, query.End)), IsMockData: true}, nil
			}
			return nil, err
		}
		events = append(events, toEvent(dtos.ToBattleDTO(b)))
	}

	return &CalendarResponse{Events: events}, nil
}

func toEvents(battles []dtos.BattleDTO) []CalendarEventDTO {
	events := make([]CalendarEventDTO, 0, len(battles))
	for _, b := range battles {
		events = append(events, toEvent(b))
	}
	return events
}

func toEvent(b dtos.BattleDTO) CalendarEventDTO {
	return CalendarEventDTO{
		ID:        b.ID,
		Title:     b.PortName,
		Start:     b.BattleStartTime,
		End:       b.BattleStartTime.Add(battle.NominalDuration),
		Status:    b.Status,
		WaterType: b.WaterType,
		BRLimit:   b.BRLimit,
	}
}
