package queries

import (
	"time"

	"github.com/andrescamacho/portbattle-go/internal/application/battle/dtos"
	"github.com/andrescamacho/portbattle-go/internal/domain/battle"
	"github.com/andrescamacho/portbattle-go/internal/domain/catalog"
)

// Fixed ids of the substitute dataset served while the store is unreachable
const (
	MockBattleFortRoyalID = "7b0f5c1e-3a52-4d8e-9a51-2f6d0c9e0001"
	MockBattleLaNavasseID = "7b0f5c1e-3a52-4d8e-9a51-2f6d0c9e0002"
	MockBattleTumbadoID   = "7b0f5c1e-3a52-4d8e-9a51-2f6d0c9e0003"

	mockSetupMainID   = "7b0f5c1e-3a52-4d8e-9a51-2f6d0c9e0101"
	mockSetupAltID    = "7b0f5c1e-3a52-4d8e-9a51-2f6d0c9e0102"
	mockScreeningID   = "7b0f5c1e-3a52-4d8e-9a51-2f6d0c9e0201"
	mockCreatorUserID = "mock-creator"
)

var mockEpoch = time.Date(2026, 11, 7, 18, 0, 0, 0, time.UTC)

// fallbackBattles returns the substitute dataset. It is rebuilt on every call so
// callers may mutate the result.
func fallbackBattles() []dtos.BattleAggregateDTO {
	fortRoyal := mockBattle(MockBattleFortRoyalID, "Fort Royal", mockEpoch, catalog.WaterTypeDeep, 2500, "France", battle.StatusPlanned)
	laNavasse := mockBattle(MockBattleLaNavasseID, "La Navasse", mockEpoch.Add(48*time.Hour), catalog.WaterTypeShallow, 600, "Great Britain", battle.StatusPlanned)
	tumbado := mockBattle(MockBattleTumbadoID, "Tumbado", mockEpoch.Add(7*24*time.Hour), catalog.WaterTypeDeep, 4000, "Spain", battle.StatusActive)

	mainSetup := dtos.SetupDTO{
		ID: mockSetupMainID, BattleID: MockBattleFortRoyalID, Name: "Main Fleet",
		IsActive: true, SetupOrder: 1,
		Roles: []dtos.RoleDTO{
			mockRole("7b0f5c1e-3a52-4d8e-9a51-2f6d0c9e1001", mockSetupMainID, 1, "Santisima", 290),
			mockRole("7b0f5c1e-3a52-4d8e-9a51-2f6d0c9e1002", mockSetupMainID, 2, "Victory", 250),
			mockRole("7b0f5c1e-3a52-4d8e-9a51-2f6d0c9e1003", mockSetupMainID, 3, "Bellona", 180),
		},
	}
	alt := dtos.SetupDTO{
		ID: mockSetupAltID, BattleID: MockBattleFortRoyalID, Name: "Alternate 1",
		SetupOrder: 2,
		Roles: []dtos.RoleDTO{
			mockRole("7b0f5c1e-3a52-4d8e-9a51-2f6d0c9e1101", mockSetupAltID, 1, "L'Ocean", 275),
			mockRole("7b0f5c1e-3a52-4d8e-9a51-2f6d0c9e1102", mockSetupAltID, 2, "Constitution", 140),
		},
	}
	for _, s := range []*dtos.SetupDTO{&mainSetup, &alt} {
		for _, r := range s.Roles {
			s.BRTotal += r.BRValue
		}
	}

	five := 5
	screen := dtos.ScreeningFleetDTO{
		ID: mockScreeningID, BattleID: MockBattleFortRoyalID, Type: "OFFENSIVE",
		Observation:   "Hold the entrance until the timer starts",
		RequiredShips: []string{"5th Rate", "Endymion"},
		Nation:        "France", ShipsRequired: &five,
		Signups: []dtos.ScreeningSignupDTO{},
	}

	return []dtos.BattleAggregateDTO{
		{Battle: fortRoyal, Setups: []dtos.SetupDTO{mainSetup, alt}, ScreeningFleets: []dtos.ScreeningFleetDTO{screen}, IsMockData: true},
		{Battle: laNavasse, Setups: []dtos.SetupDTO{}, ScreeningFleets: []dtos.ScreeningFleetDTO{}, IsMockData: true},
		{Battle: tumbado, Setups: []dtos.SetupDTO{}, ScreeningFleets: []dtos.ScreeningFleetDTO{}, IsMockData: true},
	}
}

func mockBattle(id, port string, start time.Time, water catalog.WaterType, brLimit int, nation string, status battle.Status) dtos.BattleDTO {
	return dtos.BattleDTO{
		ID:              id,
		PortName:        port,
		MeetupTime:      start.Add(-30 * time.Minute),
		BattleStartTime: start,
		WaterType:       string(water),
		MeetupLocation:  "Nearest friendly port",
		BRLimit:         brLimit,
		Nation:          nation,
		Status:          string(status),
		CreatorID:       mockCreatorUserID,
		CreatedAt:       mockEpoch.Add(-14 * 24 * time.Hour),
		UpdatedAt:       mockEpoch.Add(-14 * 24 * time.Hour),
	}
}

func mockRole(id, setupID string, order int, ship string, br int) dtos.RoleDTO {
	return dtos.RoleDTO{ID: id, SetupID: setupID, RoleOrder: order, ShipName: ship, BRValue: br, Signups: []dtos.SignupDTO{}}
}

// fallbackSummaries filters the substitute dataset by battle start window
func fallbackSummaries(start, end *time.Time) []dtos.BattleDTO {
	var out []dtos.BattleDTO
	for _, agg := range fallbackBattles() {
		if inWindow(agg.Battle.BattleStartTime, start, end) {
			out = append(out, agg.Battle)
		}
	}
	return out
}

// fallbackAggregate returns the substitute aggregate for id
func fallbackAggregate(id string) (dtos.BattleAggregateDTO, bool) {
	for _, agg := range fallbackBattles() {
		if agg.Battle.ID == id {
			return agg, true
		}
	}
	return dtos.BattleAggregateDTO{}, false
}

func inWindow(t time.Time, start, end *time.Time) bool {
	if start != nil && t.Before(*start) {
		return false
	}
	if end != nil && t.After(*end) {
		return false
	}
	return true
}
