package helpers

import (
	"context"
	"fmt"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/andrescamacho/portbattle-go/internal/adapters/persistence"
	"github.com/andrescamacho/portbattle-go/internal/application/auth"
	battleCommands "github.com/andrescamacho/portbattle-go/internal/application/battle/commands"
	"github.com/andrescamacho/portbattle-go/internal/application/battle/dtos"
	fleetCommands "github.com/andrescamacho/portbattle-go/internal/application/fleet/commands"
	"github.com/andrescamacho/portbattle-go/internal/application/mediator"
	"github.com/andrescamacho/portbattle-go/internal/application/setup"
	"github.com/andrescamacho/portbattle-go/internal/domain/catalog"
	"github.com/andrescamacho/portbattle-go/internal/domain/shared"
)

const (
	// AdminID is granted every capability by the harness checker
	AdminID = "admin-1"
	// OfficerRole may create battles but not review
	OfficerRole = "officer"
	// DefaultCooldownDays is the harness denial cooldown
	DefaultCooldownDays = 30
)

// Epoch is the harness clock start
var Epoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// Harness wires the real handlers to an in-memory database
type Harness struct {
	DB       *gorm.DB
	Repos    setup.Repositories
	Mediator mediator.Mediator
	Clock    *shared.MockClock
	Notifier *RecordingNotifier
	Checker  *auth.ConfigCapabilityChecker
	Catalog  catalog.Catalog
}

// NewHarness builds a fully wired mediator over a fresh database
func NewHarness(t *testing.T) *Harness {
	t.Helper()
	h, err := NewHarnessWithDB(NewTestDB(t))
	if err != nil {
		t.Fatalf("failed to build harness: %v", err)
	}
	return h
}

// NewHarnessWithDB wires the handlers over an existing migrated database
func NewHarnessWithDB(db *gorm.DB) (*Harness, error) {
	h := &Harness{
		DB:       db,
		Repos:    persistence.NewRepositories(db),
		Clock:    shared.NewMockClock(Epoch),
		Notifier: &RecordingNotifier{},
		Checker:  auth.NewConfigCapabilityChecker([]string{AdminID}, []string{OfficerRole}),
		Catalog:  catalog.NewStaticCatalog(),
	}

	registry := setup.NewHandlerRegistry(h.Repos, h.Catalog, h.Checker, h.Notifier, h.Clock, DefaultCooldownDays)
	m, err := registry.CreateConfiguredMediator()
	if err != nil {
		return nil, fmt.Errorf("failed to configure mediator: %w", err)
	}
	h.Mediator = m
	return h, nil
}

// AdminContext returns a context authenticated as the harness admin
func AdminContext() context.Context {
	return auth.WithIdentity(context.Background(), auth.Identity{UserID: AdminID, DisplayName: "Admin"})
}

// MemberContext returns a context authenticated as a plain member
func MemberContext(userID string) context.Context {
	return auth.WithIdentity(context.Background(), auth.Identity{UserID: userID, DiscordID: "discord-" + userID, DisplayName: userID})
}

// OfficerContext returns a context for a member allowed to create battles
func OfficerContext(userID string) context.Context {
	return auth.WithIdentity(context.Background(), auth.Identity{UserID: userID, Roles: []string{OfficerRole}})
}

// BattleInput returns valid battle fields for the given water type and limit
func (h *Harness) BattleInput(water catalog.WaterType, brLimit int) battleCommands.BattleInput {
	meetup := h.Clock.Now().Add(48 * time.Hour)
	return battleCommands.BattleInput{
		PortName:        "La Navasse",
		MeetupTime:      meetup,
		BattleStartTime: meetup.Add(30 * time.Minute),
		WaterType:       string(water),
		MeetupLocation:  "Port-au-Prince",
		BRLimit:         brLimit,
		Nation:          "Great Britain",
	}
}

// CreateBattle creates a battle as the admin
func (h *Harness) CreateBattle(t *testing.T, water catalog.WaterType, brLimit int) dtos.BattleDTO {
	t.Helper()
	resp, err := mediator.Send[*battleCommands.BattleResponse](AdminContext(), h.Mediator,
		&battleCommands.CreateBattleCommand{BattleInput: h.BattleInput(water, brLimit)})
	if err != nil {
		t.Fatalf("create battle: %v", err)
	}
	return resp.Battle
}

// AddSetup adds a fleet setup to a battle as the admin
func (h *Harness) AddSetup(t *testing.T, battleID, name string) dtos.SetupDTO {
	t.Helper()
	resp, err := mediator.Send[*fleetCommands.SetupResponse](AdminContext(), h.Mediator,
		&fleetCommands.AddFleetSetupCommand{BattleID: battleID, Name: name})
	if err != nil {
		t.Fatalf("add setup: %v", err)
	}
	return resp.Setup
}

// AddRole adds a role for shipName to a setup as the admin
func (h *Harness) AddRole(t *testing.T, setupID, shipName string, order int) dtos.RoleDTO {
	t.Helper()
	resp, err := h.TryAddRole(setupID, shipName, order)
	if err != nil {
		t.Fatalf("add role %s: %v", shipName, err)
	}
	return resp.Role
}

// TryAddRole adds a role and returns the error instead of failing the test
func (h *Harness) TryAddRole(setupID, shipName string, order int) (*fleetCommands.RoleResponse, error) {
	return mediator.Send[*fleetCommands.RoleResponse](AdminContext(), h.Mediator,
		&fleetCommands.AddRoleCommand{SetupID: setupID, ShipName: shipName, RoleOrder: order})
}
