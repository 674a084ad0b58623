package steps

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cucumber/godog"

	battleCommands "github.com/andrescamacho/portbattle-go/internal/application/battle/commands"
	fleetCommands "github.com/andrescamacho/portbattle-go/internal/application/fleet/commands"
	"github.com/andrescamacho/portbattle-go/internal/application/mediator"
	"github.com/andrescamacho/portbattle-go/internal/domain/catalog"
	"github.com/andrescamacho/portbattle-go/internal/domain/shared"
	"github.com/andrescamacho/portbattle-go/test/helpers"
)

type fleetContext struct {
	*World
	order   int
	brTotal int
}

// InitializeFleetSteps registers battle and fleet composition steps
func InitializeFleetSteps(sc *godog.ScenarioContext, w *World) {
	fc := &fleetContext{World: w}

	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		fc.order = 0
		fc.brTotal = 0
		return ctx, nil
	})

	sc.Step(`^a (deep|shallow) water port battle with a BR limit of (\d+)$`, fc.aPortBattle)
	sc.Step(`^the battle has a fleet setup "([^"]*)"$`, fc.theBattleHasAFleetSetup)
	sc.Step(`^the admin adds roles for "([^"]*)"$`, fc.theAdminAddsRolesFor)
	sc.Step(`^the admin adds a role for "([^"]*)"$`, fc.theAdminAddsARoleFor)
	sc.Step(`^the setup BR total is (\d+)$`, fc.theSetupBRTotalIs)
	sc.Step(`^the overage is (\d+)$`, fc.theOverageIs)
}

func (fc *fleetContext) aPortBattle(depth string, limit int) error {
	water := catalog.WaterTypeDeep
	if depth == "shallow" {
		water = catalog.WaterTypeShallow
	}
	resp, err := mediator.Send[*battleCommands.BattleResponse](helpers.AdminContext(), fc.h.Mediator,
		&battleCommands.CreateBattleCommand{BattleInput: fc.h.BattleInput(water, limit)})
	if err != nil {
		return fmt.Errorf("create battle: %w", err)
	}
	fc.battleID = resp.Battle.ID
	return nil
}

func (fc *fleetContext) theBattleHasAFleetSetup(name string) error {
	resp, err := mediator.Send[*fleetCommands.SetupResponse](helpers.AdminContext(), fc.h.Mediator,
		&fleetCommands.AddFleetSetupCommand{BattleID: fc.battleID, Name: name})
	if err != nil {
		return fmt.Errorf("add setup: %w", err)
	}
	fc.setupID = resp.Setup.ID
	return nil
}

func (fc *fleetContext) theAdminAddsRolesFor(ships string) error {
	for _, ship := range strings.Split(ships, ",") {
		if err := fc.theAdminAddsARoleFor(strings.TrimSpace(ship)); err != nil {
			return err
		}
		if fc.err != nil {
			return fmt.Errorf("add role %s: %w", ship, fc.err)
		}
	}
	return nil
}

// theAdminAddsARoleFor records the outcome so a later step can assert on the failure
func (fc *fleetContext) theAdminAddsARoleFor(ship string) error {
	fc.order++
	resp, err := fc.h.TryAddRole(fc.setupID, ship, fc.order)
	fc.err = err
	if err != nil {
		return nil
	}
	fc.roles[ship] = resp.Role.ID
	fc.brTotal = resp.BRTotal
	return nil
}

func (fc *fleetContext) theSetupBRTotalIs(expected int) error {
	if fc.brTotal != expected {
		return fmt.Errorf("expected BR total %d, got %d", expected, fc.brTotal)
	}
	return nil
}

func (fc *fleetContext) theOverageIs(expected int) error {
	var budgetErr *shared.BudgetExceededError
	if !errors.As(fc.err, &budgetErr) {
		return fmt.Errorf("expected a budget error, got %v", fc.err)
	}
	if budgetErr.Overage != expected {
		return fmt.Errorf("expected overage %d, got %d", expected, budgetErr.Overage)
	}
	return nil
}
