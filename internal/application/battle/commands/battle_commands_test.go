package commands_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/portbattle-go/internal/application/battle/commands"
	fleetCommands "github.com/andrescamacho/portbattle-go/internal/application/fleet/commands"
	"github.com/andrescamacho/portbattle-go/internal/application/mediator"
	"github.com/andrescamacho/portbattle-go/internal/domain/catalog"
	"github.com/andrescamacho/portbattle-go/internal/domain/shared"
	"github.com/andrescamacho/portbattle-go/test/helpers"
)

func TestCreateBattle(t *testing.T) {
	h := helpers.NewHarness(t)
	input := h.BattleInput(catalog.WaterTypeDeep, 2500)

	tests := []struct {
		name     string
		ctx      context.Context
		mutate   func(*commands.BattleInput)
		wantKind shared.ErrorKind
	}{
		{name: "anonymous", ctx: context.Background(), wantKind: shared.KindUnauthorized},
		{name: "plain member", ctx: helpers.MemberContext("member-1"), wantKind: shared.KindForbidden},
		{name: "officer", ctx: helpers.OfficerContext("officer-1")},
		{name: "admin", ctx: helpers.AdminContext()},
		{
			name:     "battle starts before meetup",
			ctx:      helpers.AdminContext(),
			mutate:   func(in *commands.BattleInput) { in.BattleStartTime = in.MeetupTime.Add(-time.Minute) },
			wantKind: shared.KindValidation,
		},
		{
			name:     "unknown water type",
			ctx:      helpers.AdminContext(),
			mutate:   func(in *commands.BattleInput) { in.WaterType = "lagoon" },
			wantKind: shared.KindValidation,
		},
		{
			name:     "zero BR limit",
			ctx:      helpers.AdminContext(),
			mutate:   func(in *commands.BattleInput) { in.BRLimit = 0 },
			wantKind: shared.KindValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := input
			if tt.mutate != nil {
				tt.mutate(&in)
			}

			resp, err := mediator.Send[*commands.BattleResponse](tt.ctx, h.Mediator, &commands.CreateBattleCommand{BattleInput: in})

			if tt.wantKind != "" {
				assert.Equal(t, tt.wantKind, shared.KindOf(err), "err: %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "PLANNED", resp.Battle.Status)
			assert.Equal(t, "DEEP_WATER", resp.Battle.WaterType)
			assert.NotEmpty(t, resp.Battle.ID)
		})
	}
}

func TestTransitionStatus(t *testing.T) {
	h := helpers.NewHarness(t)
	b := h.CreateBattle(t, catalog.WaterTypeDeep, 1000)
	ctx := helpers.AdminContext()

	transition := func(status string) (*commands.BattleResponse, error) {
		return mediator.Send[*commands.BattleResponse](ctx, h.Mediator,
			&commands.TransitionStatusCommand{BattleID: b.ID, NewStatus: status})
	}

	_, err := transition("COMPLETED")
	assert.Equal(t, shared.CodeInvalidTransition, shared.CodeOf(err))

	resp, err := transition("ACTIVE")
	require.NoError(t, err)
	assert.Equal(t, "ACTIVE", resp.Battle.Status)

	resp, err = transition("COMPLETED")
	require.NoError(t, err)
	assert.Equal(t, "COMPLETED", resp.Battle.Status)

	_, err = transition("CANCELLED")
	assert.Equal(t, shared.KindConflict, shared.KindOf(err))

	_, err = transition("sunk")
	assert.Equal(t, shared.KindValidation, shared.KindOf(err))

	_, err = mediator.Send[*commands.BattleResponse](helpers.MemberContext("member-1"), h.Mediator,
		&commands.TransitionStatusCommand{BattleID: b.ID, NewStatus: "CANCELLED"})
	assert.Equal(t, shared.KindForbidden, shared.KindOf(err))
}

func TestUpdateBattle_LimitMustCoverCommittedSetups(t *testing.T) {
	h := helpers.NewHarness(t)
	b := h.CreateBattle(t, catalog.WaterTypeDeep, 1000)
	setup := h.AddSetup(t, b.ID, "Main")
	h.AddRole(t, setup.ID, "Santisima", 0) // 290

	update := func(limit int) (*commands.BattleResponse, error) {
		in := h.BattleInput(catalog.WaterTypeDeep, limit)
		in.PortName = "Fort Royal"
		return mediator.Send[*commands.BattleResponse](helpers.AdminContext(), h.Mediator,
			&commands.UpdateBattleCommand{BattleID: b.ID, BattleInput: in})
	}

	_, err := update(200)
	assert.Equal(t, shared.CodeBudgetExceeded, shared.CodeOf(err))

	resp, err := update(300)
	require.NoError(t, err)
	assert.Equal(t, 300, resp.Battle.BRLimit)
	assert.Equal(t, "Fort Royal", resp.Battle.PortName)
}

func TestUpdateBattle_ShallowWaterMustAdmitCommittedShips(t *testing.T) {
	h := helpers.NewHarness(t)
	b := h.CreateBattle(t, catalog.WaterTypeDeep, 1000)
	setup := h.AddSetup(t, b.ID, "Main")
	victory := h.AddRole(t, setup.ID, "Victory", 0)

	update := func(water catalog.WaterType) (*commands.BattleResponse, error) {
		return mediator.Send[*commands.BattleResponse](helpers.AdminContext(), h.Mediator,
			&commands.UpdateBattleCommand{BattleID: b.ID, BattleInput: h.BattleInput(water, 1000)})
	}

	// Act
	_, err := update(catalog.WaterTypeShallow)

	// Assert
	assert.Equal(t, "SHIP_NOT_ALLOWED_IN_WATER", shared.CodeOf(err), "err: %v", err)
	assert.Equal(t, shared.KindValidation, shared.KindOf(err))

	got, err := h.Repos.Battles.FindByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, catalog.WaterTypeDeep, got.WaterType(), "rejected edit must not be persisted")

	// Once the big ship is gone the port may turn shallow
	_, err = mediator.Send[*fleetCommands.RemoveRoleResponse](helpers.AdminContext(), h.Mediator,
		&fleetCommands.RemoveRoleCommand{RoleID: victory.ID})
	require.NoError(t, err)
	h.AddRole(t, setup.ID, "Yacht", 0)

	resp, err := update(catalog.WaterTypeShallow)
	require.NoError(t, err)
	assert.Equal(t, "SHALLOW_WATER", resp.Battle.WaterType)
}
