package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/portbattle-go/internal/application/fleet/commands"
	"github.com/andrescamacho/portbattle-go/internal/application/mediator"
	signupCommands "github.com/andrescamacho/portbattle-go/internal/application/signup/commands"
	"github.com/andrescamacho/portbattle-go/internal/domain/catalog"
	"github.com/andrescamacho/portbattle-go/internal/domain/shared"
	"github.com/andrescamacho/portbattle-go/test/helpers"
)

func TestAddRole_BudgetExceededLeavesTotalUnchanged(t *testing.T) {
	// Arrange
	h := helpers.NewHarness(t)
	b := h.CreateBattle(t, catalog.WaterTypeDeep, 500)
	setup := h.AddSetup(t, b.ID, "Main")

	var last *commands.RoleResponse
	for _, ship := range []string{"Victory", "Christian", "Yacht"} {
		resp, err := h.TryAddRole(setup.ID, ship, 0)
		require.NoError(t, err)
		last = resp
	}
	require.Equal(t, 480, last.BRTotal)
	assert.Equal(t, 500, last.BRLimit)

	// Act
	_, err := h.TryAddRole(setup.ID, "Brig", 0)

	// Assert
	var budgetErr *shared.BudgetExceededError
	require.True(t, errors.As(err, &budgetErr), "expected budget error, got %v", err)
	assert.Equal(t, 10, budgetErr.Overage)

	stored, err := h.Repos.Fleets.FindSetup(context.Background(), setup.ID)
	require.NoError(t, err)
	assert.Equal(t, 480, stored.BRTotal())
}

func TestAddRole_ShallowWaterAdmitsSmallShipsOnly(t *testing.T) {
	h := helpers.NewHarness(t)
	b := h.CreateBattle(t, catalog.WaterTypeShallow, 500)
	setup := h.AddSetup(t, b.ID, "Main")

	_, err := h.TryAddRole(setup.ID, "Bellona", 0)
	assert.Equal(t, "SHIP_NOT_ALLOWED_IN_WATER", shared.CodeOf(err))

	_, err = h.TryAddRole(setup.ID, "Unknown Ship", 0)
	assert.Equal(t, shared.KindValidation, shared.KindOf(err))

	resp, err := h.TryAddRole(setup.ID, "Renommee", 0)
	require.NoError(t, err)
	assert.Equal(t, 60, resp.Role.BRValue)
	assert.Equal(t, 1, resp.Role.RoleOrder)
}

func TestAddRole_RequiresCreatorOrAdmin(t *testing.T) {
	h := helpers.NewHarness(t)
	b := h.CreateBattle(t, catalog.WaterTypeDeep, 500)
	setup := h.AddSetup(t, b.ID, "Main")
	cmd := &commands.AddRoleCommand{SetupID: setup.ID, ShipName: "Bellona"}

	_, err := mediator.Send[*commands.RoleResponse](context.Background(), h.Mediator, cmd)
	assert.Equal(t, shared.KindUnauthorized, shared.KindOf(err))

	_, err = mediator.Send[*commands.RoleResponse](helpers.MemberContext("member-1"), h.Mediator, cmd)
	assert.Equal(t, shared.KindForbidden, shared.KindOf(err))
}

func TestFleetSetups_ActivationAndRoleChanges(t *testing.T) {
	h := helpers.NewHarness(t)
	ctx := helpers.AdminContext()
	b := h.CreateBattle(t, catalog.WaterTypeDeep, 400)
	main := h.AddSetup(t, b.ID, "Main")
	alt := h.AddSetup(t, b.ID, "Alternate")
	role := h.AddRole(t, main.ID, "Bellona", 0)

	t.Run("activate switches the active setup", func(t *testing.T) {
		_, err := mediator.Send[*commands.SetupResponse](ctx, h.Mediator, &commands.ActivateFleetSetupCommand{SetupID: alt.ID})
		require.NoError(t, err)

		setups, err := h.Repos.Fleets.ListSetups(context.Background(), b.ID)
		require.NoError(t, err)
		for _, s := range setups {
			assert.Equal(t, s.ID() == alt.ID, s.IsActive(), s.Name())
		}
	})

	t.Run("change ship recomputes BR", func(t *testing.T) {
		resp, err := mediator.Send[*commands.RoleResponse](ctx, h.Mediator,
			&commands.ChangeRoleShipCommand{RoleID: role.ID, ShipName: "Constitution"})
		require.NoError(t, err)
		assert.Equal(t, "Constitution", resp.Role.ShipName)
		assert.Equal(t, 140, resp.BRTotal)

		_, err = mediator.Send[*commands.RoleResponse](ctx, h.Mediator,
			&commands.ChangeRoleShipCommand{RoleID: role.ID, ShipName: "Santisima"})
		require.NoError(t, err)

		_, err = h.TryAddRole(main.ID, "Christian", 0)
		assert.Equal(t, shared.CodeBudgetExceeded, shared.CodeOf(err))
	})

	t.Run("remove role releases BR", func(t *testing.T) {
		resp, err := mediator.Send[*commands.RemoveRoleResponse](ctx, h.Mediator, &commands.RemoveRoleCommand{RoleID: role.ID})
		require.NoError(t, err)
		assert.Equal(t, role.ID, resp.RoleID)

		stored, err := h.Repos.Fleets.FindSetup(context.Background(), main.ID)
		require.NoError(t, err)
		assert.Zero(t, stored.BRTotal())
	})
}

func TestRemoveRole_DeniesAndNotifiesPendingCaptain(t *testing.T) {
	// Arrange
	h := helpers.NewHarness(t)
	b := h.CreateBattle(t, catalog.WaterTypeDeep, 1000)
	setup := h.AddSetup(t, b.ID, "Main")
	role := h.AddRole(t, setup.ID, "Bellona", 0)

	submitted, err := mediator.Send[*signupCommands.SubmitSignupResponse](helpers.MemberContext("captain-a"), h.Mediator,
		&signupCommands.SubmitSignupCommand{RoleID: role.ID, CaptainName: "Jack", ClanName: "HMS"})
	require.NoError(t, err)
	h.Clock.Advance(2 * time.Hour)

	// Act
	resp, err := mediator.Send[*commands.RemoveRoleResponse](helpers.AdminContext(), h.Mediator,
		&commands.RemoveRoleCommand{RoleID: role.ID})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{submitted.Signup.ID}, resp.DeniedSignupIDs)

	denied, err := h.Repos.Signups.FindByID(context.Background(), submitted.Signup.ID)
	require.NoError(t, err)
	assert.Equal(t, shared.ReviewStatusDenied, denied.Status())
	assert.Equal(t, helpers.AdminID, denied.ReviewedBy())
	assert.Equal(t, commands.PendingDeniedReason, denied.ReviewReason())
	require.NotNil(t, denied.ReviewedAt())
	assert.True(t, denied.ReviewedAt().Equal(h.Clock.Now()))

	sent := h.Notifier.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, shared.NotificationSignupDenied, sent[0].Kind)
	assert.Equal(t, b.ID, sent[0].BattleID)
	assert.Equal(t, "Jack", sent[0].Fields["Captain"])
}
