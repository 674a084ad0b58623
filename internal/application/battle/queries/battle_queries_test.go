package queries_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/portbattle-go/internal/application/battle/dtos"
	"github.com/andrescamacho/portbattle-go/internal/application/battle/queries"
	"github.com/andrescamacho/portbattle-go/internal/application/mediator"
	signupCommands "github.com/andrescamacho/portbattle-go/internal/application/signup/commands"
	"github.com/andrescamacho/portbattle-go/internal/domain/catalog"
	"github.com/andrescamacho/portbattle-go/internal/domain/shared"
	"github.com/andrescamacho/portbattle-go/internal/infrastructure/database"
	"github.com/andrescamacho/portbattle-go/test/helpers"
)

func TestListBattles_Window(t *testing.T) {
	h := helpers.NewHarness(t)
	b := h.CreateBattle(t, catalog.WaterTypeDeep, 1000)

	resp, err := mediator.Send[*queries.ListBattlesResponse](context.Background(), h.Mediator, &queries.ListBattlesQuery{})
	require.NoError(t, err)
	require.Len(t, resp.Battles, 1)
	assert.Equal(t, b.ID, resp.Battles[0].ID)
	assert.False(t, resp.IsMockData)

	later := b.MeetupTime.Add(24 * time.Hour)
	resp, err = mediator.Send[*queries.ListBattlesResponse](context.Background(), h.Mediator, &queries.ListBattlesQuery{Start: &later})
	require.NoError(t, err)
	assert.Empty(t, resp.Battles)

	earlier := b.MeetupTime.Add(-time.Hour)
	_, err = mediator.Send[*queries.ListBattlesResponse](context.Background(), h.Mediator,
		&queries.ListBattlesQuery{Start: &later, End: &earlier})
	assert.Equal(t, shared.KindValidation, shared.KindOf(err))
}

func TestReads_FallBackWhenStoreUnavailable(t *testing.T) {
	h := helpers.NewHarness(t)
	require.NoError(t, database.Close(h.DB))
	ctx := context.Background()

	list, err := mediator.Send[*queries.ListBattlesResponse](ctx, h.Mediator, &queries.ListBattlesQuery{})
	require.NoError(t, err)
	assert.True(t, list.IsMockData)
	assert.Len(t, list.Battles, 3)

	cal, err := mediator.Send[*queries.CalendarResponse](ctx, h.Mediator, &queries.CalendarQuery{})
	require.NoError(t, err)
	assert.True(t, cal.IsMockData)
	assert.Len(t, cal.Events, 3)

	agg, err := mediator.Send[*dtos.BattleAggregateDTO](ctx, h.Mediator, &queries.GetBattleQuery{BattleID: queries.MockBattleFortRoyalID})
	require.NoError(t, err)
	assert.True(t, agg.IsMockData)
	assert.Equal(t, "Fort Royal", agg.Battle.PortName)
	assert.NotEmpty(t, agg.Setups)

	_, err = mediator.Send[*dtos.BattleAggregateDTO](ctx, h.Mediator, &queries.GetBattleQuery{BattleID: shared.NewID()})
	assert.Equal(t, shared.KindNotFound, shared.KindOf(err))
}

func TestGetBattle_RedactsContactsForOutsiders(t *testing.T) {
	h := helpers.NewHarness(t)
	b := h.CreateBattle(t, catalog.WaterTypeDeep, 1000)
	setup := h.AddSetup(t, b.ID, "Main")
	role := h.AddRole(t, setup.ID, "Bellona", 0)

	_, err := mediator.Send[*signupCommands.SubmitSignupResponse](helpers.AdminContext(), h.Mediator, &signupCommands.SubmitSignupCommand{
		RoleID:        role.ID,
		CaptainName:   "Ally",
		IsExternal:    true,
		ContactInfo:   "ally#1234",
		AdminOverride: true,
	})
	require.NoError(t, err)

	contact := func(ctx context.Context) string {
		agg, err := mediator.Send[*dtos.BattleAggregateDTO](ctx, h.Mediator, &queries.GetBattleQuery{BattleID: b.ID})
		require.NoError(t, err)
		require.Len(t, agg.Setups, 1)
		require.Len(t, agg.Setups[0].Roles, 1)
		require.Len(t, agg.Setups[0].Roles[0].Signups, 1)
		return agg.Setups[0].Roles[0].Signups[0].ContactInfo
	}

	assert.Equal(t, "ally#1234", contact(helpers.AdminContext()))
	assert.Empty(t, contact(helpers.MemberContext("member-1")))
	assert.Empty(t, contact(context.Background()))

	_, err = mediator.Send[*dtos.BattleAggregateDTO](context.Background(), h.Mediator, &queries.GetBattleQuery{BattleID: "not-a-uuid"})
	assert.Equal(t, shared.KindValidation, shared.KindOf(err))
}
