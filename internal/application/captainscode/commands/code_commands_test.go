package commands_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/portbattle-go/internal/application/captainscode/commands"
	"github.com/andrescamacho/portbattle-go/internal/application/captainscode/queries"
	"github.com/andrescamacho/portbattle-go/internal/application/mediator"
	signupCommands "github.com/andrescamacho/portbattle-go/internal/application/signup/commands"
	"github.com/andrescamacho/portbattle-go/internal/domain/captainscode"
	"github.com/andrescamacho/portbattle-go/internal/domain/catalog"
	"github.com/andrescamacho/portbattle-go/internal/domain/shared"
	"github.com/andrescamacho/portbattle-go/test/helpers"
)

func TestCaptainsCodeLifecycle(t *testing.T) {
	h := helpers.NewHarness(t)
	b := h.CreateBattle(t, catalog.WaterTypeDeep, 1000)
	setup := h.AddSetup(t, b.ID, "Main")
	roleA := h.AddRole(t, setup.ID, "Bellona", 0)
	roleB := h.AddRole(t, setup.ID, "Wasa", 0)
	admin := helpers.AdminContext()

	validate := func(code, battleID string) *queries.ValidateCodeResponse {
		t.Helper()
		resp, err := mediator.Send[*queries.ValidateCodeResponse](admin, h.Mediator,
			&queries.ValidateCodeQuery{Code: code, BattleID: battleID})
		require.NoError(t, err)
		return resp
	}

	_, err := mediator.Send[*commands.CodeResponse](helpers.MemberContext("member-1"), h.Mediator,
		&commands.IssueCodeCommand{BattleID: b.ID, MaxUsage: 1, TTL: time.Hour})
	assert.Equal(t, shared.KindForbidden, shared.KindOf(err))

	_, err = mediator.Send[*commands.CodeResponse](admin, h.Mediator,
		&commands.IssueCodeCommand{BattleID: b.ID, MaxUsage: 1, TTL: 31 * 24 * time.Hour})
	assert.Equal(t, shared.KindValidation, shared.KindOf(err))

	issued, err := mediator.Send[*commands.CodeResponse](admin, h.Mediator,
		&commands.IssueCodeCommand{BattleID: b.ID, MaxUsage: 1, TTL: time.Hour, Description: "allies"})
	require.NoError(t, err)
	code := issued.Code.Code
	assert.Len(t, code, 8)
	assert.Equal(t, 1, issued.Code.RemainingUses)

	t.Run("valid for its own battle only", func(t *testing.T) {
		resp := validate(code, b.ID)
		assert.True(t, resp.Valid)
		assert.Equal(t, 1, resp.RemainingUses)
		require.NotNil(t, resp.ExpiresAt)

		assert.Equal(t, captainscode.ResultWrongBattle, validate(code, shared.NewID()).Result)
		assert.Equal(t, captainscode.ResultNotFound, validate("ZZZZZZZZ", b.ID).Result)
	})

	t.Run("one use then exhausted", func(t *testing.T) {
		external := func(roleID string) error {
			_, err := mediator.Send[*signupCommands.SubmitSignupResponse](helpers.MemberContext("member-1"), h.Mediator,
				&signupCommands.SubmitSignupCommand{
					RoleID: roleID, CaptainName: "Ally", IsExternal: true, ContactInfo: "ally#1", CaptainsCode: code,
				})
			return err
		}
		require.NoError(t, external(roleA.ID))
		assert.Equal(t, string(captainscode.ResultExhausted), shared.CodeOf(external(roleB.ID)))
		assert.Equal(t, captainscode.ResultExhausted, validate(code, b.ID).Result)
	})

	t.Run("expiry", func(t *testing.T) {
		fresh, err := mediator.Send[*commands.CodeResponse](admin, h.Mediator,
			&commands.IssueCodeCommand{BattleID: b.ID, MaxUsage: 3, TTL: time.Hour})
		require.NoError(t, err)

		h.Clock.Advance(2 * time.Hour)
		defer h.Clock.SetTime(helpers.Epoch)
		assert.Equal(t, captainscode.ResultExpired, validate(fresh.Code.Code, b.ID).Result)
	})

	t.Run("deactivate and list", func(t *testing.T) {
		deactivated, err := mediator.Send[*commands.CodeResponse](admin, h.Mediator, &commands.DeactivateCodeCommand{Code: code})
		require.NoError(t, err)
		assert.False(t, deactivated.Code.IsActive)
		assert.Equal(t, captainscode.ResultInactive, validate(code, b.ID).Result)

		list, err := mediator.Send[*queries.ListCodesResponse](admin, h.Mediator, &queries.ListCodesQuery{BattleID: b.ID})
		require.NoError(t, err)
		assert.Len(t, list.Codes, 2)

		_, err = mediator.Send[*queries.ListCodesResponse](helpers.MemberContext("member-1"), h.Mediator, &queries.ListCodesQuery{BattleID: b.ID})
		assert.Equal(t, shared.KindForbidden, shared.KindOf(err))
	})
}
