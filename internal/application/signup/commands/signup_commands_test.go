package commands_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	battleCommands "github.com/andrescamacho/portbattle-go/internal/application/battle/commands"
	"github.com/andrescamacho/portbattle-go/internal/application/mediator"
	"github.com/andrescamacho/portbattle-go/internal/application/signup/commands"
	"github.com/andrescamacho/portbattle-go/internal/application/signup/queries"
	"github.com/andrescamacho/portbattle-go/internal/domain/catalog"
	"github.com/andrescamacho/portbattle-go/internal/domain/shared"
	"github.com/andrescamacho/portbattle-go/test/helpers"
)

type fixture struct {
	h        *helpers.Harness
	battleID string
	roles    []string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	h := helpers.NewHarness(t)
	b := h.CreateBattle(t, catalog.WaterTypeDeep, 1000)
	setup := h.AddSetup(t, b.ID, "Main")
	return fixture{
		h:        h,
		battleID: b.ID,
		roles: []string{
			h.AddRole(t, setup.ID, "Bellona", 0).ID,
			h.AddRole(t, setup.ID, "Wasa", 0).ID,
		},
	}
}

func (f fixture) submit(ctx context.Context, cmd *commands.SubmitSignupCommand) (*commands.SubmitSignupResponse, error) {
	return mediator.Send[*commands.SubmitSignupResponse](ctx, f.h.Mediator, cmd)
}

func (f fixture) review(ctx context.Context, signupID, decision string) (*commands.ReviewSignupResponse, error) {
	return mediator.Send[*commands.ReviewSignupResponse](ctx, f.h.Mediator,
		&commands.ReviewSignupCommand{SignupID: signupID, Decision: decision, Reason: "roster"})
}

func TestSubmitSignup_Member(t *testing.T) {
	f := newFixture(t)
	member := helpers.MemberContext("captain-a")

	resp, err := f.submit(member, &commands.SubmitSignupCommand{RoleID: f.roles[0], CaptainName: "Jack", ClanName: "HMS"})
	require.NoError(t, err)
	assert.Equal(t, "PENDING", resp.Signup.Status)
	assert.Equal(t, "captain-a", resp.Signup.UserID)
	assert.Equal(t, "Bellona", resp.Signup.ShipName)

	_, err = f.submit(member, &commands.SubmitSignupCommand{RoleID: f.roles[1], CaptainName: "Jack"})
	assert.Equal(t, shared.CodeDuplicateCaptain, shared.CodeOf(err))

	_, err = f.submit(helpers.MemberContext("captain-b"), &commands.SubmitSignupCommand{RoleID: f.roles[0], CaptainName: "Other"})
	assert.Equal(t, shared.CodeRoleAlreadyClaimed, shared.CodeOf(err))

	_, err = f.submit(context.Background(), &commands.SubmitSignupCommand{RoleID: f.roles[1], CaptainName: "Nobody"})
	assert.Equal(t, shared.KindUnauthorized, shared.KindOf(err))

	_, err = f.submit(member, &commands.SubmitSignupCommand{RoleID: "missing-role", CaptainName: "Jack"})
	assert.Equal(t, shared.KindNotFound, shared.KindOf(err))
}

func TestSubmitSignup_External(t *testing.T) {
	f := newFixture(t)
	member := helpers.MemberContext("member-1")

	_, err := f.submit(member, &commands.SubmitSignupCommand{
		RoleID: f.roles[0], CaptainName: "Ally", IsExternal: true, ContactInfo: "ally#1",
	})
	assert.Equal(t, shared.KindValidation, shared.KindOf(err), "a code is required")

	_, err = f.submit(member, &commands.SubmitSignupCommand{
		RoleID: f.roles[0], CaptainName: "Ally", IsExternal: true, ContactInfo: "ally#1", CaptainsCode: "NOPE99",
	})
	assert.Equal(t, "NOT_FOUND", shared.CodeOf(err))

	_, err = f.submit(member, &commands.SubmitSignupCommand{
		RoleID: f.roles[0], CaptainName: "Ally", IsExternal: true, ContactInfo: "ally#1", AdminOverride: true,
	})
	assert.Equal(t, shared.KindForbidden, shared.KindOf(err), "only admins may override")

	resp, err := f.submit(helpers.AdminContext(), &commands.SubmitSignupCommand{
		RoleID: f.roles[0], CaptainName: "Ally", IsExternal: true, ContactInfo: "ally#1", AdminOverride: true,
	})
	require.NoError(t, err)
	assert.True(t, resp.Signup.IsExternal)
	assert.Empty(t, resp.Signup.UserID)
}

func TestReviewSignup(t *testing.T) {
	f := newFixture(t)
	resp, err := f.submit(helpers.MemberContext("captain-a"), &commands.SubmitSignupCommand{RoleID: f.roles[0], CaptainName: "Jack"})
	require.NoError(t, err)
	id := resp.Signup.ID

	_, err = f.review(helpers.MemberContext("captain-b"), id, "approve")
	assert.Equal(t, shared.KindForbidden, shared.KindOf(err))

	_, err = f.review(helpers.AdminContext(), id, "maybe")
	assert.Equal(t, shared.KindValidation, shared.KindOf(err))

	reviewed, err := f.review(helpers.AdminContext(), id, "approve")
	require.NoError(t, err)
	assert.Equal(t, "APPROVED", reviewed.Signup.Status)
	assert.Equal(t, helpers.AdminID, reviewed.Signup.ReviewedBy)
	assert.Equal(t, []shared.NotificationKind{shared.NotificationSignupApproved}, f.h.Notifier.Kinds())

	for _, decision := range []string{"approve", "deny"} {
		_, err = f.review(helpers.AdminContext(), id, decision)
		assert.Equal(t, shared.CodeAlreadyReviewed, shared.CodeOf(err))
	}

	list, err := mediator.Send[*queries.ListSignupsResponse](helpers.AdminContext(), f.h.Mediator, &queries.ListSignupsQuery{BattleID: f.battleID})
	require.NoError(t, err)
	require.Len(t, list.Requests, 1)
	assert.Equal(t, "APPROVED", list.Requests[0].Status)
}

func TestSubmitSignup_ClosedBattle(t *testing.T) {
	f := newFixture(t)
	_, err := mediator.Send[*battleCommands.BattleResponse](helpers.AdminContext(), f.h.Mediator,
		&battleCommands.TransitionStatusCommand{BattleID: f.battleID, NewStatus: "CANCELLED"})
	require.NoError(t, err)

	_, err = f.submit(helpers.MemberContext("captain-a"), &commands.SubmitSignupCommand{RoleID: f.roles[0], CaptainName: "Jack"})
	assert.Equal(t, shared.KindConflict, shared.KindOf(err))
}
