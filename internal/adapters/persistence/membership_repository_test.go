package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/portbattle-go/internal/adapters/persistence"
	"github.com/andrescamacho/portbattle-go/internal/domain/membership"
	"github.com/andrescamacho/portbattle-go/internal/domain/shared"
	"github.com/andrescamacho/portbattle-go/test/helpers"
)

func TestCooldownRepository_Upsert(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormCooldownRepository(db)
	ctx := context.Background()
	now := helpers.Epoch

	missing, err := repo.Find(ctx, "discord-1")
	require.NoError(t, err)
	assert.Nil(t, missing)

	// Act
	first, err := membership.NewApplicationCooldown("discord-1", 30, "denied", now)
	require.NoError(t, err)
	require.NoError(t, repo.Upsert(ctx, first))

	first.Override(helpers.AdminID, now.Add(time.Hour))
	require.NoError(t, repo.Upsert(ctx, first))

	// Assert
	stored, err := repo.Find(ctx, "discord-1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.True(t, stored.CanReapplyAt().Equal(now.Add(time.Hour)))
	assert.Equal(t, helpers.AdminID, stored.OverriddenBy())
	require.NotNil(t, stored.OverriddenAt())
	assert.True(t, stored.CheckEligibility(now.Add(time.Hour)).Eligible)
}

func TestApplicationRepository_Lifecycle(t *testing.T) {
	db := helpers.NewTestDB(t)
	apps := persistence.NewGormApplicationRepository(db)
	cooldowns := persistence.NewGormCooldownRepository(db)
	ctx := context.Background()
	now := helpers.Epoch

	app, err := membership.NewApplication("discord-7", "Jack Aubrey", map[string]string{"experience": "3 years"}, now)
	require.NoError(t, err)
	require.NoError(t, apps.Create(ctx, app))

	t.Run("second pending application is a conflict", func(t *testing.T) {
		again, err := membership.NewApplication("discord-7", "Jack Aubrey", nil, now)
		require.NoError(t, err)
		assert.Equal(t, shared.CodeApplicationPending, shared.CodeOf(apps.Create(ctx, again)))
	})

	t.Run("answers round trip", func(t *testing.T) {
		found, err := apps.FindByID(ctx, app.ID())
		require.NoError(t, err)
		assert.Equal(t, "3 years", found.Answers()["experience"])
		assert.Equal(t, shared.ReviewStatusPending, found.Status())
	})

	t.Run("one vouch per reviewer", func(t *testing.T) {
		v, err := membership.NewVouch(app.ID(), "member-1", membership.VouchTypeVouch, "sailed with him", now)
		require.NoError(t, err)
		require.NoError(t, apps.AddVouch(ctx, v))

		dup, err := membership.NewVouch(app.ID(), "member-1", membership.VouchTypeConcern, "", now)
		require.NoError(t, err)
		assert.Equal(t, shared.CodeDuplicateVouch, shared.CodeOf(apps.AddVouch(ctx, dup)))

		vouches, err := apps.ListVouches(ctx, app.ID())
		require.NoError(t, err)
		require.Len(t, vouches, 1)
		assert.Equal(t, membership.VouchTypeVouch, vouches[0].Type())
	})

	t.Run("denial writes the cooldown in the same review", func(t *testing.T) {
		cooldown, err := membership.NewApplicationCooldown("discord-7", 30, "not yet", now)
		require.NoError(t, err)

		stale, err := apps.FindByID(ctx, app.ID())
		require.NoError(t, err)

		found, err := apps.FindByID(ctx, app.ID())
		require.NoError(t, err)
		require.NoError(t, found.Review(shared.DecisionDeny, helpers.AdminID, "not yet", now))
		require.NoError(t, apps.Review(ctx, found, cooldown))

		reviewed, err := apps.FindByID(ctx, app.ID())
		require.NoError(t, err)
		assert.Equal(t, shared.ReviewStatusDenied, reviewed.Status())
		assert.Equal(t, "not yet", reviewed.ReviewReason())

		stored, err := cooldowns.Find(ctx, "discord-7")
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.True(t, stored.CanReapplyAt().Equal(now.AddDate(0, 0, 30)))

		require.NoError(t, stale.Review(shared.DecisionApprove, helpers.AdminID, "", now))
		assert.Equal(t, shared.CodeAlreadyReviewed, shared.CodeOf(apps.Review(ctx, stale, nil)))
	})

	t.Run("a reviewed application frees the identity", func(t *testing.T) {
		next, err := membership.NewApplication("discord-7", "Jack Aubrey", nil, now)
		require.NoError(t, err)
		assert.NoError(t, apps.Create(ctx, next))
	})
}
