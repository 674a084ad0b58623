package membership

import (
	"errors"
	"testing"
	"time"

	"github.com/andrescamacho/portbattle-go/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestApplicationCooldown_BlocksUntilReapplyTime(t *testing.T) {
	c, err := NewApplicationCooldown("discord-42", 30, "rejected", now)
	require.NoError(t, err)

	until := now.AddDate(0, 0, 30)
	e := c.CheckEligibility(now.Add(time.Hour))
	assert.False(t, e.Eligible)
	assert.Equal(t, until, e.Until)
	assert.Equal(t, "rejected", e.Reason)

	var cooldown *shared.CooldownActiveError
	require.True(t, errors.As(e.Err("discord-42"), &cooldown))
	assert.Equal(t, until, cooldown.CanReapplyAt)

	assert.True(t, c.CheckEligibility(until).Eligible)
}

func TestApplicationCooldown_OverrideClearsImmediately(t *testing.T) {
	c, err := NewApplicationCooldown("discord-42", 30, "rejected", now)
	require.NoError(t, err)

	later := now.Add(24 * time.Hour)
	c.Override("admin-1", later)

	assert.True(t, c.CheckEligibility(later).Eligible)
	assert.Equal(t, "admin-1", c.OverriddenBy())
	require.NotNil(t, c.OverriddenAt())
	assert.Equal(t, later, *c.OverriddenAt())
}

func TestApplicationCooldown_NilIsEligible(t *testing.T) {
	var c *ApplicationCooldown
	assert.True(t, c.CheckEligibility(now).Eligible)
	assert.NoError(t, c.CheckEligibility(now).Err("x"))
}

func TestApplicationCooldown_ZeroDaysDoesNotBlock(t *testing.T) {
	c, err := NewApplicationCooldown("discord-42", 0, "", now)
	require.NoError(t, err)
	assert.True(t, c.CheckEligibility(now).Eligible)

	_, err = NewApplicationCooldown("discord-42", -1, "", now)
	assert.Equal(t, shared.KindValidation, shared.KindOf(err))
}

func TestApplication_ReviewAndVouches(t *testing.T) {
	a, err := NewApplication("discord-42", "Jack Aubrey", map[string]string{"why": "sail"}, now)
	require.NoError(t, err)
	assert.True(t, a.IsPending())

	v1, _ := NewVouch(a.ID(), "member-1", VouchTypeVouch, "good", now)
	v2, _ := NewVouch(a.ID(), "member-2", VouchTypeConcern, "", now)
	v3, _ := NewVouch(a.ID(), "member-3", VouchTypeVouch, "", now)
	assert.Equal(t, Tally{Vouches: 2, Concerns: 1}, TallyVouches([]*Vouch{v1, v2, v3}))
	assert.True(t, a.IsPending(), "vouches never review an application")

	require.NoError(t, a.Review(shared.DecisionDeny, "admin-1", "", now))
	err = a.Review(shared.DecisionApprove, "admin-1", "", now)
	assert.Equal(t, shared.CodeAlreadyReviewed, shared.CodeOf(err))
}

func TestParseVouchType(t *testing.T) {
	vt, err := ParseVouchType("concern")
	require.NoError(t, err)
	assert.Equal(t, VouchTypeConcern, vt)

	_, err = ParseVouchType("maybe")
	assert.Equal(t, shared.KindValidation, shared.KindOf(err))
}
