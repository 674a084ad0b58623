package persistence_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/portbattle-go/internal/domain/captainscode"
	"github.com/andrescamacho/portbattle-go/internal/domain/catalog"
	"github.com/andrescamacho/portbattle-go/internal/domain/shared"
	"github.com/andrescamacho/portbattle-go/internal/domain/signup"
	"github.com/andrescamacho/portbattle-go/test/helpers"
)

type signupFixture struct {
	h        *helpers.Harness
	battleID string
	roleIDs  []string
}

func newSignupFixture(t *testing.T, ships ...string) signupFixture {
	t.Helper()
	h := helpers.NewHarness(t)
	b := h.CreateBattle(t, catalog.WaterTypeDeep, 1000)
	setup := h.AddSetup(t, b.ID, "Main")

	f := signupFixture{h: h, battleID: b.ID}
	for _, ship := range ships {
		f.roleIDs = append(f.roleIDs, h.AddRole(t, setup.ID, ship, 0).ID)
	}
	return f
}

func TestSignupRepository_RoleClaim(t *testing.T) {
	f := newSignupFixture(t, "Bellona", "Wasa")
	ctx := context.Background()
	repo := f.h.Repos.Signups

	first := submitSignup(t, f.h, f.battleID, f.roleIDs[0], "captain-a")
	assert.Equal(t, shared.ReviewStatusPending, first.Status())

	t.Run("second captain on the same role is rejected", func(t *testing.T) {
		s, err := signup.NewSignup(f.battleID, f.roleIDs[0], "captain-b", signup.CaptainInfo{CaptainName: "B"}, f.h.Clock.Now())
		require.NoError(t, err)
		err = repo.Submit(ctx, s)
		assert.Equal(t, shared.CodeRoleAlreadyClaimed, shared.CodeOf(err))
		assert.Equal(t, shared.KindConflict, shared.KindOf(err))
	})

	t.Run("same captain on another role is rejected", func(t *testing.T) {
		s, err := signup.NewSignup(f.battleID, f.roleIDs[1], "captain-a", signup.CaptainInfo{CaptainName: "A"}, f.h.Clock.Now())
		require.NoError(t, err)
		err = repo.Submit(ctx, s)
		assert.Equal(t, shared.CodeDuplicateCaptain, shared.CodeOf(err))
	})

	t.Run("a denied signup frees the role", func(t *testing.T) {
		_, err := reviewStored(f.h, first.ID(), shared.DecisionDeny, "full")
		require.NoError(t, err)

		again := submitSignup(t, f.h, f.battleID, f.roleIDs[0], "captain-b")
		active, err := repo.ListActiveByRole(ctx, f.roleIDs[0])
		require.NoError(t, err)
		require.Len(t, active, 1)
		assert.Equal(t, again.ID(), active[0].ID())
	})
}

func TestSignupRepository_ConcurrentClaimsHaveOneWinner(t *testing.T) {
	f := newSignupFixture(t, "Bellona")
	ctx := context.Background()
	repo := f.h.Repos.Signups

	const attempts = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		wins    int
		claimed int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := signup.NewSignup(f.battleID, f.roleIDs[0], fmt.Sprintf("captain-%d", i),
				signup.CaptainInfo{CaptainName: fmt.Sprintf("Captain %d", i)}, f.h.Clock.Now())
			if err != nil {
				return
			}
			err = repo.Submit(ctx, s)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case shared.CodeOf(err) == shared.CodeRoleAlreadyClaimed:
				claimed++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
	assert.Equal(t, attempts-1, claimed)
}

func TestSignupRepository_ReviewIsTerminal(t *testing.T) {
	f := newSignupFixture(t, "Bellona")
	ctx := context.Background()
	repo := f.h.Repos.Signups
	s := submitSignup(t, f.h, f.battleID, f.roleIDs[0], "captain-a")

	// Two reviewers load the same pending signup
	stale, err := repo.FindByID(ctx, s.ID())
	require.NoError(t, err)

	outcome, err := reviewStored(f.h, s.ID(), shared.DecisionApprove, "welcome")
	require.NoError(t, err)
	assert.Equal(t, shared.ReviewStatusApproved, outcome.Signup.Status())
	assert.Equal(t, helpers.AdminID, outcome.Signup.ReviewedBy())
	assert.Empty(t, outcome.AutoDenied)

	stored, err := repo.FindByID(ctx, s.ID())
	require.NoError(t, err)
	assert.Equal(t, shared.ReviewStatusApproved, stored.Status())
	assert.Equal(t, "welcome", stored.ReviewReason())

	for _, decision := range []shared.Decision{shared.DecisionApprove, shared.DecisionDeny} {
		_, err := reviewStored(f.h, s.ID(), decision, "")
		assert.Equal(t, shared.CodeAlreadyReviewed, shared.CodeOf(err), decision)
	}

	// The stale copy passes the in-memory transition but loses at the store
	require.NoError(t, stale.Review(shared.DecisionDeny, "admin-2", "", f.h.Clock.Now()))
	_, err = repo.Review(ctx, stale)
	assert.Equal(t, shared.CodeAlreadyReviewed, shared.CodeOf(err))

	missing, err := signup.NewSignup(f.battleID, f.roleIDs[0], "captain-z", signup.CaptainInfo{CaptainName: "Z"}, f.h.Clock.Now())
	require.NoError(t, err)
	require.NoError(t, missing.Review(shared.DecisionApprove, helpers.AdminID, "", f.h.Clock.Now()))
	_, err = repo.Review(ctx, missing)
	assert.Equal(t, shared.KindNotFound, shared.KindOf(err))
}

func TestSignupRepository_CodeRedemption(t *testing.T) {
	f := newSignupFixture(t, "Bellona", "Wasa", "Pavel")
	ctx := context.Background()
	now := f.h.Clock.Now()

	code, err := captainscode.NewCaptainsCode("ALLY-1", f.battleID, "allies", 1, 24*time.Hour, helpers.AdminID, now)
	require.NoError(t, err)
	require.NoError(t, f.h.Repos.Codes.Create(ctx, code))

	external := func(roleID, name, code string) *signup.Signup {
		s, err := signup.NewSignup(f.battleID, roleID, "", signup.CaptainInfo{
			CaptainName:  name,
			IsExternal:   true,
			CaptainsCode: code,
			ContactInfo:  "discord: ally",
		}, now)
		require.NoError(t, err)
		return s
	}

	require.NoError(t, f.h.Repos.Signups.Submit(ctx, external(f.roleIDs[0], "Ally One", "ALLY-1")))

	stored, err := f.h.Repos.Codes.FindByCode(ctx, "ALLY-1")
	require.NoError(t, err)
	assert.Equal(t, 1, stored.UsageCount())

	err = f.h.Repos.Signups.Submit(ctx, external(f.roleIDs[1], "Ally Two", "ALLY-1"))
	var rejected *shared.CodeRejectedError
	require.True(t, errors.As(err, &rejected), "expected code rejection, got %v", err)
	assert.Equal(t, string(captainscode.ResultExhausted), rejected.Reason)

	// the failed redemption leaves no signup behind
	active, err := f.h.Repos.Signups.ListActiveByRole(ctx, f.roleIDs[1])
	require.NoError(t, err)
	assert.Empty(t, active)

	t.Run("deactivated codes are rejected as inactive", func(t *testing.T) {
		second, err := captainscode.NewCaptainsCode("ALLY-2", f.battleID, "", 5, time.Hour, helpers.AdminID, now)
		require.NoError(t, err)
		require.NoError(t, f.h.Repos.Codes.Create(ctx, second))
		require.NoError(t, f.h.Repos.Codes.Deactivate(ctx, "ALLY-2"))

		err = f.h.Repos.Signups.Submit(ctx, external(f.roleIDs[2], "Ally Three", "ALLY-2"))
		require.True(t, errors.As(err, &rejected))
		assert.Equal(t, string(captainscode.ResultInactive), rejected.Reason)
	})
}

func TestCaptainsCodeRepository(t *testing.T) {
	f := newSignupFixture(t)
	ctx := context.Background()
	repo := f.h.Repos.Codes
	now := f.h.Clock.Now()

	first, err := captainscode.NewCaptainsCode("abc123", f.battleID, "first", 2, time.Hour, helpers.AdminID, now)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, first))

	dup, err := captainscode.NewCaptainsCode("ABC123", f.battleID, "dup", 2, time.Hour, helpers.AdminID, now)
	require.NoError(t, err)
	assert.Equal(t, shared.KindConflict, shared.KindOf(repo.Create(ctx, dup)))

	found, err := repo.FindByCode(ctx, "ABC123")
	require.NoError(t, err)
	assert.Equal(t, 2, found.RemainingUses())
	assert.True(t, found.IsActive())

	codes, err := repo.ListByBattle(ctx, f.battleID)
	require.NoError(t, err)
	assert.Len(t, codes, 1)

	assert.Equal(t, shared.KindNotFound, shared.KindOf(repo.Deactivate(ctx, "NOPE")))
	_, err = repo.FindByCode(ctx, "NOPE")
	assert.Equal(t, shared.KindNotFound, shared.KindOf(err))
}
