package shared

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDecision(t *testing.T) {
	for _, s := range []string{"approve", "Approved", "ACCEPT"} {
		d, err := ParseDecision(s)
		require.NoError(t, err)
		assert.Equal(t, DecisionApprove, d)
	}
	for _, s := range []string{"deny", "denied", "reject"} {
		d, err := ParseDecision(s)
		require.NoError(t, err)
		assert.Equal(t, DecisionDeny, d)
	}

	_, err := ParseDecision("maybe")
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestReviewState_TerminalStatesAreImmutable(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	state := NewReviewState(now)
	require.True(t, state.IsPending())

	require.NoError(t, state.Review("signup", "s1", DecisionDeny, "admin", "late", now))
	assert.Equal(t, ReviewStatusDenied, state.Status())
	assert.True(t, state.Status().IsTerminal())
	assert.False(t, state.Status().IsActive())

	err := state.Review("signup", "s1", DecisionApprove, "admin", "", now)
	assert.True(t, errors.Is(err, NewAlreadyReviewedError("", "", "")))
	assert.Equal(t, ReviewStatusDenied, state.Status())
}

func TestKindOf_UnwrapsTypedErrors(t *testing.T) {
	wrapped := errors.Join(errors.New("context"), NewBudgetExceededError(500, 480, 30))

	assert.Equal(t, KindValidation, KindOf(wrapped))
	assert.Equal(t, CodeBudgetExceeded, CodeOf(wrapped))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Equal(t, ErrorKind(""), KindOf(nil))
}
