package signup

import (
	"testing"
	"time"

	"github.com/andrescamacho/portbattle-go/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestNewSignup_MemberRequiresIdentity(t *testing.T) {
	_, err := NewSignup("b1", "r1", "", CaptainInfo{CaptainName: "Jack"}, now)
	assert.Equal(t, shared.KindUnauthorized, shared.KindOf(err))

	s, err := NewSignup("b1", "r1", "user-1", CaptainInfo{CaptainName: "Jack", ClanName: "HOLD"}, now)
	require.NoError(t, err)
	assert.Equal(t, shared.ReviewStatusPending, s.Status())
	assert.False(t, s.RedeemsCode())
}

func TestNewSignup_ExternalRequiresContact(t *testing.T) {
	_, err := NewSignup("b1", "r1", "", CaptainInfo{CaptainName: "Jack", IsExternal: true}, now)

	require.Error(t, err)
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, []string{"contactInfo"}, de.Fields)
}

func TestSignup_RedeemsCodeUnlessOverridden(t *testing.T) {
	info := CaptainInfo{CaptainName: "Jack", IsExternal: true, ContactInfo: "jack#1234", CaptainsCode: " abcd2345 "}
	s, err := NewSignup("b1", "r1", "", info, now)
	require.NoError(t, err)

	assert.Equal(t, "ABCD2345", s.CaptainsCode())
	assert.True(t, s.RedeemsCode())

	s.GrantOverride("admin-1")
	assert.False(t, s.RedeemsCode())
	assert.Equal(t, "admin-1", s.OverrideBy())
}

func TestSignup_ReviewIsTerminal(t *testing.T) {
	s, err := NewSignup("b1", "r1", "user-1", CaptainInfo{CaptainName: "Jack"}, now)
	require.NoError(t, err)

	require.NoError(t, s.Review(shared.DecisionApprove, "admin-1", "", now.Add(time.Minute)))
	assert.Equal(t, shared.ReviewStatusApproved, s.Status())
	assert.Equal(t, "admin-1", s.ReviewedBy())
	require.NotNil(t, s.ReviewedAt())

	for _, d := range []shared.Decision{shared.DecisionApprove, shared.DecisionDeny} {
		err = s.Review(d, "admin-2", "", now.Add(2*time.Minute))
		assert.Equal(t, shared.CodeAlreadyReviewed, shared.CodeOf(err))
		assert.Equal(t, shared.KindConflict, shared.KindOf(err))
	}
	assert.Equal(t, shared.ReviewStatusApproved, s.Status())
	assert.Equal(t, "admin-1", s.ReviewedBy())
}
