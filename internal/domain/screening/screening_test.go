package screening

import (
	"testing"
	"time"

	"github.com/andrescamacho/portbattle-go/internal/domain/catalog"
	"github.com/andrescamacho/portbattle-go/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestNewScreeningFleet_NormalizesRequiredShips(t *testing.T) {
	two := 2
	req := Requirements{
		Type:          FleetTypeOffensive,
		RequiredShips: []string{"surprise", "5th", ""},
		Nation:        "france",
		ShipsRequired: &two,
	}

	f, err := NewScreeningFleet(catalog.NewStaticCatalog(), "b1", req, "admin", now)

	require.NoError(t, err)
	assert.Equal(t, []string{"Surprise", "5th Rate"}, f.Requirements().RequiredShips)
	assert.False(t, f.IsOverCapacity(2))
	assert.True(t, f.IsOverCapacity(3))
}

func TestNewScreeningFleet_RejectsUnknownShips(t *testing.T) {
	req := Requirements{Type: FleetTypeDefensive, RequiredShips: []string{"Queen Anne's Revenge"}}

	_, err := NewScreeningFleet(catalog.NewStaticCatalog(), "b1", req, "admin", now)

	assert.Equal(t, shared.KindValidation, shared.KindOf(err))
}

func TestNewScreeningFleet_NoCapMeansNeverOverCapacity(t *testing.T) {
	f, err := NewScreeningFleet(catalog.NewStaticCatalog(), "b1", Requirements{Type: FleetTypeDefensive}, "admin", now)
	require.NoError(t, err)
	assert.False(t, f.IsOverCapacity(100))
}

func TestParseFleetType(t *testing.T) {
	ft, err := ParseFleetType("defensive")
	require.NoError(t, err)
	assert.Equal(t, FleetTypeDefensive, ft)

	_, err = ParseFleetType("sideways")
	assert.Error(t, err)
}

func TestScreeningSignup_Review(t *testing.T) {
	_, err := NewScreeningSignup("f1", "", "Jack", "", "", now)
	assert.Equal(t, shared.KindUnauthorized, shared.KindOf(err))

	s, err := NewScreeningSignup("f1", "user-1", "Jack", "HOLD", "Mercury", now)
	require.NoError(t, err)
	require.NoError(t, s.Review(shared.DecisionDeny, "admin", "full", now))
	assert.Equal(t, shared.ReviewStatusDenied, s.Status())
	assert.Equal(t, "full", s.ReviewReason())

	err = s.Review(shared.DecisionApprove, "admin", "", now)
	assert.Equal(t, shared.CodeAlreadyReviewed, shared.CodeOf(err))
}
