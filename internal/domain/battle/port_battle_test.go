package battle

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/andrescamacho/portbattle-go/internal/domain/catalog"
	"github.com/andrescamacho/portbattle-go/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func validDetails() Details {
	meetup := testNow.Add(24 * time.Hour)
	return Details{
		PortName:        "Fort Royal",
		MeetupTime:      meetup,
		BattleStartTime: meetup.Add(30 * time.Minute),
		WaterType:       catalog.WaterTypeDeep,
		MeetupLocation:  "Basse-Terre",
		BRLimit:         500,
		Nation:          "France",
	}
}

func TestNewPortBattle_StartsPlanned(t *testing.T) {
	b, err := NewPortBattle(validDetails(), "user-1", testNow)

	require.NoError(t, err)
	assert.NotEmpty(t, b.ID())
	assert.Equal(t, StatusPlanned, b.Status())
	assert.Equal(t, "user-1", b.CreatorID())
	assert.True(t, b.IsOwnedBy("user-1"))
	assert.False(t, b.IsOwnedBy(""))
	assert.Equal(t, b.BattleStartTime().Add(2*time.Hour), b.EndTime())
}

func TestNewPortBattle_RejectsInvalidDetails(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(d *Details)
		field  string
	}{
		{"missing port", func(d *Details) { d.PortName = " " }, "portName"},
		{"start before meetup", func(d *Details) { d.BattleStartTime = d.MeetupTime.Add(-time.Minute) }, "battleStartTime"},
		{"zero br limit", func(d *Details) { d.BRLimit = 0 }, "brLimit"},
		{"negative br limit", func(d *Details) { d.BRLimit = -5 }, "brLimit"},
		{"bad water type", func(d *Details) { d.WaterType = "LAKE" }, "waterType"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDetails()
			tt.mutate(&d)

			_, err := NewPortBattle(d, "user-1", testNow)

			require.Error(t, err)
			assert.Equal(t, shared.KindValidation, shared.KindOf(err))
			var de *shared.DomainError
			require.True(t, errors.As(err, &de))
			assert.Contains(t, de.Fields, tt.field)
		})
	}
}

func TestNewPortBattle_StartEqualToMeetupIsAllowed(t *testing.T) {
	d := validDetails()
	d.BattleStartTime = d.MeetupTime

	_, err := NewPortBattle(d, "user-1", testNow)
	assert.NoError(t, err)
}

func TestPortBattle_TransitionTo(t *testing.T) {
	legal := [][2]Status{
		{StatusPlanned, StatusActive},
		{StatusPlanned, StatusCancelled},
		{StatusActive, StatusCompleted},
		{StatusActive, StatusCancelled},
	}
	for _, pair := range legal {
		b := ReconstructPortBattle("b1", validDetails(), pair[0], "user-1", testNow, testNow)
		assert.NoError(t, b.TransitionTo(pair[1], testNow), "%s -> %s", pair[0], pair[1])
		assert.Equal(t, pair[1], b.Status())
	}

	illegal := [][2]Status{
		{StatusPlanned, StatusCompleted},
		{StatusActive, StatusPlanned},
		{StatusCompleted, StatusActive},
		{StatusCancelled, StatusPlanned},
		{StatusPlanned, StatusPlanned},
	}
	for _, pair := range illegal {
		b := ReconstructPortBattle("b1", validDetails(), pair[0], "user-1", testNow, testNow)
		err := b.TransitionTo(pair[1], testNow)

		var ite *shared.InvalidTransitionError
		require.True(t, errors.As(err, &ite), "%s -> %s", pair[0], pair[1])
		assert.Equal(t, string(pair[0]), ite.From)
		assert.Equal(t, shared.KindConflict, shared.KindOf(err))
		assert.Equal(t, pair[0], b.Status())
	}
}

func TestPortBattle_UpdateDetailsOnlyWhilePlanned(t *testing.T) {
	b := ReconstructPortBattle("b1", validDetails(), StatusPlanned, "user-1", testNow, testNow)
	d := validDetails()
	d.PortName = "La Navasse"

	require.NoError(t, b.UpdateDetails(d, testNow.Add(time.Minute)))
	assert.Equal(t, "La Navasse", b.PortName())
	assert.Equal(t, "user-1", b.CreatorID())

	active := ReconstructPortBattle("b2", validDetails(), StatusActive, "user-1", testNow, testNow)
	err := active.UpdateDetails(d, testNow)
	assert.Equal(t, shared.KindConflict, shared.KindOf(err))
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("active")
	require.NoError(t, err)
	assert.Equal(t, StatusActive, s)

	_, err = ParseStatus("archived")
	assert.Error(t, err)
}

type pagedRepo struct {
	BattleRepository
	battles []*PortBattle
	err     error
	calls   int
}

func (r *pagedRepo) List(_ context.Context, opts ListOptions) ([]*PortBattle, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	if opts.Offset >= len(r.battles) {
		return nil, nil
	}
	end := min(opts.Offset+opts.Limit, len(r.battles))
	return r.battles[opts.Offset:end], nil
}

func TestAll_PagesLazily(t *testing.T) {
	repo := &pagedRepo{}
	for i := 0; i < 5; i++ {
		repo.battles = append(repo.battles, ReconstructPortBattle(fmt.Sprintf("b%d", i), validDetails(), StatusPlanned, "u", testNow, testNow))
	}

	var ids []string
	for b, err := range All(context.Background(), repo, ListOptions{Limit: 2}) {
		require.NoError(t, err)
		ids = append(ids, b.ID())
	}
	assert.Equal(t, []string{"b0", "b1", "b2", "b3", "b4"}, ids)
	assert.Equal(t, 3, repo.calls)

	repo.calls = 0
	for range All(context.Background(), repo, ListOptions{Limit: 2}) {
		break
	}
	assert.Equal(t, 1, repo.calls, "breaking early must not fetch more pages")
}

func TestAll_YieldsErrorOnce(t *testing.T) {
	repo := &pagedRepo{err: shared.NewUnavailableError(errors.New("connection refused"))}

	var errs []error
	for _, err := range All(context.Background(), repo, ListOptions{}) {
		errs = append(errs, err)
	}
	require.Len(t, errs, 1)
	assert.Equal(t, shared.KindUnavailable, shared.KindOf(errs[0]))
}
