package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/portbattle-go/internal/application/mediator"
	"github.com/andrescamacho/portbattle-go/internal/domain/shared"
)

type fakeRequest struct{}

func TestPrometheusMiddleware(t *testing.T) {
	InitRegistry()
	t.Cleanup(func() { Registry = nil })

	collector := NewCommandMetricsCollector()
	require.NoError(t, collector.Register())
	mw := PrometheusMiddleware(collector)

	_, err := mw(context.Background(), &fakeRequest{}, func(ctx context.Context, r mediator.Request) (mediator.Response, error) {
		return "ok", nil
	})
	require.NoError(t, err)

	_, err = mw(context.Background(), &fakeRequest{}, func(ctx context.Context, r mediator.Request) (mediator.Response, error) {
		return nil, shared.NewNotFoundError("battle", "x")
	})
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(collector.commandsTotal.WithLabelValues("fakeRequest", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.commandsTotal.WithLabelValues("fakeRequest", "not_found")))
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "success", statusLabel(nil))
	assert.Equal(t, "conflict", statusLabel(shared.NewDuplicateVouchError("a")))
	assert.Equal(t, "internal", statusLabel(errors.New("boom")))
}

func TestDomainMetricsCollector(t *testing.T) {
	InitRegistry()
	t.Cleanup(func() {
		Registry = nil
		SetGlobalDomainCollector(nil)
	})

	source := func(ctx context.Context) (map[string]int, bool, error) {
		return map[string]int{"UPCOMING": 2, "COMPLETED": 1}, true, nil
	}
	c := NewDomainMetricsCollector(source)
	require.NoError(t, c.Register())
	SetGlobalDomainCollector(c)

	RecordBattleCreated("DEEP_WATER")
	RecordSignupSubmitted(true)
	RecordSignupSubmitted(false)
	RecordSignupReviewed("role", "approve")
	RecordBudgetRejected()

	assert.Equal(t, 1.0, testutil.ToFloat64(c.battlesCreated.WithLabelValues("DEEP_WATER")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.signupsSubmitted.WithLabelValues("true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.signupsReviewed.WithLabelValues("role", "approve")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.budgetRejections))

	c.Start(context.Background(), time.Hour)
	defer c.Stop()
	assert.Eventually(t, func() bool {
		return testutil.ToFloat64(c.battlesByStatus.WithLabelValues("UPCOMING")) == 2 &&
			testutil.ToFloat64(c.servingMockData) == 1
	}, time.Second, 10*time.Millisecond)
}

func TestRecordersAreNoOpsWithoutCollector(t *testing.T) {
	SetGlobalDomainCollector(nil)
	assert.NotPanics(t, func() {
		RecordCodeRedeemed()
		RecordFallbackRead("ListBattles")
	})
}
