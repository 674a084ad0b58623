package metrics

import (
	"context"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// BattleStatusSource reports how many battles sit in each lifecycle status.
// The server wires it to the ListBattles query on the mediator.
type BattleStatusSource func(ctx context.Context) (counts map[string]int, mock bool, err error)

// DomainMetricsCollector handles signup, code and battle metrics
type DomainMetricsCollector struct {
	source BattleStatusSource

	battlesCreated   *prometheus.CounterVec
	fallbackReads    *prometheus.CounterVec
	budgetRejections prometheus.Counter
	signupsSubmitted *prometheus.CounterVec
	codesRedeemed    prometheus.Counter
	signupsReviewed  *prometheus.CounterVec
	battlesByStatus  *prometheus.GaugeVec
	servingMockData  prometheus.Gauge

	// Lifecycle
	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
}

// NewDomainMetricsCollector creates a new domain metrics collector.
// source may be nil, in which case Start does not poll.
func NewDomainMetricsCollector(source BattleStatusSource) *DomainMetricsCollector {
	return &DomainMetricsCollector{
		source: source,

		battlesCreated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "battles_created_total",
				Help:      "Port battles created by water type",
			},
			[]string{"water_type"},
		),

		fallbackReads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "fallback_reads_total",
				Help:      "Reads answered from the built-in mock dataset because storage was unavailable",
			},
			[]string{"query"},
		),

		budgetRejections: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "budget_rejections_total",
				Help:      "Role writes rejected because they would exceed the BR limit",
			},
		),

		signupsSubmitted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "signups_submitted_total",
				Help:      "Accepted signups by origin",
			},
			[]string{"external"},
		),

		codesRedeemed: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "captains_codes_redeemed_total",
				Help:      "Captains code uses consumed by external signups",
			},
		),

		signupsReviewed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "reviews_total",
				Help:      "Review decisions by request kind",
			},
			[]string{"kind", "decision"},
		),

		battlesByStatus: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "battles",
				Help:      "Known port battles by status",
			},
			[]string{"status"},
		),

		servingMockData: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "serving_mock_data",
				Help:      "1 while battle listings fall back to the mock dataset",
			},
		),
	}
}

// Register registers all domain metrics with the Prometheus registry
func (c *DomainMetricsCollector) Register() error {
	if Registry == nil {
		return nil // Metrics not enabled
	}

	metrics := []prometheus.Collector{
		c.battlesCreated,
		c.fallbackReads,
		c.budgetRejections,
		c.signupsSubmitted,
		c.codesRedeemed,
		c.signupsReviewed,
		c.battlesByStatus,
		c.servingMockData,
	}

	for _, metric := range metrics {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}

	return nil
}

// Start begins polling battle status counts every interval
func (c *DomainMetricsCollector) Start(ctx context.Context, interval time.Duration) {
	c.ctx, c.cancelFunc = context.WithCancel(ctx)
	if c.source == nil {
		return
	}

	c.wg.Add(1)
	go c.pollBattles(interval)
}

// Stop gracefully stops the collector
func (c *DomainMetricsCollector) Stop() {
	if c.cancelFunc != nil {
		c.cancelFunc()
	}
	c.wg.Wait()
}

func (c *DomainMetricsCollector) pollBattles(interval time.Duration) {
	defer c.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	c.updateBattles()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			c.updateBattles()
		}
	}
}

func (c *DomainMetricsCollector) updateBattles() {
	counts, mock, err := c.source(c.ctx)
	if err != nil {
		log.Printf("Failed to poll battle status counts: %v", err)
		return
	}

	c.battlesByStatus.Reset()
	for status, n := range counts {
		c.battlesByStatus.WithLabelValues(status).Set(float64(n))
	}
	if mock {
		c.servingMockData.Set(1)
	} else {
		c.servingMockData.Set(0)
	}
}

func (c *DomainMetricsCollector) RecordBattleCreated(waterType string) {
	c.battlesCreated.WithLabelValues(waterType).Inc()
}

func (c *DomainMetricsCollector) RecordFallbackRead(query string) {
	c.fallbackReads.WithLabelValues(query).Inc()
}

func (c *DomainMetricsCollector) RecordBudgetRejected() {
	c.budgetRejections.Inc()
}

func (c *DomainMetricsCollector) RecordSignupSubmitted(external bool) {
	c.signupsSubmitted.WithLabelValues(strconv.FormatBool(external)).Inc()
}

func (c *DomainMetricsCollector) RecordCodeRedeemed() {
	c.codesRedeemed.Inc()
}

func (c *DomainMetricsCollector) RecordSignupReviewed(kind, decision string) {
	c.signupsReviewed.WithLabelValues(kind, decision).Inc()
}
