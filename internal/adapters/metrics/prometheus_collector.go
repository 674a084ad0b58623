package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// Namespace for all metrics
	namespace = "portbattle"
	// Subsystem for server metrics
	subsystem = "server"
)

var (
	// Registry is the global Prometheus registry for all metrics
	Registry *prometheus.Registry

	// globalDomainCollector is the singleton domain metrics collector
	// Set by SetGlobalDomainCollector() when metrics are enabled
	globalDomainCollector DomainMetricsRecorder
)

// DomainMetricsRecorder defines the interface for recording domain events.
// Application handlers record through the package-level functions below, which
// are no-ops until a recorder is installed.
type DomainMetricsRecorder interface {
	RecordBattleCreated(waterType string)
	RecordFallbackRead(query string)
	RecordBudgetRejected()
	RecordSignupSubmitted(external bool)
	RecordCodeRedeemed()
	RecordSignupReviewed(kind, decision string)
}

// InitRegistry initializes the Prometheus registry
// Should be called once at application startup if metrics are enabled
func InitRegistry() {
	Registry = prometheus.NewRegistry()
}

// GetRegistry returns the global Prometheus registry
// Returns nil if metrics are not initialized
func GetRegistry() *prometheus.Registry {
	return Registry
}

// IsEnabled returns true if metrics collection is enabled
func IsEnabled() bool {
	return Registry != nil
}

// SetGlobalDomainCollector sets the global domain metrics collector
func SetGlobalDomainCollector(collector DomainMetricsRecorder) {
	globalDomainCollector = collector
}

// RecordBattleCreated records a battle creation globally
func RecordBattleCreated(waterType string) {
	if globalDomainCollector != nil {
		globalDomainCollector.RecordBattleCreated(waterType)
	}
}

// RecordFallbackRead records a read served from the mock dataset globally
func RecordFallbackRead(query string) {
	if globalDomainCollector != nil {
		globalDomainCollector.RecordFallbackRead(query)
	}
}

// RecordBudgetRejected records a role write rejected by the BR budget globally
func RecordBudgetRejected() {
	if globalDomainCollector != nil {
		globalDomainCollector.RecordBudgetRejected()
	}
}

// RecordSignupSubmitted records an accepted signup globally
func RecordSignupSubmitted(external bool) {
	if globalDomainCollector != nil {
		globalDomainCollector.RecordSignupSubmitted(external)
	}
}

// RecordCodeRedeemed records a captains code use globally
func RecordCodeRedeemed() {
	if globalDomainCollector != nil {
		globalDomainCollector.RecordCodeRedeemed()
	}
}

// RecordSignupReviewed records a review decision globally.
// kind is "role", "screening" or "application".
func RecordSignupReviewed(kind, decision string) {
	if globalDomainCollector != nil {
		globalDomainCollector.RecordSignupReviewed(kind, decision)
	}
}
