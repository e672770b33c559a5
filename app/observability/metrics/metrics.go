package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
// Make fields public so they can be accessed from other packages.
type AppMetrics struct {
	RecommendRequestsTotal   metric.Int64Counter
	RecommendDurationSeconds metric.Float64Histogram
	ProviderCallErrorsTotal  metric.Int64Counter
	DbQueryDurationSeconds   metric.Float64Histogram
}

var (
	// Global instance of AppMetrics (initialized once)
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metrics instruments ONLY ONCE.
// It gets the Meter from the globally configured MeterProvider.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("someplace-api")
		var err error
		m := &AppMetrics{}

		m.RecommendRequestsTotal, err = meter.Int64Counter(
			"recommend_requests_total",
			metric.WithDescription("Total number of recommendation requests completed"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create recommend_requests_total: %v", err)
		}

		m.RecommendDurationSeconds, err = meter.Float64Histogram(
			"recommend_duration_seconds",
			metric.WithDescription("Duration of recommendation requests in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create recommend_duration_seconds: %v", err)
		}

		m.ProviderCallErrorsTotal, err = meter.Int64Counter(
			"provider_call_errors_total",
			metric.WithDescription("Total number of failed external provider calls"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create provider_call_errors_total: %v", err)
		}

		m.DbQueryDurationSeconds, err = meter.Float64Histogram(
			"db_query_duration_seconds",
			metric.WithDescription("Duration of database queries in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create db_query_duration_seconds: %v", err)
		}

		log.Println("Application metrics instruments initialized.")
		appMetrics = m
	})
}

// Get returns the globally initialized AppMetrics instance.
// Panics if InitAppMetrics was not called first.
func Get() *AppMetrics {
	if appMetrics == nil {
		panic("metrics.InitAppMetrics must be called before metrics.Get")
	}
	return appMetrics
}
