package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/metric"
)

// RegisterRateLimiterGauge exports the number of tracked rate limit keys, read through size
// at collection time.
func RegisterRateLimiterGauge(meterProvider metric.MeterProvider, namespace string, size func() int) error {
	meter := meterProvider.Meter(namespace)

	_, err := meter.Int64ObservableGauge(
		fmt.Sprintf("%s_rate_limiter_entries", namespace),
		metric.WithDescription("Number of rate limit windows held in memory"),
		metric.WithUnit("{entry}"),
		metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
			o.Observe(int64(size()))
			return nil
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to create rate limiter gauge: %w", err)
	}
	return nil
}
