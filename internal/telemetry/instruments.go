package telemetry

import (
	"log/slog"

	"go.opentelemetry.io/otel/metric"
)

// Int64Counter creates a counter on m. A creation error is logged and the
// instrument returned by m is used as is.
func Int64Counter(m metric.Meter, name, description string) metric.Int64Counter {
	counter, err := m.Int64Counter(name, metric.WithDescription(description))
	if err != nil {
		slog.Error("Failed to create instrument", "instrument", name, "error", err)
	}
	return counter
}

// Int64UpDownCounter is Int64Counter for up-down counters.
func Int64UpDownCounter(m metric.Meter, name, description string) metric.Int64UpDownCounter {
	counter, err := m.Int64UpDownCounter(name, metric.WithDescription(description))
	if err != nil {
		slog.Error("Failed to create instrument", "instrument", name, "error", err)
	}
	return counter
}
