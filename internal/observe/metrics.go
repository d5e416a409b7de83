// Package observe provides OpenTelemetry metrics for editing sessions and
// the Prometheus bridge that exposes them.
//
// Tests should use [NewMetrics] with a custom [metric.MeterProvider] backed
// by a manual reader.
package observe

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all metrics.
const meterName = "github.com/miracle2k/elrc-maker"

// Metrics holds the metric instruments of the aligner. All fields are safe
// for concurrent use.
type Metrics struct {
	// TimesSet counts timestamps written to words.
	TimesSet metric.Int64Counter

	// TimesCleared counts timestamps removed from words, explicitly or by an
	// assignment invalidating its neighbours. Use with attribute:
	//   attribute.String("reason", "explicit"|"conflict")
	TimesCleared metric.Int64Counter

	// Imports counts replaced sequences. Use with attribute:
	//   attribute.String("kind", ...)
	Imports metric.Int64Counter

	// Jumps counts "play from word" requests.
	Jumps metric.Int64Counter

	// TimedWords tracks how many words of the current sequence are timed.
	TimedWords metric.Int64UpDownCounter
}

// NewMetrics creates a fully initialised [Metrics] using mp.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.TimesSet, err = m.Int64Counter("elrc.times.set",
		metric.WithDescription("Timestamps assigned to words."),
	); err != nil {
		return nil, err
	}
	if met.TimesCleared, err = m.Int64Counter("elrc.times.cleared",
		metric.WithDescription("Timestamps removed from words by reason."),
	); err != nil {
		return nil, err
	}
	if met.Imports, err = m.Int64Counter("elrc.imports",
		metric.WithDescription("Lyrics imports by payload kind."),
	); err != nil {
		return nil, err
	}
	if met.Jumps, err = m.Int64Counter("elrc.jumps",
		metric.WithDescription("Play-from-word requests."),
	); err != nil {
		return nil, err
	}
	if met.TimedWords, err = m.Int64UpDownCounter("elrc.timed_words",
		metric.WithDescription("Timed words in the current sequence."),
	); err != nil {
		return nil, err
	}
	return met, nil
}

var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level [Metrics] instance, created on
// first call from [otel.GetMeterProvider]. Panics if instrument creation
// fails, which the global provider does not do.
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// RecordCleared counts one cleared timestamp.
func (m *Metrics) RecordCleared(ctx context.Context, conflict bool) {
	reason := "explicit"
	if conflict {
		reason = "conflict"
	}
	m.TimesCleared.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}

// RecordImport counts one import of the given kind.
func (m *Metrics) RecordImport(ctx context.Context, kind string) {
	m.Imports.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}
