// Package observe provides application-wide observability primitives for
// Voxtale: OpenTelemetry metrics, distributed tracing, structured logging,
// and HTTP middleware that ties them together.
//
// Metrics are recorded through the OpenTelemetry Metrics API. A Prometheus
// exporter bridge is available via [InitProvider] so that metrics can still
// be scraped via the standard /metrics endpoint. A package-level default
// [Metrics] instance ([DefaultMetrics]) is provided for convenience; tests
// should use [NewMetrics] with a custom [metric.MeterProvider] to avoid
// cross-test pollution.
package observe

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all Voxtale metrics.
const meterName = "github.com/voxtale/voxtale"

// Metrics holds all OpenTelemetry metric instruments for the application.
// All fields are safe for concurrent use — the underlying OTel types handle
// their own synchronisation.
type Metrics struct {
	// --- Latency histograms per engine operation ---

	// QueueBuildDuration tracks how long one progression queue build takes,
	// including the snapshot load.
	QueueBuildDuration metric.Float64Histogram

	// AssembleDuration tracks transcript assembly latency, including text
	// normalization of every answer.
	AssembleDuration metric.Float64Histogram

	// --- Distributions ---

	// QueueLength records the size of each built queue.
	QueueLength metric.Int64Histogram

	// --- Counters ---

	// FollowUpInsertions counts follow-up splice operations. Use with
	// attribute: attribute.String("outcome", "spliced"|"dangling_parent").
	FollowUpInsertions metric.Int64Counter

	// UrgentFollowUps counts follow-ups promoted to the queue front because
	// their parent was answered.
	UrgentFollowUps metric.Int64Counter

	// AssembleRuns counts transcript assembly attempts. Use with attribute:
	//   attribute.String("status", "ok"|"no_content"|"error")
	AssembleRuns metric.Int64Counter

	// --- Error counters ---

	// StoreErrors counts failed store operations. Use with attributes:
	//   attribute.String("store", ...), attribute.String("op", ...)
	StoreErrors metric.Int64Counter

	// --- HTTP middleware ---

	// HTTPRequestDuration tracks HTTP request processing time. Use with
	// attributes: attribute.String("method", ...), attribute.String("path", ...)
	HTTPRequestDuration metric.Float64Histogram
}

// latencyBuckets defines histogram bucket boundaries (in seconds). Queue
// builds are in-memory passes over one project's outline; assembly adds a
// normalization pass per answer. Both sit well under a second except on
// pathological outlines.
var latencyBuckets = []float64{
	0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5,
}

// queueLengthBuckets covers outline sizes from a short interview to a
// multi-part book project.
var queueLengthBuckets = []float64{
	0, 1, 5, 10, 25, 50, 100, 250, 500,
}

// NewMetrics creates a fully initialised [Metrics] struct using the given
// [metric.MeterProvider]. Returns an error if any instrument creation fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	// Histograms.
	if met.QueueBuildDuration, err = m.Float64Histogram("voxtale.queue.build.duration",
		metric.WithDescription("Latency of one progression queue build, snapshot load included."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.AssembleDuration, err = m.Float64Histogram("voxtale.transcript.assemble.duration",
		metric.WithDescription("Latency of transcript assembly including text normalization."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.QueueLength, err = m.Int64Histogram("voxtale.queue.length",
		metric.WithDescription("Number of askable questions per built queue."),
		metric.WithExplicitBucketBoundaries(queueLengthBuckets...),
	); err != nil {
		return nil, err
	}

	// Counters.
	if met.FollowUpInsertions, err = m.Int64Counter("voxtale.followups.insertions",
		metric.WithDescription("Follow-up splice operations by outcome."),
	); err != nil {
		return nil, err
	}
	if met.UrgentFollowUps, err = m.Int64Counter("voxtale.followups.urgent",
		metric.WithDescription("Follow-ups promoted to the queue front."),
	); err != nil {
		return nil, err
	}
	if met.AssembleRuns, err = m.Int64Counter("voxtale.transcript.assemble.runs",
		metric.WithDescription("Transcript assembly attempts by status."),
	); err != nil {
		return nil, err
	}

	// Error counters.
	if met.StoreErrors, err = m.Int64Counter("voxtale.store.errors",
		metric.WithDescription("Failed store operations by store and operation."),
	); err != nil {
		return nil, err
	}

	// HTTP middleware histogram.
	if met.HTTPRequestDuration, err = m.Float64Histogram("voxtale.http.request.duration",
		metric.WithDescription("Operational HTTP request latency."),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// defaultMetrics is the lazily-initialised package-level Metrics instance.
var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level [Metrics] instance, creating it
// on first call using [otel.GetMeterProvider]. Subsequent calls return the
// same pointer. Panics if instrument creation fails (should not happen with
// the global provider).
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// Attr is a convenience alias for [attribute.String] to reduce verbosity at
// call sites.
func Attr(key, value string) attribute.KeyValue {
	return attribute.String(key, value)
}

// RecordQueueBuild records one queue build's duration and resulting length.
func (m *Metrics) RecordQueueBuild(ctx context.Context, seconds float64, length int) {
	m.QueueBuildDuration.Record(ctx, seconds)
	m.QueueLength.Record(ctx, int64(length))
}

// RecordFollowUpInsertion records a splice operation outcome: "spliced"
// when the parent run was found, "dangling_parent" for the silent no-op.
func (m *Metrics) RecordFollowUpInsertion(ctx context.Context, outcome string, count int) {
	m.FollowUpInsertions.Add(ctx, int64(count),
		metric.WithAttributes(attribute.String("outcome", outcome)),
	)
}

// RecordAssembleRun records a transcript assembly attempt with its status.
func (m *Metrics) RecordAssembleRun(ctx context.Context, status string) {
	m.AssembleRuns.Add(ctx, 1,
		metric.WithAttributes(attribute.String("status", status)),
	)
}

// RecordStoreError records a failed store operation.
func (m *Metrics) RecordStoreError(ctx context.Context, store, op string) {
	m.StoreErrors.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("store", store),
			attribute.String("op", op),
		),
	)
}
