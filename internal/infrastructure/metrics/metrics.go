package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the relay bot
type Metrics struct {
	// Link handling metrics
	RelaysTotal   *prometheus.CounterVec
	RelayDuration prometheus.Histogram

	// Extraction metrics
	ExtractionsTotal   *prometheus.CounterVec
	ExtractionDuration prometheus.Histogram
	ExtractedFiles     prometheus.Counter

	// Delivery metrics
	DeliveriesTotal *prometheus.CounterVec

	// Fault boundary
	FaultsTotal *prometheus.CounterVec

	// Kafka metrics
	KafkaEventsProduced prometheus.Counter
	KafkaProduceErrors  prometheus.Counter
}

var (
	// DefaultMetrics is the default metrics instance
	DefaultMetrics *Metrics
	once           sync.Once
)

// GetDefaultMetrics returns the singleton metrics instance
func GetDefaultMetrics() *Metrics {
	once.Do(func() {
		DefaultMetrics = NewMetrics(prometheus.DefaultRegisterer)
	})
	return DefaultMetrics
}

// NewMetrics creates a Metrics instance registered with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RelaysTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hdtokster_relays_total",
				Help: "Total number of handled link messages by final status",
			},
			[]string{"status"},
		),
		RelayDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "hdtokster_relay_duration_seconds",
			Help:    "Time from receiving a link to the completion notice",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}),

		ExtractionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hdtokster_extractions_total",
				Help: "Total number of extraction engine runs by outcome",
			},
			[]string{"outcome"},
		),
		ExtractionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "hdtokster_extraction_duration_seconds",
			Help:    "Duration of extraction engine runs in seconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}),
		ExtractedFiles: factory.NewCounter(prometheus.CounterOpts{
			Name: "hdtokster_extracted_files_total",
			Help: "Total number of files produced by the extraction engine",
		}),

		DeliveriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hdtokster_deliveries_total",
				Help: "Total number of media replies by reply kind and result",
			},
			[]string{"kind", "result"},
		),

		FaultsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hdtokster_faults_total",
				Help: "Total number of faults caught by the handler fault boundary",
			},
			[]string{"source"},
		),

		KafkaEventsProduced: factory.NewCounter(prometheus.CounterOpts{
			Name: "hdtokster_kafka_events_produced_total",
			Help: "Total number of relay events produced to Kafka",
		}),
		KafkaProduceErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "hdtokster_kafka_produce_errors_total",
			Help: "Total number of Kafka produce errors",
		}),
	}
}

// RecordRelay records a handled link with its final status
func (m *Metrics) RecordRelay(status string, seconds float64) {
	if status == "" {
		status = "unknown"
	}
	m.RelaysTotal.WithLabelValues(status).Inc()
	m.RelayDuration.Observe(seconds)
}

// RecordExtraction records one engine run
func (m *Metrics) RecordExtraction(outcome string, files int, seconds float64) {
	if outcome == "" {
		outcome = "unknown"
	}
	m.ExtractionsTotal.WithLabelValues(outcome).Inc()
	m.ExtractionDuration.Observe(seconds)
	// Only add positive values to prevent counter from going backwards
	if files > 0 {
		m.ExtractedFiles.Add(float64(files))
	}
}

// RecordDelivery records one media reply attempt
func (m *Metrics) RecordDelivery(kind string, ok bool) {
	result := "ok"
	if !ok {
		result = "failed"
	}
	m.DeliveriesTotal.WithLabelValues(kind, result).Inc()
}

// RecordFault records a fault caught by the fault boundary
func (m *Metrics) RecordFault(source string) {
	if source == "" {
		source = "unknown"
	}
	m.FaultsTotal.WithLabelValues(source).Inc()
}

// RecordKafkaEvent records a produced Kafka event
func (m *Metrics) RecordKafkaEvent() {
	m.KafkaEventsProduced.Inc()
}

// RecordKafkaError records a Kafka produce error
func (m *Metrics) RecordKafkaError() {
	m.KafkaProduceErrors.Inc()
}
