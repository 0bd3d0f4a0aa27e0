// Package metrics contains Prometheus metrics infrastructure
package metrics

import (
	"go.uber.org/fx"

	"github.com/bhhshwXD/HDTokster/internal/domain/relay/deps"
)

// Module provides metrics for fx DI
var Module = fx.Module("metrics",
	fx.Provide(
		GetDefaultMetrics,
		func(m *Metrics) deps.MetricsRecorder { return m },
	),
)
