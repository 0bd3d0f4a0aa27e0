// Package deps contains interface definitions for the relay domain dependencies
package deps

import (
	"context"

	"github.com/bhhshwXD/HDTokster/internal/domain/relay/dto"
	"github.com/bhhshwXD/HDTokster/internal/domain/relay/entities"
)

// Engine runs the external media extraction engine. It blocks until the
// engine finishes and writes its files into destDir.
type Engine interface {
	Extract(ctx context.Context, url, destDir string) ([]entities.EngineRecord, error)
}

// MediaExtractor turns a URL into files on disk. Failures are reported
// as an empty result.
type MediaExtractor interface {
	Extract(ctx context.Context, url, destDir string) []entities.MediaFile
}

// Replier sends replies to the conversation a request came from
type Replier interface {
	// SendText sends a plain text message
	SendText(ctx context.Context, conv entities.Conversation, text string) error

	// SendMedia uploads the file at path through the channel for kind
	SendMedia(ctx context.Context, conv entities.Conversation, kind entities.ReplyKind, path, caption string) error
}

// EventPublisher publishes relay events
type EventPublisher interface {
	// PublishRelayCompleted publishes the outcome of one handled link
	PublishRelayCompleted(ctx context.Context, event *dto.RelayCompletedEvent) error

	// Close closes the publisher
	Close() error
}

// MetricsRecorder records relay metrics
type MetricsRecorder interface {
	RecordRelay(status string, seconds float64)
	RecordExtraction(outcome string, files int, seconds float64)
	RecordDelivery(kind string, ok bool)
	RecordFault(source string)
}

// HealthChecker reports whether a component can currently serve requests
type HealthChecker interface {
	IsHealthy() bool
}
