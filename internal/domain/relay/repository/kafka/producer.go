// Package kafka contains Kafka repository implementations
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog"

	"github.com/bhhshwXD/HDTokster/config"
	"github.com/bhhshwXD/HDTokster/internal/domain/relay/dto"
	relayerrors "github.com/bhhshwXD/HDTokster/internal/domain/relay/errors"
	pkgerrors "github.com/bhhshwXD/HDTokster/pkg/errors"
)

// unhealthyAfter is the number of consecutive send failures after which
// the producer reports itself unhealthy.
const unhealthyAfter = 3

// ProduceRecorder records producer outcomes
type ProduceRecorder interface {
	RecordKafkaEvent()
	RecordKafkaError()
}

// Producer implements deps.EventPublisher on top of a sarama SyncProducer
type Producer struct {
	producer sarama.SyncProducer
	topic    string
	metrics  ProduceRecorder
	logger   zerolog.Logger

	mu       sync.Mutex
	failures int
	closed   bool
}

// NewProducer creates a new Kafka producer for relay events
func NewProducer(cfg *config.KafkaConfig, metrics ProduceRecorder, logger zerolog.Logger) (*Producer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("no kafka brokers specified")
	}

	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = 3
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Compression = sarama.CompressionSnappy

	producer, err := sarama.NewSyncProducer(cfg.Brokers, saramaConfig)
	if err != nil {
		return nil, pkgerrors.Wrap(relayerrors.ErrKafkaProducer, fmt.Errorf("failed to create Kafka producer: %w", err))
	}

	logger.Info().Strs("brokers", cfg.Brokers).Str("topic", cfg.RelayTopic).Msg("Kafka producer initialized successfully")

	return newProducer(producer, cfg.RelayTopic, metrics, logger), nil
}

func newProducer(producer sarama.SyncProducer, topic string, metrics ProduceRecorder, logger zerolog.Logger) *Producer {
	return &Producer{
		producer: producer,
		topic:    topic,
		metrics:  metrics,
		logger:   logger.With().Str("component", "kafka-producer").Logger(),
	}
}

// PublishRelayCompleted sends the outcome of a handled link. The request
// ID is the message key so events of one request share a partition.
func (p *Producer) PublishRelayCompleted(ctx context.Context, event *dto.RelayCompletedEvent) error {
	if event == nil {
		return fmt.Errorf("event cannot be nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	jsonData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event to JSON: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.RequestID),
		Value: sarama.ByteEncoder(jsonData),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte("relay.completed")},
		},
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		p.recordFailure()
		p.logger.Error().Err(err).Str("topic", p.topic).Str("request_id", event.RequestID).Msg("Failed to send Kafka message")
		return pkgerrors.Wrap(relayerrors.ErrKafkaProducer, err)
	}
	p.recordSuccess()

	p.logger.Debug().
		Str("topic", p.topic).
		Str("request_id", event.RequestID).
		Int32("partition", partition).
		Int64("offset", offset).
		Msg("Kafka message sent successfully")

	return nil
}

// IsHealthy returns false once the producer is closed or after several
// consecutive send failures
func (p *Producer) IsHealthy() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.closed && p.failures < unhealthyAfter
}

// Close closes the Kafka producer
func (p *Producer) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	if err := p.producer.Close(); err != nil {
		p.logger.Error().Err(err).Msg("Failed to close Kafka producer")
		return err
	}
	p.logger.Info().Msg("Kafka producer closed successfully")
	return nil
}

func (p *Producer) recordFailure() {
	p.mu.Lock()
	p.failures++
	p.mu.Unlock()
	if p.metrics != nil {
		p.metrics.RecordKafkaError()
	}
}

func (p *Producer) recordSuccess() {
	p.mu.Lock()
	p.failures = 0
	p.mu.Unlock()
	if p.metrics != nil {
		p.metrics.RecordKafkaEvent()
	}
}

// NoopPublisher drops events. It is used when no brokers are configured.
type NoopPublisher struct{}

// PublishRelayCompleted does nothing
func (NoopPublisher) PublishRelayCompleted(context.Context, *dto.RelayCompletedEvent) error {
	return nil
}

// IsHealthy always returns true
func (NoopPublisher) IsHealthy() bool { return true }

// Close does nothing
func (NoopPublisher) Close() error { return nil }
