// Package relay contains the media relay domain module
package relay

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/bhhshwXD/HDTokster/config"
	httpDelivery "github.com/bhhshwXD/HDTokster/internal/domain/relay/delivery/http"
	telegramDelivery "github.com/bhhshwXD/HDTokster/internal/domain/relay/delivery/telegram"
	"github.com/bhhshwXD/HDTokster/internal/domain/relay/deps"
	"github.com/bhhshwXD/HDTokster/internal/domain/relay/extraction"
	kafkaRepo "github.com/bhhshwXD/HDTokster/internal/domain/relay/repository/kafka"
	ytdlpRepo "github.com/bhhshwXD/HDTokster/internal/domain/relay/repository/ytdlp"
	"github.com/bhhshwXD/HDTokster/internal/domain/relay/usecase/business"
	"github.com/bhhshwXD/HDTokster/internal/infrastructure/http/server"
	"github.com/bhhshwXD/HDTokster/internal/infrastructure/metrics"
	"github.com/bhhshwXD/HDTokster/internal/infrastructure/telegram"
	ytdlpInfra "github.com/bhhshwXD/HDTokster/internal/infrastructure/ytdlp"
	"github.com/bhhshwXD/HDTokster/pkg/workerpool"
)

// Module provides relay domain components for fx dependency injection
var Module = fx.Module("relay",
	// Repository
	fx.Provide(
		fx.Annotate(ytdlpRepo.NewEngine, fx.As(new(deps.Engine))),
		providePublisher,
		fx.Annotate(provideEngineHealth, fx.ResultTags(`name:"engine_health"`)),
	),

	// Extraction
	fx.Provide(
		providePool,
		fx.Annotate(extraction.NewAdapter, fx.As(new(deps.MediaExtractor))),
	),

	// Delivery - Telegram sender (needs raw bot from infrastructure)
	fx.Provide(provideSender),

	// UseCase
	fx.Provide(business.NewUseCase),

	// Delivery - Telegram
	fx.Provide(telegramDelivery.NewHandlers),
	fx.Provide(telegramDelivery.NewRouter),

	// Delivery - HTTP
	fx.Provide(httpDelivery.NewHealthHandler),
	fx.Provide(httpDelivery.NewRouter),

	fx.Invoke(registerRoutes),
)

// publisherResult provides the event publisher and its health check
type publisherResult struct {
	fx.Out

	Publisher deps.EventPublisher
	Health    deps.HealthChecker `name:"publisher_health"`
}

// providePublisher creates the Kafka producer, or a no-op publisher when
// no brokers are configured
func providePublisher(lc fx.Lifecycle, cfg *config.KafkaConfig, m *metrics.Metrics, logger zerolog.Logger) (publisherResult, error) {
	if !cfg.Enabled() {
		logger.Info().Msg("Kafka brokers not configured, relay events disabled")
		noop := kafkaRepo.NoopPublisher{}
		return publisherResult{Publisher: noop, Health: noop}, nil
	}

	producer, err := kafkaRepo.NewProducer(cfg, m, logger)
	if err != nil {
		return publisherResult{}, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return producer.Close()
		},
	})

	return publisherResult{Publisher: producer, Health: producer}, nil
}

func provideEngineHealth(rt *ytdlpInfra.Runtime) deps.HealthChecker {
	return rt
}

func providePool(cfg *config.RelayConfig) *workerpool.Pool {
	return workerpool.New(cfg.MaxConcurrent)
}

// provideSender creates the Telegram reply sender with raw bot
func provideSender(bot *telegram.Bot, logger zerolog.Logger) deps.Replier {
	return telegramDelivery.NewSender(bot.Raw(), logger)
}

// registerRoutes registers Telegram and HTTP routes, publishes the command
// menu on start and waits for running downloads once polling has stopped
func registerRoutes(
	lc fx.Lifecycle,
	router *telegramDelivery.Router,
	httpRouter *httpDelivery.Router,
	srv *server.Server,
	bot *telegram.Bot,
	pool *workerpool.Pool,
	logger zerolog.Logger,
) {
	router.RegisterRoutes(bot.Raw())
	httpRouter.RegisterRoutes(srv.Router)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := router.PublishCommands(ctx, bot.Raw()); err != nil {
				logger.Warn().Err(err).Msg("Failed to publish bot commands")
			}
			return nil
		},
	})

	bot.OnShutdown(func(ctx context.Context) error {
		return drainPool(ctx, pool, logger)
	})
}

// drainPool waits for running downloads or until ctx is done
func drainPool(ctx context.Context, pool *workerpool.Pool, logger zerolog.Logger) error {
	done := make(chan struct{})
	go func() {
		pool.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		logger.Warn().Int("active", pool.Active()).Msg("Stopped before running downloads finished")
		return ctx.Err()
	}
}
