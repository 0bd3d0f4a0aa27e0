// Package telegram contains Telegram bot infrastructure
package telegram

import (
	"context"
	"errors"
	"fmt"
	"sync"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"
)

// Bot wraps the Telegram bot for infrastructure layer
type Bot struct {
	bot    *tgbot.Bot
	logger zerolog.Logger

	mu         sync.Mutex
	onShutdown []func(context.Context) error
}

// NewBot creates a new Telegram bot wrapper. Only message updates are
// polled.
func NewBot(token string, logger zerolog.Logger) (*Bot, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram token is required")
	}

	logger = logger.With().Str("component", "telegram").Logger()

	opts := []tgbot.Option{
		tgbot.WithDefaultHandler(defaultHandler(logger)),
		tgbot.WithErrorsHandler(errorsHandler(logger)),
		tgbot.WithAllowedUpdates(tgbot.AllowedUpdates{"message"}),
	}

	bot, err := tgbot.New(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	logger.Info().Msg("Telegram bot created successfully")

	return &Bot{
		bot:    bot,
		logger: logger,
	}, nil
}

// Raw returns the underlying telegram bot for handler registration
func (b *Bot) Raw() *tgbot.Bot {
	return b.bot
}

// Start starts long polling (blocking call)
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info().Msg("Starting Telegram bot...")
	b.bot.Start(ctx)
	b.logger.Info().Msg("Telegram bot stopped")
	return nil
}

// OnShutdown registers fn to run on stop, after polling has ended and
// every in-flight update handler has returned. Hooks run in order.
func (b *Bot) OnShutdown(fn func(context.Context) error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onShutdown = append(b.onShutdown, fn)
}

func (b *Bot) runShutdown(ctx context.Context) error {
	b.mu.Lock()
	hooks := append([]func(context.Context) error(nil), b.onShutdown...)
	b.mu.Unlock()

	var errs []error
	for _, fn := range hooks {
		if err := fn(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Stop stops the bot
func (b *Bot) Stop() error {
	b.logger.Info().Msg("Stopping Telegram bot...")
	return nil
}

// defaultHandler receives updates no route matched: non-text messages
// and unknown commands. They are ignored.
func defaultHandler(logger zerolog.Logger) tgbot.HandlerFunc {
	return func(_ context.Context, _ *tgbot.Bot, update *models.Update) {
		if update.Message == nil {
			return
		}
		logger.Debug().
			Int64("chat_id", update.Message.Chat.ID).
			Int("message_id", update.Message.ID).
			Msg("Ignoring unrouted message")
	}
}

func errorsHandler(logger zerolog.Logger) tgbot.ErrorsHandler {
	return func(err error) {
		logger.Error().Err(err).Msg("Telegram transport error")
	}
}
