package telegram

import (
	"context"
	"fmt"
	"runtime/debug"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bhhshwXD/HDTokster/internal/domain/relay/consts"
	"github.com/bhhshwXD/HDTokster/internal/domain/relay/deps"
	"github.com/bhhshwXD/HDTokster/internal/domain/relay/dto"
	"github.com/bhhshwXD/HDTokster/internal/domain/relay/entities"
	relayerrors "github.com/bhhshwXD/HDTokster/internal/domain/relay/errors"
	"github.com/bhhshwXD/HDTokster/internal/domain/relay/usecase/business"
	pkgerrors "github.com/bhhshwXD/HDTokster/pkg/errors"
)

// Fault sources reported to metrics
const (
	faultSourcePanic = "panic"
)

// Handlers contains Telegram message handlers. Every handler runs behind
// the fault boundary: errors and panics are logged and the user gets a
// best-effort internal error notice.
type Handlers struct {
	uc      *business.UseCase
	replier deps.Replier
	metrics deps.MetricsRecorder
	logger  zerolog.Logger
}

// NewHandlers creates new Telegram handlers
func NewHandlers(uc *business.UseCase, replier deps.Replier, metrics deps.MetricsRecorder, logger zerolog.Logger) *Handlers {
	return &Handlers{
		uc:      uc,
		replier: replier,
		metrics: metrics,
		logger:  logger.With().Str("component", "telegram-handlers").Logger(),
	}
}

// HandleStart handles /start command
func (h *Handlers) HandleStart(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	h.guard(ctx, update, "/start", func(ctx context.Context, msg *models.Message) error {
		req := &dto.StartCommandRequest{
			ChatID:   msg.Chat.ID,
			Username: username(msg),
		}
		resp, err := h.uc.HandleStart(ctx, req)
		if err != nil {
			return err
		}
		return h.replier.SendText(ctx, conversationOf(msg), resp.Message)
	})
}

// HandleHelp handles /help command
func (h *Handlers) HandleHelp(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	h.guard(ctx, update, "/help", func(ctx context.Context, msg *models.Message) error {
		resp, err := h.uc.HandleHelp(ctx)
		if err != nil {
			return err
		}
		return h.replier.SendText(ctx, conversationOf(msg), resp.Message)
	})
}

// HandleLink handles a plain text message carrying a link
func (h *Handlers) HandleLink(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	h.guard(ctx, update, "link", func(ctx context.Context, msg *models.Message) error {
		req := &dto.LinkRequest{
			RequestID:    uuid.NewString(),
			Conversation: conversationOf(msg),
			Text:         msg.Text,
		}
		_, err := h.uc.HandleLink(ctx, req)
		return err
	})
}

// Recover is a bot middleware that turns a panic in next into a fault
func (h *Handlers) Recover(next tgbot.HandlerFunc) tgbot.HandlerFunc {
	return func(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
		defer func() {
			if r := recover(); r != nil {
				err := pkgerrors.Wrap(relayerrors.ErrUnexpectedPanic, fmt.Errorf("%v", r))
				h.logger.Error().Bytes("stack", debug.Stack()).Interface("panic", r).Msg("Recovered from handler panic")
				h.handleFault(ctx, update, faultSourcePanic, err)
			}
		}()
		next(ctx, bot, update)
	}
}

// guard runs fn for the message in update and routes its error to the
// fault boundary
func (h *Handlers) guard(ctx context.Context, update *models.Update, command string, fn func(context.Context, *models.Message) error) {
	if update == nil || update.Message == nil {
		return
	}
	msg := update.Message

	h.logCommand(msg.Chat.ID, command, "processing")
	if err := fn(ctx, msg); err != nil {
		h.handleFault(ctx, update, command, err)
		return
	}
	h.logCommand(msg.Chat.ID, command, "success")
}

// handleFault logs err and tries to tell the user. Failures of the notice
// itself are logged and dropped.
func (h *Handlers) handleFault(ctx context.Context, update *models.Update, source string, err error) {
	h.metrics.RecordFault(source)

	event := h.logger.Error().Err(err).
		Str("source", source).
		Str("error_type", pkgerrors.TypeOf(err).String())
	if update != nil && update.Message != nil {
		event = event.Int64("chat_id", update.Message.Chat.ID)
	}
	event.Msg("Update error")

	if update == nil || update.Message == nil {
		return
	}

	noticeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), RequestTimeout)
	defer cancel()

	if sendErr := h.replier.SendText(noticeCtx, conversationOf(update.Message), consts.MsgInternalError); sendErr != nil {
		h.logger.Warn().Err(sendErr).Int64("chat_id", update.Message.Chat.ID).Msg("Failed to send internal error notice")
	}
}

// logCommand logs command progress
func (h *Handlers) logCommand(chatID int64, command, result string) {
	h.logger.Info().Int64("chat_id", chatID).Str("command", command).Str("result", result).Msg("Telegram command processed")
}

func conversationOf(msg *models.Message) entities.Conversation {
	return entities.Conversation{
		ChatID:    msg.Chat.ID,
		MessageID: msg.ID,
	}
}

func username(msg *models.Message) string {
	if msg.From == nil {
		return ""
	}
	return msg.From.Username
}
