// Package telegram contains Telegram delivery layer
package telegram

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"

	"github.com/bhhshwXD/HDTokster/internal/domain/relay/entities"
)

// Constants for Telegram API
const (
	RequestTimeout = 30 * time.Second
	UploadTimeout  = 5 * time.Minute
)

// BotAPI is the part of the Telegram client the sender uses
type BotAPI interface {
	SendMessage(ctx context.Context, params *tgbot.SendMessageParams) (*models.Message, error)
	SendVideo(ctx context.Context, params *tgbot.SendVideoParams) (*models.Message, error)
	SendPhoto(ctx context.Context, params *tgbot.SendPhotoParams) (*models.Message, error)
	SendDocument(ctx context.Context, params *tgbot.SendDocumentParams) (*models.Message, error)
}

// Sender implements deps.Replier. Every reply is threaded to the message
// that started the conversation.
type Sender struct {
	bot    BotAPI
	logger zerolog.Logger
}

// NewSender creates a new Telegram sender
func NewSender(bot BotAPI, logger zerolog.Logger) *Sender {
	return &Sender{
		bot:    bot,
		logger: logger.With().Str("component", "telegram-sender").Logger(),
	}
}

// SendText sends a plain text reply
func (s *Sender) SendText(ctx context.Context, conv entities.Conversation, text string) error {
	if text == "" {
		return fmt.Errorf("message text cannot be empty")
	}

	msgCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	_, err := s.bot.SendMessage(msgCtx, &tgbot.SendMessageParams{
		ChatID:          conv.ChatID,
		Text:            text,
		ReplyParameters: replyTo(conv),
	})
	if err != nil {
		return s.handleSendError(conv, "text", err)
	}

	s.logger.Debug().Int64("chat_id", conv.ChatID).Int("text_length", len(text)).Msg("Message sent")
	return nil
}

// SendMedia uploads the file at path through the channel for kind
func (s *Sender) SendMedia(ctx context.Context, conv entities.Conversation, kind entities.ReplyKind, path, caption string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", filepath.Base(path), err)
	}
	defer file.Close()

	upload := &models.InputFileUpload{
		Filename: filepath.Base(path),
		Data:     file,
	}

	uploadCtx, cancel := context.WithTimeout(ctx, UploadTimeout)
	defer cancel()

	switch kind {
	case entities.ReplyVideo:
		_, err = s.bot.SendVideo(uploadCtx, &tgbot.SendVideoParams{
			ChatID:            conv.ChatID,
			Video:             upload,
			Caption:           caption,
			SupportsStreaming: true,
			ReplyParameters:   replyTo(conv),
		})
	case entities.ReplyPhoto:
		_, err = s.bot.SendPhoto(uploadCtx, &tgbot.SendPhotoParams{
			ChatID:          conv.ChatID,
			Photo:           upload,
			Caption:         caption,
			ReplyParameters: replyTo(conv),
		})
	default:
		_, err = s.bot.SendDocument(uploadCtx, &tgbot.SendDocumentParams{
			ChatID:          conv.ChatID,
			Document:        upload,
			Caption:         caption,
			ReplyParameters: replyTo(conv),
		})
	}
	if err != nil {
		return s.handleSendError(conv, string(kind), err)
	}

	s.logger.Info().
		Int64("chat_id", conv.ChatID).
		Str("kind", string(kind)).
		Str("file", upload.Filename).
		Msg("Media sent")
	return nil
}

// replyTo threads a reply to the originating message. The reply is still
// sent when that message was deleted in the meantime.
func replyTo(conv entities.Conversation) *models.ReplyParameters {
	if conv.MessageID == 0 {
		return nil
	}
	return &models.ReplyParameters{
		MessageID:                conv.MessageID,
		AllowSendingWithoutReply: true,
	}
}

func (s *Sender) handleSendError(conv entities.Conversation, kind string, err error) error {
	errorMsg := err.Error()

	switch {
	case strings.Contains(errorMsg, "Forbidden"):
		s.logger.Warn().Int64("chat_id", conv.ChatID).Msg("User blocked the bot or chat not found")
	case strings.Contains(errorMsg, "Too Many Requests"):
		s.logger.Warn().Int64("chat_id", conv.ChatID).Msg("Rate limit exceeded")
	case strings.Contains(errorMsg, "Request Entity Too Large"):
		s.logger.Warn().Int64("chat_id", conv.ChatID).Str("kind", kind).Msg("File rejected as too large")
	default:
		s.logger.Error().Int64("chat_id", conv.ChatID).Str("kind", kind).Err(err).Msg("Failed to send reply")
	}

	return fmt.Errorf("failed to send %s: %w", kind, err)
}
