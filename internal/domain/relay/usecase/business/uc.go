// Package business contains business logic for the relay domain
package business

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/bhhshwXD/HDTokster/config"
	"github.com/bhhshwXD/HDTokster/internal/domain/relay/classify"
	"github.com/bhhshwXD/HDTokster/internal/domain/relay/consts"
	"github.com/bhhshwXD/HDTokster/internal/domain/relay/deps"
	"github.com/bhhshwXD/HDTokster/internal/domain/relay/dto"
	"github.com/bhhshwXD/HDTokster/internal/domain/relay/entities"
	relayerrors "github.com/bhhshwXD/HDTokster/internal/domain/relay/errors"
	pkgerrors "github.com/bhhshwXD/HDTokster/pkg/errors"
	"github.com/bhhshwXD/HDTokster/pkg/tempdir"
)

const (
	tempDirPattern = "hdtok-*"
	publishTimeout = 5 * time.Second
)

// UseCase contains business logic for relay operations
type UseCase struct {
	extractor deps.MediaExtractor
	replier   deps.Replier
	publisher deps.EventPublisher
	metrics   deps.MetricsRecorder
	tempRoot  string
	logger    zerolog.Logger
}

// NewUseCase creates a new UseCase instance
func NewUseCase(
	extractor deps.MediaExtractor,
	replier deps.Replier,
	publisher deps.EventPublisher,
	metrics deps.MetricsRecorder,
	cfg *config.RelayConfig,
	logger zerolog.Logger,
) *UseCase {
	return &UseCase{
		extractor: extractor,
		replier:   replier,
		publisher: publisher,
		metrics:   metrics,
		tempRoot:  cfg.TempDir,
		logger:    logger.With().Str("component", "relay-usecase").Logger(),
	}
}

// HandleStart handles /start command
func (uc *UseCase) HandleStart(ctx context.Context, req *dto.StartCommandRequest) (*dto.CommandResponse, error) {
	uc.logger.Info().
		Int64("chat_id", req.ChatID).
		Str("username", req.Username).
		Msg("User started bot")

	return &dto.CommandResponse{Message: consts.MsgStart}, nil
}

// HandleHelp handles /help command
func (uc *UseCase) HandleHelp(ctx context.Context) (*dto.CommandResponse, error) {
	return &dto.CommandResponse{Message: consts.MsgHelp}, nil
}

// HandleLink downloads the media behind the link in req and replies with
// every produced file, in order, followed by a completion notice.
//
// A file that cannot be delivered gets a text notice and the remaining
// files are still sent. A returned error means a reply to the user could
// not be sent or the scratch directory could not be managed; it is left
// to the caller's fault boundary. The request directory is removed
// before HandleLink returns.
func (uc *UseCase) HandleLink(ctx context.Context, req *dto.LinkRequest) (report *dto.RelayReport, err error) {
	start := time.Now()
	report = &dto.RelayReport{RequestID: req.RequestID}

	defer func() {
		report.Duration = time.Since(start)
		uc.finish(ctx, req, report, err)
	}()

	conv := req.Conversation
	link := strings.TrimSpace(req.Text)
	if link == "" {
		report.Status = dto.RelayStatusRejected
		report.Cause = relayerrors.ErrEmptyLink
		return report, uc.reply(ctx, conv, consts.MsgSendLink)
	}

	if err := uc.reply(ctx, conv, consts.MsgAccepted); err != nil {
		return report, err
	}

	err = tempdir.With(uc.tempRoot, tempDirPattern, func(dir string) error {
		uc.logger.Info().
			Str("request_id", req.RequestID).
			Str("url", link).
			Str("dir", dir).
			Msg("Downloading link")

		files := uc.extractor.Extract(ctx, link, dir)
		report.Files = len(files)
		if len(files) == 0 {
			report.Status = dto.RelayStatusFailed
			report.Cause = relayerrors.ErrNoMedia
			return uc.reply(ctx, conv, consts.MsgDownloadFailed)
		}

		for _, file := range files {
			if err := uc.deliver(ctx, conv, file); err != nil {
				report.Failed++
				uc.logger.Error().Err(err).
					Str("request_id", req.RequestID).
					Str("file", file.Name).
					Msg("Failed to send file")
				if err := uc.reply(ctx, conv, fmt.Sprintf(consts.MsgSendFileFailed, file.Name)); err != nil {
					return err
				}
				continue
			}
			report.Sent++
		}

		report.Status = dto.RelayStatusCompleted
		if report.Failed > 0 {
			report.Status = dto.RelayStatusPartial
		}
		return uc.reply(ctx, conv, consts.MsgDone)
	})
	if err != nil && !isReplyError(err) {
		err = pkgerrors.Wrap(relayerrors.ErrTempDir, err)
	}
	return report, err
}

// deliver sends one file through the reply channel picked by its
// extension and size
func (uc *UseCase) deliver(ctx context.Context, conv entities.Conversation, file entities.MediaFile) error {
	info, err := os.Stat(file.Path)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", file.Name, err)
	}

	kind := classify.Classify(filepath.Ext(file.Path), info.Size())
	caption := fmt.Sprintf(consts.CaptionFormat, classify.HumanSize(info.Size()))

	err = uc.replier.SendMedia(ctx, conv, kind, file.Path, caption)
	uc.metrics.RecordDelivery(string(kind), err == nil)
	if err != nil {
		return pkgerrors.Wrap(relayerrors.ErrDeliveryFailed, err)
	}
	return nil
}

// replyError marks a failed text reply so it is not reported as a
// scratch directory failure
type replyError struct {
	err error
}

func (e *replyError) Error() string { return e.err.Error() }
func (e *replyError) Unwrap() error { return e.err }

func isReplyError(err error) bool {
	var target *replyError
	return errors.As(err, &target)
}

func (uc *UseCase) reply(ctx context.Context, conv entities.Conversation, text string) error {
	if err := uc.replier.SendText(ctx, conv, text); err != nil {
		return &replyError{err: pkgerrors.Wrap(relayerrors.ErrDeliveryFailed, err)}
	}
	return nil
}

// finish records metrics and publishes the outcome. Requests that ended
// in an error are recorded but not published.
func (uc *UseCase) finish(ctx context.Context, req *dto.LinkRequest, report *dto.RelayReport, err error) {
	status := string(report.Status)
	if err != nil || status == "" {
		status = "error"
	}
	uc.metrics.RecordRelay(status, report.Duration.Seconds())

	logEvent := uc.logger.Info()
	if err != nil {
		logEvent = uc.logger.Error().Err(err)
	} else if report.Cause != nil {
		logEvent = logEvent.AnErr("cause", report.Cause).Str("error_type", pkgerrors.TypeOf(report.Cause).String())
	}
	logEvent.
		Str("request_id", report.RequestID).
		Int64("chat_id", req.Conversation.ChatID).
		Str("status", status).
		Int("files", report.Files).
		Int("sent", report.Sent).
		Int("failed", report.Failed).
		Dur("elapsed", report.Duration).
		Msg("Link handled")

	if status == "error" || report.Status == dto.RelayStatusRejected {
		return
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	event := &dto.RelayCompletedEvent{
		RequestID:  report.RequestID,
		ChatID:     req.Conversation.ChatID,
		Status:     string(report.Status),
		Files:      report.Files,
		Sent:       report.Sent,
		Failed:     report.Failed,
		Reason:     reasonOf(report.Cause),
		DurationMs: report.Duration.Milliseconds(),
		HandledAt:  time.Now().UTC().Format(time.RFC3339),
	}
	if pubErr := uc.publisher.PublishRelayCompleted(pubCtx, event); pubErr != nil {
		uc.logger.Warn().Err(pubErr).Str("request_id", report.RequestID).Msg("Failed to publish relay event")
	}
}

func reasonOf(cause error) string {
	if cause == nil {
		return ""
	}
	return cause.Error()
}
