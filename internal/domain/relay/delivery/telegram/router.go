package telegram

import (
	"context"
	"fmt"
	"strings"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"

	"github.com/bhhshwXD/HDTokster/internal/domain/relay/consts"
)

// Router registers Telegram bot handlers
type Router struct {
	handlers *Handlers
	logger   zerolog.Logger
}

// NewRouter creates new Telegram router
func NewRouter(handlers *Handlers, logger zerolog.Logger) *Router {
	return &Router{
		handlers: handlers,
		logger:   logger,
	}
}

// RegisterRoutes registers all handlers on the bot, each wrapped in
// Recover. Text that is not a command goes to the link handler; unknown
// commands and non-text messages fall through to the bot's default handler.
func (r *Router) RegisterRoutes(bot *tgbot.Bot) {
	bot.RegisterHandlerMatchFunc(commandMatch(consts.CommandStart.Name), r.handlers.Recover(r.handlers.HandleStart))
	bot.RegisterHandlerMatchFunc(commandMatch(consts.CommandHelp.Name), r.handlers.Recover(r.handlers.HandleHelp))
	bot.RegisterHandlerMatchFunc(isPlainText, r.handlers.Recover(r.handlers.HandleLink))

	r.logger.Info().Msg("All Telegram handlers registered successfully")
}

// PublishCommands sets the bot command menu
func (r *Router) PublishCommands(ctx context.Context, bot *tgbot.Bot) error {
	commands := make([]models.BotCommand, 0, len(consts.AllCommands))
	for _, cmd := range consts.AllCommands {
		commands = append(commands, models.BotCommand{
			Command:     cmd.Name,
			Description: cmd.Description,
		})
	}

	if _, err := bot.SetMyCommands(ctx, &tgbot.SetMyCommandsParams{Commands: commands}); err != nil {
		return fmt.Errorf("failed to set bot commands: %w", err)
	}

	r.logger.Info().Int("count", len(commands)).Msg("Bot commands menu published")
	return nil
}

// commandMatch matches "/name", "/name args" and "/name@botname"
func commandMatch(name string) tgbot.MatchFunc {
	return func(update *models.Update) bool {
		cmd, ok := commandOf(update)
		return ok && strings.EqualFold(cmd, name)
	}
}

// isPlainText matches text messages that are not commands
func isPlainText(update *models.Update) bool {
	if update == nil || update.Message == nil || update.Message.Text == "" {
		return false
	}
	_, isCommand := commandOf(update)
	return !isCommand
}

// commandOf returns the command name of a message starting with "/"
func commandOf(update *models.Update) (string, bool) {
	if update == nil || update.Message == nil {
		return "", false
	}
	text := update.Message.Text
	if !strings.HasPrefix(text, "/") {
		return "", false
	}

	token := strings.Fields(text[1:])
	if len(token) == 0 {
		return "", true
	}
	name, _, _ := strings.Cut(token[0], "@")
	return name, true
}
