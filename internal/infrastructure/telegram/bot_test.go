package telegram

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
)

// syncBuffer is a log sink shared by the poller and the test
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// newPollingBot returns a bot polling a local Bot API that never has updates
func newPollingBot(t *testing.T, logs *syncBuffer) *Bot {
	t.Helper()
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(10 * time.Millisecond)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true,"result":[]}`))
	}))
	t.Cleanup(api.Close)

	logger := zerolog.New(logs)
	raw, err := tgbot.New("123:test",
		tgbot.WithSkipGetMe(),
		tgbot.WithServerURL(api.URL),
		tgbot.WithErrorsHandler(errorsHandler(logger)),
	)
	require.NoError(t, err)

	return &Bot{bot: raw, logger: logger}
}

func TestLifecycle_ShutdownHooksRunAfterPollingStops(t *testing.T) {
	logs := &syncBuffer{}
	bot := newPollingBot(t, logs)

	var (
		order           []string
		pollingFinished bool
	)
	bot.OnShutdown(func(context.Context) error {
		pollingFinished = strings.Contains(logs.String(), "Telegram bot stopped")
		order = append(order, "first")
		return nil
	})
	bot.OnShutdown(func(context.Context) error {
		order = append(order, "second")
		return nil
	})

	lc := fxtest.NewLifecycle(t)
	registerLifecycle(lc, bot)

	lc.RequireStart()
	lc.RequireStop()

	assert.True(t, pollingFinished)
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestRunShutdown_JoinsErrors(t *testing.T) {
	bot := &Bot{logger: zerolog.Nop()}
	bot.OnShutdown(func(context.Context) error { return errors.New("pool drain timed out") })
	bot.OnShutdown(func(context.Context) error { return nil })

	err := bot.runShutdown(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pool drain timed out")
}

func TestNewBot_RequiresToken(t *testing.T) {
	bot, err := NewBot("", zerolog.Nop())
	require.Error(t, err)
	assert.Nil(t, bot)
}

func TestDefaultHandler_LogsUnroutedMessage(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)

	h := defaultHandler(logger)
	h(context.Background(), nil, &models.Update{})
	assert.Empty(t, buf.String())

	h(context.Background(), nil, &models.Update{Message: &models.Message{ID: 7, Chat: models.Chat{ID: 42}}})
	assert.Contains(t, buf.String(), "Ignoring unrouted message")
	assert.Contains(t, buf.String(), `"chat_id":42`)
}

func TestErrorsHandler_LogsError(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	errorsHandler(logger)(errors.New("connection reset"))
	assert.Contains(t, buf.String(), "connection reset")
}
