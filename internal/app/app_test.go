package app

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
)

func TestCreateApp(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")
	t.Setenv("TELEGRAM_BOT_TOKEN", "test-token-123")
	t.Setenv("KAFKA_BROKERS", "")

	// Validate fx dependency graph
	require.NoError(t, fx.ValidateApp(CreateApp()))
}

func TestCreateApp_WithKafka(t *testing.T) {
	t.Setenv("BOT_TOKEN", "test-token-123")
	t.Setenv("KAFKA_BROKERS", "localhost:9093")

	require.NoError(t, fx.ValidateApp(CreateApp()))
}
