package ytdlp

import (
	"context"
	"errors"
	"testing"

	ytdlp "github.com/lrstanley/go-ytdlp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bhhshwXD/HDTokster/config"
)

func newTestRuntime(cfg *config.ExtractorConfig) *Runtime {
	return NewRuntime(cfg, zerolog.Nop())
}

func TestPrepare_ExistingExecutable(t *testing.T) {
	rt := newTestRuntime(&config.ExtractorConfig{Executable: "yt-dlp"})
	rt.lookPath = func(string) (string, error) { return "/usr/bin/yt-dlp", nil }
	rt.install = func(context.Context, *ytdlp.InstallOptions) (*ytdlp.ResolvedInstall, error) {
		t.Fatal("install must not run without auto install")
		return nil, nil
	}

	require.NoError(t, rt.Prepare(context.Background()))
	assert.True(t, rt.IsHealthy())
}

func TestPrepare_MissingExecutableIsNotFatal(t *testing.T) {
	rt := newTestRuntime(&config.ExtractorConfig{Executable: "yt-dlp"})
	rt.lookPath = func(string) (string, error) { return "", errors.New("not found") }

	require.NoError(t, rt.Prepare(context.Background()))
	assert.False(t, rt.IsHealthy())
}

func TestPrepare_AutoInstall(t *testing.T) {
	rt := newTestRuntime(&config.ExtractorConfig{AutoInstall: true})
	calls := 0
	rt.install = func(context.Context, *ytdlp.InstallOptions) (*ytdlp.ResolvedInstall, error) {
		calls++
		return &ytdlp.ResolvedInstall{}, nil
	}

	assert.False(t, rt.IsHealthy())
	require.NoError(t, rt.Prepare(context.Background()))
	assert.Equal(t, 1, calls)
	assert.True(t, rt.IsHealthy())
}

func TestPrepare_AutoInstallFailure(t *testing.T) {
	rt := newTestRuntime(&config.ExtractorConfig{AutoInstall: true})
	rt.install = func(context.Context, *ytdlp.InstallOptions) (*ytdlp.ResolvedInstall, error) {
		return nil, errors.New("github unreachable")
	}

	err := rt.Prepare(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "github unreachable")
	assert.False(t, rt.IsHealthy())
}
