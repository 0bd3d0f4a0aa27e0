package relay

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bhhshwXD/HDTokster/pkg/workerpool"
)

func TestDrainPool_WaitsForRunningDownloads(t *testing.T) {
	pool := workerpool.New(0)
	release := make(chan struct{})
	started := make(chan struct{})

	go func() {
		_, _ = workerpool.Do(context.Background(), pool, func(context.Context) (struct{}, error) {
			close(started)
			<-release
			return struct{}{}, nil
		})
	}()
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, drainPool(ctx, pool, zerolog.Nop()), context.DeadlineExceeded)

	close(release)
	require.NoError(t, drainPool(context.Background(), pool, zerolog.Nop()))
	assert.Equal(t, 0, pool.Active())
}
