package ytdlp

import (
	"context"

	"go.uber.org/fx"
)

// Module provides the yt-dlp runtime for fx dependency injection
var Module = fx.Module("ytdlp",
	fx.Provide(NewRuntime),
	fx.Invoke(registerLifecycle),
)

func registerLifecycle(lc fx.Lifecycle, rt *Runtime) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return rt.Prepare(ctx)
		},
	})
}
