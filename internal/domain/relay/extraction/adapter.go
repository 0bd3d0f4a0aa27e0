// Package extraction adapts the extraction engine to the relay use case
package extraction

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/bhhshwXD/HDTokster/internal/domain/relay/deps"
	"github.com/bhhshwXD/HDTokster/internal/domain/relay/entities"
	relayerrors "github.com/bhhshwXD/HDTokster/internal/domain/relay/errors"
	pkgerrors "github.com/bhhshwXD/HDTokster/pkg/errors"
	"github.com/bhhshwXD/HDTokster/pkg/workerpool"
)

// Metrics outcome labels
const (
	OutcomeOK          = "ok"
	OutcomeFailed      = "extraction_failed"
	OutcomeUnavailable = "engine_unavailable"
	OutcomeEmpty       = "no_media"
)

// Adapter runs the engine on a worker pool goroutine and turns its
// records into files inside destDir
type Adapter struct {
	engine  deps.Engine
	pool    *workerpool.Pool
	metrics deps.MetricsRecorder
	logger  zerolog.Logger
}

// NewAdapter creates a new extraction adapter
func NewAdapter(engine deps.Engine, pool *workerpool.Pool, metrics deps.MetricsRecorder, logger zerolog.Logger) *Adapter {
	return &Adapter{
		engine:  engine,
		pool:    pool,
		metrics: metrics,
		logger:  logger.With().Str("component", "extraction").Logger(),
	}
}

// Extract implements deps.MediaExtractor. Engine errors and panics are
// logged and reported as an empty result.
func (a *Adapter) Extract(ctx context.Context, url, destDir string) []entities.MediaFile {
	start := time.Now()

	records, err := workerpool.Do(ctx, a.pool, func(ctx context.Context) ([]entities.EngineRecord, error) {
		return a.engine.Extract(ctx, url, destDir)
	})
	if err != nil {
		event := a.logger.Error().Err(err).Str("url", url).Str("dir", destDir)
		var panicErr *workerpool.PanicError
		if errors.As(err, &panicErr) {
			event = event.Bytes("stack", panicErr.Stack)
		}
		event.Msg("Extraction engine failed")

		outcome := OutcomeFailed
		if pkgerrors.IsUnavailableError(err) {
			outcome = OutcomeUnavailable
		}
		a.metrics.RecordExtraction(outcome, 0, time.Since(start).Seconds())
		return nil
	}

	files := a.resolve(records, destDir)

	outcome := OutcomeOK
	if len(files) == 0 {
		outcome = OutcomeEmpty
	}
	a.metrics.RecordExtraction(outcome, len(files), time.Since(start).Seconds())

	a.logger.Info().
		Str("url", url).
		Int("records", len(records)).
		Int("files", len(files)).
		Dur("elapsed", time.Since(start)).
		Msg("Extraction finished")

	return files
}

// resolve maps records to existing files, keeping engine order and
// dropping duplicates. A record whose file is missing is looked up by
// "<id>.*" because the final extension is only known after merging.
func (a *Adapter) resolve(records []entities.EngineRecord, destDir string) []entities.MediaFile {
	seen := make(map[string]struct{})
	var files []entities.MediaFile

	add := func(path string) {
		path = filepath.Clean(path)
		if _, ok := seen[path]; ok {
			return
		}
		if !insideDir(destDir, path) {
			a.logger.Warn().
				Err(relayerrors.ErrFileOutsideWorkdir).
				Str("path", path).
				Str("dir", destDir).
				Msg("Ignoring file outside request directory")
			return
		}
		seen[path] = struct{}{}
		files = append(files, entities.MediaFile{Path: path, Name: filepath.Base(path)})
	}

	for _, rec := range records {
		if rec.Filename != "" {
			path := rec.Filename
			if !filepath.IsAbs(path) {
				path = filepath.Join(destDir, path)
			}
			if isRegularFile(path) {
				add(path)
				continue
			}
		}

		matches := scanByID(destDir, rec.ID)
		if len(matches) == 0 {
			a.logger.Warn().
				Str("id", rec.ID).
				Str("filename", rec.Filename).
				Msg("Engine record has no file on disk")
			continue
		}
		for _, m := range matches {
			add(m)
		}
	}

	return files
}

// scanByID returns regular files in dir named "<id>.<ext>", sorted.
// Partial downloads (.part, .ytdl) are skipped.
func scanByID(dir, id string) []string {
	if id == "" || strings.ContainsAny(id, `/\`) {
		return nil
	}

	pattern := filepath.Join(dir, escapeGlob(id)+".*")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil
	}

	var out []string
	for _, m := range matches {
		ext := strings.ToLower(filepath.Ext(m))
		if ext == ".part" || ext == ".ytdl" || !isRegularFile(m) {
			continue
		}
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

func escapeGlob(s string) string {
	r := strings.NewReplacer(`*`, `\*`, `?`, `\?`, `[`, `\[`)
	return r.Replace(s)
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func insideDir(dir, path string) bool {
	rel, err := filepath.Rel(filepath.Clean(dir), path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && rel != "."
}
