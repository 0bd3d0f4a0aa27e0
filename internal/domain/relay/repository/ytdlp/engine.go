// Package ytdlp implements deps.Engine on top of the yt-dlp executable
package ytdlp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	ytdlp "github.com/lrstanley/go-ytdlp"
	"github.com/rs/zerolog"

	"github.com/bhhshwXD/HDTokster/config"
	"github.com/bhhshwXD/HDTokster/internal/domain/relay/entities"
	relayerrors "github.com/bhhshwXD/HDTokster/internal/domain/relay/errors"
	pkgerrors "github.com/bhhshwXD/HDTokster/pkg/errors"
)

// Engine runs yt-dlp with the fixed options from config
type Engine struct {
	cfg    *config.ExtractorConfig
	logger zerolog.Logger
}

// NewEngine creates a new yt-dlp engine
func NewEngine(cfg *config.ExtractorConfig, logger zerolog.Logger) *Engine {
	return &Engine{
		cfg:    cfg,
		logger: logger.With().Str("component", "ytdlp").Logger(),
	}
}

// Extract downloads url into destDir and returns one record per media
// item yt-dlp reported
func (e *Engine) Extract(ctx context.Context, url, destDir string) ([]entities.EngineRecord, error) {
	if err := e.checkExecutable(); err != nil {
		return nil, err
	}

	if e.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.Timeout)
		defer cancel()
	}

	// "--" keeps a message starting with "-" from being read as an option
	result, err := e.command(destDir).Run(ctx, "--", url)
	if err != nil {
		if result != nil {
			e.logger.Debug().
				Int("exit_code", result.ExitCode).
				Str("stderr", tail(result.Stderr, 2048)).
				Msg("yt-dlp exited with error")
		}
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, pkgerrors.Wrap(relayerrors.ErrExtractionFailed, fmt.Errorf("timed out after %s: %w", e.cfg.Timeout, err))
		}
		return nil, pkgerrors.Wrap(relayerrors.ErrExtractionFailed, err)
	}

	records, err := ParseRecords(strings.NewReader(result.Stdout))
	if err != nil {
		return records, pkgerrors.Wrap(relayerrors.ErrExtractionFailed, err)
	}
	return records, nil
}

// checkExecutable reports a missing configured binary before running it.
// go-ytdlp flattens exec errors into text, so this is checked up front.
func (e *Engine) checkExecutable() error {
	if e.cfg.AutoInstall {
		return nil
	}
	if _, err := exec.LookPath(e.cfg.Executable); err != nil {
		return pkgerrors.Wrap(relayerrors.ErrEngineUnavailable, err)
	}
	return nil
}

func (e *Engine) command(destDir string) *ytdlp.Command {
	cmd := ytdlp.New().
		Format(e.cfg.Format).
		Output(filepath.Join(destDir, e.cfg.OutputTemplate)).
		Retries(strconv.Itoa(e.cfg.Retries)).
		PrintJSON()

	// an auto-installed binary is resolved by go-ytdlp itself
	if !e.cfg.AutoInstall {
		cmd = cmd.SetExecutable(e.cfg.Executable)
	}
	if e.cfg.NoPlaylist {
		cmd = cmd.NoPlaylist()
	}
	if e.cfg.Quiet {
		cmd = cmd.Quiet().NoWarnings()
	}
	return cmd
}

// infoJSON is the subset of yt-dlp's info dict the relay needs
type infoJSON struct {
	Type               string     `json:"_type"`
	ID                 string     `json:"id"`
	Ext                string     `json:"ext"`
	Filename           string     `json:"_filename"`
	FilenameAlt        string     `json:"filename"`
	Filepath           string     `json:"filepath"`
	RequestedDownloads []infoJSON `json:"requested_downloads"`
	Entries            []infoJSON `json:"entries"`
}

// ParseRecords decodes the info dicts yt-dlp prints, one JSON object per
// media item. Playlist objects are flattened into their entries.
func ParseRecords(r io.Reader) ([]entities.EngineRecord, error) {
	dec := json.NewDecoder(r)
	var records []entities.EngineRecord

	for {
		var info infoJSON
		if err := dec.Decode(&info); err != nil {
			if errors.Is(err, io.EOF) {
				return records, nil
			}
			return records, fmt.Errorf("failed to decode yt-dlp output: %w", err)
		}
		records = appendRecords(records, info)
	}
}

func appendRecords(records []entities.EngineRecord, info infoJSON) []entities.EngineRecord {
	if len(info.Entries) > 0 {
		for _, entry := range info.Entries {
			records = appendRecords(records, entry)
		}
		return records
	}

	if info.ID == "" && info.Filename == "" && info.FilenameAlt == "" && info.Filepath == "" {
		return records
	}

	return append(records, entities.EngineRecord{
		ID:       info.ID,
		Filename: info.finalPath(),
		Ext:      info.Ext,
	})
}

// finalPath prefers the post-processed path over the predicted one
func (i infoJSON) finalPath() string {
	for _, d := range i.RequestedDownloads {
		if d.Filepath != "" {
			return d.Filepath
		}
	}
	for _, p := range []string{i.Filepath, i.Filename, i.FilenameAlt} {
		if p != "" {
			return p
		}
	}
	return ""
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
