package downloader

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ios7jbpro/jellyfin-mass-dl/cache"
	"github.com/ios7jbpro/jellyfin-mass-dl/config"
	"github.com/ios7jbpro/jellyfin-mass-dl/jellyfin/auth"
	"github.com/ios7jbpro/jellyfin-mass-dl/jellyfin/fs"
	"github.com/ios7jbpro/jellyfin-mass-dl/jellyfin/types"
	"github.com/ios7jbpro/jellyfin-mass-dl/lrclib"
	"github.com/ios7jbpro/jellyfin-mass-dl/unit"
)

const (
	downloadChunkSize = 32 * unit.Kibibyte
	authTokenHeader   = "X-MediaBrowser-Token"
)

// sidecarExts are media-source paths treated as track sidecars;
// siblingExts additionally covers images when sweeping an item's
// parent folder.
var (
	sidecarExts = []string{".lrc", ".txt", ".nfo", ".cue"}
	siblingExts = []string{".lrc", ".txt", ".nfo", ".cue", ".jpg", ".jpeg", ".png"}
)

type Downloader struct {
	dir     fs.LibraryDir
	server  config.Server
	conf    config.Downloader
	session auth.Session
	cache   *cache.Cache
	lyrics  *lrclib.Client
}

func New(
	dir fs.LibraryDir,
	server config.Server,
	conf config.Downloader,
	session auth.Session,
	c *cache.Cache,
	lyrics *lrclib.Client,
) *Downloader {
	return &Downloader{
		dir:     dir,
		server:  server,
		conf:    conf,
		session: session,
		cache:   c,
		lyrics:  lyrics,
	}
}

// DownloadLibrary enumerates every audio item of the logged-in user
// and downloads each one with its sidecars. A failing item is logged
// and skipped; only context cancellation aborts the whole run.
func (d *Downloader) DownloadLibrary(ctx context.Context, logger zerolog.Logger) error {
	params := url.Values{
		"Recursive":        []string{"true"},
		"IncludeItemTypes": []string{"Audio"},
		"Fields":           []string{"Album,Artists,AlbumArtist,Path,ParentId"},
	}
	items, err := d.ListItems(ctx, logger, params)
	if nil != err {
		return fmt.Errorf("failed to enumerate audio items: %w", err)
	}

	logger.Info().Int("count", len(items)).Msg("Found audio items")

	for i, item := range items {
		itemLogger := logger.
			With().
			Int("track_index", i).
			Str("item_id", item.ID).
			Str("name", item.Name).
			Logger()

		if err := d.downloadItem(ctx, itemLogger, item); nil != err {
			if errors.Is(err, context.Canceled) {
				return context.Canceled
			}

			itemLogger.Error().Err(err).Msg("Failed to download item")
		}
	}

	return nil
}

func (d *Downloader) downloadItem(ctx context.Context, logger zerolog.Logger, item types.Item) error {
	meta, err := d.GetItem(ctx, logger, item.ID)
	if nil != err {
		return fmt.Errorf("failed to get item metadata: %w", err)
	}

	albumFs := d.dir.Album(meta.PrimaryArtist(), meta.AlbumName())
	logger.Info().Str("folder", albumFs.Path).Msg("Downloading track")

	audioPath, err := d.DownloadItemFile(ctx, logger, item.ID, albumFs)
	if nil != err {
		return fmt.Errorf("failed to download track file: %w", err)
	}
	logger.Info().Str("path", audioPath).Msg("Track saved")

	d.DownloadItemExtras(ctx, logger, meta, albumFs)

	if err := d.downloadLyrics(ctx, logger, meta, albumFs, audioPath); nil != err {
		return fmt.Errorf("failed to save lyrics: %w", err)
	}

	if meta.ParentID != "" {
		if err := d.sweepSiblings(ctx, logger, meta, albumFs); nil != err {
			return fmt.Errorf("failed to sweep sibling files: %w", err)
		}
	}

	return nil
}

// downloadLyrics queries the lyrics service and writes the result next
// to the audio file as <audio base name>.lrc. A lookup miss is logged
// and ignored; only a local write failure is an error.
func (d *Downloader) downloadLyrics(
	ctx context.Context,
	logger zerolog.Logger,
	meta *types.Item,
	albumFs fs.AlbumDir,
	audioPath string,
) error {
	text, err := d.lyrics.Fetch(ctx, logger, meta.Name, meta.PrimaryArtist(), meta.AlbumName(), meta.DurationSeconds())
	if nil != err {
		return fmt.Errorf("failed to fetch lyrics: %w", err)
	}

	if text == "" {
		logger.Warn().Msg("Lyrics not found")
		return nil
	}

	base := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	f := albumFs.File(fs.SafeName(base) + ".lrc")
	if err := f.WriteString(text); nil != err {
		return fmt.Errorf("failed to write lyrics file: %v", err)
	}

	logger.Info().Str("path", f.Path).Msg("Saved lyrics")

	return nil
}
