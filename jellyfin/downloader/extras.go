package downloader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/ios7jbpro/jellyfin-mass-dl/httputil"
	"github.com/ios7jbpro/jellyfin-mass-dl/jellyfin/fs"
	"github.com/ios7jbpro/jellyfin-mass-dl/jellyfin/types"
	"github.com/ios7jbpro/jellyfin-mass-dl/must"
)

// DownloadItemExtras discovers and downloads an item's sidecars with
// three independent best-effort strategies: media-source sidecar
// paths, explicit extra-file records, and tagged images. A failure in
// one sidecar never aborts the others.
func (d *Downloader) DownloadItemExtras(
	ctx context.Context,
	logger zerolog.Logger,
	meta *types.Item,
	albumFs fs.AlbumDir,
) {
	for _, ms := range meta.MediaSources {
		if ctx.Err() != nil {
			return
		}

		name := strings.ToLower(ms.Path)
		if !lo.SomeBy(sidecarExts, func(ext string) bool { return strings.HasSuffix(name, ext) }) {
			continue
		}

		logger.Info().Str("path", ms.Path).Msg("Downloading extra")

		// The sidecar's own bytes are not separately addressable through
		// the API, so this re-fetches the parent item's download endpoint
		// and relies on the skip-if-exists rule to dedupe.
		if _, err := d.DownloadItemFile(ctx, logger, meta.ID, albumFs); nil != err {
			logger.Error().Err(err).Str("path", ms.Path).Msg("Failed to download extra")
		}
	}

	for _, ef := range meta.ExtraFiles {
		if ctx.Err() != nil {
			return
		}

		if ef.Name == "" {
			continue
		}

		logger.Info().Str("extra", ef.Name).Msg("Downloading extra file")

		if _, err := d.DownloadItemFile(ctx, logger, ef.ID, albumFs); nil != err {
			logger.Error().Err(err).Str("extra", ef.Name).Msg("Failed to download extra file")
		}
	}

	for _, slot := range types.ImageSlots {
		if ctx.Err() != nil {
			return
		}

		if meta.ImageTag(slot) == "" {
			continue
		}

		if err := d.downloadImage(ctx, logger, meta.ID, slot, albumFs); nil != err {
			logger.Error().Err(err).Str("slot", string(slot)).Msg("Failed to download image")
		}
	}
}

func (d *Downloader) downloadImage(
	ctx context.Context,
	logger zerolog.Logger,
	itemID string,
	slot types.ImageSlot,
	albumFs fs.AlbumDir,
) (err error) {
	if err := albumFs.Ensure(); nil != err {
		return fmt.Errorf("failed to create destination folder: %v", err)
	}

	f := albumFs.File(string(slot) + ".jpg")
	if exists, err := f.Exists(); nil != err {
		return fmt.Errorf("failed to check if image exists: %v", err)
	} else if exists {
		return nil
	}

	endpoint, err := url.JoinPath(d.server.URL, "Items", itemID, "Images", string(slot))
	must.NilErr(err)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if nil != err {
		return fmt.Errorf("failed to create download image request: %v", err)
	}
	req.Header.Set(authTokenHeader, d.session.Token)

	client := httputil.NewClient(d.conf.Timeouts.DownloadImage, d.server.InsecureTLS)
	resp, err := client.Do(req)
	if nil != err {
		if errors.Is(err, context.DeadlineExceeded) {
			return context.DeadlineExceeded
		}

		if errors.Is(err, context.Canceled) {
			return context.Canceled
		}

		return fmt.Errorf("failed to send download image request: %v", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); nil != closeErr {
			err = errors.Join(err, fmt.Errorf("failed to close download image response body: %v", closeErr))
		}
	}()

	switch code := resp.StatusCode; code {
	case http.StatusOK:
	default:
		respBytes, err := io.ReadAll(resp.Body)
		if nil != err {
			return fmt.Errorf("failed to read response body: %v", err)
		}

		return fmt.Errorf("unexpected status code %d with body: %s", code, string(respBytes))
	}

	respBytes, err := httputil.ReadResponseBody(resp)
	if nil != err {
		return fmt.Errorf("failed to read download image 200 response body: %v", err)
	}

	if err := f.Write(respBytes); nil != err {
		return fmt.Errorf("failed to write image file: %v", err)
	}

	logger.Info().Str("path", f.Path).Msg("Downloaded image")

	return nil
}
