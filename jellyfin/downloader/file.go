package downloader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/progress"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/ios7jbpro/jellyfin-mass-dl/httputil"
	"github.com/ios7jbpro/jellyfin-mass-dl/jellyfin/fs"
	"github.com/ios7jbpro/jellyfin-mass-dl/must"
)

// Content-Disposition filename forms, RFC-5987 extended form first.
// Deliberately tolerant: servers emit these headers with and without
// quotes, and mime.ParseMediaType rejects some of the malformed
// variants seen in the wild.
var (
	cdExtendedRe = regexp.MustCompile(`filename\*=(?:UTF-8'')?([^;\r\n]+)`)
	cdPlainRe    = regexp.MustCompile(`filename="?([^";\n]+)"?`)
)

func extractFilenameFromCD(header, fallback string) string {
	if header == "" {
		return fallback
	}

	if m := cdExtendedRe.FindStringSubmatch(header); nil != m {
		raw := strings.Trim(m[1], `"`)
		if decoded, err := url.PathUnescape(raw); nil == err {
			return decoded
		}

		return raw
	}

	if m := cdPlainRe.FindStringSubmatch(header); nil != m {
		return strings.TrimSpace(m[1])
	}

	return fallback
}

// DownloadItemFile streams the item's download endpoint into the album
// folder. The final filename comes from the Content-Disposition header
// (extended form preferred), falling back to the item's display name,
// then the raw id. When the resolved name already exists on disk the
// body is closed unread and the existing path is returned.
func (d *Downloader) DownloadItemFile(
	ctx context.Context,
	logger zerolog.Logger,
	itemID string,
	albumFs fs.AlbumDir,
) (p string, err error) {
	endpoint, err := url.JoinPath(d.server.URL, "Items", itemID, "Download")
	must.NilErr(err)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if nil != err {
		return "", fmt.Errorf("failed to create download request: %v", err)
	}
	req.Header.Set(authTokenHeader, d.session.Token)

	client := httputil.NewClient(d.conf.Timeouts.DownloadFile, d.server.InsecureTLS)
	resp, err := client.Do(req)
	if nil != err {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", context.DeadlineExceeded
		}

		if errors.Is(err, context.Canceled) {
			return "", context.Canceled
		}

		return "", fmt.Errorf("failed to send download request: %v", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); nil != closeErr {
			err = errors.Join(err, fmt.Errorf("failed to close download response body: %v", closeErr))
		}
	}()

	switch code := resp.StatusCode; code {
	case http.StatusOK:
	default:
		respBytes, err := io.ReadAll(resp.Body)
		if nil != err {
			return "", fmt.Errorf("failed to read response body: %v", err)
		}

		logger.Error().Int("status_code", code).Bytes("response_body", respBytes).Msg("Unexpected download response status code")

		return "", fmt.Errorf("unexpected status code %d with body: %s", code, string(respBytes))
	}

	meta, err := d.GetItem(ctx, logger, itemID)
	if nil != err {
		return "", fmt.Errorf("failed to get item metadata for filename fallback: %w", err)
	}

	fallback := lo.Ternary(meta.Name != "", meta.Name, itemID)
	fname := fs.SafeName(extractFilenameFromCD(resp.Header.Get("Content-Disposition"), fallback))

	if err := albumFs.Ensure(); nil != err {
		return "", fmt.Errorf("failed to create destination folder: %v", err)
	}

	f := albumFs.File(fname)
	if exists, err := f.Exists(); nil != err {
		return "", fmt.Errorf("failed to check if file exists: %v", err)
	} else if exists {
		logger.Warn().Str("path", f.Path).Msg("Skipping, file already exists")
		return f.Path, nil
	}

	tracker, stop := newProgressTracker(fname, max(resp.ContentLength, 0))
	defer stop()

	written, err := f.WriteFrom(resp.Body, downloadChunkSize, func(n int) { tracker.Increment(int64(n)) })
	if nil != err {
		tracker.MarkAsErrored()
		return "", fmt.Errorf("failed to write file to disk: %w", err)
	}
	tracker.MarkAsDone()

	logger.Debug().Str("path", f.Path).Int64("bytes", written).Msg("File written")

	return f.Path, nil
}

// newProgressTracker renders a byte progress bar on stdout. When
// stdout is not a terminal the tracker is left unattached so the copy
// loop can increment it without rendering anything.
func newProgressTracker(name string, total int64) (*progress.Tracker, func()) {
	tracker := &progress.Tracker{ //nolint:exhaustruct
		Message: name,
		Total:   total,
		Units:   progress.UnitsBytes,
	}

	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return tracker, func() {}
	}

	pw := progress.NewWriter()
	pw.SetOutputWriter(os.Stdout)
	pw.SetAutoStop(true)
	pw.SetTrackerLength(25)
	pw.SetUpdateFrequency(100 * time.Millisecond)
	pw.AppendTracker(tracker)

	go pw.Render()

	return tracker, pw.Stop
}
