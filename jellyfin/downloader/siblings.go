package downloader

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/ios7jbpro/jellyfin-mass-dl/jellyfin/fs"
	"github.com/ios7jbpro/jellyfin-mass-dl/jellyfin/types"
)

// sweepSiblings lists the track's parent folder and downloads every
// other item whose name looks like a sidecar or image, into the same
// album folder. Individual sibling failures are logged and skipped;
// a failed listing aborts the item.
func (d *Downloader) sweepSiblings(
	ctx context.Context,
	logger zerolog.Logger,
	meta *types.Item,
	albumFs fs.AlbumDir,
) error {
	siblings, err := d.ListItems(ctx, logger, url.Values{"ParentId": []string{meta.ParentID}})
	if nil != err {
		return fmt.Errorf("failed to list parent folder items: %w", err)
	}

	for _, s := range siblings {
		if s.ID == meta.ID {
			continue
		}

		name := strings.ToLower(s.Name)
		if !lo.SomeBy(siblingExts, func(ext string) bool { return strings.HasSuffix(name, ext) }) {
			continue
		}

		logger.Info().Str("sibling", s.Name).Msg("Downloading sibling")

		if _, err := d.DownloadItemFile(ctx, logger, s.ID, albumFs); nil != err {
			if errors.Is(err, context.Canceled) {
				return context.Canceled
			}

			logger.Error().Err(err).Str("sibling", s.Name).Msg("Failed to download sibling")
		}
	}

	return nil
}
