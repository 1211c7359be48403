package jellyfin

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ios7jbpro/jellyfin-mass-dl/cache"
	"github.com/ios7jbpro/jellyfin-mass-dl/config"
	"github.com/ios7jbpro/jellyfin-mass-dl/jellyfin/auth"
	"github.com/ios7jbpro/jellyfin-mass-dl/jellyfin/downloader"
	"github.com/ios7jbpro/jellyfin-mass-dl/jellyfin/fs"
	"github.com/ios7jbpro/jellyfin-mass-dl/lrclib"
)

var (
	ErrInvalidCredentials = auth.ErrInvalidCredentials
	ErrMalformedResponse  = auth.ErrMalformedResponse
)

// Login authenticates against the configured server. A login failure
// is fatal to the run.
func Login(ctx context.Context, logger zerolog.Logger, conf *config.Config) (*auth.Session, error) {
	session, err := auth.Login(ctx, logger, conf.Server, conf.Downloader.Timeouts.Login)
	if nil != err {
		return nil, fmt.Errorf("failed to login: %w", err)
	}

	return session, nil
}

type Client struct {
	session   auth.Session
	dl        *downloader.Downloader
	LibraryFs fs.LibraryDir
}

func NewClient(logger zerolog.Logger, session auth.Session, conf *config.Config) *Client {
	var (
		c         = cache.New()
		libraryFs = fs.LibraryDirFrom(conf.Library.Dir)
		lyrics    = lrclib.NewClient(conf.Lyrics)
		dl        = downloader.New(libraryFs, conf.Server, conf.Downloader, session, c, lyrics)
	)

	return &Client{
		session:   session,
		dl:        dl,
		LibraryFs: libraryFs,
	}
}

// DownloadLibrary runs the whole sequential workflow: enumerate audio
// items, then per item download the track, its extras, lyrics and
// sibling files, isolating per-item failures.
func (c *Client) DownloadLibrary(ctx context.Context, logger zerolog.Logger) error {
	if err := c.dl.DownloadLibrary(ctx, logger); nil != err {
		return fmt.Errorf("failed to download library: %w", err)
	}

	return nil
}
