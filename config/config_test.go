package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ios7jbpro/jellyfin-mass-dl/config"
)

func TestLoadAppliesDefaults(t *testing.T) {
	confPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(confPath, []byte(`
server:
  url: https://jellyfin.example.com/
  username: someone
library:
  dir: ./out
`), 0o600))

	t.Setenv("JELLYFIN_PASSWORD", "hunter2")

	conf, err := config.Load(confPath)
	require.NoError(t, err)

	assert.Exactly(t, "https://jellyfin.example.com", conf.Server.URL)
	assert.Exactly(t, "someone", conf.Server.Username)
	assert.Exactly(t, "hunter2", conf.Server.Password)
	assert.False(t, conf.Server.InsecureTLS)
	assert.Exactly(t, "./out", conf.Library.Dir)

	assert.Exactly(t, "info", conf.Log.Level)
	assert.Exactly(t, "pretty", conf.Log.Format)

	assert.Exactly(t, 15, conf.Downloader.Timeouts.Login)
	assert.Exactly(t, 60, conf.Downloader.Timeouts.ListItems)
	assert.Exactly(t, 15, conf.Downloader.Timeouts.GetItem)
	assert.Exactly(t, 0, conf.Downloader.Timeouts.DownloadFile)
	assert.Exactly(t, 30, conf.Downloader.Timeouts.DownloadImage)
	assert.Exactly(t, 10, conf.Lyrics.Timeout)

	require.NoError(t, conf.Validate())
}

func TestLoadWithoutConfigFile(t *testing.T) {
	t.Setenv("JELLYFIN_PASSWORD", "")
	t.Chdir(t.TempDir())

	conf, err := config.Load("")
	require.NoError(t, err)

	// Interactive fields stay empty for the prompts; static sections
	// still get their defaults.
	assert.Empty(t, conf.Server.URL)
	assert.Exactly(t, "info", conf.Log.Level)
}

func TestLoadMissingExplicitConfigFileFails(t *testing.T) {
	t.Parallel()

	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	base := func() *config.Config {
		return &config.Config{ //nolint:exhaustruct
			Server: config.Server{
				URL:         "https://jellyfin.example.com",
				Username:    "someone",
				Password:    "hunter2",
				InsecureTLS: false,
			},
			Library: config.Library{Dir: "./out"},
			Log:     config.Log{Level: "info", Format: "pretty"},
		}
	}

	t.Run("valid", func(t *testing.T) {
		t.Parallel()

		require.NoError(t, base().Validate())
	})

	t.Run("missing url", func(t *testing.T) {
		t.Parallel()

		conf := base()
		conf.Server.URL = ""
		require.Error(t, conf.Validate())
	})

	t.Run("unsupported url scheme", func(t *testing.T) {
		t.Parallel()

		conf := base()
		conf.Server.URL = "ftp://jellyfin.example.com"
		require.Error(t, conf.Validate())
	})

	t.Run("missing password", func(t *testing.T) {
		t.Parallel()

		conf := base()
		conf.Server.Password = ""
		require.Error(t, conf.Validate())
	})

	t.Run("missing library dir", func(t *testing.T) {
		t.Parallel()

		conf := base()
		conf.Library.Dir = ""
		require.Error(t, conf.Validate())
	})

	t.Run("invalid log level", func(t *testing.T) {
		t.Parallel()

		conf := base()
		conf.Log.Level = "verbose"
		require.Error(t, conf.Validate())
	})

	t.Run("negative timeout", func(t *testing.T) {
		t.Parallel()

		conf := base()
		conf.Downloader.Timeouts.GetItem = -1
		require.Error(t, conf.Validate())
	})
}
