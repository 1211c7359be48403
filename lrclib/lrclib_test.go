package lrclib_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ios7jbpro/jellyfin-mass-dl/config"
	"github.com/ios7jbpro/jellyfin-mass-dl/lrclib"
)

func TestFetchPrefersSyncedLyrics(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Exactly(t, "/api/get", r.URL.Path)

		q := r.URL.Query()
		assert.Exactly(t, "Song", q.Get("track_name"))
		assert.Exactly(t, "A", q.Get("artist_name"))
		assert.Exactly(t, "B", q.Get("album_name"))
		assert.Exactly(t, "60", q.Get("duration"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"syncedLyrics":"[00:01.00] synced","plainLyrics":"plain lyrics"}`))
	}))
	defer srv.Close()

	c := lrclib.New(srv.URL, config.Lyrics{Timeout: 5})
	got, err := c.Fetch(t.Context(), zerolog.Nop(), "Song", "A", "B", 60)
	require.NoError(t, err)
	assert.Exactly(t, "[00:01.00] synced", got)
}

func TestFetchFallsBackToPlainLyrics(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"syncedLyrics":null,"plainLyrics":"plain lyrics"}`))
	}))
	defer srv.Close()

	c := lrclib.New(srv.URL, config.Lyrics{Timeout: 5})
	got, err := c.Fetch(t.Context(), zerolog.Nop(), "Song", "A", "B", 60)
	require.NoError(t, err)
	assert.Exactly(t, "plain lyrics", got)
}

func TestFetchMissIsNotAnError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"statusCode":404,"name":"TrackNotFound"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	c := lrclib.New(srv.URL, config.Lyrics{Timeout: 5})
	got, err := c.Fetch(t.Context(), zerolog.Nop(), "Song", "A", "B", 60)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFetchUnreachableServiceIsNotAnError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := lrclib.New(srv.URL, config.Lyrics{Timeout: 1})
	got, err := c.Fetch(t.Context(), zerolog.Nop(), "Song", "A", "B", 60)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFetchInvalidJSONIsNotAnError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	c := lrclib.New(srv.URL, config.Lyrics{Timeout: 5})
	got, err := c.Fetch(t.Context(), zerolog.Nop(), "Song", "A", "B", 60)
	require.NoError(t, err)
	assert.Empty(t, got)
}
