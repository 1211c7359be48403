package lrclib

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"github.com/ios7jbpro/jellyfin-mass-dl/config"
	"github.com/ios7jbpro/jellyfin-mass-dl/httputil"
	"github.com/ios7jbpro/jellyfin-mass-dl/must"
)

const DefaultAPIURL = "https://lrclib.net"

type Client struct {
	apiURL      string
	timeoutSecs int
}

func NewClient(conf config.Lyrics) *Client {
	return New(DefaultAPIURL, conf)
}

func New(apiURL string, conf config.Lyrics) *Client {
	return &Client{apiURL: apiURL, timeoutSecs: conf.Timeout}
}

// Fetch looks up lyrics by track/artist/album/duration and returns
// synced lyrics when available, else plain lyrics, else empty. Lyrics
// are optional: lookup failures are logged and reported as a miss, and
// only context cancellation surfaces as an error.
func (c *Client) Fetch(
	ctx context.Context,
	logger zerolog.Logger,
	trackName string,
	artist string,
	album string,
	durationSecs int,
) (l string, err error) {
	endpoint, err := url.JoinPath(c.apiURL, "api", "get")
	must.NilErr(err)

	reqURL, err := url.Parse(endpoint)
	must.NilErr(err)

	reqParams := make(url.Values, 4)
	reqParams.Add("track_name", trackName)
	reqParams.Add("artist_name", artist)
	reqParams.Add("album_name", album)
	reqParams.Add("duration", strconv.Itoa(durationSecs))
	reqURL.RawQuery = reqParams.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if nil != err {
		return "", fmt.Errorf("failed to create get lyrics request: %v", err)
	}

	client := httputil.NewClient(c.timeoutSecs, false)
	resp, err := client.Do(req)
	if nil != err {
		if errors.Is(err, context.Canceled) {
			return "", context.Canceled
		}

		logger.Warn().Err(err).Msg("Failed to send get lyrics request")

		return "", nil
	}
	defer func() {
		if closeErr := resp.Body.Close(); nil != closeErr {
			err = errors.Join(err, fmt.Errorf("failed to close get lyrics response body: %v", closeErr))
		}
	}()

	if code := resp.StatusCode; code != http.StatusOK {
		logger.Warn().Int("status_code", code).Msg("Lyrics lookup returned non-success status")
		return "", nil
	}

	respBytes, err := httputil.ReadResponseBody(resp)
	if nil != err {
		logger.Warn().Err(err).Msg("Failed to read get lyrics response body")
		return "", nil
	}

	if !gjson.ValidBytes(respBytes) {
		logger.Warn().Msg("Lyrics lookup returned invalid json")
		return "", nil
	}

	if v := gjson.GetBytes(respBytes, "syncedLyrics"); v.Type == gjson.String && v.Str != "" {
		return v.Str, nil
	}

	if v := gjson.GetBytes(respBytes, "plainLyrics"); v.Type == gjson.String && v.Str != "" {
		return v.Str, nil
	}

	return "", nil
}
