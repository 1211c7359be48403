package auth

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/ios7jbpro/jellyfin-mass-dl/config"
	"github.com/ios7jbpro/jellyfin-mass-dl/constants"
	"github.com/ios7jbpro/jellyfin-mass-dl/httputil"
	"github.com/ios7jbpro/jellyfin-mass-dl/must"
	"github.com/ios7jbpro/jellyfin-mass-dl/redact"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrMalformedResponse  = errors.New("login response is missing access token or user id")
)

// Session holds the bearer token and user id for the lifetime of the
// process. It is never persisted or refreshed.
type Session struct {
	Token  string
	UserID string
}

func (s Session) ToDict() *zerolog.Event {
	return zerolog.Dict().
		Str("token", redact.String(s.Token)).
		Str("user_id", s.UserID)
}

// Login exchanges the configured credentials for a Session. Any
// failure here is fatal to the run; the caller must not continue.
func Login(
	ctx context.Context,
	logger zerolog.Logger,
	conf config.Server,
	timeoutSecs int,
) (s *Session, err error) {
	endpoint, err := url.JoinPath(conf.URL, "Users", "AuthenticateByName")
	must.NilErr(err)

	reqBody, err := json.Marshal(struct {
		Username string `json:"Username"`
		Pw       string `json:"Pw"`
	}{Username: conf.Username, Pw: conf.Password})
	if nil != err {
		return nil, fmt.Errorf("failed to encode login request body: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(reqBody))
	if nil != err {
		return nil, fmt.Errorf("failed to create login request: %v", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Emby-Authorization", fmt.Sprintf(
		`MediaBrowser Client=%q, Device=%q, DeviceId=%q, Version=%q`,
		constants.AuthClientName,
		constants.AuthDeviceName,
		constants.AuthDeviceID,
		constants.AuthClientVersion,
	))

	client := httputil.NewClient(timeoutSecs, conf.InsecureTLS)
	resp, err := client.Do(req)
	if nil != err {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, context.DeadlineExceeded
		}

		if errors.Is(err, context.Canceled) {
			return nil, context.Canceled
		}

		return nil, fmt.Errorf("failed to send login request: %v", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); nil != closeErr {
			err = errors.Join(err, fmt.Errorf("failed to close login response body: %v", closeErr))
		}
	}()

	switch code := resp.StatusCode; code {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return nil, ErrInvalidCredentials
	default:
		respBytes, err := io.ReadAll(resp.Body)
		if nil != err {
			return nil, fmt.Errorf("failed to read login response body: %v", err)
		}

		logger.Error().Int("status_code", code).Bytes("response_body", respBytes).Msg("Login failed")

		return nil, fmt.Errorf("login failed with status code %d and body: %s", code, string(respBytes))
	}

	respBytes, err := httputil.ReadResponseBody(resp)
	if nil != err {
		return nil, fmt.Errorf("failed to read login 200 response body: %v", err)
	}

	var respBody struct {
		AccessToken string `json:"AccessToken"`
		User        struct {
			ID string `json:"Id"`
		} `json:"User"`
	}
	if err := json.Unmarshal(respBytes, &respBody); nil != err {
		logger.Error().Err(err).Bytes("response_body", respBytes).Msg("Failed to decode login response")
		return nil, fmt.Errorf("failed to decode login 200 response body: %v", err)
	}

	if respBody.AccessToken == "" || respBody.User.ID == "" {
		return nil, ErrMalformedResponse
	}

	return &Session{Token: respBody.AccessToken, UserID: respBody.User.ID}, nil
}
