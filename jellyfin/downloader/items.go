package downloader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/ios7jbpro/jellyfin-mass-dl/cache"
	"github.com/ios7jbpro/jellyfin-mass-dl/httputil"
	"github.com/ios7jbpro/jellyfin-mass-dl/jellyfin/types"
	"github.com/ios7jbpro/jellyfin-mass-dl/must"
)

// ListItems queries the user's item listing endpoint with an open
// parameter map. The orchestrator passes Recursive/IncludeItemTypes/
// Fields for the full enumeration and ParentId for sibling sweeps.
func (d *Downloader) ListItems(
	ctx context.Context,
	logger zerolog.Logger,
	params url.Values,
) (items []types.Item, err error) {
	endpoint, err := url.JoinPath(d.server.URL, "Users", d.session.UserID, "Items")
	must.NilErr(err)

	reqURL, err := url.Parse(endpoint)
	must.NilErr(err)
	reqURL.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if nil != err {
		return nil, fmt.Errorf("failed to create list items request: %v", err)
	}
	req.Header.Set(authTokenHeader, d.session.Token)

	client := httputil.NewClient(d.conf.Timeouts.ListItems, d.server.InsecureTLS)
	resp, err := client.Do(req)
	if nil != err {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, context.DeadlineExceeded
		}

		if errors.Is(err, context.Canceled) {
			return nil, context.Canceled
		}

		return nil, fmt.Errorf("failed to send list items request: %v", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); nil != closeErr {
			err = errors.Join(err, fmt.Errorf("failed to close list items response body: %v", closeErr))
		}
	}()

	switch code := resp.StatusCode; code {
	case http.StatusOK:
	default:
		respBytes, err := io.ReadAll(resp.Body)
		if nil != err {
			return nil, fmt.Errorf("failed to read response body: %v", err)
		}

		logger.Error().Int("status_code", code).Bytes("response_body", respBytes).Msg("Unexpected list items response status code")

		return nil, fmt.Errorf("unexpected status code %d with body: %s", code, string(respBytes))
	}

	respBytes, err := httputil.ReadResponseBody(resp)
	if nil != err {
		return nil, fmt.Errorf("failed to read list items 200 response body: %v", err)
	}

	var respBody types.ItemsResponse
	if err := json.Unmarshal(respBytes, &respBody); nil != err {
		logger.Error().Err(err).Bytes("response_body", respBytes).Msg("Failed to decode list items response")
		return nil, fmt.Errorf("failed to decode list items 200 response body: %v", err)
	}

	return respBody.Items, nil
}

// GetItem fetches full metadata for a single item. Results are cached
// because every track resolves its metadata several times per run.
func (d *Downloader) GetItem(ctx context.Context, logger zerolog.Logger, id string) (*types.Item, error) {
	item, err := d.cache.ItemsMeta.Fetch(
		id,
		cache.DefaultItemMetaTTL,
		func() (*types.Item, error) { return d.getItem(ctx, logger, id) },
	)
	if nil != err {
		return nil, fmt.Errorf("failed to get item metadata: %w", err)
	}

	return item.Value(), nil
}

func (d *Downloader) getItem(ctx context.Context, logger zerolog.Logger, id string) (item *types.Item, err error) {
	endpoint, err := url.JoinPath(d.server.URL, "Items", id)
	must.NilErr(err)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if nil != err {
		return nil, fmt.Errorf("failed to create get item request: %v", err)
	}
	req.Header.Set(authTokenHeader, d.session.Token)

	client := httputil.NewClient(d.conf.Timeouts.GetItem, d.server.InsecureTLS)
	resp, err := client.Do(req)
	if nil != err {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, context.DeadlineExceeded
		}

		if errors.Is(err, context.Canceled) {
			return nil, context.Canceled
		}

		return nil, fmt.Errorf("failed to send get item request: %v", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); nil != closeErr {
			err = errors.Join(err, fmt.Errorf("failed to close get item response body: %v", closeErr))
		}
	}()

	switch code := resp.StatusCode; code {
	case http.StatusOK:
	default:
		respBytes, err := io.ReadAll(resp.Body)
		if nil != err {
			return nil, fmt.Errorf("failed to read response body: %v", err)
		}

		logger.Error().Int("status_code", code).Bytes("response_body", respBytes).Msg("Unexpected get item response status code")

		return nil, fmt.Errorf("unexpected status code %d with body: %s", code, string(respBytes))
	}

	respBytes, err := httputil.ReadResponseBody(resp)
	if nil != err {
		return nil, fmt.Errorf("failed to read get item 200 response body: %v", err)
	}

	var respBody types.Item
	if err := json.Unmarshal(respBytes, &respBody); nil != err {
		logger.Error().Err(err).Bytes("response_body", respBytes).Msg("Failed to decode get item response")
		return nil, fmt.Errorf("failed to decode get item 200 response body: %v", err)
	}

	return &respBody, nil
}
