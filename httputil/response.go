package httputil

import (
	"fmt"
	"io"
	"net/http"
)

// ReadResponseBody drains a response body that the status-code check
// already accepted.
func ReadResponseBody(resp *http.Response) ([]byte, error) {
	respBody, err := io.ReadAll(resp.Body)
	if nil != err {
		return nil, fmt.Errorf("failed to read response body: %v", err)
	}

	return respBody, nil
}
