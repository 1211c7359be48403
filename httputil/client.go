package httputil

import (
	"crypto/tls"
	"net/http"
	"time"
)

// NewClient builds a per-request client the way every call site uses
// it: a timeout in seconds (0 means none) and an optional
// skip-verification transport for servers with self-signed certs. The
// TLS toggle travels with the configuration, never as process state.
func NewClient(timeoutSecs int, insecureTLS bool) http.Client {
	var transport http.RoundTripper
	if insecureTLS {
		t := http.DefaultTransport.(*http.Transport).Clone()
		t.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
		transport = t
	}

	return http.Client{ //nolint:exhaustruct
		Timeout:   time.Duration(timeoutSecs) * time.Second,
		Transport: transport,
	}
}
