// Package httpx fetches raw page markup for the site fetchers.
//
// A Getter does one GET per call: no retries, no caching. Every failure
// (unreachable host, timeout, 4xx/5xx status) comes back as *TransportError.
package httpx

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const (
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:129.0) Gecko/20100101 Firefox/129.0"
)

// Getter returns the body of url as text.
type Getter interface {
	Get(ctx context.Context, url string) (string, error)
}

type Options struct {
	Timeout   time.Duration
	UserAgent string
	// wrap the transport with the cloudflare bypass round tripper (http backend only)
	Cloudflare bool
}

func (o Options) timeout() time.Duration {
	if o.Timeout <= 0 {
		return DefaultTimeout
	}
	return o.Timeout
}

func (o Options) userAgent() string {
	if ua := strings.TrimSpace(o.UserAgent); ua != "" {
		return ua
	}
	return DefaultUserAgent
}

// TransportError is returned for every failed fetch.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// StatusError is wrapped by TransportError when the site answered with 4xx/5xx.
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	if e.Status != "" {
		return "HTTP " + e.Status
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

func checkStatus(url string, code int, status string) error {
	if code >= 400 {
		return &TransportError{URL: url, Err: &StatusError{URL: url, StatusCode: code, Status: status}}
	}
	return nil
}

// Transport names accepted by New.
const (
	TransportHTTP    = "http"
	TransportTLS     = "tls"
	TransportBrowser = "browser"
)

// ClosingGetter is a Getter that holds a connection pool or a browser.
type ClosingGetter interface {
	Getter
	Close() error
}

// New builds the backend named by transport. An empty name picks the plain http client.
func New(transport string, opts Options) (ClosingGetter, error) {
	switch strings.ToLower(strings.TrimSpace(transport)) {
	case "", TransportHTTP:
		return NewClient(opts), nil
	case TransportTLS:
		return NewTLSClient(opts)
	case TransportBrowser:
		return NewBrowser(opts)
	default:
		return nil, fmt.Errorf("unknown transport %q (want %s, %s or %s)", transport, TransportHTTP, TransportTLS, TransportBrowser)
	}
}
