package httpx

import (
	"context"
	"io"

	http "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
)

// TLSClient sends requests with a browser TLS fingerprint, for sites that
// reject Go's default handshake.
type TLSClient struct {
	c  tls_client.HttpClient
	ua string
}

func NewTLSClient(opts Options) (*TLSClient, error) {
	options := []tls_client.HttpClientOption{
		tls_client.WithTimeoutSeconds(int(opts.timeout().Seconds())),
		tls_client.WithClientProfile(profiles.Chrome_120),
		tls_client.WithCookieJar(tls_client.NewCookieJar()),
	}
	c, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
	if err != nil {
		return nil, err
	}
	return &TLSClient{c: c, ua: opts.userAgent()}, nil
}

func (t *TLSClient) Get(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &TransportError{URL: url, Err: err}
	}
	req.Header = http.Header{
		"accept":     {"text/html"},
		"user-agent": {t.ua},
		http.HeaderOrderKey: {
			"accept",
			"user-agent",
		},
	}

	res, err := t.c.Do(req)
	if err != nil {
		return "", &TransportError{URL: url, Err: err}
	}
	defer res.Body.Close()

	if err := checkStatus(url, res.StatusCode, res.Status); err != nil {
		return "", err
	}
	b, err := io.ReadAll(res.Body)
	if err != nil {
		return "", &TransportError{URL: url, Err: err}
	}
	return string(b), nil
}

func (t *TLSClient) Close() error {
	t.c.CloseIdleConnections()
	return nil
}
