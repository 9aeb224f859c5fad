package httpx

import (
	"context"
	"io"
	"net/http"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
)

// Client is the plain net/http backend.
type Client struct {
	c  *http.Client
	ua string
}

func NewClient(opts Options) *Client {
	var rt http.RoundTripper = &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConnsPerHost: 10,
		ForceAttemptHTTP2:   true,
	}
	if opts.Cloudflare {
		rt = cloudflarebp.AddCloudFlareByPass(rt)
	}
	return &Client{
		c: &http.Client{
			Transport: rt,
			Timeout:   opts.timeout(),
		},
		ua: opts.userAgent(),
	}
}

func (c *Client) Get(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &TransportError{URL: url, Err: err}
	}
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.ua)
	}
	req.Header.Set("Accept", "text/html")

	res, err := c.c.Do(req)
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

// Close drops idle connections.
func (c *Client) Close() error {
	c.c.CloseIdleConnections()
	return nil
}
