package httpx

import (
	"context"
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// Browser renders pages in a headless Chromium. Slow, but gets through the
// javascript challenges some mirrors put in front of their pages.
type Browser struct {
	l       *launcher.Launcher
	browser *rod.Browser
	opts    Options
}

func NewBrowser(opts Options) (*Browser, error) {
	l := launcher.New().Headless(true)
	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}
	b := rod.New().ControlURL(u)
	if err := b.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}
	return &Browser{l: l, browser: b, opts: opts}, nil
}

func (b *Browser) Get(ctx context.Context, url string) (string, error) {
	page, err := stealth.Page(b.browser)
	if err != nil {
		return "", &TransportError{URL: url, Err: err}
	}
	defer page.Close()

	p := page.Context(ctx).Timeout(b.opts.timeout())
	if err := p.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: b.opts.userAgent()}); err != nil {
		return "", &TransportError{URL: url, Err: err}
	}

	var (
		status     int
		statusText string
	)
	wait := p.EachEvent(func(e *proto.NetworkResponseReceived) bool {
		if e.Type != proto.NetworkResourceTypeDocument {
			return false
		}
		status, statusText = e.Response.Status, e.Response.StatusText
		return true
	})
	if err := p.Navigate(url); err != nil {
		return "", &TransportError{URL: url, Err: err}
	}
	wait()
	if err := checkStatus(url, status, statusText); err != nil {
		return "", err
	}
	if err := p.WaitLoad(); err != nil {
		return "", &TransportError{URL: url, Err: err}
	}

	html, err := p.HTML()
	if err != nil {
		return "", &TransportError{URL: url, Err: err}
	}
	return html, nil
}

// Close shuts the browser down and removes its profile dir.
func (b *Browser) Close() error {
	err := b.browser.Close()
	b.l.Cleanup()
	return err
}
