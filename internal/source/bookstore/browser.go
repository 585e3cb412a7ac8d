package bookstore

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/stealth"

	"rankwatch/internal/domain"
)

type browserTier struct {
	controlURL string
	timeout    time.Duration
	logger     *slog.Logger
}

func newBrowserTier(cfg Config, logger *slog.Logger) *browserTier {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &browserTier{
		controlURL: cfg.BrowserControlURL,
		timeout:    timeout,
		logger:     logger.With("tier", TierBrowser),
	}
}

func (t *browserTier) Fetch(ctx context.Context, url string) (*domain.Page, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	wsURL := t.controlURL
	if wsURL == "" {
		l := launcher.New().Context(ctx).Headless(true).
			Set("disable-blink-features", "AutomationControlled")
		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("%w: launch browser: %w", domain.ErrFetchBlocked, err)
		}
		defer l.Kill()
		wsURL = u
	}

	browser := rod.New().Context(ctx).ControlURL(wsURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("%w: connect browser: %w", domain.ErrFetchBlocked, err)
	}
	defer browser.Close()

	page, err := stealth.Page(browser)
	if err != nil {
		return nil, fmt.Errorf("%w: open tab: %w", domain.ErrFetchBlocked, err)
	}
	defer page.Close()

	if err := page.Navigate(url); err != nil {
		return nil, fmt.Errorf("%w: navigate: %w", domain.ErrFetchBlocked, err)
	}
	if err := page.WaitLoad(); err != nil {
		t.logger.Warn("wait load failed", "url", url, "error", err)
	}

	html, err := page.HTML()
	if err != nil {
		return nil, fmt.Errorf("%w: read dom: %w", domain.ErrFetchBlocked, err)
	}
	if err := checkBody([]byte(html)); err != nil {
		return nil, err
	}

	t.logger.Debug("fetched page", "url", url, "bytes", len(html))

	return &domain.Page{
		URL:       url,
		HTML:      []byte(html),
		FetchedAt: time.Now().UTC(),
		Tier:      TierBrowser,
	}, nil
}
