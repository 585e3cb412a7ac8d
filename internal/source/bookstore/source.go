// Package bookstore fetches the bestseller product page. A plain HTTP tier
// is tried first; when it is blocked an optional headless browser tier takes
// over.
package bookstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"rankwatch/internal/domain"
	"rankwatch/internal/extract"
)

const SourceID = "bookstore"

const (
	TierHTTP    = "http"
	TierBrowser = "browser"
)

type Config struct {
	URL            string
	Timeout        time.Duration
	UserAgent      string
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	RatePerMinute  int

	Browser           bool
	BrowserControlURL string // empty launches a local Chrome
}

// Fetcher loads one page. Implementations report anti-bot denial, timeouts
// and transport failures as domain.ErrFetchBlocked.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*domain.Page, error)
}

type Source struct {
	url     string
	timeout time.Duration
	http    Fetcher
	browser Fetcher
	logger  *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Source {
	logger = logger.With("source", SourceID)

	s := &Source{
		url:     cfg.URL,
		timeout: cfg.Timeout,
		http:    newHTTPTier(cfg, logger),
		logger:  logger,
	}
	if cfg.Browser {
		s.browser = newBrowserTier(cfg, logger)
	}
	return s
}

func (s *Source) ID() string {
	return SourceID
}

func (s *Source) URL() string {
	return s.url
}

// FetchPage returns the product page markup. The timeout bounds the whole
// fetch: retries, rate limiting and the browser tier share it.
func (s *Source) FetchPage(ctx context.Context) (*domain.Page, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	page, err := s.http.Fetch(ctx, s.url)
	if err == nil {
		return page, nil
	}
	if s.browser == nil || !errors.Is(err, domain.ErrFetchBlocked) || ctx.Err() != nil {
		return nil, err
	}

	s.logger.Warn("http tier blocked, retrying with browser", "error", err)

	page, berr := s.browser.Fetch(ctx, s.url)
	if berr != nil {
		return nil, errors.Join(err, berr)
	}
	return page, nil
}

// challengeMarkup are lowercase fragments only anti-bot interstitials carry
// in their markup.
var challengeMarkup = []string{
	"cf-chl-",
	"cf-challenge",
	"__cf_chl_",
	"challenge-platform",
}

// challengeText are phrases of interstitial pages. They only count on pages
// with little visible text, so a product page that embeds a captcha widget
// in a login or review form is not mistaken for one.
var challengeText = []string{
	"captcha",
	"just a moment...",
	"access denied",
	"attention required",
	"보안문자",
	"비정상적인 접근",
}

const interstitialMaxRunes = 2000

// checkBody reports a blocked fetch when the body is empty or looks like an
// anti-bot interstitial.
func checkBody(body []byte) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return fmt.Errorf("%w: empty body", domain.ErrFetchBlocked)
	}
	lower := strings.ToLower(string(body))
	for _, m := range challengeMarkup {
		if strings.Contains(lower, m) {
			return fmt.Errorf("%w: challenge page (%s)", domain.ErrFetchBlocked, m)
		}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil
	}
	visible := strings.TrimSpace(extract.VisibleText(doc.Selection))
	if utf8.RuneCountInString(visible) > interstitialMaxRunes {
		return nil
	}
	text := strings.ToLower(doc.Find("title").Text() + "\n" + visible)
	for _, m := range challengeText {
		if strings.Contains(text, m) {
			return fmt.Errorf("%w: challenge page (%s)", domain.ErrFetchBlocked, m)
		}
	}
	return nil
}
