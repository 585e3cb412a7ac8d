package bookstore

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"rankwatch/internal/domain"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

type httpTier struct {
	client *resty.Client
	logger *slog.Logger
}

func newHTTPTier(cfg Config, logger *slog.Logger) *httpTier {
	client := resty.New()
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	client.SetHeader("user-agent", userAgent)
	client.SetHeader("accept", "text/html,application/xhtml+xml")
	client.SetHeader("accept-language", "ko-KR,ko;q=0.9,en;q=0.8")
	client.SetTimeout(cfg.Timeout)

	if cfg.MaxAttempts > 1 {
		client.SetRetryCount(cfg.MaxAttempts - 1)
		client.SetRetryWaitTime(cfg.InitialBackoff)
		client.SetRetryMaxWaitTime(cfg.MaxBackoff)
		client.AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			switch r.StatusCode() {
			case http.StatusInternalServerError, http.StatusBadGateway, http.StatusGatewayTimeout:
				return true
			}
			return false
		})
	}

	if cfg.RatePerMinute > 0 {
		limiter := rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RatePerMinute)), 1)
		client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			return limiter.Wait(req.Context())
		})
	}

	return &httpTier{client: client, logger: logger.With("tier", TierHTTP)}
}

func (t *httpTier) Fetch(ctx context.Context, url string) (*domain.Page, error) {
	resp, err := t.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFetchBlocked, err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", domain.ErrFetchBlocked, resp.StatusCode())
	}

	body := resp.Body()
	if err := checkBody(body); err != nil {
		return nil, err
	}

	t.logger.Debug("fetched page", "url", url, "bytes", len(body), "duration", resp.Time())

	return &domain.Page{
		URL:       url,
		HTML:      body,
		FetchedAt: time.Now().UTC(),
		Tier:      TierHTTP,
	}, nil
}
