// Package openrates fetches live exchange rates from the open.er-api.com feed.
package openrates

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/heartmarshall/ledgerlens-backend/internal/domain"
	"github.com/heartmarshall/ledgerlens-backend/internal/provider"
)

const defaultBaseURL = "https://open.er-api.com/v6/latest"

// Provider fetches the latest pivot-relative rates.
type Provider struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// NewProvider creates a Provider with the default feed URL.
func NewProvider(timeout time.Duration, logger *slog.Logger) *Provider {
	return NewProviderWithURL(defaultBaseURL, timeout, logger)
}

// NewProviderWithURL creates a Provider with a custom base URL (for testing).
func NewProviderWithURL(baseURL string, timeout time.Duration, logger *slog.Logger) *Provider {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Provider{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		log:        logger.With("adapter", "openrates"),
	}
}

type apiResponse struct {
	Result         string                     `json:"result"`
	BaseCode       string                     `json:"base_code"`
	TimeLastUpdate int64                      `json:"time_last_update_unix"`
	Rates          map[string]decimal.Decimal `json:"rates"`
	ErrorType      string                     `json:"error-type"`
}

// FetchLatest returns rates of the supported currencies relative to base.
// Currencies outside domain.SupportedCurrencies are dropped.
func (p *Provider) FetchLatest(ctx context.Context, base string) (*provider.LiveRates, error) {
	reqURL := p.baseURL + "/" + url.PathEscape(base)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("openrates: create request: %w", err)
	}

	resp, err := p.doWithRetry(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("openrates: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openrates: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("openrates: read body: %w", err)
	}

	var payload apiResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("openrates: decode json: %w", err)
	}
	if payload.Result != "success" {
		return nil, fmt.Errorf("openrates: result %q (%s)", payload.Result, payload.ErrorType)
	}

	rates := make(map[string]decimal.Decimal, len(domain.SupportedCurrencies))
	for _, code := range domain.SupportedCurrencies {
		if r, ok := payload.Rates[code]; ok && r.IsPositive() {
			rates[code] = r
		}
	}
	if len(rates) == 0 {
		return nil, fmt.Errorf("openrates: no supported currencies in response")
	}

	fetchedAt := time.Now().UTC()
	if payload.TimeLastUpdate > 0 {
		fetchedAt = time.Unix(payload.TimeLastUpdate, 0).UTC()
	}

	p.log.DebugContext(ctx, "openrates response",
		slog.String("base", base),
		slog.Int("rates", len(rates)),
	)

	return &provider.LiveRates{Base: domain.NormalizeCurrency(base), Rates: rates, FetchedAt: fetchedAt}, nil
}

// doWithRetry executes the request with a single retry on 5xx or network errors.
func (p *Provider) doWithRetry(ctx context.Context, req *http.Request) (*http.Response, error) {
	resp, err := p.httpClient.Do(req)

	shouldRetry := err != nil || (resp != nil && resp.StatusCode >= 500)
	if !shouldRetry || ctx.Err() != nil {
		return resp, err
	}

	reason := "network error"
	if err == nil {
		reason = fmt.Sprintf("status %d", resp.StatusCode)
		resp.Body.Close()
	}
	p.log.WarnContext(ctx, "openrates retry", slog.String("reason", reason))

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(500 * time.Millisecond):
	}

	return p.httpClient.Do(req)
}
