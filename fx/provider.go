package fx

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	decimal_opt "github.com/tsiemens/fxreport/decimal_value"
	"github.com/tsiemens/fxreport/metrics"
)

const (
	DefaultTimeout = 5 * time.Second

	maxBodySize = 1 << 20
)

// Version is reported in the User-Agent of provider requests.
var Version = "0.1.0"

// RateProvider quotes a rate for a currency pair from one external service.
//
// Quote never fails past its boundary: any error is recorded in the
// returned Quote, whose rate is then Null.
type RateProvider interface {
	ID() ProviderID
	// SiteURL is the public site of the service, used to link report headers.
	SiteURL() string
	Quote(ctx context.Context, pair CurrencyPair) Quote
}

// ProviderOptions are shared by all providers built from a registry.
type ProviderOptions struct {
	Timeout time.Duration
	// Client is used for all requests. Defaults to a client with Timeout.
	Client *http.Client
	Logger zerolog.Logger
	// BaseURLs overrides the API endpoint of individual providers.
	BaseURLs map[ProviderID]string
}

func (o ProviderOptions) timeout() time.Duration {
	if o.Timeout <= 0 {
		return DefaultTimeout
	}
	return o.Timeout
}

func (o ProviderOptions) baseURL(id ProviderID, def string) string {
	if u, ok := o.BaseURLs[id]; ok && u != "" {
		return strings.TrimSuffix(u, "/")
	}
	return def
}

// httpProvider implements the request/timeout/fail-soft handling common to
// every provider. Providers only supply how to build the URL and how to read
// the rate from the body.
type httpProvider struct {
	id      ProviderID
	site    string
	baseURL string
	timeout time.Duration
	client  *http.Client
	logger  zerolog.Logger

	requestURL func(baseURL string, pair CurrencyPair) string
	parseRate  func(body []byte) (decimal.Decimal, error)
}

func newHTTPProvider(id ProviderID, site, defaultBaseURL string, opts ProviderOptions) *httpProvider {
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: opts.timeout()}
	}
	return &httpProvider{
		id:      id,
		site:    site,
		baseURL: opts.baseURL(id, defaultBaseURL),
		timeout: opts.timeout(),
		client:  client,
		logger:  opts.Logger.With().Str("provider", string(id)).Logger(),
	}
}

func (p *httpProvider) ID() ProviderID {
	return p.id
}

func (p *httpProvider) SiteURL() string {
	return p.site
}

// Quote implements RateProvider.
func (p *httpProvider) Quote(ctx context.Context, pair CurrencyPair) (q Quote) {
	start := time.Now()
	q = Quote{Provider: p.id, Rate: decimal_opt.Null}

	defer func() {
		if r := recover(); r != nil {
			q = Quote{Provider: p.id, Rate: decimal_opt.Null,
				Err: fmt.Errorf("%w: %v", ErrProviderPanic, r)}
		}
		if q.Err != nil && ctx.Err() != nil {
			// The run was canceled; this says nothing about the provider.
			p.logger.Debug().Str("pair", pair.String()).Msg("Rate fetch canceled")
			return
		}
		metrics.RecordFetch(string(p.id), q.Err == nil, time.Since(start))
		if q.Err != nil {
			p.logger.Warn().
				Str("pair", pair.String()).
				Err(q.Err).
				Msg("Rate fetch failed, reporting 0")
		}
	}()

	rate, err := p.fetch(ctx, pair)
	if err != nil {
		q.Err = fmt.Errorf("%s: %w", p.id, err)
		return
	}
	q.Rate = decimal_opt.New(rate)
	p.logger.Debug().
		Str("pair", pair.String()).
		Str("rate", rate.String()).
		Dur("took", time.Since(start)).
		Msg("Fetched rate")
	return
}

func (p *httpProvider) fetch(ctx context.Context, pair CurrencyPair) (decimal.Decimal, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	url := p.requestURL(p.baseURL, pair)
	p.logger.Debug().Str("url", url).Msg("Requesting rate")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("User-Agent", "fxreport/"+Version)

	resp, err := p.client.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to fetch rate: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to read response: %w", err)
	}

	return p.parseRate(body)
}

// flexNumber accepts a JSON number or a numeric JSON string. Providers are
// not consistent about which they send.
type flexNumber struct {
	set   bool
	value decimal.Decimal
}

func (n *flexNumber) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "null" {
		return nil
	}
	s := raw
	if strings.HasPrefix(raw, `"`) {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
	}
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("%w: %s", ErrNotNumeric, raw)
	}
	n.set = true
	n.value = d
	return nil
}

func (n flexNumber) rate(field string) (decimal.Decimal, error) {
	if !n.set {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrMissingField, field)
	}
	return n.value, nil
}

func decodeJSON(body []byte, v interface{}) error {
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	return nil
}

func missing(field string) error {
	return fmt.Errorf("%w: %s", ErrMissingField, field)
}
