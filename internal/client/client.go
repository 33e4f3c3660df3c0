// Package client talks to the remote fare/airport service. It classifies
// every failure into a *fareerr.Error and never retries; retry policy lives in
// the request cache.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/net/proxy"

	"github.com/dharmasatrya/farecalendar/internal/fareerr"
	"github.com/dharmasatrya/farecalendar/internal/ratelimit"
)

const (
	FamilyAirports = "airports"
	FamilyFares    = "fares"
	FamilyHealth   = "health"

	DefaultBaseURL = "https://api-ryanair.jnobrega.com"

	maxErrorBody = 64 << 10
)

type Config struct {
	BaseURL    string
	Timeout    time.Duration
	Limiter    *ratelimit.FamilyLimiter
	Logger     zerolog.Logger
	HTTPClient *http.Client
}

type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	limiter    *ratelimit.FamilyLimiter
	log        zerolog.Logger
}

func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", cfg.BaseURL, err)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.DialContext = proxy.Dial
		httpClient = &http.Client{Transport: transport, Timeout: cfg.Timeout}
	}

	return &Client{
		baseURL:    base,
		httpClient: httpClient,
		limiter:    cfg.Limiter,
		log:        cfg.Logger,
	}, nil
}

type request struct {
	family        string
	path          string
	params        url.Values
	locationAware bool
}

func (c *Client) getJSON(ctx context.Context, r request, v any) error {
	if err := c.limiter.Wait(ctx, r.family); err != nil {
		return fareerr.Wrap(err)
	}

	u := c.baseURL.ResolveReference(&url.URL{Path: r.path})
	if len(r.params) > 0 {
		u.RawQuery = r.params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fareerr.Validation("could not create request: %v", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug().Err(err).Str("url", u.String()).Str("request_id", requestID).Msg("request failed")
		return fareerr.Wrap(err)
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("url", u.String()).
		Str("request_id", requestID).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("remote request")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp, r.locationAware)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return fareerr.Wrap(err)
		}
		return &fareerr.Error{
			Kind:    fareerr.KindTransient,
			Status:  resp.StatusCode,
			Message: "could not decode response: " + err.Error(),
			Err:     err,
		}
	}

	return nil
}

func decodeError(resp *http.Response, locationAware bool) error {
	message := fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))

	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err := json.Unmarshal(data, &body); err == nil && body.Message != "" {
		message = body.Message
	}

	return fareerr.FromStatus(resp.StatusCode, strings.ToLower(body.Error), message, locationAware)
}

func setIfNotEmpty(params url.Values, key, value string) {
	if value != "" {
		params.Set(key, value)
	}
}
