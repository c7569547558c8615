package ergast

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"f1scraper/pkg/config"
	errs "f1scraper/pkg/errors"
	"f1scraper/pkg/logger"
	"f1scraper/pkg/retry"
)

// Client is the HTTP fetch layer for the upstream API. Get performs a
// single request; Fetch wraps it in the retry policy. An exhausted
// retry budget surfaces as an error which callers treat as "no data
// for this unit of work", never as fatal to the pipeline.
type Client struct {
	http     *resty.Client
	baseURL  string
	retryCfg retry.Config
	logger   logger.Logger
}

// NewClient creates a client from the given configuration.
func NewClient(cfg *config.Config, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}

	hc := resty.New()
	hc.SetTimeout(cfg.API.Timeout)
	hc.SetHeader("User-Agent", cfg.API.UserAgent)
	hc.SetHeader("Accept", "application/json")

	return &Client{
		http:    hc,
		baseURL: cfg.API.BaseURL,
		retryCfg: retry.Config{
			MaxAttempts: cfg.Retry.MaxAttempts,
			RateLimitBackoff: &retry.ExponentialBackoff{
				BaseDelay:  cfg.Retry.BaseDelay,
				MaxDelay:   cfg.Retry.MaxDelay,
				Multiplier: 2.0,
			},
			TransientBackoff: &retry.ConstantBackoff{Delay: cfg.Retry.BaseDelay},
			RetryIf:          retry.DefaultRetryIf,
			Logger:           log,
		},
		logger: log,
	}
}

// BaseURL returns the configured API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get performs a single GET request and decodes the response envelope.
func (c *Client) Get(ctx context.Context, url string) (*Envelope, error) {
	start := time.Now()
	c.logger.DebugWithFields("sending HTTP request", map[string]interface{}{
		"url": url,
	})

	res, err := c.http.R().SetContext(ctx).Get(url)
	duration := time.Since(start)

	if err != nil {
		c.logger.WarnWithFields("HTTP request failed", map[string]interface{}{
			"url":      url,
			"error":    err.Error(),
			"duration": duration,
		})
		return nil, &errs.Error{
			Type:    errs.ErrorTypeNetwork,
			Message: fmt.Sprintf("network error: %v", err),
		}
	}

	c.logger.DebugWithFields("HTTP request completed", map[string]interface{}{
		"url":      url,
		"status":   res.StatusCode(),
		"duration": duration,
	})

	if err := c.checkStatus(res.StatusCode(), url); err != nil {
		return nil, err
	}

	return c.decode(res.Body(), res.StatusCode(), url)
}

// Fetch performs a GET request under the full retry policy.
func (c *Client) Fetch(ctx context.Context, url string) (*Envelope, error) {
	cfg := c.retryCfg
	cfg.Context = ctx

	return retry.DoWithResult(func() (*Envelope, error) {
		return c.Get(ctx, url)
	}, &cfg)
}

// checkStatus maps an HTTP status to a typed error. 429 is the
// rate-limit signal with its own backoff; every other non-200 status
// is a transient failure under the fixed retry delay.
func (c *Client) checkStatus(status int, url string) error {
	switch {
	case status == http.StatusOK:
		return nil
	case status == http.StatusTooManyRequests:
		c.logger.WarnWithFields("rate limit exceeded", map[string]interface{}{
			"status": status,
			"url":    url,
		})
		return &errs.Error{
			Type:    errs.ErrorTypeRateLimit,
			Message: "rate limit exceeded",
			Code:    status,
		}
	case status >= http.StatusInternalServerError:
		c.logger.WarnWithFields("server error", map[string]interface{}{
			"status": status,
			"url":    url,
		})
		return &errs.Error{
			Type:    errs.ErrorTypeServerError,
			Message: "server error",
			Code:    status,
		}
	default:
		c.logger.WarnWithFields("unexpected HTTP status", map[string]interface{}{
			"status": status,
			"url":    url,
		})
		return &errs.Error{
			Type:    errs.ErrorTypeUnknown,
			Message: fmt.Sprintf("unexpected status code: %d", status),
			Code:    status,
		}
	}
}

// decode unmarshals a response body into the envelope. Numbers are kept
// as json.Number so numeric cells round-trip verbatim.
func (c *Client) decode(body []byte, status int, url string) (*Envelope, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var env Envelope
	if err := dec.Decode(&env); err != nil {
		preview := string(body)
		if len(preview) > 200 {
			preview = preview[:200] + "..."
		}
		c.logger.ErrorWithFields("failed to parse JSON response", map[string]interface{}{
			"url":          url,
			"status":       status,
			"error":        err.Error(),
			"body_preview": preview,
		})
		return nil, &errs.Error{
			Type:    errs.ErrorTypeParsing,
			Message: fmt.Sprintf("failed to parse JSON: %v", err),
			Code:    status,
		}
	}

	return &env, nil
}
