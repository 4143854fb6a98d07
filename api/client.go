// Package api is the HTTP client for the Overlap server.
//
// Calls carry a per-call timeout and a bounded retry budget with
// exponential backoff. Client-side rejections (4xx) are never retried;
// timeouts and connection failures are, until the budget is spent.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/overlaphq/overlap-cli/config"
	"github.com/overlaphq/overlap-cli/errors"
	"github.com/overlaphq/overlap-cli/logging"
	"github.com/sirupsen/logrus"
)

const (
	// defaultTimeout is the per-call ceiling when an endpoint wrapper does
	// not impose a tighter one.
	defaultTimeout = 5 * time.Second

	// defaultBackoffBase is the first retry delay; each further retry doubles it.
	defaultBackoffBase = 500 * time.Millisecond
)

// Client performs authenticated calls against the Overlap server.
type Client struct {
	baseURL    string
	teamToken  string
	userToken  string
	httpClient *http.Client
	logger     *logrus.Entry
}

// NewClient builds a client from the plugin configuration.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.ServerURL, "/"),
		teamToken:  cfg.TeamToken,
		userToken:  cfg.UserToken,
		httpClient: &http.Client{},
		logger:     logging.NewLogger("api"),
	}
}

// callOptions bound a single logical call.
type callOptions struct {
	timeout     time.Duration
	retries     int
	backoffBase time.Duration
}

func (o callOptions) withDefaults() callOptions {
	if o.timeout == 0 {
		o.timeout = defaultTimeout
	}
	if o.backoffBase == 0 {
		o.backoffBase = defaultBackoffBase
	}
	return o
}

// post sends a JSON body and decodes the enveloped response into out
// (which may be nil when the reply body is irrelevant).
func (c *Client) post(ctx context.Context, endpoint string, body interface{}, out interface{}, opts callOptions) error {
	if c.baseURL == "" {
		return errors.NotConfigured()
	}
	opts = opts.withDefaults()

	payload, err := json.Marshal(body)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to encode request body")
	}

	url := c.baseURL + endpoint
	requestID := uuid.NewString()[:8]
	log := c.logger.WithFields(logrus.Fields{
		"request_id":   requestID,
		"method":       http.MethodPost,
		"url":          url,
		"payload_size": len(payload),
	})

	var lastErr error
	for attempt := 0; attempt <= opts.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(opts.backoffBase << (attempt - 1)):
			case <-ctx.Done():
				return errors.APIConnection(ctx.Err())
			}
		}

		start := time.Now()
		log.Debug("HTTP request")

		err := c.attempt(ctx, url, payload, out, opts.timeout)
		elapsed := time.Since(start).Milliseconds()

		if err == nil {
			log.WithField("elapsed_ms", elapsed).Debug("HTTP response")
			return nil
		}

		if overlapErr, ok := err.(*errors.OverlapError); ok &&
			overlapErr.Code != errors.ErrCodeAPIConnection {
			// Non-retryable: surface immediately.
			log.WithField("elapsed_ms", elapsed).WithField("error", err.Error()).Warn("HTTP error response")
			return err
		}

		log.WithField("elapsed_ms", elapsed).WithField("error", err.Error()).Warn("HTTP request failed")
		lastErr = err
	}

	return lastErr
}

// attempt performs one HTTP round trip under its own deadline.
func (c *Client) attempt(ctx context.Context, url string, payload []byte, out interface{}, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.userToken)
	req.Header.Set("X-Team-Token", c.teamToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.APIConnection(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return errors.APIConnection(err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if out != nil && len(respBody) > 0 {
			if err := json.Unmarshal(respBody, out); err != nil {
				return errors.Wrap(err, errors.ErrCodeAPIRequest, "failed to decode response")
			}
		}
		return nil

	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		message := serverMessage(respBody, resp.StatusCode)
		if resp.StatusCode == http.StatusNotFound {
			return errors.New(errors.ErrCodeSessionNotFound, message).
				WithDetail("status", resp.StatusCode)
		}
		return errors.APIRequest(resp.StatusCode, message)

	default:
		// 5xx and anything unexpected are retryable.
		return errors.APIConnection(fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody))))
	}
}

// serverMessage extracts the server-provided error message when the 4xx
// body is parseable JSON, falling back to a generic status line.
func serverMessage(body []byte, status int) string {
	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error != "" {
		return parsed.Error
	}
	if len(body) > 0 {
		return fmt.Sprintf("HTTP %d: %s", status, strings.TrimSpace(string(body)))
	}
	return fmt.Sprintf("HTTP %d", status)
}
