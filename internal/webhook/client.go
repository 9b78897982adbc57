package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jessicarod7/envsh/internal/output"
)

// Headers set on every receipt delivery
const (
	HeaderIdempotencyKey = "Idempotency-Key"
	HeaderOperation      = "X-Envsh-Operation"
	HeaderAttempt        = "X-Envsh-Attempt"
)

// Client posts receipts to a webhook endpoint
type Client struct {
	httpClient  *http.Client
	config      *Config
	retryConfig *RetryConfig
	logger      zerolog.Logger
}

// NewClient creates a new webhook client
func NewClient(config *Config, retryConfig *RetryConfig, logger zerolog.Logger) *Client {
	if config.Method == "" {
		config.Method = http.MethodPost
	}
	config.Method = strings.ToUpper(config.Method)
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if retryConfig == nil {
		retryConfig = DefaultRetryConfig()
	}

	return &Client{
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		config:      config,
		retryConfig: retryConfig,
		logger:      logger.With().Str("component", "webhook").Str("url", config.URL).Logger(),
	}
}

// Send posts the receipt without its local delivery status. Every attempt
// carries the receipt ID as its idempotency key, so a receiver can drop
// duplicates caused by retries. The whole exchange is bounded by Config.Timeout.
func (c *Client) Send(ctx context.Context, r *output.Receipt) error {
	body, err := json.Marshal(r.ForDelivery())
	if err != nil {
		return fmt.Errorf("failed to marshal receipt %s: %w", r.ID, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	logger := c.logger.With().Str("receipt", r.ID).Str("operation", r.Operation).Logger()
	attempts := c.retryConfig.MaxRetries + 1

	var lastErr error
	var wait time.Duration
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			logger.Debug().Int("attempt", attempt).Int("of", attempts).Dur("delay", wait).Msg("retrying receipt delivery")
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return fmt.Errorf("receipt delivery abandoned after %d attempts: %w", attempt-1, ctx.Err())
			}
		}

		out := c.post(ctx, r, body, attempt)
		if out.delivered() {
			logger.Debug().Int("status", out.status).Int("attempt", attempt).Msg("receipt delivered")
			return nil
		}

		lastErr = out.err(attempt)
		if !out.retryable() {
			logger.Debug().Int("status", out.status).Msg("receipt rejected, not retrying")
			return lastErr
		}
		wait = c.retryConfig.delay(attempt, out.retryAfter)
	}

	return fmt.Errorf("receipt delivery failed after %d attempts: %w", attempts, lastErr)
}

// outcome is the result of one delivery attempt
type outcome struct {
	status     int
	retryAfter time.Duration
	sendErr    error
}

func (o outcome) delivered() bool {
	return o.sendErr == nil && o.status >= 200 && o.status < 300
}

func (o outcome) retryable() bool {
	if o.sendErr != nil {
		return true
	}
	return isRetryableStatus(o.status)
}

func (o outcome) err(attempt int) error {
	if o.sendErr != nil {
		return fmt.Errorf("attempt %d failed: %w", attempt, o.sendErr)
	}
	return fmt.Errorf("attempt %d failed with status %d", attempt, o.status)
}

func (c *Client) post(ctx context.Context, r *output.Receipt, body []byte, attempt int) outcome {
	req, err := http.NewRequestWithContext(ctx, c.config.Method, c.config.URL, bytes.NewReader(body))
	if err != nil {
		return outcome{sendErr: err}
	}

	req.Header.Set("Content-Type", "application/json")
	for k, v := range c.config.Headers {
		req.Header.Set(k, v)
	}
	if r.ID != "" {
		req.Header.Set(HeaderIdempotencyKey, r.ID)
	}
	req.Header.Set(HeaderOperation, r.Operation)
	req.Header.Set(HeaderAttempt, strconv.Itoa(attempt))

	switch c.config.AuthType {
	case AuthBearer:
		req.Header.Set("Authorization", "Bearer "+c.config.AuthToken)
	case AuthAPIKey:
		req.Header.Set("X-API-Key", c.config.AuthToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return outcome{sendErr: err}
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	return outcome{
		status:     resp.StatusCode,
		retryAfter: parseRetryAfter(resp.Header.Get("Retry-After"), time.Now()),
	}
}
