package envsh

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Response headers issued on creation
const (
	HeaderExpires = "X-Expires"
	HeaderToken   = "X-Token"
)

// Config holds client configuration
type Config struct {
	Endpoint   string       // Creation endpoint (default: Endpoint)
	HTTPClient *http.Client // Transport (default: client with no timeout)
	Logger     zerolog.Logger
}

// Client sends requests to the service. It never retries.
type Client struct {
	httpClient *http.Client
	endpoint   string
	logger     zerolog.Logger
}

// NewClient creates a new service client
func NewClient(config *Config) *Client {
	if config == nil {
		config = &Config{Logger: zerolog.Nop()}
	}
	endpoint := config.Endpoint
	if endpoint == "" {
		endpoint = Endpoint
	}
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &Client{
		httpClient: httpClient,
		endpoint:   endpoint,
		logger:     config.Logger,
	}
}

// Endpoint returns the creation endpoint
func (c *Client) Endpoint() string { return c.endpoint }

// Response is the service's answer to a single request
type Response struct {
	StatusCode int
	Body       string     // Trimmed body: the resulting URL or an error message
	ExpiresAt  *time.Time // From X-Expires, read only when DisplaySecret was requested
	Token      string     // From X-Token, read only when DisplaySecret was requested
}

// Success reports a 2xx status
func (r *Response) Success() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Create uploads a file, mirrors a remote file, or shortens a URL
func (c *Client) Create(ctx context.Context, req *CreateRequest) (*Response, error) {
	form, err := req.Form()
	if err != nil {
		return nil, err
	}

	httpResp, body, err := c.post(ctx, c.endpoint, form)
	if err != nil {
		return nil, err
	}

	resp := &Response{StatusCode: httpResp.StatusCode, Body: body}
	if !req.DisplaySecret {
		return resp, nil
	}

	resp.Token = httpResp.Header.Get(HeaderToken)
	if raw := httpResp.Header.Get(HeaderExpires); raw != "" {
		expiresAt, err := ParseExpiresHeader(raw)
		if err != nil {
			c.logger.Warn().Err(err).Str("header", HeaderExpires).Msg("ignoring unparseable expiry")
		} else {
			resp.ExpiresAt = &expiresAt
		}
	}

	return resp, nil
}

// Manage changes the expiry of, or deletes, an existing entry
func (c *Client) Manage(ctx context.Context, req *ManageRequest) (*Response, error) {
	form, err := req.Form()
	if err != nil {
		return nil, err
	}

	httpResp, body, err := c.post(ctx, req.URL.String(), form)
	if err != nil {
		return nil, err
	}

	return &Response{StatusCode: httpResp.StatusCode, Body: body}, nil
}

func (c *Client) post(ctx context.Context, target string, form *Form) (*http.Response, string, error) {
	body, contentType, err := form.Encode()
	if err != nil {
		return nil, "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request for %s: %w", target, err)
	}
	req.Header.Set("Content-Type", contentType)

	c.logger.Debug().
		Object("request", requestSummary{url: target, form: form, size: req.ContentLength}).
		Msg("sending request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to send request to %s: %w", target, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read response from %s: %w", target, err)
	}

	c.logger.Debug().
		Int("status", resp.StatusCode).
		Int("bytes", len(data)).
		Msg("received response")

	return resp, strings.TrimSpace(string(data)), nil
}

// Instants an X-Expires header may name, years -9999 through 9999
var (
	minExpiresMs = decimal.NewFromInt(time.Date(-9999, time.January, 1, 0, 0, 0, 0, time.UTC).UnixMilli())
	maxExpiresMs = decimal.NewFromInt(time.Date(9999, time.December, 31, 23, 59, 59, 999e6, time.UTC).UnixMilli())
)

// ParseExpiresHeader reads epoch milliseconds, possibly fractional, and
// returns the instant in the local time zone. Fractions are truncated.
func ParseExpiresHeader(raw string) (time.Time, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s value %q: %w", HeaderExpires, raw, err)
	}
	d = d.Truncate(0)
	if d.LessThan(minExpiresMs) || d.GreaterThan(maxExpiresMs) {
		return time.Time{}, fmt.Errorf("%s value %q is out of range", HeaderExpires, raw)
	}
	return time.UnixMilli(d.IntPart()), nil
}

var localtimePath = "/etc/localtime"

// FormatExpiry renders t like "2023-11-14 (Tuesday), 17:13:20 [America/Toronto]".
// Fractional seconds appear only when non-zero. The system zone is named after
// the zoneinfo file /etc/localtime links to; zones without a name are shown as
// an offset.
func FormatExpiry(t time.Time) string {
	zone := t.Location().String()
	if zone == "Local" {
		zone = zoneFromPath(localtimePath)
	} else if filepath.IsAbs(zone) {
		zone = zoneFromPath(zone)
	}
	if zone == "" {
		zone = t.Format("-07:00")
	}
	return t.Format("2006-01-02 (Monday), 15:04:05.999999999") + " [" + zone + "]"
}

// zoneFromPath names a zone by the part of its resolved file path after
// "zoneinfo/", or returns "" when there is none.
func zoneFromPath(p string) string {
	resolved, err := filepath.EvalSymlinks(p)
	if err != nil {
		resolved = p
	}
	_, name, ok := strings.Cut(filepath.ToSlash(resolved), "zoneinfo/")
	if !ok {
		return ""
	}
	return name
}

type requestSummary struct {
	url  string
	form *Form
	size int64
}

func (s requestSummary) MarshalZerologObject(e *zerolog.Event) {
	e.Str("method", http.MethodPost).
		Str("url", s.url).
		Strs("fields", s.form.Names()).
		Int64("bytes", s.size)
}
