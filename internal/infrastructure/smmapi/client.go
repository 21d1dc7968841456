// Package smmapi is the single HTTP gateway to the SMM backend. Every domain
// call goes through Client, which owns headers, token injection, response
// parsing and the 401 session-expiry rule.
package smmapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/smmpanel/smm-client/internal/api/metrics"
	"github.com/smmpanel/smm-client/internal/core/domain"
	"github.com/smmpanel/smm-client/internal/core/ports"
)

// RequestIDHeader is sent on every call so backend logs can be correlated.
const RequestIDHeader = "X-Request-ID"

// Options configures a Client.
type Options struct {
	BaseURL string
	// Timeout bounds a single call. Zero means no client-side timeout.
	Timeout   time.Duration
	UserAgent string
}

// Response is a parsed backend answer. Body is always valid JSON: non-JSON
// payloads are wrapped as {"message": "<raw text>"}.
type Response struct {
	StatusCode int
	Body       json.RawMessage
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

type Client struct {
	http   *resty.Client
	tokens ports.TokenSource
	log    zerolog.Logger
}

var _ ports.Transport = (*Client)(nil)

// New builds a Client. tokens may be nil for unauthenticated use such as
// readiness probes.
func New(opts Options, tokens ports.TokenSource, log zerolog.Logger) *Client {
	rc := resty.New().
		SetBaseURL(opts.BaseURL).
		SetRetryCount(0).
		SetLogger(restyLogger{log: log}).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if opts.Timeout > 0 {
		rc.SetTimeout(opts.Timeout)
	}
	if opts.UserAgent != "" {
		rc.SetHeader("User-Agent", opts.UserAgent)
	}

	return &Client{http: rc, tokens: tokens, log: log}
}

// Request performs one call and returns the parsed answer. A non-2xx status
// is returned as *domain.APIError alongside the response; a 401 also clears
// the session through the token source.
func (c *Client) Request(ctx context.Context, method, endpoint string, body any) (*Response, error) {
	req := c.http.R().
		SetContext(ctx).
		SetHeader(RequestIDHeader, uuid.NewString())

	if c.tokens != nil {
		if token := c.tokens.Token(ctx); token != "" {
			req.SetHeader("Authorization", "Token "+token)
		}
	}

	if body != nil && method != http.MethodGet {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", method, endpoint, err)
		}
		req.SetBody(payload)
	}

	label := metrics.EndpointLabel(endpoint)
	start := time.Now()
	raw, err := req.Execute(method, endpoint)
	elapsed := time.Since(start)
	metrics.APIRequestDuration.WithLabelValues(method, label).Observe(elapsed.Seconds())

	if err != nil {
		metrics.APIRequestsTotal.WithLabelValues(method, label, "error").Inc()
		c.log.Debug().Err(err).
			Str("method", method).
			Str("endpoint", endpoint).
			Dur("duration", elapsed).
			Msg("api call failed")
		return nil, fmt.Errorf("%s %s: %w", method, endpoint, err)
	}

	resp := &Response{
		StatusCode: raw.StatusCode(),
		Body:       parseBody(raw.Header().Get("Content-Type"), raw.Body()),
	}
	metrics.APIRequestsTotal.WithLabelValues(method, label, strconv.Itoa(resp.StatusCode)).Inc()
	c.log.Debug().
		Str("method", method).
		Str("endpoint", endpoint).
		Int("status", resp.StatusCode).
		Dur("duration", elapsed).
		Str("request_id", req.Header.Get(RequestIDHeader)).
		Msg("api call")

	if resp.StatusCode == http.StatusUnauthorized {
		if c.tokens != nil {
			c.tokens.Invalidate(ctx)
		}
		metrics.SessionExpiredTotal.Inc()
		return resp, &domain.APIError{StatusCode: resp.StatusCode, Message: domain.SessionExpiredMessage}
	}
	if !resp.OK() {
		return resp, &domain.APIError{StatusCode: resp.StatusCode, Message: ExtractMessage(resp.Body)}
	}

	return resp, nil
}

// Do performs a call and decodes a successful answer into out. out may be nil.
func (c *Client) Do(ctx context.Context, method, endpoint string, body, out any) error {
	resp, err := c.Request(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("%w: %s %s: %v", domain.ErrUnexpectedResponse, method, endpoint, err)
	}
	return nil
}

func (c *Client) Get(ctx context.Context, endpoint string, out any) error {
	return c.Do(ctx, http.MethodGet, endpoint, nil, out)
}

func (c *Client) Post(ctx context.Context, endpoint string, body, out any) error {
	return c.Do(ctx, http.MethodPost, endpoint, body, out)
}

func (c *Client) Put(ctx context.Context, endpoint string, body, out any) error {
	return c.Do(ctx, http.MethodPut, endpoint, body, out)
}

func (c *Client) Patch(ctx context.Context, endpoint string, body, out any) error {
	return c.Do(ctx, http.MethodPatch, endpoint, body, out)
}

func (c *Client) Delete(ctx context.Context, endpoint string, out any) error {
	return c.Do(ctx, http.MethodDelete, endpoint, nil, out)
}

// Ping reports whether the backend answers at all. Any HTTP status counts.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.http.R().SetContext(ctx).Execute(http.MethodGet, "")
	if err != nil {
		return fmt.Errorf("ping api: %w", err)
	}
	return nil
}

// parseBody keeps JSON bodies as they are and wraps everything else, including
// malformed JSON, as {"message": raw}.
func parseBody(contentType string, body []byte) json.RawMessage {
	if isJSON(contentType) {
		trimmed := bytes.TrimSpace(body)
		if len(trimmed) == 0 {
			return json.RawMessage("{}")
		}
		if json.Valid(trimmed) {
			return json.RawMessage(trimmed)
		}
	}
	wrapped, _ := json.Marshal(map[string]string{"message": string(body)})
	return wrapped
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || (len(mediaType) > 5 && mediaType[len(mediaType)-5:] == "+json")
}

// restyLogger routes resty's internal warnings into zerolog.
type restyLogger struct {
	log zerolog.Logger
}

func (l restyLogger) Errorf(format string, v ...any) { l.log.Error().Msgf(format, v...) }
func (l restyLogger) Warnf(format string, v ...any)  { l.log.Warn().Msgf(format, v...) }
func (l restyLogger) Debugf(format string, v ...any) { l.log.Debug().Msgf(format, v...) }
