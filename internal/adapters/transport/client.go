package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"tinyami/internal/core/domain"
	"tinyami/internal/core/port"

	"github.com/cenkalti/backoff/v4"
	"github.com/gofrs/uuid/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	DefaultBaseURL = "https://api.tinyami.com"
	DefaultTimeout = 30 * time.Second

	AccessTokenHeader = "X-Tinyami-Access-Token"
	RequestIDHeader   = "X-Request-Id"

	contentTypeJSON = "application/json"
)

// Config holds the settings of a Client. Zero values fall back to the defaults above;
// a zero MaxRetries sends every request exactly once.
type Config struct {
	APIKey     string
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
	// HTTPClient overrides the client used to send requests. Its Timeout is left as is.
	HTTPClient *http.Client
	Observer   Observer
	// BackOff builds the wait policy between attempts of one call.
	BackOff func() backoff.BackOff
}

// Client sends requests to the Tinyami API. It holds no per-call state and is safe for
// concurrent use.
type Client struct {
	apiKey     string
	baseURL    *url.URL
	maxRetries int
	httpClient *http.Client
	observer   Observer
	newBackOff func() backoff.BackOff
}

var _ port.Requester = (*Client)(nil)

func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, domain.ErrMissingAPIKey
	}

	rawBaseURL := cfg.BaseURL
	if rawBaseURL == "" {
		rawBaseURL = DefaultBaseURL
	}

	baseURL, err := url.Parse(rawBaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", rawBaseURL, err)
	}
	if baseURL.Scheme == "" || baseURL.Host == "" {
		return nil, fmt.Errorf("invalid base url %q: scheme and host are required", rawBaseURL)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	observer := cfg.Observer
	if observer == nil {
		observer = nopObserver{}
	}

	newBackOff := cfg.BackOff
	if newBackOff == nil {
		newBackOff = defaultBackOff
	}

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		maxRetries: maxRetries,
		httpClient: httpClient,
		observer:   observer,
		newBackOff: newBackOff,
	}, nil
}

// Do sends req, retrying transient failures, and decodes a 2xx body into out.
// A non-2xx response yields a *domain.HTTPError; transport failures are returned as
// produced by the underlying http.Client.
func (c *Client) Do(ctx context.Context, req port.Request, out any) error {
	requestID, err := uuid.NewV4()
	if err != nil {
		return fmt.Errorf("error generating request id: %w", err)
	}

	l := log.With().
		Str("requestId", requestID.String()).
		Str("operation", req.Operation).
		Str("method", req.Method).
		Str("path", req.Path).
		Logger()

	endpoint := c.resolve(req.Path, req.Query)

	attempt := 0
	operation := func() ([]byte, error) {
		attempt++
		body, err := c.send(ctx, l.With().Int("attempt", attempt).Logger(), req, endpoint, requestID.String())
		return body, classify(ctx, err)
	}

	notify := func(err error, wait time.Duration) {
		c.observer.ObserveRetry(req.Operation)
		l.Warn().Err(err).Int("attempt", attempt).Dur("wait", wait).Msg("retrying request")
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(c.newBackOff(), uint64(c.maxRetries)), ctx)

	body, err := backoff.RetryNotifyWithData(operation, policy, notify)
	if err != nil {
		return err
	}

	if out == nil || len(body) == 0 {
		return nil
	}

	if err := json.Unmarshal(body, out); err != nil {
		l.Debug().Bytes("body", body).Msg("undecodable response")
		return fmt.Errorf("error decoding %s response: %w", req.Operation, err)
	}

	return nil
}

func (c *Client) send(ctx context.Context, l zerolog.Logger, req port.Request, endpoint, requestID string) ([]byte, error) {
	var (
		payload     io.Reader
		contentType = contentTypeJSON
	)

	if req.Body != nil {
		var err error
		payload, contentType, err = req.Body.Open()
		if err != nil {
			return nil, backoff.Permanent(fmt.Errorf("error encoding %s request: %w", req.Operation, err))
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, endpoint, payload)
	if err != nil {
		if closer, ok := payload.(io.Closer); ok {
			closer.Close()
		}
		return nil, backoff.Permanent(fmt.Errorf("error creating %s request: %w", req.Operation, err))
	}

	httpReq.Header.Set(AccessTokenHeader, c.apiKey)
	httpReq.Header.Set(RequestIDHeader, requestID)
	httpReq.Header.Set("Accept", contentTypeJSON)
	httpReq.Header.Set("Content-Type", contentType)

	start := time.Now()
	res, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.observer.ObserveRequest(req.Operation, 0, time.Since(start))
		return nil, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	duration := time.Since(start)
	c.observer.ObserveRequest(req.Operation, res.StatusCode, duration)

	l.Debug().Int("status", res.StatusCode).Dur("duration", duration).Msg("tinyami response")

	if err != nil {
		return nil, fmt.Errorf("error reading %s response: %w", req.Operation, err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, newHTTPError(res.StatusCode, body)
	}

	return body, nil
}

func (c *Client) resolve(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimSuffix(c.baseURL.Path, "/") + "/" + strings.TrimPrefix(path, "/")
	u.RawPath = ""
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

type errorBody struct {
	Message string          `json:"message"`
	Detail  json.RawMessage `json:"detail"`
}

// newHTTPError builds the normalized error of a non-2xx response. The message is taken
// from "message", then "detail", then DefaultErrorMessage.
func newHTTPError(statusCode int, body []byte) *domain.HTTPError {
	return domain.NewHTTPError(statusCode, errorMessage(body), body)
}

func errorMessage(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return domain.DefaultErrorMessage
	}

	if eb.Message != "" {
		return eb.Message
	}

	if detail := detailMessage(eb.Detail); detail != "" {
		return detail
	}

	return domain.DefaultErrorMessage
}

// detailMessage returns detail as text. Structured details, such as a list of field
// errors, are returned as compact JSON.
func detailMessage(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, raw); err != nil {
		return ""
	}
	return compact.String()
}
