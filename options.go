package tinyami

import (
	"net/http"
	"time"
	"tinyami/internal/adapters/transport"

	"github.com/cenkalti/backoff/v4"
	"github.com/prometheus/client_golang/prometheus"
)

// DefaultMaxRetries is the number of retries applied to transient failures unless
// WithMaxRetries says otherwise.
const DefaultMaxRetries = 2

type settings struct {
	cfg              transport.Config
	metricsNamespace string
	registerer       prometheus.Registerer
	metrics          bool
}

// Option configures a Client.
type Option func(*settings)

// WithBaseURL points the client at another deployment of the API.
func WithBaseURL(baseURL string) Option {
	return func(s *settings) {
		s.cfg.BaseURL = baseURL
	}
}

// WithTimeout bounds every attempt of a request.
func WithTimeout(timeout time.Duration) Option {
	return func(s *settings) {
		s.cfg.Timeout = timeout
	}
}

// WithMaxRetries sets how many times a request failing with a network error, a 5xx or a
// 429 response is retried. Zero disables retries.
func WithMaxRetries(maxRetries int) Option {
	return func(s *settings) {
		s.cfg.MaxRetries = maxRetries
	}
}

// WithHTTPClient sends requests through httpClient. WithTimeout has no effect on it.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(s *settings) {
		s.cfg.HTTPClient = httpClient
	}
}

// WithBackOff replaces the exponential wait between retries.
func WithBackOff(newBackOff func() backoff.BackOff) Option {
	return func(s *settings) {
		s.cfg.BackOff = newBackOff
	}
}

// WithMetrics exports request metrics under namespace on reg. A nil reg means the
// default Prometheus registerer.
func WithMetrics(namespace string, reg prometheus.Registerer) Option {
	return func(s *settings) {
		s.metrics = true
		s.metricsNamespace = namespace
		s.registerer = reg
	}
}

// ListOption configures GetImagesList.
type ListOption func(*listOptions)

type listOptions struct {
	page  int
	limit int
}

func WithPage(page int) ListOption {
	return func(o *listOptions) {
		o.page = page
	}
}

func WithLimit(limit int) ListOption {
	return func(o *listOptions) {
		o.limit = limit
	}
}
