package transport

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Observer captures telemetry for API calls.
type Observer interface {
	// ObserveRequest records one attempt. status is 0 when no response was received.
	ObserveRequest(operation string, status int, duration time.Duration)
	ObserveRetry(operation string)
}

// PrometheusObserver exports request metrics to Prometheus.
type PrometheusObserver struct {
	requestDuration *prometheus.HistogramVec
	responses       *prometheus.CounterVec
	retries         *prometheus.CounterVec
}

// NewPrometheusObserver registers the client metrics on reg, or on the default registerer
// when reg is nil.
func NewPrometheusObserver(namespace string, reg prometheus.Registerer) (*PrometheusObserver, error) {
	if namespace == "" {
		namespace = "tinyami_client"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	o := &PrometheusObserver{
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "Latency of Tinyami API attempts.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		responses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "responses_total",
			Help:      "Tinyami API attempts by status class.",
		}, []string{"operation", "class"}),
		retries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "retries_total",
			Help:      "Retried Tinyami API calls.",
		}, []string{"operation"}),
	}

	var err error
	if o.requestDuration, err = registerCollector(reg, o.requestDuration); err != nil {
		return nil, err
	}
	if o.responses, err = registerCollector(reg, o.responses); err != nil {
		return nil, err
	}
	if o.retries, err = registerCollector(reg, o.retries); err != nil {
		return nil, err
	}

	return o, nil
}

// registerCollector registers c, reusing an identical collector registered earlier.
func registerCollector[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}

	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(T); ok {
			return existing, nil
		}
	}

	return c, fmt.Errorf("register tinyami metric: %w", err)
}

func (o *PrometheusObserver) ObserveRequest(operation string, status int, duration time.Duration) {
	o.requestDuration.WithLabelValues(operation).Observe(duration.Seconds())
	o.responses.WithLabelValues(operation, statusClass(status)).Inc()
}

func (o *PrometheusObserver) ObserveRetry(operation string) {
	o.retries.WithLabelValues(operation).Inc()
}

func statusClass(status int) string {
	if status <= 0 {
		return "error"
	}
	return strconv.Itoa(status/100) + "xx"
}

type nopObserver struct{}

func (nopObserver) ObserveRequest(string, int, time.Duration) {}

func (nopObserver) ObserveRetry(string) {}
