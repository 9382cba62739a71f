package intell

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type sdkMetrics struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newSDKMetrics(reg prometheus.Registerer) (*sdkMetrics, error) {
	m := &sdkMetrics{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "intell",
			Subsystem: "sdk",
			Name:      "calls_total",
			Help:      "Calls made to the intell search API, by call (search, suggest, trending, index_page, health) and outcome.",
		}, []string{"call", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "intell",
			Subsystem: "sdk",
			Name:      "call_duration_seconds",
			Help:      "Round-trip latency of intell API calls as seen by the client.",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"call"}),
	}
	if err := registerOrReuse(reg, &m.calls); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.duration); err != nil {
		return nil, err
	}
	return m, nil
}

// registerOrReuse lets several Clients built with the same registry share
// one set of series instead of failing on the second New.
func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	err := reg.Register(*c)
	if err == nil {
		return nil
	}
	var are prometheus.AlreadyRegisteredError
	if !errors.As(err, &are) {
		return fmt.Errorf("intell: register sdk metric: %w", err)
	}
	existing, ok := are.ExistingCollector.(T)
	if !ok {
		return fmt.Errorf("intell: sdk metric registered as %T", are.ExistingCollector)
	}
	*c = existing
	return nil
}

// outcome buckets a call error by the sentinel it matches.
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInvalidRequest):
		return "invalid_request"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrUnavailable):
		return "unavailable"
	case errors.Is(err, ErrServer):
		return "server_error"
	}
	return "transport_error"
}

// observer is nil-safe; a Client without a logger or registry pays nothing.
type observer struct {
	logger  *slog.Logger
	metrics *sdkMetrics
}

func newObserver(logger *slog.Logger, reg prometheus.Registerer) (*observer, error) {
	o := &observer{logger: logger}
	if reg != nil {
		m, err := newSDKMetrics(reg)
		if err != nil {
			return nil, err
		}
		o.metrics = m
	}
	return o, nil
}

func (o *observer) observe(call string, start time.Time, err error) {
	if o == nil {
		return
	}
	took := time.Since(start)
	res := outcome(err)

	if o.metrics != nil {
		o.metrics.calls.WithLabelValues(call, res).Inc()
		o.metrics.duration.WithLabelValues(call).Observe(took.Seconds())
	}
	if o.logger == nil {
		return
	}
	if err != nil {
		o.logger.Warn("intell call failed", "call", call, "outcome", res, "took", took, "error", err)
		return
	}
	o.logger.Debug("intell call", "call", call, "took", took)
}
