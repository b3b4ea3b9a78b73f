package http

import (
	"crypto/subtle"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/corpix/stegano/errors"
	"github.com/corpix/stegano/log"
	"github.com/corpix/stegano/metrics"
)

type (
	MetricsOption = promhttp.Option

	MetricsConfig struct {
		Enable    bool   `yaml:"enable"`
		Path      string `yaml:"path"`
		TokenType string `yaml:"token-type"`
		Token     string `yaml:"token"`
		TokenFile string `yaml:"token-file"`
	}

	httpMetrics struct {
		duration *metrics.HistogramVec
		total    *metrics.CounterVec
		reqSize  *metrics.HistogramVec
		resSize  *metrics.HistogramVec
		inFlight metrics.Gauge
	}
)

var sizeBuckets = []float64{100, 1000, 10000, 100000, 1000000, 10000000}

func (c *MetricsConfig) Default() {
	if c.Path == "" {
		c.Path = "/metrics"
	}
	if c.TokenType == "" {
		c.TokenType = AuthTokenTypeBearer
	}
}

func (c *MetricsConfig) Validate() error {
	if c.Token != "" && c.TokenFile != "" {
		return errors.New("either define token or token-file, not both of them")
	}
	if strings.ToLower(c.TokenType) != AuthTokenTypeBearer {
		return errors.Errorf("unsupported metrics token type %q, only bearer is known", c.TokenType)
	}
	return nil
}

func (c *MetricsConfig) Expand() error {
	c.TokenType = strings.ToLower(c.TokenType)
	if c.TokenFile == "" {
		return nil
	}

	buf, err := os.ReadFile(c.TokenFile)
	if err != nil {
		return errors.Wrapf(err, "failed to read metrics token file %q", c.TokenFile)
	}
	c.Token = strings.TrimSpace(string(buf))
	return nil
}

//

func newHttpMetrics(r metrics.RegisterGatherer) *httpMetrics {
	labels := []string{"code", "method"}
	m := &httpMetrics{
		duration: metrics.NewHistogramVec(metrics.HistogramOpts{
			Name: "stegano_http_request_duration_seconds",
			Help: "Request time duration.",
		}, labels),
		total: metrics.NewCounterVec(metrics.CounterOpts{
			Name: "stegano_http_requests_total",
			Help: "Total number of requests received.",
		}, labels),
		reqSize: metrics.NewHistogramVec(metrics.HistogramOpts{
			Name:    "stegano_http_request_size_bytes",
			Help:    "Request size in bytes, uploads included.",
			Buckets: sizeBuckets,
		}, labels),
		resSize: metrics.NewHistogramVec(metrics.HistogramOpts{
			Name:    "stegano_http_response_size_bytes",
			Help:    "Response size in bytes, downloads included.",
			Buckets: sizeBuckets,
		}, labels),
		inFlight: metrics.NewGauge(metrics.GaugeOpts{
			Name: "stegano_http_requests_in_flight",
			Help: "Number of http requests which are currently running.",
		}),
	}
	r.MustRegister(m.duration, m.total, m.reqSize, m.resSize, m.inFlight)
	return m
}

func (m *httpMetrics) instrument(h Handler, options ...MetricsOption) Handler {
	h = promhttp.InstrumentHandlerInFlight(m.inFlight, h)
	h = promhttp.InstrumentHandlerResponseSize(m.resSize, h, options...)
	h = promhttp.InstrumentHandlerRequestSize(m.reqSize, h, options...)
	h = promhttp.InstrumentHandlerCounter(m.total, h, options...)
	return promhttp.InstrumentHandlerDuration(m.duration, h, options...)
}

// Metrics instruments h with request counters registered in r.
func Metrics(r metrics.RegisterGatherer, h Handler, options ...MetricsOption) Handler {
	return newHttpMetrics(r).instrument(h, options...)
}

// MetricsAuth passes requests carrying "<type> <token>" in the authorization
// header, the type is case insensitive. Others get a 404.
func MetricsAuth(c *MetricsConfig) MiddlewareFunc {
	expected := []byte(c.TokenType + " " + c.Token)
	return func(next Handler) Handler {
		return HandlerFunc(func(w ResponseWriter, r *Request) {
			scheme, token, _ := strings.Cut(r.Header.Get(HeaderAuthorization), " ")
			supplied := []byte(strings.ToLower(scheme) + " " + token)
			if subtle.ConstantTimeCompare(expected, supplied) != 1 {
				l := RequestLogGet(r)
				l.Warn().Msg("metrics authentication failed")
				w.WriteHeader(StatusNotFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithMetricsHandler mounts the gatherer of r on rr and instruments the
// server handler, nothing happens unless metrics are enabled.
func WithMetricsHandler(r metrics.RegisterGatherer, rr *Router, options ...MetricsOption) Option {
	return func(h *Http) {
		c := h.Config.Metrics
		if !c.Enable {
			return
		}

		subr := rr.NewRoute().Subrouter()
		if c.Token == "" {
			log.Warn().Msg("metrics are served without a token, define metrics.token or metrics.token-file")
		} else {
			subr.Use(MetricsAuth(c))
		}
		subr.
			Methods(MethodGet).
			Path(c.Path).
			Handler(promhttp.InstrumentMetricHandler(r, promhttp.HandlerFor(r,
				promhttp.HandlerOpts{ErrorLog: log.Std(log.Default)},
			)))

		h.Handler = Metrics(r, h.Handler, options...)
	}
}
