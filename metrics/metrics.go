package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

type (
	Collector        = prometheus.Collector
	Counter          = prometheus.Counter
	CounterOpts      = prometheus.CounterOpts
	CounterVec       = prometheus.CounterVec
	Gauge            = prometheus.Gauge
	GaugeOpts        = prometheus.GaugeOpts
	Histogram        = prometheus.Histogram
	HistogramOpts    = prometheus.HistogramOpts
	HistogramVec     = prometheus.HistogramVec
	Labels           = prometheus.Labels
	Registry         = prometheus.Registry
	RegisterGatherer interface {
		prometheus.Registerer
		prometheus.Gatherer
	}
)

var (
	NewCounter      = prometheus.NewCounter
	NewCounterVec   = prometheus.NewCounterVec
	NewGauge        = prometheus.NewGauge
	NewHistogram    = prometheus.NewHistogram
	NewHistogramVec = prometheus.NewHistogramVec
	NewRegistry     = prometheus.NewRegistry

	Default RegisterGatherer = NewRegistry()
)

func Register(c ...Collector) error {
	for _, collector := range c {
		err := Default.Register(collector)
		if err != nil {
			return err
		}
	}
	return nil
}

func MustRegister(c ...Collector) { Default.MustRegister(c...) }
