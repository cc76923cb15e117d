package responsecache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metricsSet struct {
	hits   prometheus.Counter
	misses prometheus.Counter
	stores prometheus.Counter
	errors prometheus.Counter
}

func newMetricsSet(reg prometheus.Registerer) *metricsSet {
	factory := promauto.With(reg)
	return &metricsSet{
		hits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "responsecache",
			Name:      "hits_total",
			Help:      "Number of requests served from the cache.",
		}),
		misses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "responsecache",
			Name:      "misses_total",
			Help:      "Number of requests that executed the wrapped handler.",
		}),
		stores: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "responsecache",
			Name:      "stores_total",
			Help:      "Number of responses stored in the cache.",
		}),
		errors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "responsecache",
			Name:      "errors_total",
			Help:      "Number of storage failures during request handling.",
		}),
	}
}
