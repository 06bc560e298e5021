package instrumentation

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	NameSpace              = "repoproxy"
	HttpStatusHistogram    = "http_status_histogram"
	UpstreamRequestsTotal  = "upstream_requests_total"
	EnrichmentSkippedTotal = "enrichment_skipped_total"
	OutcomeSuccess         = "success"
	OutcomeTransportError  = "transport_error"
	OutcomeStatusError     = "status_error"
	OutcomeDecodeError     = "decode_error"
	OperationSearch        = "search"
	OperationGetRepository = "get"
	OperationListLanguages = "languages"
)

type Metrics struct {
	HttpStatusHistogram    prometheus.HistogramVec
	UpstreamRequestsTotal  prometheus.CounterVec
	EnrichmentSkippedTotal prometheus.Counter

	reg *prometheus.Registry
}

func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		panic("reg cannot be nil")
	}
	metrics := &Metrics{
		reg: reg,
		HttpStatusHistogram: *promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Namespace: NameSpace,
			Name:      HttpStatusHistogram,
			Help:      "Duration of HTTP requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"status", "method", "path"}),
		UpstreamRequestsTotal: *promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: NameSpace,
			Name:      UpstreamRequestsTotal,
			Help:      "GitHub API calls by operation and outcome",
		}, []string{"operation", "outcome"}),
		EnrichmentSkippedTotal: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: NameSpace,
			Name:      EnrichmentSkippedTotal,
			Help:      "Search results dropped because their languages could not be fetched",
		}),
	}

	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return metrics
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.reg
}

// ObserveUpstream counts one upstream call. Safe on a nil receiver.
func (m *Metrics) ObserveUpstream(operation, outcome string) {
	if m == nil {
		return
	}
	m.UpstreamRequestsTotal.WithLabelValues(operation, outcome).Inc()
}
