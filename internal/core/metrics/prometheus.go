package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusReporter 导出到 Prometheus 的 Reporter
type PrometheusReporter struct {
	cyclesStarted    prometheus.Counter
	cycles           *prometheus.CounterVec
	connectAttempts  *prometheus.CounterVec
	noPeersReachable prometheus.Counter
	incomingRejected *prometheus.CounterVec
	connectedPeers   prometheus.Gauge
	farConnection    prometheus.Gauge
	sampleSize       prometheus.Histogram
}

var _ Reporter = (*PrometheusReporter)(nil)

// NewPrometheusReporter 创建并注册 Prometheus 指标
//
// reg 为 nil 时使用 prometheus.DefaultRegisterer。
func NewPrometheusReporter(reg prometheus.Registerer, namespace string) (*PrometheusReporter, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	r := &PrometheusReporter{
		cyclesStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cycles_started_total",
			Help:      "Topology run cycles that started executing.",
		}),
		cycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cycles_total",
			Help:      "Topology run cycles by outcome.",
		}, []string{"outcome"}),
		connectAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connect_attempts_total",
			Help:      "Outgoing connect attempts by phase and result.",
		}, []string{"phase", "result"}),
		noPeersReachable: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "no_peers_reachable_total",
			Help:      "Cycles whose near phase exhausted the sample without connecting.",
		}),
		incomingRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "incoming_rejected_total",
			Help:      "Incoming connections rejected by admission.",
		}, []string{"reason"}),
		connectedPeers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connected_peers",
			Help:      "Number of peers in the connected set.",
		}),
		farConnection: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "far_connection",
			Help:      "1 while a far connection is active.",
		}),
		sampleSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sample_size",
			Help:      "Number of candidates in each cycle's sample.",
			Buckets:   []float64{0, 1, 2, 4, 8, 16, 32, 64},
		}),
	}

	for _, c := range []prometheus.Collector{
		r.cyclesStarted,
		r.cycles,
		r.connectAttempts,
		r.noPeersReachable,
		r.incomingRejected,
		r.connectedPeers,
		r.farConnection,
		r.sampleSize,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// CycleStarted 实现 Reporter
func (r *PrometheusReporter) CycleStarted() {
	r.cyclesStarted.Inc()
}

// CycleFinished 实现 Reporter
func (r *PrometheusReporter) CycleFinished(outcome string) {
	r.cycles.WithLabelValues(outcome).Inc()
}

// SampleTaken 实现 Reporter
func (r *PrometheusReporter) SampleTaken(size int) {
	r.sampleSize.Observe(float64(size))
}

// ConnectAttempt 实现 Reporter
func (r *PrometheusReporter) ConnectAttempt(phase, result string) {
	r.connectAttempts.WithLabelValues(phase, result).Inc()
}

// NoPeersReachable 实现 Reporter
func (r *PrometheusReporter) NoPeersReachable() {
	r.noPeersReachable.Inc()
}

// IncomingRejected 实现 Reporter
func (r *PrometheusReporter) IncomingRejected(reason string) {
	r.incomingRejected.WithLabelValues(reason).Inc()
}

// PeersChanged 实现 Reporter
func (r *PrometheusReporter) PeersChanged(size int, hasFar bool) {
	r.connectedPeers.Set(float64(size))
	if hasFar {
		r.farConnection.Set(1)
	} else {
		r.farConnection.Set(0)
	}
}
