package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"globalstack/bootstrap"
	"globalstack/compose"
	"globalstack/manager"
)

// Result labels.
const (
	ResultSuccess      = "success"
	ResultPortConflict = "port_conflict"
	ResultPortDrift    = "port_drift"
	ResultProvision    = "provision_error"
	ResultBuild        = "build_error"
	ResultStart        = "start_error"
	ResultError        = "error"
)

// Recorder collects the outcome of bootstrap invocations.
type Recorder struct {
	registry    *prometheus.Registry
	runs        *prometheus.CounterVec
	lastSuccess *prometheus.GaugeVec
	now         func() time.Time
}

// NewRecorder registers the bootstrap metrics on a private registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "globalstack",
			Name:      "bootstrap_total",
			Help:      "Bootstrap invocations by service and result.",
		}, []string{"service", "result"}),
		lastSuccess: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "globalstack",
			Name:      "bootstrap_last_success_timestamp_seconds",
			Help:      "Unix time of the last successful bootstrap per service.",
		}, []string{"service"}),
		now: time.Now,
	}
	r.registry.MustRegister(r.runs, r.lastSuccess)
	return r
}

// Observe records the result of bootstrapping service.
func (r *Recorder) Observe(service string, err error) {
	result := Classify(err)
	r.runs.WithLabelValues(service, result).Inc()
	if result == ResultSuccess {
		r.lastSuccess.WithLabelValues(service).Set(float64(r.now().Unix()))
	}
}

// Gatherer exposes the underlying registry.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteTextfile writes the metrics in text exposition format for the
// node-exporter textfile collector. An empty path is a no-op.
func (r *Recorder) WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}

// Classify maps an error to its result label.
func Classify(err error) string {
	var (
		conflict  *bootstrap.PortConflictError
		drift     *bootstrap.PortDriftError
		start     *bootstrap.StartError
		provision *manager.ProvisionError
		build     *compose.BuildError
	)
	switch {
	case err == nil:
		return ResultSuccess
	case errors.As(err, &conflict):
		return ResultPortConflict
	case errors.As(err, &drift):
		return ResultPortDrift
	case errors.As(err, &provision):
		return ResultProvision
	case errors.As(err, &build):
		return ResultBuild
	case errors.As(err, &start):
		return ResultStart
	default:
		return ResultError
	}
}
