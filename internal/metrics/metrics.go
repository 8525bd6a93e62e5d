// Package metrics exports check results in the Prometheus text format so
// node_exporter's textfile collector can pick them up.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "snmpcheck"

// Recorder collects the gauges of one check run. A nil *Recorder is valid
// and records nothing.
type Recorder struct {
	registry *prometheus.Registry

	status          prometheus.Gauge
	duration        prometheus.Gauge
	peerEstablished *prometheus.GaugeVec
	sensorValue     *prometheus.GaugeVec
	thresholdBreach *prometheus.GaugeVec
	sensorInRange   *prometheus.GaugeVec
}

// New creates a recorder whose series carry check as a constant label.
func New(check string) *Recorder {
	labels := prometheus.Labels{"check": check}

	r := &Recorder{
		registry: prometheus.NewRegistry(),
		status: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "exit_status",
			Help:        "Plugin exit status of the last run (0 OK, 2 CRITICAL, 3 UNKNOWN).",
			ConstLabels: labels,
		}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "duration_seconds",
			Help:        "Wall time of the last run.",
			ConstLabels: labels,
		}),
		peerEstablished: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   "bgp",
			Name:        "peer_established",
			Help:        "1 if the BGP session is ESTAB, else 0.",
			ConstLabels: labels,
		}, []string{"family", "peer", "remote_as", "state"}),
		sensorValue: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   "sensor",
			Name:        "value",
			Help:        "Raw entSensorValue reading.",
			ConstLabels: labels,
		}, []string{"index", "description"}),
		thresholdBreach: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   "sensor",
			Name:        "threshold_breached",
			Help:        "1 if the threshold relation holds for the reading, else 0.",
			ConstLabels: labels,
		}, []string{"index", "slot"}),
		sensorInRange: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   "sensor",
			Name:        "in_range",
			Help:        "1 if the reading lies strictly inside its min/max range, else 0.",
			ConstLabels: labels,
		}, []string{"index", "description"}),
	}

	r.registry.MustRegister(
		r.status,
		r.duration,
		r.peerEstablished,
		r.sensorValue,
		r.thresholdBreach,
		r.sensorInRange,
	)
	return r
}

// Peer records one BGP session.
func (r *Recorder) Peer(family, address, remoteAS, state string, established bool) {
	if r == nil {
		return
	}
	r.peerEstablished.WithLabelValues(family, address, remoteAS, state).Set(boolGauge(established))
}

// SensorValue records a raw sensor reading.
func (r *Recorder) SensorValue(index, description string, value int) {
	if r == nil {
		return
	}
	r.sensorValue.WithLabelValues(index, description).Set(float64(value))
}

// ThresholdBreach records whether a threshold slot's relation held.
func (r *Recorder) ThresholdBreach(index string, slot int, breached bool) {
	if r == nil {
		return
	}
	r.thresholdBreach.WithLabelValues(index, fmt.Sprint(slot)).Set(boolGauge(breached))
}

// SensorInRange records whether a reading was inside its range.
func (r *Recorder) SensorInRange(index, description string, inRange bool) {
	if r == nil {
		return
	}
	r.sensorInRange.WithLabelValues(index, description).Set(boolGauge(inRange))
}

// Finish records the run's exit status and duration.
func (r *Recorder) Finish(exitCode int, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.status.Set(float64(exitCode))
	r.duration.Set(elapsed.Seconds())
}

// WriteTextfile atomically writes every recorded series to path.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile %s: %w", path, err)
	}
	return nil
}

// Gatherer exposes the underlying registry.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

func boolGauge(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
