// internal/platform/metrics/recorder.go
package metrics

import (
	"context"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"redrecon/internal/core/ports"
)

var _ ports.Notifier = (*Recorder)(nil)

// Recorder es un observer del escaneo que acumula métricas de Prometheus en
// un registry propio y las vuelca a un textfile al final.
type Recorder struct {
	registry *prometheus.Registry

	probesSettled *prometheus.CounterVec
	dataPoints    *prometheus.GaugeVec
	probeDuration *prometheus.HistogramVec
	scanDuration  *prometheus.GaugeVec
	scanProbes    *prometheus.GaugeVec
	interrupted   *prometheus.GaugeVec

	mu     sync.Mutex
	closed bool
}

// NewRecorder crea un recorder con sus colectores registrados.
func NewRecorder() (*Recorder, error) {
	r := &Recorder{registry: prometheus.NewRegistry()}

	r.probesSettled = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redrecon_probes_settled_total",
			Help: "Probes that finished, by outcome status",
		},
		[]string{"probe", "status"},
	)
	r.dataPoints = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "redrecon_probe_data_points",
			Help: "Data points returned by each source",
		},
		[]string{"source", "type"},
	)
	r.probeDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "redrecon_probe_duration_seconds",
			Help:    "Wall time from probe launch to settlement",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 60},
		},
		[]string{"probe"},
	)
	r.scanDuration = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "redrecon_scan_duration_seconds",
			Help: "Total scan duration in seconds",
		},
		[]string{"target"},
	)
	r.scanProbes = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "redrecon_scan_probes",
			Help: "Probes launched in the scan",
		},
		[]string{"target"},
	)
	r.interrupted = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "redrecon_scan_interrupted",
			Help: "1 if the scan stopped waiting before every probe settled",
		},
		[]string{"target"},
	)

	collectors := []prometheus.Collector{
		r.probesSettled,
		r.dataPoints,
		r.probeDuration,
		r.scanDuration,
		r.scanProbes,
		r.interrupted,
	}
	for _, c := range collectors {
		if err := r.registry.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register collector: %w", err)
		}
	}

	return r, nil
}

// Notify actualiza las métricas según el evento.
func (r *Recorder) Notify(_ context.Context, event ports.Event) error {
	r.mu.Lock()
	closed := r.closed
	r.mu.Unlock()
	if closed {
		return nil
	}

	switch data := event.Data.(type) {
	case ports.ScanStartedEvent:
		r.scanProbes.WithLabelValues(event.Target).Set(float64(len(data.Probes)))

	case ports.ProbeSettledEvent:
		r.probesSettled.WithLabelValues(data.Probe, data.Status.String()).Inc()
		r.probeDuration.WithLabelValues(data.Probe).Observe(data.Elapsed.Seconds())
		if data.Source != "" {
			r.dataPoints.WithLabelValues(data.Source, data.Type).Set(float64(data.Count))
		}

	case ports.ScanCompletedEvent:
		r.scanDuration.WithLabelValues(event.Target).Set(data.Duration.Seconds())
		flag := 0.0
		if data.Interrupted {
			flag = 1
		}
		r.interrupted.WithLabelValues(event.Target).Set(flag)
	}
	return nil
}

// WriteTextfile escribe las métricas en formato de texto de Prometheus
// (compatible con el textfile collector de node_exporter).
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

// Close deja de aceptar eventos.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}
