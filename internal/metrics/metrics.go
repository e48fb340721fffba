// Package metrics counts planner activity for the node_exporter textfile
// collector. A CLI has no scrape endpoint, so the registry is written to a
// .prom file after each command when metrics.textfile is configured.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "mealplan"

type Metrics struct {
	reg *prometheus.Registry

	Commands       *prometheus.CounterVec
	SlotWrites     *prometheus.CounterVec
	WeatherFetches *prometheus.CounterVec
	Plans          prometheus.Gauge
	HistoryDepth   *prometheus.GaugeVec
}

func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		Commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Commands run, by command path and result.",
		}, []string{"command", "result"}),
		SlotWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "slot_writes_total",
			Help:      "State writes to the storage slot, by driver and result.",
		}, []string{"driver", "result"}),
		WeatherFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "weather_fetches_total",
			Help:      "Weather widget loads, by widget and whether live data or the fallback was shown.",
		}, []string{"widget", "source"}),
		Plans: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "day_plans",
			Help:      "Day plans in the store.",
		}),
		HistoryDepth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "history_depth",
			Help:      "Snapshots on the undo and redo stacks.",
		}, []string{"stack"}),
	}
	m.reg.MustRegister(m.Commands, m.SlotWrites, m.WeatherFetches, m.Plans, m.HistoryDepth)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// ObserveWeather records one widget load.
func (m *Metrics) ObserveWeather(widget string, live bool) {
	source := "fallback"
	if live {
		source = "live"
	}
	m.WeatherFetches.WithLabelValues(widget, source).Inc()
}

// ObserveCommand records a finished command.
func (m *Metrics) ObserveCommand(path string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.Commands.WithLabelValues(path, result).Inc()
}

// WriteTextfile writes the registry in text exposition format. The file is
// replaced atomically so a collector never reads a partial file.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.reg); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
