// Package metrics exports timer registry snapshots to Prometheus.
package metrics

import (
	"net/http"

	"logtimer/timer"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Snapshotter interface {
	Snapshot() map[string]timer.State
}

var (
	totalDesc = prometheus.NewDesc(
		"logtimer_timer_total_seconds",
		"Accumulated time of completed cycles, 0 while unset",
		[]string{"timer"}, nil,
	)
	countDesc = prometheus.NewDesc(
		"logtimer_timer_count",
		"Completed start/stop cycles since the last reset",
		[]string{"timer"}, nil,
	)
	runningDesc = prometheus.NewDesc(
		"logtimer_timer_running",
		"1 while a start is pending",
		[]string{"timer"}, nil,
	)
)

// Collector reads a fresh snapshot on every scrape.
type Collector struct {
	src Snapshotter
}

func NewCollector(src Snapshotter) *Collector {
	return &Collector{src: src}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- totalDesc
	ch <- countDesc
	ch <- runningDesc
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for name, s := range c.src.Snapshot() {
		var total float64
		if s.TotalTime != nil {
			total = s.TotalTime.Seconds()
		}

		var running float64
		if s.Running() {
			running = 1
		}

		ch <- prometheus.MustNewConstMetric(totalDesc, prometheus.GaugeValue, total, name)
		ch <- prometheus.MustNewConstMetric(countDesc, prometheus.GaugeValue, float64(s.Count), name)
		ch <- prometheus.MustNewConstMetric(runningDesc, prometheus.GaugeValue, running, name)
	}
}

// Handler serves the metrics of src on a dedicated registry.
func Handler(src Snapshotter) (http.Handler, error) {
	reg := prometheus.NewRegistry()
	if err := reg.Register(NewCollector(src)); err != nil {
		return nil, err
	}
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), nil
}
