// Package metrics exposes the mount's optional Prometheus metrics surface
// (SPEC_FULL.md §6). It is additive: a mount started without --metrics-addr
// never constructs a Registry at all.
package metrics

import (
	"context"
	"net"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry owns the three gauges/counters this system reports and the HTTP
// listener serving them.
type Registry struct {
	OpenHandles     prometheus.Gauge
	CommandsLaunched prometheus.Counter
	CacheBytes      prometheus.Gauge

	reg      *prometheus.Registry
	listener net.Listener
	server   *http.Server
}

// NewRegistry constructs a Registry with its metrics registered but no HTTP
// listener started.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	m := &Registry{
		OpenHandles: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "execfs_open_handles",
			Help: "Number of currently open file handles.",
		}),
		CommandsLaunched: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "execfs_commands_launched_total",
			Help: "Total number of shell commands launched by open().",
		}),
		CacheBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "execfs_cache_bytes_buffered",
			Help: "Total bytes currently buffered across all cache-mode handles.",
		}),
		reg: reg,
	}

	reg.MustRegister(m.OpenHandles, m.CommandsLaunched, m.CacheBytes)
	return m
}

// Serve starts an HTTP server exposing /metrics on addr. It returns once the
// listener is bound; the server itself runs until Shutdown is called.
func (m *Registry) Serve(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	m.listener = ln

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{}))
	m.server = &http.Server{Handler: mux}

	go func() {
		_ = m.server.Serve(ln)
	}()
	return nil
}

// Shutdown stops the HTTP server, if one was started.
func (m *Registry) Shutdown(ctx context.Context) error {
	if m.server == nil {
		return nil
	}
	return m.server.Shutdown(ctx)
}
