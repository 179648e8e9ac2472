// Copyright (C) 2026 sshpot contributors. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package metrics tracks the counters an operator running the
// honeypot actually wants to watch, and exposes them over HTTP.
package metrics

import (
	"context"
	"net/http"
	"sync/atomic"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds atomic session/auth/command counters and their
// Prometheus registration.
type Collector struct {
	activeSessions   int64
	totalConnections uint64
	authFailures     uint64
	authSuccesses    uint64
	commandsExecuted uint64
	bytesLogged      uint64
	decoderErrors    uint64

	registry *prometheus.Registry
	server   *http.Server

	gaugeActiveSessions prometheus.GaugeFunc
	counterConnections  prometheus.CounterFunc
	counterAuthFail     prometheus.CounterFunc
	counterAuthSuccess  prometheus.CounterFunc
	counterCommands     prometheus.CounterFunc
	counterBytesLogged  prometheus.CounterFunc
	counterDecoderError prometheus.CounterFunc
}

// NewCollector builds a Collector and registers its gauges/counters on
// a fresh Prometheus registry.
func NewCollector() *Collector {
	c := &Collector{registry: prometheus.NewRegistry()}

	c.gaugeActiveSessions = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "sshpot_active_sessions",
		Help: "Number of SSH sessions currently connected.",
	}, func() float64 { return float64(atomic.LoadInt64(&c.activeSessions)) })

	c.counterConnections = prometheus.NewCounterFunc(prometheus.CounterOpts{
		Name: "sshpot_connections_total",
		Help: "Total SSH connections accepted.",
	}, func() float64 { return float64(atomic.LoadUint64(&c.totalConnections)) })

	c.counterAuthFail = prometheus.NewCounterFunc(prometheus.CounterOpts{
		Name: "sshpot_auth_failures_total",
		Help: "Total rejected authentication attempts.",
	}, func() float64 { return float64(atomic.LoadUint64(&c.authFailures)) })

	c.counterAuthSuccess = prometheus.NewCounterFunc(prometheus.CounterOpts{
		Name: "sshpot_auth_successes_total",
		Help: "Total accepted authentication attempts.",
	}, func() float64 { return float64(atomic.LoadUint64(&c.authSuccesses)) })

	c.counterCommands = prometheus.NewCounterFunc(prometheus.CounterOpts{
		Name: "sshpot_commands_executed_total",
		Help: "Total commands dispatched across all sessions.",
	}, func() float64 { return float64(atomic.LoadUint64(&c.commandsExecuted)) })

	c.counterBytesLogged = prometheus.NewCounterFunc(prometheus.CounterOpts{
		Name: "sshpot_bytes_logged_total",
		Help: "Total bytes written to tty logs.",
	}, func() float64 { return float64(atomic.LoadUint64(&c.bytesLogged)) })

	c.counterDecoderError = prometheus.NewCounterFunc(prometheus.CounterOpts{
		Name: "sshpot_decoder_errors_total",
		Help: "Total terminal-decoder CSI/OSC buffer overflows.",
	}, func() float64 { return float64(atomic.LoadUint64(&c.decoderErrors)) })

	c.registry.MustRegister(
		c.gaugeActiveSessions,
		c.counterConnections,
		c.counterAuthFail,
		c.counterAuthSuccess,
		c.counterCommands,
		c.counterBytesLogged,
		c.counterDecoderError,
	)

	return c
}

func (c *Collector) SessionOpened() {
	atomic.AddInt64(&c.activeSessions, 1)
	atomic.AddUint64(&c.totalConnections, 1)
}

func (c *Collector) SessionClosed() {
	atomic.AddInt64(&c.activeSessions, -1)
}

func (c *Collector) AuthFailure() { atomic.AddUint64(&c.authFailures, 1) }
func (c *Collector) AuthSuccess() { atomic.AddUint64(&c.authSuccesses, 1) }
func (c *Collector) CommandExecuted() { atomic.AddUint64(&c.commandsExecuted, 1) }
func (c *Collector) DecoderError()    { atomic.AddUint64(&c.decoderErrors, 1) }
func (c *Collector) BytesLogged(n int) {
	if n > 0 {
		atomic.AddUint64(&c.bytesLogged, uint64(n))
	}
}

// ActiveSessions returns the current gauge value, for tests and
// health checks.
func (c *Collector) ActiveSessions() int64 {
	return atomic.LoadInt64(&c.activeSessions)
}

// Serve starts the /metrics and /healthz HTTP surface on addr and
// blocks until ctx is cancelled, at which point it shuts down
// gracefully.
func (c *Collector) Serve(ctx context.Context, addr string) error {
	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	c.server = &http.Server{Addr: addr, Handler: r}

	errCh := make(chan error, 1)
	go func() { errCh <- c.server.ListenAndServe() }()

	select {
	case <-ctx.Done():
		return c.server.Shutdown(context.Background())
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}
