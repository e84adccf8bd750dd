package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"tunedrop/internal/core"
)

// Server exposes Prometheus metrics and health endpoints. It implements
// core.Metrics.
type Server struct {
	config  *core.ServerConfig
	logger  *zap.Logger
	server  *http.Server
	metrics *Metrics
}

type Metrics struct {
	CyclesTotal        *prometheus.CounterVec
	CycleDuration      prometheus.Histogram
	DeliveriesTotal    *prometheus.CounterVec
	RetriesTotal       *prometheus.CounterVec
	DownloadsTotal     *prometheus.CounterVec
	NotificationsTotal prometheus.Counter
	SentTracks         prometheus.Gauge
	WatchedPlaylists   prometheus.Gauge
}

func NewServer(config *core.ServerConfig, logger *zap.Logger) *Server {
	metrics := &Metrics{
		CyclesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tunedrop_cycles_total",
				Help: "Total number of check cycles run",
			},
			[]string{"status"},
		),
		CycleDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "tunedrop_cycle_duration_seconds",
				Help:    "Time spent on a full check cycle",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			},
		),
		DeliveriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tunedrop_deliveries_total",
				Help: "Track delivery attempts by outcome",
			},
			[]string{"outcome"},
		),
		RetriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tunedrop_retries_total",
				Help: "Delivery retries by failure kind",
			},
			[]string{"kind"},
		),
		DownloadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tunedrop_downloads_total",
				Help: "Audio downloads by status",
			},
			[]string{"status"},
		),
		NotificationsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "tunedrop_notifications_total",
				Help: "Total number of operator notifications sent",
			},
		),
		SentTracks: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "tunedrop_sent_tracks",
				Help: "Number of tracks delivered so far",
			},
		),
		WatchedPlaylists: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "tunedrop_watched_playlists",
				Help: "Number of playlists being watched",
			},
		),
	}

	prometheus.MustRegister(
		metrics.CyclesTotal,
		metrics.CycleDuration,
		metrics.DeliveriesTotal,
		metrics.RetriesTotal,
		metrics.DownloadsTotal,
		metrics.NotificationsTotal,
		metrics.SentTracks,
		metrics.WatchedPlaylists,
	)

	return &Server{
		config:  config,
		logger:  logger,
		server:  createHTTPServer(config, setupRoutes()),
		metrics: metrics,
	}
}

func setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok","service":"tunedrop"}`))
	})

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ready","service":"tunedrop"}`))
	})

	mux.Handle("/metrics", promhttp.Handler())

	return mux
}

func createHTTPServer(config *core.ServerConfig, mux *http.ServeMux) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Host, config.Port),
		Handler:      mux,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	}
}

func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("Starting HTTP server",
		zap.String("addr", s.server.Addr))

	go func() {
		<-ctx.Done()
		s.logger.Info("Shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("Failed to shutdown HTTP server gracefully", zap.Error(err))
		}
	}()

	if err := s.server.ListenAndServe(); err != http.ErrServerClosed {
		return fmt.Errorf("HTTP server failed: %w", err)
	}

	return nil
}

func (s *Server) GetMetrics() *Metrics {
	return s.metrics
}

func (s *Server) RecordCycle(status string, duration time.Duration) {
	s.metrics.CyclesTotal.WithLabelValues(status).Inc()
	s.metrics.CycleDuration.Observe(duration.Seconds())
}

func (s *Server) RecordDelivery(status string) {
	s.metrics.DeliveriesTotal.WithLabelValues(status).Inc()
}

func (s *Server) RecordRetry(kind string) {
	s.metrics.RetriesTotal.WithLabelValues(kind).Inc()
}

func (s *Server) RecordDownload(status string) {
	s.metrics.DownloadsTotal.WithLabelValues(status).Inc()
}

func (s *Server) RecordNotification() {
	s.metrics.NotificationsTotal.Inc()
}

func (s *Server) SetSentTracks(count int) {
	s.metrics.SentTracks.Set(float64(count))
}

func (s *Server) SetPlaylists(count int) {
	s.metrics.WatchedPlaylists.Set(float64(count))
}
