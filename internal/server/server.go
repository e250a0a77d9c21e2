/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/friendsincode/bragi_schedule/internal/api"
	"github.com/friendsincode/bragi_schedule/internal/blockcfg"
	"github.com/friendsincode/bragi_schedule/internal/blocks"
	"github.com/friendsincode/bragi_schedule/internal/broadcastday"
	"github.com/friendsincode/bragi_schedule/internal/config"
	"github.com/friendsincode/bragi_schedule/internal/db"
	"github.com/friendsincode/bragi_schedule/internal/telemetry"
)

// Server bundles HTTP and supporting services.
type Server struct {
	cfg           *config.Config
	logger        zerolog.Logger
	router        chi.Router
	httpServer    *http.Server
	metricsServer *http.Server
	closers       []func() error

	db       *gorm.DB
	blockCfg *blockcfg.Config
	resolver *blocks.Resolver
	api      *api.API
}

// New wires the block service together. Block configuration is loaded and
// validated here, so a broken rule set stops the process before it serves
// anything.
func New(cfg *config.Config, logger zerolog.Logger) (*Server, error) {
	s := &Server{cfg: cfg, logger: logger}

	tc, err := broadcastday.New(cfg.Timezone, cfg.DayStartHour)
	if err != nil {
		return nil, fmt.Errorf("schedule day context: %w", err)
	}

	blockCfg, err := blockcfg.Load(cfg.BlockConfigPath)
	if err != nil {
		return nil, err
	}
	s.blockCfg = blockCfg

	resolver, err := blocks.NewResolver(blockCfg.NameRules, blockCfg.RangeEntries, tc)
	if err != nil {
		return nil, fmt.Errorf("block resolver: %w", err)
	}
	s.resolver = resolver

	database, err := db.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	s.db = database
	s.closers = append(s.closers, func() error { return db.Close(database) })

	if err := db.Migrate(database); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	s.api = api.New(database, blockCfg, resolver, logger)

	s.router = s.buildRouter()
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTPBind, cfg.HTTPPort),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Metrics are served on a separate bind so the scrape endpoint stays off
	// the public API listener.
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", telemetry.Handler())
	s.metricsServer = &http.Server{
		Addr:              cfg.MetricsBind,
		Handler:           metricsMux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info().
		Str("block_config", cfg.BlockConfigPath).
		Str("metrics_bind", cfg.MetricsBind).
		Str("timezone", cfg.Timezone).
		Int("day_start_hour", cfg.DayStartHour).
		Int("name_rules", len(blockCfg.NameRules)).
		Int("range_entries", len(blockCfg.RangeEntries)).
		Msg("block service configured")

	return s, nil
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(telemetry.Middleware)

	r.Route("/api/v1", s.api.Routes)

	return r
}

// requestLogger logs completed requests with zerolog.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

// HTTPServer returns the configured HTTP server.
func (s *Server) HTTPServer() *http.Server {
	return s.httpServer
}

// MetricsServer returns the HTTP server for the metrics bind.
func (s *Server) MetricsServer() *http.Server {
	return s.metricsServer
}

// Router returns the chi router, primarily for tests.
func (s *Server) Router() chi.Router {
	return s.router
}

// Close releases server resources.
func (s *Server) Close() error {
	var firstErr error
	for _, closer := range s.closers {
		if err := closer(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
