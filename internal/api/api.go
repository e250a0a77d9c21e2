/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package api exposes the schedule block service over HTTP.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/friendsincode/bragi_schedule/internal/blockcfg"
	"github.com/friendsincode/bragi_schedule/internal/blocks"
)

// API exposes HTTP handlers.
type API struct {
	db       *gorm.DB
	blockCfg *blockcfg.Config
	resolver *blocks.Resolver
	logger   zerolog.Logger
}

// New creates the API router wrapper.
func New(db *gorm.DB, blockCfg *blockcfg.Config, resolver *blocks.Resolver, logger zerolog.Logger) *API {
	return &API{
		db:       db,
		blockCfg: blockCfg,
		resolver: resolver,
		logger:   logger.With().Str("component", "api").Logger(),
	}
}

// Routes registers the API routes on the given router.
func (a *API) Routes(r chi.Router) {
	r.Get("/healthz", a.handleHealth)

	r.Route("/blocks", func(r chi.Router) {
		r.Get("/", a.handleListBlocks)
		r.Get("/timetable", a.handleTimetable)
		r.Get("/current", a.handleCurrentBlock)
		r.Post("/resolve", a.handleResolve)
	})

	r.Get("/timeslots/{id}/block", a.handleTimeslotBlock)

	r.Route("/shows", func(r chi.Router) {
		r.Get("/", a.handleListShows)
		r.Get("/{id}", a.handleGetShow)
	})
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// blockOrNull renders NoBlock as JSON null.
func blockOrNull(block blocks.BlockID) *string {
	if block == blocks.NoBlock {
		return nil
	}
	s := string(block)
	return &s
}
