/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"github.com/friendsincode/bragi_schedule/internal/models"
	"github.com/friendsincode/bragi_schedule/internal/telemetry"
)

// BlockInfo describes one configured block.
type BlockInfo struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// ResolutionResponse is the outcome of a block resolution. Block is null
// when no block applies.
type ResolutionResponse struct {
	Block  *string `json:"block"`
	Source string  `json:"source"`
}

// TimetableEvent is one range timetable boundary.
type TimetableEvent struct {
	At    time.Time `json:"at"`
	Block *string   `json:"block"`
}

// handleListBlocks returns the configured blocks.
func (a *API) handleListBlocks(w http.ResponseWriter, r *http.Request) {
	infos := make([]BlockInfo, 0, len(a.blockCfg.Blocks))
	for id, meta := range a.blockCfg.Blocks {
		infos = append(infos, BlockInfo{ID: string(id), Type: meta.Type})
	}
	writeJSON(w, http.StatusOK, map[string]any{"blocks": infos})
}

// handleTimetable returns the range timetable events for one or more
// schedule days starting at ?date (default: today's schedule day).
func (a *API) handleTimetable(w http.ResponseWriter, r *http.Request) {
	tc := a.resolver.TimeContext()

	date := tc.ScheduleDateOf(tc.AwareNow())
	if dateStr := r.URL.Query().Get("date"); dateStr != "" {
		parsed, err := time.ParseInLocation("2006-01-02", dateStr, tc.Location())
		if err != nil {
			writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		date = parsed
	}

	days := 1
	if daysStr := r.URL.Query().Get("days"); daysStr != "" {
		parsed, err := strconv.Atoi(daysStr)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "days must be a positive integer")
			return
		}
		days = parsed
	}
	// Cap the window like the public schedule endpoints do.
	if days > 31 {
		days = 31
	}

	from := tc.StartOn(date)
	to := tc.StartOn(date.AddDate(0, 0, days))

	events, err := a.resolver.Timetable(from, to)
	if err != nil {
		a.logger.Error().Err(err).Msg("timetable query failed")
		writeError(w, http.StatusInternalServerError, "timetable query failed")
		return
	}

	out := make([]TimetableEvent, 0, len(events))
	for _, ev := range events {
		out = append(out, TimetableEvent{At: ev.At, Block: blockOrNull(ev.Block)})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"date":   date.Format("2006-01-02"),
		"events": out,
	})
}

// handleCurrentBlock returns the timetable block on air now.
func (a *API) handleCurrentBlock(w http.ResponseWriter, r *http.Request) {
	now := a.resolver.TimeContext().AwareNow()
	block := a.resolver.BlockAt(now)
	writeJSON(w, http.StatusOK, map[string]any{
		"at":    now,
		"block": blockOrNull(block),
	})
}

// ResolveRequest is an ad-hoc resolution request.
type ResolveRequest struct {
	Title string    `json:"title"`
	Start time.Time `json:"start"`
}

// handleResolve resolves a block for an arbitrary title and start instant
// without touching the catalogue.
func (a *API) handleResolve(w http.ResponseWriter, r *http.Request) {
	var req ResolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Start.IsZero() {
		req.Start = a.resolver.TimeContext().AwareNow()
	}

	res := a.resolver.Resolve(req.Title, req.Start)
	telemetry.ResolutionsTotal.WithLabelValues(string(res.Source)).Inc()

	writeJSON(w, http.StatusOK, ResolutionResponse{
		Block:  blockOrNull(res.Block),
		Source: string(res.Source),
	})
}

// handleTimeslotBlock resolves the block for a persisted timeslot.
func (a *API) handleTimeslotBlock(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var slot models.Timeslot
	err := a.db.First(&slot, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		writeError(w, http.StatusNotFound, "timeslot not found")
		return
	}
	if err != nil {
		a.logger.Error().Err(err).Str("timeslot_id", id).Msg("timeslot lookup failed")
		writeError(w, http.StatusInternalServerError, "timeslot lookup failed")
		return
	}

	res := a.resolver.Resolve(slot.Title, slot.Start)
	telemetry.ResolutionsTotal.WithLabelValues(string(res.Source)).Inc()

	writeJSON(w, http.StatusOK, map[string]any{
		"timeslot_id": slot.ID,
		"title":       slot.Title,
		"starts_at":   slot.Start,
		"ends_at":     slot.End(),
		"block":       blockOrNull(res.Block),
		"source":      string(res.Source),
	})
}
