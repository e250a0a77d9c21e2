/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"github.com/friendsincode/bragi_schedule/internal/models"
)

// ShowSummary is a catalogue listing entry.
type ShowSummary struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description,omitempty"`
	SubmittedAt      time.Time `json:"submitted_at"`
	ScheduledSeasons int       `json:"scheduled_seasons"`
}

// SeasonDetail is one season with its timeslots.
type SeasonDetail struct {
	ID        string           `json:"id"`
	Timeslots []TimeslotDetail `json:"timeslots"`
}

// TimeslotDetail is one scheduled broadcast.
type TimeslotDetail struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`
}

// handleListShows lists the show catalogue.
func (a *API) handleListShows(w http.ResponseWriter, r *http.Request) {
	var shows []models.Show
	if err := a.db.Preload("Seasons.Timeslots").Order("name ASC").Find(&shows).Error; err != nil {
		a.logger.Error().Err(err).Msg("show listing failed")
		writeError(w, http.StatusInternalServerError, "show listing failed")
		return
	}

	out := make([]ShowSummary, 0, len(shows))
	for i := range shows {
		show := &shows[i]
		out = append(out, ShowSummary{
			ID:               show.ID,
			Name:             show.Name,
			Description:      show.Description,
			SubmittedAt:      show.SubmittedAt,
			ScheduledSeasons: len(show.ScheduledSeasons()),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"shows": out})
}

// handleGetShow returns one show with its scheduled seasons.
func (a *API) handleGetShow(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var show models.Show
	err := a.db.Preload("Seasons.Timeslots").First(&show, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		writeError(w, http.StatusNotFound, "show not found")
		return
	}
	if err != nil {
		a.logger.Error().Err(err).Str("show_id", id).Msg("show lookup failed")
		writeError(w, http.StatusInternalServerError, "show lookup failed")
		return
	}

	seasons := make([]SeasonDetail, 0, len(show.Seasons))
	for _, season := range show.ScheduledSeasons() {
		detail := SeasonDetail{ID: season.ID, Timeslots: make([]TimeslotDetail, 0, len(season.Timeslots))}
		for _, slot := range season.Timeslots {
			detail.Timeslots = append(detail.Timeslots, TimeslotDetail{
				ID:       slot.ID,
				Title:    slot.Title,
				StartsAt: slot.Start,
				EndsAt:   slot.End(),
			})
		}
		seasons = append(seasons, detail)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id":           show.ID,
		"name":         show.Name,
		"description":  show.Description,
		"submitted_at": show.SubmittedAt,
		"seasons":      seasons,
	})
}
