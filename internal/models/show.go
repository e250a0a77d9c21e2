/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package models defines the persisted schedule catalogue: shows, their
// seasons, and the timeslots a season is scheduled into.
package models

import "time"

// Show is a programme in the station catalogue.
type Show struct {
	ID          string    `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"type:varchar(255);not null"`
	Description string    `gorm:"type:text"`
	SubmittedAt time.Time `gorm:"not null"`

	Seasons []Season `gorm:"foreignKey:ShowID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the table name for GORM.
func (Show) TableName() string {
	return "shows"
}

// ScheduledSeasons returns the show's seasons that have at least one
// timeslot. Seasons must be loaded with their timeslots.
func (s *Show) ScheduledSeasons() []Season {
	scheduled := make([]Season, 0, len(s.Seasons))
	for _, season := range s.Seasons {
		if len(season.Timeslots) > 0 {
			scheduled = append(scheduled, season)
		}
	}
	return scheduled
}

// Season groups a run of timeslots for a show.
type Season struct {
	ID     string `gorm:"type:uuid;primaryKey"`
	ShowID string `gorm:"type:uuid;index:idx_seasons_show;not null"`

	Show      *Show      `gorm:"foreignKey:ShowID"`
	Timeslots []Timeslot `gorm:"foreignKey:SeasonID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the table name for GORM.
func (Season) TableName() string {
	return "seasons"
}

// Timeslot is one scheduled broadcast of a season. The block engine reads
// its title, start, and duration; it never writes back.
type Timeslot struct {
	ID       string `gorm:"type:uuid;primaryKey"`
	SeasonID string `gorm:"type:uuid;index:idx_timeslots_season;not null"`

	Title    string        `gorm:"type:varchar(255);not null"`
	Start    time.Time     `gorm:"index:idx_timeslots_start;not null"`
	Duration time.Duration `gorm:"not null"`

	Season *Season `gorm:"foreignKey:SeasonID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the table name for GORM.
func (Timeslot) TableName() string {
	return "timeslots"
}

// End returns the instant the timeslot finishes.
func (t *Timeslot) End() time.Time {
	return t.Start.Add(t.Duration)
}
