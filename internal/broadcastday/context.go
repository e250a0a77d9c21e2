/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package broadcastday provides schedule-day semantics: a station's
// programming day runs for 24 hours but begins at a configurable hour of
// the day in the station's timezone, not necessarily at midnight.
package broadcastday

import (
	"fmt"
	"time"
)

// NowFunc supplies the current instant. Injectable so tests can pin time.
type NowFunc func() time.Time

// Context maps between instants and schedule dates for one timezone and
// day-start hour.
type Context struct {
	loc       *time.Location
	startHour int
	now       NowFunc
}

// New builds a Context for an IANA timezone name and a day start hour in
// [0, 23].
func New(timezone string, startHour int) (*Context, error) {
	if startHour < 0 || startHour > 23 {
		return nil, fmt.Errorf("day start hour %d out of range", startHour)
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", timezone, err)
	}
	return &Context{loc: loc, startHour: startHour, now: time.Now}, nil
}

// WithNow returns a copy of the context using fn as its clock.
func (c *Context) WithNow(fn NowFunc) *Context {
	clone := *c
	clone.now = fn
	return &clone
}

// Location returns the context's timezone.
func (c *Context) Location() *time.Location {
	return c.loc
}

// StartHour returns the hour of day at which the schedule day begins.
func (c *Context) StartHour() int {
	return c.startHour
}

// AwareNow returns the current instant in the context's timezone.
func (c *Context) AwareNow() time.Time {
	return c.now().In(c.loc)
}

// ScheduleDateOf returns the schedule date owning t: the midnight-normalized
// calendar date on which t's schedule day began. Instants before the day
// start hour belong to the previous calendar day's schedule day.
func (c *Context) ScheduleDateOf(t time.Time) time.Time {
	lt := t.In(c.loc)
	date := time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, c.loc)
	if lt.Hour() < c.startHour {
		date = date.AddDate(0, 0, -1)
	}
	return date
}

// StartOn returns the instant the given schedule date's day begins.
func (c *Context) StartOn(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), c.startHour, 0, 0, 0, c.loc)
}

// NextDate returns the schedule date following date.
func (c *Context) NextDate(date time.Time) time.Time {
	return date.AddDate(0, 0, 1)
}
