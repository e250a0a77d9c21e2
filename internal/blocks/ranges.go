/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package blocks

import (
	"errors"
	"fmt"
	"time"

	"github.com/friendsincode/bragi_schedule/internal/broadcastday"
)

var (
	// ErrEmptyTimetable indicates a range timetable with no entries; a cycle
	// cannot be established.
	ErrEmptyTimetable = errors.New("range timetable is empty")

	// ErrInvalidTime indicates an out-of-range or duplicated (hour, minute)
	// pair in a range timetable.
	ErrInvalidTime = errors.New("invalid range timetable time")
)

// RangeEntry is one boundary in the daily range timetable: at Hour:Minute
// the active block becomes Block (possibly NoBlock). The timetable describes
// a single schedule day and repeats every schedule day.
type RangeEntry struct {
	Hour   int
	Minute int
	Block  BlockID
}

// ValidateEntries checks hour/minute bounds and rejects duplicate
// (hour, minute) pairs within one cycle.
func ValidateEntries(entries []RangeEntry) error {
	seen := make(map[int]bool, len(entries))
	for i, e := range entries {
		if e.Hour < 0 || e.Hour > 23 {
			return fmt.Errorf("%w: entry %d hour %d", ErrInvalidTime, i, e.Hour)
		}
		if e.Minute < 0 || e.Minute > 59 {
			return fmt.Errorf("%w: entry %d minute %d", ErrInvalidTime, i, e.Minute)
		}
		key := e.Hour*60 + e.Minute
		if seen[key] {
			return fmt.Errorf("%w: duplicate entry %02d:%02d", ErrInvalidTime, e.Hour, e.Minute)
		}
		seen[key] = true
	}
	return nil
}

// RangeEvent is one emitted timetable boundary: Block becomes active at At.
type RangeEvent struct {
	At    time.Time
	Block BlockID
}

// RangeCursor walks the timetable as an unbounded cyclic sequence of
// events. The cursor tracks the current schedule date and position within
// the entries; when the next entry's time of day is at or before the
// current one's, the cycle has wrapped past the day boundary and the date
// advances.
//
// A cursor is owned by the consumer that created it and is not safe for
// concurrent use.
type RangeCursor struct {
	entries []RangeEntry
	tc      *broadcastday.Context
	date    time.Time
	pos     int
}

// NewRangeCursor positions a cursor at the first entry of startDate's
// schedule day. Entries must be in time-of-day order.
func NewRangeCursor(entries []RangeEntry, startDate time.Time, tc *broadcastday.Context) (*RangeCursor, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyTimetable
	}
	if err := ValidateEntries(entries); err != nil {
		return nil, err
	}
	return &RangeCursor{
		entries: entries,
		tc:      tc,
		date:    tc.ScheduleDateOf(tc.StartOn(startDate)),
	}, nil
}

// Next emits the event at the cursor and advances it. Emitted instants are
// timezone-aware and non-decreasing across the whole sequence.
func (c *RangeCursor) Next() RangeEvent {
	entry := c.entries[c.pos]
	start := c.tc.StartOn(c.date)
	at := time.Date(start.Year(), start.Month(), start.Day(), entry.Hour, entry.Minute, 0, 0, c.tc.Location())

	// Compare minutes-of-day so a wrap between entries sharing an hour
	// (or a single-entry timetable) still crosses into the next day.
	next := (c.pos + 1) % len(c.entries)
	if c.entries[next].Hour*60+c.entries[next].Minute <= entry.Hour*60+entry.Minute {
		c.date = c.tc.NextDate(c.date)
	}
	c.pos = next

	return RangeEvent{At: at, Block: entry.Block}
}

// EventsBetween returns the timetable events with instants in [from, to).
// The walk is anchored one schedule day before from so that windows opened
// on the previous schedule day are still observed.
func EventsBetween(entries []RangeEntry, from, to time.Time, tc *broadcastday.Context) ([]RangeEvent, error) {
	if !from.Before(to) {
		return nil, nil
	}

	cursor, err := NewRangeCursor(entries, tc.ScheduleDateOf(from).AddDate(0, 0, -1), tc)
	if err != nil {
		return nil, err
	}

	days := int(to.Sub(from).Hours()/24) + 3
	limit := len(entries) * days

	var events []RangeEvent
	for i := 0; i < limit; i++ {
		ev := cursor.Next()
		if !ev.At.Before(to) {
			break
		}
		if !ev.At.Before(from) {
			events = append(events, ev)
		}
	}
	return events, nil
}

// ActiveWindowAt returns the most recent event at or before t, i.e. the
// timetable window t falls inside. ok is false only when the timetable is
// empty or invalid.
func ActiveWindowAt(entries []RangeEntry, t time.Time, tc *broadcastday.Context) (RangeEvent, bool) {
	cursor, err := NewRangeCursor(entries, tc.ScheduleDateOf(t).AddDate(0, 0, -1), tc)
	if err != nil {
		return RangeEvent{}, false
	}

	// Anchoring one schedule day back guarantees at least one event at or
	// before t; three cycles is more than enough to pass it.
	var current RangeEvent
	found := false
	for i := 0; i < len(entries)*3; i++ {
		ev := cursor.Next()
		if ev.At.After(t) {
			break
		}
		current = ev
		found = true
	}
	return current, found
}
