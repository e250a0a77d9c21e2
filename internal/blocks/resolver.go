/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package blocks

import (
	"time"

	"github.com/friendsincode/bragi_schedule/internal/broadcastday"
)

// Source records which rule set produced a resolution.
type Source string

const (
	SourceName  Source = "name"  // a name rule matched (possibly an exclusion)
	SourceRange Source = "range" // the range timetable window supplied the block
	SourceNone  Source = "none"  // nothing applied; no block
)

// Resolution is the outcome of resolving a block. Block is NoBlock when the
// title was explicitly excluded or nothing applied.
type Resolution struct {
	Block  BlockID
	Source Source
}

// Resolver combines the name rules and the range timetable into the
// effective block lookup. Name rules win; unresolved titles fall back to the
// timetable window containing the start instant; otherwise no block.
//
// A Resolver is immutable after construction and safe for concurrent use.
type Resolver struct {
	rules   []NameRule
	entries []RangeEntry
	tc      *broadcastday.Context
}

// NewResolver builds a resolver. Entries are validated the same way
// NewRangeCursor validates them; an empty timetable is rejected.
func NewResolver(rules []NameRule, entries []RangeEntry, tc *broadcastday.Context) (*Resolver, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyTimetable
	}
	if err := ValidateEntries(entries); err != nil {
		return nil, err
	}
	return &Resolver{rules: rules, entries: entries, tc: tc}, nil
}

// Resolve returns the block for a timeslot title starting at start.
func (r *Resolver) Resolve(title string, start time.Time) Resolution {
	if block, ok := ResolveName(title, r.rules); ok {
		return Resolution{Block: block, Source: SourceName}
	}

	if window, ok := ActiveWindowAt(r.entries, start, r.tc); ok {
		return Resolution{Block: window.Block, Source: SourceRange}
	}

	return Resolution{Block: NoBlock, Source: SourceNone}
}

// BlockFor is Resolve collapsed to the block alone.
func (r *Resolver) BlockFor(title string, start time.Time) BlockID {
	return r.Resolve(title, start).Block
}

// BlockAt returns the timetable block on air at t, ignoring name rules.
func (r *Resolver) BlockAt(t time.Time) BlockID {
	if window, ok := ActiveWindowAt(r.entries, t, r.tc); ok {
		return window.Block
	}
	return NoBlock
}

// Timetable returns the range events within [from, to).
func (r *Resolver) Timetable(from, to time.Time) ([]RangeEvent, error) {
	return EventsBetween(r.entries, from, to, r.tc)
}

// TimeContext returns the schedule-day context the resolver operates in.
func (r *Resolver) TimeContext() *broadcastday.Context {
	return r.tc
}
