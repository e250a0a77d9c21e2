/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package blocks assigns named programming blocks to timeslots. Blocks are
// resolved from two independent rule sets: glob-style name rules matched
// against the timeslot title, and a daily range timetable anchored to the
// station's broadcast day.
package blocks

import (
	"errors"
	"fmt"
	"strings"
)

// ErrBadPattern indicates a malformed glob pattern, such as an unterminated
// character class. It is reported when the pattern is compiled, so broken
// rules are rejected at configuration load rather than at match time.
var ErrBadPattern = errors.New("bad block name pattern")

type segmentKind int

const (
	segLiteral segmentKind = iota
	segStar
	segClass
)

type classRange struct {
	lo, hi rune
}

type segment struct {
	kind    segmentKind
	text    []rune       // segLiteral
	ranges  []classRange // segClass
	negated bool
}

// Pattern is a compiled name-rule glob. `*` matches any substring (including
// the empty one), `[...]` matches exactly one character from the set, and
// everything else matches literally. Matching is case-insensitive and
// anchored at both ends.
type Pattern struct {
	src  string
	segs []segment
}

// CompilePattern parses a glob into a Pattern.
func CompilePattern(src string) (Pattern, error) {
	runes := []rune(strings.ToLower(src))
	var segs []segment
	var lit []rune

	flushLiteral := func() {
		if len(lit) > 0 {
			segs = append(segs, segment{kind: segLiteral, text: lit})
			lit = nil
		}
	}

	for i := 0; i < len(runes); i++ {
		switch runes[i] {
		case '*':
			flushLiteral()
			// Consecutive stars collapse to one.
			if len(segs) == 0 || segs[len(segs)-1].kind != segStar {
				segs = append(segs, segment{kind: segStar})
			}
		case '[':
			flushLiteral()
			seg, consumed, err := parseClass(runes[i+1:])
			if err != nil {
				return Pattern{}, fmt.Errorf("%w: %q: %v", ErrBadPattern, src, err)
			}
			segs = append(segs, seg)
			i += consumed
		default:
			lit = append(lit, runes[i])
		}
	}
	flushLiteral()

	return Pattern{src: src, segs: segs}, nil
}

// MustCompilePattern is CompilePattern for patterns known to be valid, such
// as literals in tests.
func MustCompilePattern(src string) Pattern {
	p, err := CompilePattern(src)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the original pattern source.
func (p Pattern) String() string {
	return p.src
}

// parseClass parses a character class body (the runes following '['), and
// returns the class segment along with the number of runes consumed
// including the closing ']'.
func parseClass(runes []rune) (segment, int, error) {
	seg := segment{kind: segClass}
	i := 0

	if i < len(runes) && (runes[i] == '^' || runes[i] == '!') {
		seg.negated = true
		i++
	}

	for i < len(runes) {
		r := runes[i]
		// A ']' directly after '[' or the negation marker is a literal
		// member, per usual glob rules.
		if r == ']' && len(seg.ranges) > 0 {
			return seg, i + 1, nil
		}
		lo, hi := r, r
		if i+2 < len(runes) && runes[i+1] == '-' && runes[i+2] != ']' {
			hi = runes[i+2]
			i += 2
		}
		if hi < lo {
			return segment{}, 0, fmt.Errorf("inverted range %c-%c", lo, hi)
		}
		seg.ranges = append(seg.ranges, classRange{lo: lo, hi: hi})
		i++
	}

	return segment{}, 0, errors.New("unterminated character class")
}

func (s segment) classMatches(r rune) bool {
	in := false
	for _, cr := range s.ranges {
		if r >= cr.lo && r <= cr.hi {
			in = true
			break
		}
	}
	if s.negated {
		return !in
	}
	return in
}

// Match reports whether title satisfies the pattern. The empty title never
// matches, not even against a bare `*`.
func (p Pattern) Match(title string) bool {
	if title == "" {
		return false
	}
	return matchSegments(p.segs, []rune(strings.ToLower(title)))
}

func matchSegments(segs []segment, title []rune) bool {
	if len(segs) == 0 {
		return len(title) == 0
	}

	seg := segs[0]
	switch seg.kind {
	case segLiteral:
		if len(title) < len(seg.text) {
			return false
		}
		for i, r := range seg.text {
			if title[i] != r {
				return false
			}
		}
		return matchSegments(segs[1:], title[len(seg.text):])

	case segClass:
		if len(title) == 0 || !seg.classMatches(title[0]) {
			return false
		}
		return matchSegments(segs[1:], title[1:])

	case segStar:
		// Try every possible span for the star, shortest first.
		for i := 0; i <= len(title); i++ {
			if matchSegments(segs[1:], title[i:]) {
				return true
			}
		}
		return false
	}

	return false
}
