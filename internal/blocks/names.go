/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package blocks

// BlockID names a programming block. Block identifiers are opaque, non-empty
// strings; NoBlock marks the deliberate absence of a block.
type BlockID string

// NoBlock is the explicit "no block assigned" marker. A name rule may map a
// title to NoBlock to exclude it from later rules, which is distinct from no
// rule matching at all.
const NoBlock BlockID = ""

// NameRule maps titles matching Pattern to Block. Rules are ordered; see
// ResolveName.
type NameRule struct {
	Pattern Pattern
	Block   BlockID
}

// ResolveName applies rules in declaration order and returns the block of
// the first rule whose pattern matches the title. The matched block may be
// NoBlock (an exclusion rule); ok reports whether any rule matched, so
// callers can distinguish an exclusion from a fall-through to other
// resolution strategies.
func ResolveName(title string, rules []NameRule) (BlockID, bool) {
	for _, rule := range rules {
		if rule.Pattern.Match(title) {
			return rule.Block, true
		}
	}
	return NoBlock, false
}
