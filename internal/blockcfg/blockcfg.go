/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package blockcfg loads and validates the station block configuration: the
// set of named blocks, the ordered name rules, and the daily range
// timetable. All validation happens at load time so a broken configuration
// is rejected before any timeslot is resolved.
package blockcfg

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/friendsincode/bragi_schedule/internal/blocks"
)

// BlockMeta carries per-block metadata.
type BlockMeta struct {
	Type string `yaml:"type"`
}

// Config is the validated block configuration. NameRules hold compiled
// patterns; RangeEntries are bounds-checked and duplicate-free.
type Config struct {
	Blocks       map[blocks.BlockID]BlockMeta
	NameRules    []blocks.NameRule
	RangeEntries []blocks.RangeEntry
}

type rawConfig struct {
	Blocks      map[string]BlockMeta `yaml:"blocks"`
	NameBlocks  []rawNameRule        `yaml:"name_blocks"`
	RangeBlocks []rawRangeEntry      `yaml:"range_blocks"`
}

type rawNameRule struct {
	Pattern string  `yaml:"pattern"`
	Block   *string `yaml:"block"` // nil = explicit no-block rule
}

type rawRangeEntry struct {
	Hour   int     `yaml:"hour"`
	Minute int     `yaml:"minute"`
	Block  *string `yaml:"block"`
}

// Load reads and validates a block configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read block config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("block config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse validates a block configuration document.
func Parse(data []byte) (*Config, error) {
	var raw rawConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	cfg := &Config{
		Blocks: make(map[blocks.BlockID]BlockMeta, len(raw.Blocks)),
	}
	for id, meta := range raw.Blocks {
		if id == "" {
			return nil, fmt.Errorf("block with empty identifier")
		}
		cfg.Blocks[blocks.BlockID(id)] = meta
	}

	for i, rule := range raw.NameBlocks {
		pattern, err := blocks.CompilePattern(rule.Pattern)
		if err != nil {
			return nil, fmt.Errorf("name_blocks[%d]: %w", i, err)
		}
		block, err := cfg.blockRef(rule.Block)
		if err != nil {
			return nil, fmt.Errorf("name_blocks[%d]: %w", i, err)
		}
		cfg.NameRules = append(cfg.NameRules, blocks.NameRule{Pattern: pattern, Block: block})
	}

	if len(raw.RangeBlocks) == 0 {
		return nil, blocks.ErrEmptyTimetable
	}
	for i, entry := range raw.RangeBlocks {
		block, err := cfg.blockRef(entry.Block)
		if err != nil {
			return nil, fmt.Errorf("range_blocks[%d]: %w", i, err)
		}
		cfg.RangeEntries = append(cfg.RangeEntries, blocks.RangeEntry{
			Hour:   entry.Hour,
			Minute: entry.Minute,
			Block:  block,
		})
	}
	if err := blocks.ValidateEntries(cfg.RangeEntries); err != nil {
		return nil, err
	}

	return cfg, nil
}

// blockRef resolves an optional block reference, requiring referenced
// blocks to be declared.
func (c *Config) blockRef(name *string) (blocks.BlockID, error) {
	if name == nil {
		return blocks.NoBlock, nil
	}
	id := blocks.BlockID(*name)
	if _, ok := c.Blocks[id]; !ok {
		return blocks.NoBlock, fmt.Errorf("undeclared block %q", *name)
	}
	return id, nil
}
