package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/friendsincode/bragi_schedule/internal/blockcfg"
	"github.com/friendsincode/bragi_schedule/internal/blocks"
	"github.com/friendsincode/bragi_schedule/internal/broadcastday"
)

var (
	resolveTitle string
	resolveAt    string
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve the block for a title and instant",
	Long:  "Resolve a programming block for a timeslot title against the configured block rules, without the catalogue database",
	RunE:  runResolve,
}

func init() {
	resolveCmd.Flags().StringVar(&resolveTitle, "title", "", "timeslot title to resolve (required)")
	resolveCmd.Flags().StringVar(&resolveAt, "at", "", "start instant, RFC 3339 (default: now)")
	_ = resolveCmd.MarkFlagRequired("title")
	rootCmd.AddCommand(resolveCmd)
}

// newResolver builds the block resolver from process configuration, shared
// by the one-shot commands.
func newResolver() (*blocks.Resolver, error) {
	if err := loadConfig(); err != nil {
		return nil, err
	}

	tc, err := broadcastday.New(cfg.Timezone, cfg.DayStartHour)
	if err != nil {
		return nil, fmt.Errorf("schedule day context: %w", err)
	}

	blockCfg, err := blockcfg.Load(cfg.BlockConfigPath)
	if err != nil {
		return nil, err
	}

	return blocks.NewResolver(blockCfg.NameRules, blockCfg.RangeEntries, tc)
}

func runResolve(cmd *cobra.Command, args []string) error {
	resolver, err := newResolver()
	if err != nil {
		return err
	}

	at := resolver.TimeContext().AwareNow()
	if resolveAt != "" {
		parsed, err := time.Parse(time.RFC3339, resolveAt)
		if err != nil {
			return fmt.Errorf("parse --at: %w", err)
		}
		at = parsed.In(resolver.TimeContext().Location())
	}

	res := resolver.Resolve(resolveTitle, at)

	out := map[string]any{
		"title":  resolveTitle,
		"at":     at.Format(time.RFC3339),
		"source": string(res.Source),
		"block":  nil,
	}
	if res.Block != blocks.NoBlock {
		out["block"] = string(res.Block)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
