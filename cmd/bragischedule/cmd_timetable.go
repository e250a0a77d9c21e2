package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/friendsincode/bragi_schedule/internal/blocks"
)

var (
	timetableDate string
	timetableDays int
)

var timetableCmd = &cobra.Command{
	Use:   "timetable",
	Short: "Print the range block timetable",
	Long:  "Print the range block boundaries for one or more schedule days",
	RunE:  runTimetable,
}

func init() {
	timetableCmd.Flags().StringVar(&timetableDate, "date", "", "schedule date, YYYY-MM-DD (default: today)")
	timetableCmd.Flags().IntVar(&timetableDays, "days", 1, "number of schedule days to print")
	rootCmd.AddCommand(timetableCmd)
}

func runTimetable(cmd *cobra.Command, args []string) error {
	resolver, err := newResolver()
	if err != nil {
		return err
	}
	tc := resolver.TimeContext()

	if timetableDays < 1 {
		return fmt.Errorf("--days must be positive")
	}

	date := tc.ScheduleDateOf(tc.AwareNow())
	if timetableDate != "" {
		parsed, err := time.ParseInLocation("2006-01-02", timetableDate, tc.Location())
		if err != nil {
			return fmt.Errorf("parse --date: %w", err)
		}
		date = parsed
	}

	events, err := resolver.Timetable(tc.StartOn(date), tc.StartOn(date.AddDate(0, 0, timetableDays)))
	if err != nil {
		return err
	}

	type row struct {
		At    string  `json:"at"`
		Block *string `json:"block"`
	}
	rows := make([]row, 0, len(events))
	for _, ev := range events {
		r := row{At: ev.At.Format(time.RFC3339)}
		if ev.Block != blocks.NoBlock {
			b := string(ev.Block)
			r.Block = &b
		}
		rows = append(rows, r)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}
