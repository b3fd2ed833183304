package cli

// This file contains the view command for displaying a recorded run.

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/rttmon/rttmon/history"
	"github.com/rttmon/rttmon/model"
)

func (a *App) view(ctx *cli.Context) error {
	arg := "0"
	if ctx.Args().Len() > 0 {
		arg = ctx.Args().First()
	}

	root, err := history.Root()
	if err != nil {
		return err
	}

	entries, err := history.LoadEntries(a.logger, root)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	if len(entries) == 0 {
		return fmt.Errorf("no runs recorded")
	}

	// Sort by timestamp (newest first)
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Run.Timestamp.After(entries[j].Run.Timestamp)
	})

	var targetEntry *history.Entry
	if parsed, err := strconv.ParseInt(arg, 10, 64); err == nil {
		if parsed > 0 {
			return fmt.Errorf("invalid index: %s (use 0 for last, -1 for second-to-last, etc.)", arg)
		}
		index := int(-parsed)
		if index >= len(entries) {
			return fmt.Errorf("index %s out of range (only %d runs)", arg, len(entries))
		}
		targetEntry = &entries[index]
	} else {
		hexID := strings.ToLower(arg)
		for i := range entries {
			if strings.HasPrefix(strings.ToLower(entries[i].Run.ID), hexID) {
				targetEntry = &entries[i]
				break
			}
		}
		if targetEntry == nil {
			return fmt.Errorf("no run found matching ID: %s", arg)
		}
	}

	return a.displayRun(targetEntry)
}

func (a *App) displayRun(entry *history.Entry) error {
	run := entry.Run

	shortID := run.ID
	if len(shortID) > 8 {
		shortID = shortID[:8]
	}
	fmt.Printf("=== Run: %s ===\n", shortID)
	fmt.Printf("Time: %s\n", run.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Printf("Duration: %s\n", run.Duration)
	fmt.Printf("Outcome: %s\n", run.Outcome)
	fmt.Printf("Exit Code: %d\n", run.ExitCode)
	if run.Target != nil && run.Target.Device != "" {
		fmt.Printf("Device: %s (%s @ %d kHz)\n", run.Target.Device, run.Target.Interface, run.Target.Speed)
		if run.Target.Firmware != "" {
			fmt.Printf("Firmware: %s\n", run.Target.Firmware)
		}
	}
	fmt.Println()

	result, err := history.LoadResult(entry.FullPath)
	if err != nil {
		return fmt.Errorf("failed to load result: %w", err)
	}

	// Stable listing: order by first-seen time, then name.
	names := make([]string, 0, len(result.TestResults))
	for name := range result.TestResults {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := result.TestResults[names[i]], result.TestResults[names[j]]
		if !a.FirstSeenAt.Equal(b.FirstSeenAt) {
			return a.FirstSeenAt.Before(b.FirstSeenAt)
		}
		return a.Name < b.Name
	})

	for _, name := range names {
		rec := result.TestResults[name]
		marker := " "
		switch rec.Status {
		case model.StatusPass:
			marker = "✓"
		case model.StatusFail:
			marker = "✗"
		}
		fmt.Printf("%s %-40s %s", marker, name, rec.Status)
		if rec.DurationMS != nil {
			fmt.Printf(" (%d ms)", *rec.DurationMS)
		}
		fmt.Println()
	}

	fmt.Printf("\nTotal: %d, Passed: %d, Failed: %d\n",
		result.Summary.TotalTests, result.Summary.PassedTests, result.Summary.FailedTests)
	fmt.Printf("Raw log: %d lines captured\n", len(result.LogBuffer))
	fmt.Printf("Result file: %s/result.json\n", entry.FullPath)
	return nil
}
