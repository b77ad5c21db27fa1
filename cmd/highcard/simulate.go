package main

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/lox/highcard/internal/qtable"
	"github.com/lox/highcard/internal/simulator"
)

type SimulateCmd struct {
	Input   string `short:"i" default:"qtable.txt" help:"Trained table to evaluate"`
	Matches int    `default:"10000" help:"Number of matches to simulate"`
	Workers int    `default:"0" help:"Parallel workers (0 uses all CPUs)"`
	Seed    int64  `help:"RNG seed (0 draws from the clock)"`
	Verbose bool   `help:"Verbose logging"`
}

func (c *SimulateCmd) Run() error {
	logger := newLogger(c.Verbose)

	table := qtable.New(qtable.HandSize)
	if err := table.ReadFile(c.Input, logger); err != nil {
		return err
	}

	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	workers := c.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}

	fmt.Printf("Simulating %d matches, trained vs random (seed %d)\n", c.Matches, seed)

	start := time.Now()
	stats, err := simulator.Run(context.Background(), table, simulator.Config{
		Matches: c.Matches,
		Workers: workers,
		Seed:    seed,
	}, logger)
	if err != nil {
		return err
	}
	duration := time.Since(start)

	low, high := stats.ConfidenceInterval95()
	fmt.Printf("Completed in %v (%.0f matches/sec)\n\n",
		duration.Round(time.Millisecond), float64(stats.Matches)/duration.Seconds())
	fmt.Printf("Trained wins:  %d (%.1f%%)\n",
		stats.Wins[simulator.Trained], stats.WinRate(simulator.Trained)*100)
	fmt.Printf("Baseline wins: %d (%.1f%%)\n",
		stats.Wins[simulator.Baseline], stats.WinRate(simulator.Baseline)*100)
	fmt.Printf("Ties:          %d\n", stats.Ties)
	fmt.Printf("Early stops:   %d (%.1f%%)\n",
		stats.EarlyStops, float64(stats.EarlyStops)/float64(stats.Matches)*100)
	fmt.Printf("Mean margin:   %.3f rounds/match (SE %.3f)\n", stats.MeanMargin(), stats.StdError())
	fmt.Printf("95%% CI:        [%.3f, %.3f]\n", low, high)
	fmt.Printf("Mean rounds:   %.2f\n", stats.MeanRounds())
	return nil
}
