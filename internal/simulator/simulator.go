// Package simulator evaluates a trained table by pitting it against an
// untrained baseline over many matches.
package simulator

import (
	"context"
	"errors"
	rand "math/rand/v2"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lox/highcard/internal/match"
	"github.com/lox/highcard/internal/policy"
	"github.com/lox/highcard/internal/qtable"
	"github.com/lox/highcard/internal/randutil"
	"github.com/lox/highcard/internal/statistics"
)

// Player indices within a simulated match.
const (
	Baseline = 0 // epsilon 1: picks uniformly at random
	Trained  = 1 // epsilon 0: exploits the table
)

// Config controls a simulation run.
type Config struct {
	Matches int
	Workers int // defaults to 1
	Seed    int64
}

// Validate ensures the simulation parameters are usable.
func (c Config) Validate() error {
	if c.Matches <= 0 {
		return errors.New("matches must be > 0")
	}
	if c.Workers < 0 {
		return errors.New("workers cannot be negative")
	}
	return nil
}

// Run plays cfg.Matches hands of trained-vs-untrained and returns the
// aggregate statistics. Matches are sharded across workers; this is sound
// because neither policy writes to the table during play, and the stats
// shards merge additively afterwards.
func Run(ctx context.Context, table *qtable.Table, cfg Config, logger *log.Logger) (*statistics.Stats, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	workers := cfg.Workers
	if workers == 0 {
		workers = 1
	}
	if workers > cfg.Matches {
		workers = cfg.Matches
	}

	master := randutil.New(cfg.Seed)
	shards := make([]statistics.Stats, workers)

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		rng := randutil.Split(master)
		count := cfg.Matches / workers
		if w < cfg.Matches%workers {
			count++
		}
		shard := &shards[w]
		g.Go(func() error {
			return runShard(ctx, table, rng, count, shard)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := &statistics.Stats{}
	for i := range shards {
		total.Merge(&shards[i])
	}
	if err := total.Validate(); err != nil {
		return nil, err
	}
	logger.Debug("simulation complete", "matches", total.Matches, "workers", workers)
	return total, nil
}

func runShard(ctx context.Context, table *qtable.Table, rng *rand.Rand, count int, out *statistics.Stats) error {
	softBound := policy.PlaySoftBound(table.HandSize())
	selector := policy.NewSelector(randutil.Split(rng))
	players := [2]match.Chooser{
		Baseline: policy.NewTablePolicy(table, selector, 1, softBound),
		Trained:  policy.NewTablePolicy(table, selector, 0, softBound),
	}
	driver := match.New(table.HandSize(), players, rng)

	for i := 0; i < count; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		res, err := driver.Play()
		if err != nil {
			return err
		}
		out.Add(statistics.MatchResult{
			Winner:    res.Winner(),
			Margin:    float64(res.Scores[Trained] - res.Scores[Baseline]),
			Rounds:    res.Rounds,
			EarlyStop: res.EarlyStop,
		})
	}
	return nil
}
