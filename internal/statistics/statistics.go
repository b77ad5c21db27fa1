// Package statistics aggregates match outcomes for simulation reports.
package statistics

import (
	"fmt"
	"math"
)

// MatchResult is the outcome of a single simulated match. Margin is the
// trained side's score minus the baseline's, so it is positive when the
// trained policy wins.
type MatchResult struct {
	Winner    int // player index, or -1 on a tie
	Margin    float64
	Rounds    int
	EarlyStop bool
}

// Stats accumulates results across matches. Zero value is ready for use;
// independent shards can be merged additively.
type Stats struct {
	Matches    int
	Wins       [2]int
	Ties       int
	EarlyStops int
	SumMargin  float64
	SumMargin2 float64 // sum of squares for variance
	SumRounds  int
}

// Add incorporates one match result.
func (s *Stats) Add(r MatchResult) {
	s.Matches++
	if r.Winner >= 0 {
		s.Wins[r.Winner]++
	} else {
		s.Ties++
	}
	if r.EarlyStop {
		s.EarlyStops++
	}
	s.SumMargin += r.Margin
	s.SumMargin2 += r.Margin * r.Margin
	s.SumRounds += r.Rounds
}

// Merge folds another shard's totals into s.
func (s *Stats) Merge(o *Stats) {
	s.Matches += o.Matches
	s.Wins[0] += o.Wins[0]
	s.Wins[1] += o.Wins[1]
	s.Ties += o.Ties
	s.EarlyStops += o.EarlyStops
	s.SumMargin += o.SumMargin
	s.SumMargin2 += o.SumMargin2
	s.SumRounds += o.SumRounds
}

// WinRate returns the fraction of matches won by player p.
func (s *Stats) WinRate(p int) float64 {
	if s.Matches == 0 {
		return 0
	}
	return float64(s.Wins[p]) / float64(s.Matches)
}

// MeanMargin returns the average score margin per match.
func (s *Stats) MeanMargin() float64 {
	if s.Matches == 0 {
		return 0
	}
	return s.SumMargin / float64(s.Matches)
}

// Variance returns the sample variance of the margin.
func (s *Stats) Variance() float64 {
	if s.Matches < 2 {
		return 0
	}
	mean := s.MeanMargin()
	return (s.SumMargin2 - float64(s.Matches)*mean*mean) / float64(s.Matches-1)
}

// StdError returns the standard error of the mean margin.
func (s *Stats) StdError() float64 {
	if s.Matches == 0 {
		return 0
	}
	return math.Sqrt(s.Variance()) / math.Sqrt(float64(s.Matches))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
// margin.
func (s *Stats) ConfidenceInterval95() (float64, float64) {
	mean := s.MeanMargin()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// MeanRounds returns the average number of rounds actually played per match.
func (s *Stats) MeanRounds() float64 {
	if s.Matches == 0 {
		return 0
	}
	return float64(s.SumRounds) / float64(s.Matches)
}

// Validate checks internal consistency of the accumulated totals.
func (s *Stats) Validate() error {
	if s.Wins[0]+s.Wins[1]+s.Ties != s.Matches {
		return fmt.Errorf("outcome totals %d+%d+%d do not sum to %d matches",
			s.Wins[0], s.Wins[1], s.Ties, s.Matches)
	}
	return nil
}
