package statistics

import (
	"math"
	"testing"
)

func sampleResults() []MatchResult {
	return []MatchResult{
		{Winner: 1, Margin: 3, Rounds: 5, EarlyStop: true},
		{Winner: 1, Margin: 1, Rounds: 7},
		{Winner: 0, Margin: -2, Rounds: 6, EarlyStop: true},
		{Winner: -1, Margin: 0, Rounds: 7},
		{Winner: 1, Margin: 4, Rounds: 4, EarlyStop: true},
	}
}

func TestAdd(t *testing.T) {
	var s Stats
	for _, r := range sampleResults() {
		s.Add(r)
	}

	if s.Matches != 5 {
		t.Errorf("Matches = %d, want 5", s.Matches)
	}
	if s.Wins != [2]int{1, 3} {
		t.Errorf("Wins = %v, want [1 3]", s.Wins)
	}
	if s.Ties != 1 {
		t.Errorf("Ties = %d, want 1", s.Ties)
	}
	if s.EarlyStops != 3 {
		t.Errorf("EarlyStops = %d, want 3", s.EarlyStops)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
	if got := s.WinRate(1); got != 0.6 {
		t.Errorf("WinRate(1) = %g, want 0.6", got)
	}
	if got := s.MeanMargin(); got != 1.2 {
		t.Errorf("MeanMargin = %g, want 1.2", got)
	}
	if got := s.MeanRounds(); got != 5.8 {
		t.Errorf("MeanRounds = %g, want 5.8", got)
	}
}

// Sharded accumulation then Merge must equal single-stream accumulation.
func TestMergeMatchesSequential(t *testing.T) {
	results := sampleResults()

	var whole Stats
	for _, r := range results {
		whole.Add(r)
	}

	var a, b Stats
	for i, r := range results {
		if i%2 == 0 {
			a.Add(r)
		} else {
			b.Add(r)
		}
	}
	a.Merge(&b)

	if a != whole {
		t.Fatalf("merged = %+v, want %+v", a, whole)
	}
}

func TestVarianceAndConfidence(t *testing.T) {
	var s Stats
	for _, r := range sampleResults() {
		s.Add(r)
	}

	// Sample variance of {3, 1, -2, 0, 4} around mean 1.2.
	wantVar := (math.Pow(3-1.2, 2) + math.Pow(1-1.2, 2) + math.Pow(-2-1.2, 2) +
		math.Pow(0-1.2, 2) + math.Pow(4-1.2, 2)) / 4
	if got := s.Variance(); math.Abs(got-wantVar) > 1e-12 {
		t.Errorf("Variance = %g, want %g", got, wantVar)
	}

	low, high := s.ConfidenceInterval95()
	mean := s.MeanMargin()
	if low >= mean || high <= mean {
		t.Errorf("CI [%g, %g] does not bracket mean %g", low, high, mean)
	}
	if math.Abs((high-low)/2-1.96*s.StdError()) > 1e-12 {
		t.Errorf("CI half-width %g, want %g", (high-low)/2, 1.96*s.StdError())
	}
}

func TestEmptyStats(t *testing.T) {
	var s Stats
	if s.WinRate(0) != 0 || s.MeanMargin() != 0 || s.StdError() != 0 || s.MeanRounds() != 0 {
		t.Error("empty stats should report zeros")
	}
	if err := s.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestValidateCatchesMismatch(t *testing.T) {
	s := Stats{Matches: 3, Wins: [2]int{1, 1}}
	if err := s.Validate(); err == nil {
		t.Error("expected validation error for unbalanced totals")
	}
}
