package policy

import (
	"math"
	"testing"

	"github.com/lox/highcard/internal/randutil"
)

func TestSelectExplorationUniform(t *testing.T) {
	s := NewSelector(randutil.New(1))
	values := []float64{0, 0, 0, 10} // must be ignored at epsilon 1

	const trials = 20000
	var counts [4]int
	for i := 0; i < trials; i++ {
		counts[s.Select(values, 1, 0)]++
	}
	for i, c := range counts {
		frac := float64(c) / trials
		if frac < 0.22 || frac > 0.28 {
			t.Errorf("action %d drawn %.3f of the time, want ~0.25", i, frac)
		}
	}
}

func TestSelectGreedy(t *testing.T) {
	s := NewSelector(randutil.New(2))
	for i := 0; i < 100; i++ {
		if got := s.Select([]float64{0.5, 0.9, 0.9}, 0, 0); got != 1 {
			t.Fatalf("Select = %d, want first of the tied maxima", got)
		}
	}
}

func TestSelectGreedyBelowSoftBound(t *testing.T) {
	s := NewSelector(randutil.New(3))
	// Two actions with a bound of 3.5: too few remain for softmax sampling.
	if got := s.Select([]float64{0.2, 0.1}, 0, 3.5); got != 0 {
		t.Fatalf("Select = %d, want 0", got)
	}
}

func TestSelectSoftmaxPrefersHighValue(t *testing.T) {
	s := NewSelector(randutil.New(4))
	// At temperature 0.5 the gap makes the last action's probability
	// indistinguishable from 1.
	values := []float64{0, 0, 20}
	for i := 0; i < 1000; i++ {
		if got := s.Select(values, 0, 2); got != 2 {
			t.Fatalf("Select = %d, want 2", got)
		}
	}
}

func TestSoftmax(t *testing.T) {
	probs := Softmax([]float64{0, 0}, 1)
	if probs[0] != 0.5 || probs[1] != 0.5 {
		t.Fatalf("Softmax uniform = %v, want [0.5 0.5]", probs)
	}

	values := []float64{1, 2, 3}
	probs = Softmax(values, Temperature)
	var sum, norm float64
	for _, v := range values {
		norm += math.Exp(v / Temperature)
	}
	for i, p := range probs {
		want := math.Exp(values[i]/Temperature) / norm
		if math.Abs(p-want) > 1e-12 {
			t.Errorf("p[%d] = %g, want %g", i, p, want)
		}
		sum += p
	}
	if math.Abs(sum-1) > 1e-12 {
		t.Errorf("probabilities sum to %g", sum)
	}
}

func TestSoftmaxSamplingFrequencies(t *testing.T) {
	s := NewSelector(randutil.New(5))
	values := []float64{0, 0.5}
	probs := Softmax(values, Temperature)

	const trials = 20000
	var count1 int
	for i := 0; i < trials; i++ {
		if s.Select(values, 0, 1) == 1 {
			count1++
		}
	}
	frac := float64(count1) / trials
	if math.Abs(frac-probs[1]) > 0.02 {
		t.Errorf("action 1 drawn %.3f of the time, want ~%.3f", frac, probs[1])
	}
}
