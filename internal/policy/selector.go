// Package policy implements action selection over learned action values:
// epsilon-greedy exploration blended with a softmax/greedy exploitation
// split.
package policy

import (
	"math"
	rand "math/rand/v2"
)

// Temperature is the fixed softmax temperature. It must stay in lock-step
// with any previously trained tables, so it is not configurable.
const Temperature = 0.5

// Selector picks action indices from action-value vectors. It owns its
// random source; construct one per independent actor.
type Selector struct {
	rng *rand.Rand
}

// NewSelector returns a selector drawing from rng.
func NewSelector(rng *rand.Rand) *Selector {
	return &Selector{rng: rng}
}

// Select returns an action index for the given action values.
//
//  1. With probability epsilon, a uniformly random index (exploration).
//  2. Otherwise, if softBound > 0 and more than softBound actions remain,
//     an index sampled from the softmax distribution over values. This keeps
//     variety early in a hand so training does not converge prematurely on
//     one line of play.
//  3. Otherwise the argmax, lowest index winning ties.
//
// The same three tiers serve training (non-zero epsilon and softBound) and
// deployed play (epsilon 0, softBound 0 for a deterministic agent).
func (s *Selector) Select(values []float64, epsilon, softBound float64) int {
	if s.rng.Float64() < epsilon {
		return s.rng.IntN(len(values))
	}
	if softBound > 0 && float64(len(values)) > softBound {
		return s.sample(Softmax(values, Temperature))
	}
	return argmax(values)
}

// Softmax returns the categorical distribution p_i = exp(v_i/temp) / sum.
func Softmax(values []float64, temp float64) []float64 {
	probs := make([]float64, len(values))
	var sum float64
	for i, v := range values {
		probs[i] = math.Exp(v / temp)
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}

// sample draws an index from a categorical distribution by inverse-transform
// sampling over the cumulative sum.
func (s *Selector) sample(probs []float64) int {
	r := s.rng.Float64()
	var cum float64
	for i, p := range probs {
		cum += p
		if r < cum {
			return i
		}
	}
	// Float rounding can leave cum fractionally below 1.
	return len(probs) - 1
}

func argmax(values []float64) int {
	best := 0
	for i, v := range values {
		if v > values[best] {
			best = i
		}
	}
	return best
}
