// Package policy holds the state encoder and the decision network for
// the self-play trainer. The game core depends only on the Policy
// interface; any implementation producing a 5-way action distribution
// can drive a seat.
package policy

import (
	"math/rand"

	"github.com/weedbox/plo8sim"
)

// Policy maps an encoded state vector to a probability distribution over
// the five action intents: non-negative values summing to 1.
type Policy interface {
	Probs(state []float32) []float32
}

// Greedy returns the intent with the highest probability.
func Greedy(p Policy, state []float32) plo8sim.ActionIntent {
	probs := p.Probs(state)
	best := 0
	for i := 1; i < len(probs); i++ {
		if probs[i] > probs[best] {
			best = i
		}
	}
	return plo8sim.ActionIntent(best)
}

// Uniform is the exploration policy: equal probability on every intent.
type Uniform struct{}

func (Uniform) Probs(state []float32) []float32 {
	probs := make([]float32, plo8sim.IntentCount)
	for i := range probs {
		probs[i] = 1.0 / plo8sim.IntentCount
	}
	return probs
}

// SampleIntent draws an intent uniformly at random.
func SampleIntent(r *rand.Rand) plo8sim.ActionIntent {
	return plo8sim.ActionIntent(r.Intn(plo8sim.IntentCount))
}
