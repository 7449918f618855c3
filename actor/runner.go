package actor

import (
	"math/rand"
	"time"

	"github.com/weedbox/timebank"

	"github.com/weedbox/plo8sim"
	"github.com/weedbox/plo8sim/policy"
)

// Runner decides for one seat. ReserveReady signals readiness for the
// next hand by invoking ready, possibly after a delay.
type Runner interface {
	Name() string
	Act(g *plo8sim.Game, seatIdx int) (plo8sim.ActionIntent, error)
	ReserveReady(ready func())
}

// PolicyRunner plays greedily from a trained policy.
type policyRunner struct {
	name        string
	policy      policy.Policy
	isHumanized bool
	timebank    *timebank.TimeBank
}

func NewPolicyRunner(name string, p policy.Policy) *policyRunner {
	return &policyRunner{
		name:     name,
		policy:   p,
		timebank: timebank.NewTimeBank(),
	}
}

// Humanized adds a short delay before readying up, mimicking a seated
// player rather than a hot loop.
func (pr *policyRunner) Humanized(enabled bool) *policyRunner {
	pr.isHumanized = enabled
	return pr
}

func (pr *policyRunner) Name() string {
	return pr.name
}

func (pr *policyRunner) Act(g *plo8sim.Game, seatIdx int) (plo8sim.ActionIntent, error) {
	state := policy.Encode(g, seatIdx)
	return policy.Greedy(pr.policy, state), nil
}

func (pr *policyRunner) ReserveReady(ready func()) {
	if !pr.isHumanized {
		ready()
		return
	}

	pr.timebank.NewTask(time.Duration(100)*time.Millisecond, func(isCancelled bool) {
		if isCancelled {
			return
		}

		ready()
	})
}

// RandomRunner picks uniformly among the five intents. Useful as a
// benchmark opponent.
type randomRunner struct {
	name string
	rng  *rand.Rand
}

func NewRandomRunner(name string, rng *rand.Rand) *randomRunner {
	return &randomRunner{
		name: name,
		rng:  rng,
	}
}

func (rr *randomRunner) Name() string {
	return rr.name
}

func (rr *randomRunner) Act(g *plo8sim.Game, seatIdx int) (plo8sim.ActionIntent, error) {
	return policy.SampleIntent(rr.rng), nil
}

func (rr *randomRunner) ReserveReady(ready func()) {
	ready()
}
