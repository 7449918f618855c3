package trainer

import (
	"github.com/weedbox/plo8sim"
)

// RewardFunc maps a settled hand to a terminal reward for one seat.
// Intermediate transitions always carry zero reward.
type RewardFunc func(result *plo8sim.Result, seatIdx int, bigBlind int64) float32

// NetChipsReward is the default shaping: net chips won or lost over the
// hand, in big blind units.
func NetChipsReward(result *plo8sim.Result, seatIdx int, bigBlind int64) float32 {
	return float32(result.Seats[seatIdx].Net) / float32(bigBlind)
}
