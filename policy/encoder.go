package policy

import (
	"github.com/weedbox/plo8sim"
)

// Feature layout of the encoded state vector:
//
//	[0:52)    own hole cards, one-hot by card ID
//	[52:104)  community cards, one-hot by card ID
//	[104]     own stack, in big blinds / 200, capped at 1
//	[105]     own current street bet, same scale
//	[106]     pot, in big blinds / 400, capped at 1
//	[107:111) street one-hot (preflop, flop, turn, river)
//	[111]     dealer position flag
//	[112]     opponent street bet
//	[113]     opponent stack
const (
	InputSize = 114

	maxStackBB = 200.0
	maxPotBB   = 400.0
)

// Encode converts the hand state, as seen from one seat, into the fixed
// 114-feature input vector.
func Encode(g *plo8sim.Game, seatIdx int) []float32 {
	input := make([]float32, InputSize)

	seat := g.Seats[seatIdx]
	opponent := g.Seats[(seatIdx+1)%plo8sim.SeatCount]
	bigBlind := float64(g.Options.BigBlind)

	for _, card := range seat.HoleCards {
		input[card.ID()] = 1
	}
	for _, card := range g.Board {
		input[52+card.ID()] = 1
	}

	input[104] = normalize(float64(seat.Stack)/bigBlind, maxStackBB)
	input[105] = normalize(float64(seat.StreetBet)/bigBlind, maxStackBB)
	input[106] = normalize(float64(g.Pot)/bigBlind, maxPotBB)

	if idx := plo8sim.StreetIndex(g.Street); idx != plo8sim.UnsetValue {
		input[107+idx] = 1
	}

	if seatIdx == g.DealerSeat {
		input[111] = 1
	}

	input[112] = normalize(float64(opponent.StreetBet)/bigBlind, maxStackBB)
	input[113] = normalize(float64(opponent.Stack)/bigBlind, maxStackBB)

	return input
}

func normalize(value, max float64) float32 {
	if value >= max {
		return 1
	}
	return float32(value / max)
}
