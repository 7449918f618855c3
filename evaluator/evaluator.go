// Package evaluator implements the PLO8 hi/lo hand evaluator consumed by
// the plo8sim settlement engine. The high side is scored with the
// paulhankin/poker five-card evaluator over all 2-hole/3-board
// combinations; the 8-or-better low side is scored directly.
package evaluator

import (
	"errors"

	"github.com/paulhankin/poker"

	"github.com/weedbox/plo8sim"
)

var (
	ErrInvalidHoleCards = errors.New("evaluator: omaha hands require exactly 4 hole cards")
	ErrInvalidBoard     = errors.New("evaluator: board must hold 3 to 5 cards")
)

type plo8Evaluator struct{}

// NewPLO8Evaluator returns the default evaluator for heads-up PLO8
// settlement.
func NewPLO8Evaluator() plo8sim.HandEvaluator {
	return &plo8Evaluator{}
}

func (e *plo8Evaluator) Evaluate(hole []plo8sim.Card, board []plo8sim.Card) (plo8sim.HandRank, error) {
	if len(hole) != plo8sim.HoleCardCount {
		return plo8sim.HandRank{}, ErrInvalidHoleCards
	}
	if len(board) < 3 || len(board) > 5 {
		return plo8sim.HandRank{}, ErrInvalidBoard
	}

	return plo8sim.HandRank{
		High: bestHigh(hole, board),
		Low:  bestLow(hole, board),
	}, nil
}

// bestHigh returns the normalized best five-card high value. The library
// scores higher-is-better, so the result is negated to satisfy the
// lower-is-stronger convention of plo8sim.HandRank.
func bestHigh(hole []plo8sim.Card, board []plo8sim.Card) int32 {
	best := int16(-32768)

	forEachCombo(hole, board, func(five []plo8sim.Card) {
		var hand [5]poker.Card
		for i, c := range five {
			hand[i] = toLibraryCard(c)
		}
		if score := poker.Eval5(&hand); score > best {
			best = score
		}
	})

	return -int32(best)
}

// bestLow returns the best qualifying 8-or-better low, or nil. A low must
// use five distinct ranks all at most 8, with the ace counting as 1.
func bestLow(hole []plo8sim.Card, board []plo8sim.Card) []int32 {
	var best []int32

	forEachCombo(hole, board, func(five []plo8sim.Card) {
		low := make([]int32, 0, 5)
		seen := make(map[int32]bool)
		for _, c := range five {
			rank := c.Rank
			if rank == 14 {
				rank = 1
			}
			if rank > 8 || seen[rank] {
				return
			}
			seen[rank] = true
			low = append(low, rank)
		}

		// Sort descending: the highest low card decides first.
		for i := 1; i < len(low); i++ {
			for j := i; j > 0 && low[j] > low[j-1]; j-- {
				low[j], low[j-1] = low[j-1], low[j]
			}
		}

		if best == nil || lessLow(low, best) {
			best = low
		}
	})

	return best
}

func lessLow(a, b []int32) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

// forEachCombo visits every 2-hole/3-board five-card combination.
func forEachCombo(hole []plo8sim.Card, board []plo8sim.Card, visit func(five []plo8sim.Card)) {
	five := make([]plo8sim.Card, 5)
	for h1 := 0; h1 < len(hole)-1; h1++ {
		for h2 := h1 + 1; h2 < len(hole); h2++ {
			five[0], five[1] = hole[h1], hole[h2]
			for b1 := 0; b1 < len(board)-2; b1++ {
				for b2 := b1 + 1; b2 < len(board)-1; b2++ {
					for b3 := b2 + 1; b3 < len(board); b3++ {
						five[2], five[3], five[4] = board[b1], board[b2], board[b3]
						visit(five)
					}
				}
			}
		}
	}
}

// toLibraryCard converts to the library's representation: suits are
// enumerated, ranks run 1..13 with the ace as 1.
func toLibraryCard(c plo8sim.Card) poker.Card {
	var s poker.Suit
	switch c.Suit {
	case plo8sim.Suit_Club:
		s = poker.Club
	case plo8sim.Suit_Diamond:
		s = poker.Diamond
	case plo8sim.Suit_Spade:
		s = poker.Spade
	case plo8sim.Suit_Heart:
		s = poker.Heart
	}

	r := poker.Rank(c.Rank)
	if c.Rank == 14 {
		r = poker.Rank(1)
	}

	card, _ := poker.MakeCard(s, r)
	return card
}
