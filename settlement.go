package plo8sim

import (
	"errors"
)

var (
	ErrHandNotOver    = errors.New("settlement: hand is still being played")
	ErrAlreadySettled = errors.New("settlement: hand already settled")
	ErrMissingBoard   = errors.New("settlement: showdown requires a full board")
)

// HandRank is the evaluator's verdict for one seat. High is totally
// ordered with LOWER meaning STRONGER; implementations whose backing
// library scores the other way around must normalize before returning.
// Low is nil when the seat holds no qualifying 8-or-better low,
// otherwise the five low ranks sorted descending (ace as 1), compared
// lexicographically with lower meaning stronger.
type HandRank struct {
	High int32   `json:"high"`
	Low  []int32 `json:"low,omitempty"`
}

// HasLow reports whether the rank includes a qualifying low.
func (r HandRank) HasLow() bool {
	return len(r.Low) > 0
}

// CompareHigh orders two high ranks: negative when r is stronger.
func (r HandRank) CompareHigh(other HandRank) int {
	switch {
	case r.High < other.High:
		return -1
	case r.High > other.High:
		return 1
	}
	return 0
}

// CompareLow orders two qualifying lows: negative when r is stronger.
func (r HandRank) CompareLow(other HandRank) int {
	for i := range r.Low {
		switch {
		case r.Low[i] < other.Low[i]:
			return -1
		case r.Low[i] > other.Low[i]:
			return 1
		}
	}
	return 0
}

// HandEvaluator is the external hand-ranking oracle. The settlement
// engine calls it exactly once per live seat at showdown.
type HandEvaluator interface {
	Evaluate(hole []Card, board []Card) (HandRank, error)
}

// SettlementType tags which branch of the hi-lo payout tree applied.
type SettlementType string

const (
	Settlement_FoldWin   SettlementType = "fold_win"    // whole pot to the last seat standing
	Settlement_HighScoop SettlementType = "high_scoop"  // no qualifying low anywhere
	Settlement_HiLoSplit SettlementType = "hi_lo_split" // high half and low half awarded
	Settlement_Chop      SettlementType = "chop"        // both halves tied both ways
)

// SeatResult is one seat's share of a settled hand.
type SeatResult struct {
	Winnings int64     `json:"winnings"` // chips taken from the pot
	Net      int64     `json:"net"`      // winnings minus hand contribution
	Rank     *HandRank `json:"rank,omitempty"`
}

// Result is the full payout of one hand. The pot is always distributed
// exactly: sum of winnings equals the pot.
type Result struct {
	Type   SettlementType         `json:"type"`
	Pot    int64                  `json:"pot"`
	Winner int                    `json:"winner"` // net-positive seat, UnsetValue on an even split
	Seats  [SeatCount]*SeatResult `json:"seats"`

	// EvaluatorDisagreement flags identical high and low ranks reported
	// for non-identical hole cards. Settlement resolves it via the tie
	// rule; callers may want to log it.
	EvaluatorDisagreement bool `json:"evaluator_disagreement,omitempty"`
}

// Settle distributes the pot of a finished hand and applies winnings to
// seat stacks. Requires Status fold-out or showdown; the hand becomes
// settled afterwards and accepts no further actions.
func (g *Game) Settle(ev HandEvaluator) (*Result, error) {
	switch g.Status {
	case GameStatus_FoldOut:
		return g.settleFoldOut()
	case GameStatus_Showdown:
		return g.settleShowdown(ev)
	case GameStatus_Settled:
		return nil, ErrAlreadySettled
	}
	return nil, ErrHandNotOver
}

func (g *Game) settleFoldOut() (*Result, error) {
	winner := g.RemainingSeat()

	result := g.newResult(Settlement_FoldWin)
	result.Seats[winner].Winnings = g.Pot
	g.finalize(result)
	return result, nil
}

func (g *Game) settleShowdown(ev HandEvaluator) (*Result, error) {
	if len(g.Board) != 5 {
		return nil, ErrMissingBoard
	}

	ranks := [SeatCount]HandRank{}
	for idx, seat := range g.Seats {
		rank, err := ev.Evaluate(seat.HoleCards, g.Board)
		if err != nil {
			return nil, err
		}
		ranks[idx] = rank
	}

	highWinners := rankWinners(ranks, HandRank.CompareHigh)
	lowWinners := lowRankWinners(ranks)

	var result *Result
	switch {
	case lowWinners == nil:
		// The critical hi-lo branch: nobody made an 8-or-better low,
		// the high hand scoops the whole pot.
		result = g.newResult(Settlement_HighScoop)
		g.award(result, g.Pot, highWinners)

	case len(highWinners) == SeatCount && len(lowWinners) == SeatCount:
		result = g.newResult(Settlement_Chop)
		g.award(result, g.Pot, highWinners)

	default:
		// With a qualifying low present the high side takes floor(pot/2)
		// and the low side the remainder.
		result = g.newResult(Settlement_HiLoSplit)
		highHalf := g.Pot / 2
		g.award(result, highHalf, highWinners)
		g.award(result, g.Pot-highHalf, lowWinners)
	}

	for idx := range result.Seats {
		rank := ranks[idx]
		result.Seats[idx].Rank = &rank
	}
	result.EvaluatorDisagreement = g.detectDisagreement(ranks)

	g.finalize(result)
	return result, nil
}

// award splits a share of the pot among winning seats, any odd chip
// going to the seat left of the dealer (the non-dealer in heads-up).
func (g *Game) award(result *Result, chips int64, winners []int) {
	if len(winners) == 1 {
		result.Seats[winners[0]].Winnings += chips
		return
	}

	each := chips / int64(len(winners))
	odd := chips - each*int64(len(winners))
	for _, idx := range winners {
		result.Seats[idx].Winnings += each
		if odd > 0 && idx != g.DealerSeat {
			result.Seats[idx].Winnings += odd
		}
	}
}

func (g *Game) newResult(t SettlementType) *Result {
	result := &Result{
		Type:   t,
		Pot:    g.Pot,
		Winner: UnsetValue,
	}
	for idx := range result.Seats {
		result.Seats[idx] = &SeatResult{}
	}
	return result
}

// finalize moves winnings onto stacks, computes nets and marks the hand
// settled. Pot conservation holds by construction: every chip of the pot
// lands on exactly one stack.
func (g *Game) finalize(result *Result) {
	for idx, seat := range g.Seats {
		seatResult := result.Seats[idx]
		seat.Stack += seatResult.Winnings
		seatResult.Net = seatResult.Winnings - seat.HandBet
		if seatResult.Net > 0 {
			result.Winner = idx
		}
		seat.Statistics.WentToShowdown = g.Status == GameStatus_Showdown && !seat.Folded
	}
	g.Status = GameStatus_Settled
}

// rankWinners returns the seats holding the best rank under cmp.
func rankWinners(ranks [SeatCount]HandRank, cmp func(HandRank, HandRank) int) []int {
	switch c := cmp(ranks[0], ranks[1]); {
	case c < 0:
		return []int{0}
	case c > 0:
		return []int{1}
	}
	return []int{0, 1}
}

// lowRankWinners returns the seats holding the best qualifying low, or
// nil when no seat qualifies.
func lowRankWinners(ranks [SeatCount]HandRank) []int {
	switch {
	case ranks[0].HasLow() && ranks[1].HasLow():
		return rankWinners(ranks, HandRank.CompareLow)
	case ranks[0].HasLow():
		return []int{0}
	case ranks[1].HasLow():
		return []int{1}
	}
	return nil
}

// detectDisagreement flags identical evaluator output for seats holding
// disjoint hole cards. Such ties do occur legitimately (both seats making
// the same straight), so this is a warning signal; the tie rule resolves
// the payout either way.
func (g *Game) detectDisagreement(ranks [SeatCount]HandRank) bool {
	if ranks[0].CompareHigh(ranks[1]) != 0 {
		return false
	}
	if ranks[0].HasLow() != ranks[1].HasLow() {
		return false
	}
	if ranks[0].HasLow() && ranks[0].CompareLow(ranks[1]) != 0 {
		return false
	}

	for _, a := range g.Seats[0].HoleCards {
		for _, b := range g.Seats[1].HoleCards {
			if a == b {
				return false
			}
		}
	}
	return true
}
