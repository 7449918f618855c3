package plo8sim

// SeatState carries one player's chips and per-hand betting state. The
// stack persists across hands; everything else is reset when a new hand
// is opened.
type SeatState struct {
	Index      int             `json:"index"`
	Stack      int64           `json:"stack"`
	HoleCards  []Card          `json:"hole_cards"`
	StreetBet  int64           `json:"street_bet"` // chips committed this street
	HandBet    int64           `json:"hand_bet"`   // chips committed this hand
	Folded     bool            `json:"folded"`
	AllIn      bool            `json:"all_in"`
	Acted      bool            `json:"acted"` // has acted on the current street
	Statistics *SeatStatistics `json:"statistics"`
}

// CanAct reports whether the seat may still make a wager decision.
func (s *SeatState) CanAct() bool {
	return !s.Folded && !s.AllIn
}

// commit moves chips from stack to the pot-side counters, truncating to
// an all-in when the stack cannot cover the amount. Returns the chips
// actually committed.
func (s *SeatState) commit(chips int64) int64 {
	if chips >= s.Stack {
		chips = s.Stack
		s.AllIn = true
	}
	s.Stack -= chips
	s.StreetBet += chips
	s.HandBet += chips
	return chips
}

func (s *SeatState) resetForStreet() {
	s.StreetBet = 0
	s.Acted = false
}
