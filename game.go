package plo8sim

import (
	"errors"
)

var (
	ErrInvalidActionIndex = errors.New("game: action index out of range")
	ErrActedAfterHandOver = errors.New("game: action applied after hand is over")
	ErrInvalidStack       = errors.New("game: seats must start with positive stacks")
)

type GameOptions struct {
	SmallBlind int64 `json:"small_blind"`
	BigBlind   int64 `json:"big_blind"`
}

func NewDefaultGameOptions() *GameOptions {
	return &GameOptions{
		SmallBlind: 5,
		BigBlind:   10,
	}
}

// Game is the mutable state of one heads-up PLO8 hand: blinds are posted
// and hole cards dealt on creation, then ApplyIntent drives the hand
// through the betting streets until showdown or a fold.
//
// Heads-up conventions: the dealer posts the small blind and acts first
// preflop; the non-dealer acts first on every later street.
type Game struct {
	ID         string       `json:"id"`
	Options    *GameOptions `json:"options"`
	Status     GameStatus   `json:"status"`
	Street     Street       `json:"street"`
	DealerSeat int          `json:"dealer_seat"`
	ActingSeat int          `json:"acting_seat"`
	Board      []Card       `json:"board"`
	Pot        int64        `json:"pot"`

	// Street betting state
	CurrentBet    int64 `json:"current_bet"`     // street level to match
	LastRaiseSize int64 `json:"last_raise_size"` // minimum next raise
	Aggressor     int   `json:"aggressor"`       // last bettor/raiser this street
	RaiseCount    int   `json:"raise_count"`

	Seats   [SeatCount]*SeatState `json:"seats"`
	History []Move                `json:"history"`

	deck *Deck
}

// NewGame opens a hand: posts blinds and deals four hole cards to each
// seat from the supplied deck. dealerSeat is the button (small blind).
func NewGame(id string, options *GameOptions, dealerSeat int, stacks [SeatCount]int64, deck *Deck) (*Game, error) {
	for _, stack := range stacks {
		if stack <= 0 {
			return nil, ErrInvalidStack
		}
	}

	g := &Game{
		ID:         id,
		Options:    options,
		Status:     GameStatus_Playing,
		Street:     Street_Preflop,
		DealerSeat: dealerSeat,
		ActingSeat: dealerSeat,
		Board:      make([]Card, 0, 5),
		Aggressor:  UnsetValue,
		deck:       deck,
	}

	for idx := 0; idx < SeatCount; idx++ {
		g.Seats[idx] = &SeatState{
			Index:      idx,
			Stack:      stacks[idx],
			Statistics: &SeatStatistics{},
		}
	}

	for idx := 0; idx < SeatCount; idx++ {
		hole, err := deck.Draw(HoleCardCount)
		if err != nil {
			return nil, err
		}
		g.Seats[idx].HoleCards = append([]Card{}, hole...)
	}

	// Blinds: dealer is the small blind in heads-up.
	g.Pot += g.Seats[dealerSeat].commit(options.SmallBlind)
	g.Pot += g.Seats[g.otherSeat(dealerSeat)].commit(options.BigBlind)
	g.CurrentBet = maxInt64(g.Seats[0].StreetBet, g.Seats[1].StreetBet)
	g.LastRaiseSize = options.BigBlind

	// A short-stacked blind can close preflop action before anyone acts.
	if g.streetComplete() {
		g.next()
	}

	return g, nil
}

// ApplyIntent resolves the intent for the acting seat and applies the
// resulting wager, advancing streets and terminal state as needed.
func (g *Game) ApplyIntent(intent ActionIntent) (Move, error) {
	if g.Status != GameStatus_Playing {
		return Move{}, ErrActedAfterHandOver
	}

	move, err := ResolveIntent(intent, g.betState())
	if err != nil {
		return Move{}, err
	}

	actor := g.Seats[g.ActingSeat]
	move.Seat = actor.Index
	move.Street = g.Street

	switch move.Action {
	case WagerAction_Fold:
		actor.Folded = true
		actor.Statistics.onFold(g.Street)
	case WagerAction_Check:
		actor.Statistics.onCheck()
	default:
		committed := actor.commit(move.Chips)
		g.Pot += committed
		move.Chips = committed
		actor.Statistics.onWager(move.Action)

		if actor.StreetBet > g.CurrentBet {
			g.LastRaiseSize = actor.StreetBet - g.CurrentBet
			g.CurrentBet = actor.StreetBet
			g.Aggressor = actor.Index
			g.RaiseCount++
			// A raise reopens the action for the opponent.
			g.Seats[g.otherSeat(actor.Index)].Acted = false
		}
	}

	actor.Acted = true
	g.History = append(g.History, move)

	g.next()
	return move, nil
}

// next advances turn order, streets and terminal state after a move.
func (g *Game) next() {
	for idx := 0; idx < SeatCount; idx++ {
		if g.Seats[idx].Folded {
			g.refundUncalledBet()
			g.Status = GameStatus_FoldOut
			g.ActingSeat = UnsetValue
			return
		}
	}

	if !g.streetComplete() {
		g.ActingSeat = g.otherSeat(g.ActingSeat)
		return
	}

	for g.streetComplete() {
		if g.Street == Street_River {
			g.refundUncalledBet()
			g.Status = GameStatus_Showdown
			g.ActingSeat = UnsetValue
			return
		}
		g.advanceStreet()
	}
}

// streetComplete reports whether every seat that can still act has
// matched the current bet and had its turn. The hand never advances
// while a live, non-all-in seat has an unmatched bet to call. Once the
// opponent is all-in and bets are matched there is nothing left to
// decide, so the remaining streets run out without action.
func (g *Game) streetComplete() bool {
	actors := 0
	for _, seat := range g.Seats {
		if seat.CanAct() {
			actors++
		}
	}

	for _, seat := range g.Seats {
		if !seat.CanAct() {
			continue
		}
		if seat.StreetBet != g.CurrentBet {
			return false
		}
		if actors >= 2 && !seat.Acted {
			return false
		}
	}
	return true
}

func (g *Game) advanceStreet() {
	var dealCount int
	switch g.Street {
	case Street_Preflop:
		g.Street = Street_Flop
		dealCount = 3
	case Street_Flop:
		g.Street = Street_Turn
		dealCount = 1
	case Street_Turn:
		g.Street = Street_River
		dealCount = 1
	}

	// The deck holds 52 - 8 hole cards, so drawing the 5 board cards
	// cannot exhaust it within a single hand.
	cards, err := g.deck.Draw(dealCount)
	if err != nil {
		panic(err)
	}
	g.Board = append(g.Board, cards...)

	for _, seat := range g.Seats {
		seat.resetForStreet()
	}
	g.CurrentBet = 0
	g.LastRaiseSize = g.Options.BigBlind
	g.Aggressor = UnsetValue

	// Non-dealer acts first postflop; fall back to the dealer when the
	// non-dealer is already all-in.
	g.ActingSeat = g.otherSeat(g.DealerSeat)
	if !g.Seats[g.ActingSeat].CanAct() {
		g.ActingSeat = g.DealerSeat
	}
}

// refundUncalledBet returns the uncalled portion of the last bet to the
// seat that committed it, so showdown contributions are always matched
// and the pot equals exactly what was contested.
func (g *Game) refundUncalledBet() {
	diff := g.Seats[0].HandBet - g.Seats[1].HandBet
	over := g.Seats[0]
	if diff < 0 {
		diff = -diff
		over = g.Seats[1]
	}
	if diff == 0 {
		return
	}

	over.Stack += diff
	over.HandBet -= diff
	if over.StreetBet > diff {
		over.StreetBet -= diff
	} else {
		over.StreetBet = 0
	}
	g.Pot -= diff
	if over.AllIn && over.Stack > 0 {
		over.AllIn = false
	}
}

func (g *Game) betState() BetState {
	actor := g.Seats[g.ActingSeat]
	opponent := g.Seats[g.otherSeat(g.ActingSeat)]
	return BetState{
		Pot:            g.Pot,
		CurrentBet:     g.CurrentBet,
		LastRaiseSize:  g.LastRaiseSize,
		BigBlind:       g.Options.BigBlind,
		SeatStreetBet:  actor.StreetBet,
		SeatStack:      actor.Stack,
		OpponentCanAct: opponent.CanAct(),
	}
}

func (g *Game) otherSeat(idx int) int {
	return (idx + 1) % SeatCount
}

// IsOver reports whether betting has finished, by fold or by reaching
// showdown. A finished hand still needs settlement.
func (g *Game) IsOver() bool {
	return g.Status != GameStatus_Playing
}

// RemainingSeat returns the seat that wins uncontested after a fold, or
// UnsetValue if no seat has folded.
func (g *Game) RemainingSeat() int {
	for idx, seat := range g.Seats {
		if seat.Folded {
			return g.otherSeat(idx)
		}
	}
	return UnsetValue
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
