package plo8sim

import (
	"errors"
	"math/rand"

	"github.com/google/uuid"
	"github.com/thoas/go-funk"
)

var (
	ErrTableGameInProgress = errors.New("table: previous game has not been settled")
	ErrTableNoAliveSeat    = errors.New("table: a seat is out of chips")
)

type TableOptions struct {
	SmallBlind    int64 `json:"small_blind"`
	BigBlind      int64 `json:"big_blind"`
	StartingStack int64 `json:"starting_stack"`
}

func NewDefaultTableOptions() *TableOptions {
	return &TableOptions{
		SmallBlind:    5,
		BigBlind:      10,
		StartingStack: 1000, // 100 big blinds
	}
}

// Table owns what persists across hands of a heads-up session: the two
// stacks, the alternating dealer button and the hand counter. Each call
// to OpenGame deals a fresh hand from a new shuffled deck.
type Table struct {
	ID        string           `json:"id"`
	Options   *TableOptions    `json:"options"`
	Stacks    [SeatCount]int64 `json:"stacks"`
	Dealer    int              `json:"dealer"`
	GameCount int              `json:"game_count"`

	rng         *rand.Rand
	currentGame *Game
}

func NewTable(options *TableOptions, rng *rand.Rand) *Table {
	return &Table{
		ID:      uuid.New().String(),
		Options: options,
		Stacks:  [SeatCount]int64{options.StartingStack, options.StartingStack},
		Dealer:  rng.Intn(SeatCount),
		rng:     rng,
	}
}

// OpenGame starts the next hand, moving the button after the first one.
// It fails when a previous hand is unsettled or a seat is broke.
func (t *Table) OpenGame() (*Game, error) {
	if t.currentGame != nil && t.currentGame.Status != GameStatus_Settled {
		return nil, ErrTableGameInProgress
	}
	if funk.Contains(t.Stacks[:], int64(0)) {
		return nil, ErrTableNoAliveSeat
	}

	if t.GameCount > 0 {
		t.Dealer = (t.Dealer + 1) % SeatCount
	}

	game, err := NewGame(
		uuid.New().String(),
		&GameOptions{SmallBlind: t.Options.SmallBlind, BigBlind: t.Options.BigBlind},
		t.Dealer,
		t.Stacks,
		NewDeck(t.rng),
	)
	if err != nil {
		return nil, err
	}

	t.currentGame = game
	t.GameCount++
	return game, nil
}

// SettleGame settles the current hand with the evaluator and carries the
// resulting stacks back onto the table.
func (t *Table) SettleGame(ev HandEvaluator) (*Result, error) {
	if t.currentGame == nil {
		return nil, ErrHandNotOver
	}

	result, err := t.currentGame.Settle(ev)
	if err != nil {
		return nil, err
	}

	for idx, seat := range t.currentGame.Seats {
		t.Stacks[idx] = seat.Stack
	}
	return result, nil
}

// AliveSeats returns the seat indexes still holding chips.
func (t *Table) AliveSeats() []int {
	return funk.Filter([]int{0, 1}, func(idx int) bool {
		return t.Stacks[idx] > 0
	}).([]int)
}

// IsOver reports whether the session is finished: one seat holds all the
// chips.
func (t *Table) IsOver() bool {
	return len(t.AliveSeats()) < SeatCount
}
