package plo8sim_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weedbox/plo8sim"
	"github.com/weedbox/plo8sim/evaluator"
)

// Seat 0 holds a nut-low draw, seat 1 a high-card hand; the stacked
// board is enough for a full checked-down hand.
const showdownCards = "As2sKdQd" + "AhKh9c9d" + "4c5d6h" + "Ts" + "Js"

func newShowdownGame(t *testing.T, dealerSeat int, symbols string) *plo8sim.Game {
	t.Helper()

	cards, err := plo8sim.ParseCards(symbols)
	require.NoError(t, err)

	game, err := plo8sim.NewGame("fixture", plo8sim.NewDefaultGameOptions(), dealerSeat,
		[plo8sim.SeatCount]int64{1000, 1000}, plo8sim.NewStackedDeck(cards))
	require.NoError(t, err)
	return game
}

func checkDown(t *testing.T, game *plo8sim.Game) {
	t.Helper()

	// Dealer completes the small blind, then everyone checks.
	_, err := game.ApplyIntent(plo8sim.Intent_CallMinBet)
	require.NoError(t, err)
	for !game.IsOver() {
		_, err := game.ApplyIntent(plo8sim.Intent_CheckFold)
		require.NoError(t, err)
	}
	require.Equal(t, plo8sim.GameStatus_Showdown, game.Status)
}

func TestSettle_FoldWin(t *testing.T) {
	game := newShowdownGame(t, 0, showdownCards)

	_, err := game.ApplyIntent(plo8sim.Intent_CheckFold)
	require.NoError(t, err)

	result, err := game.Settle(evaluator.NewPLO8Evaluator())
	require.NoError(t, err)

	assert.Equal(t, plo8sim.Settlement_FoldWin, result.Type)
	assert.Equal(t, int64(10), result.Pot)
	assert.Equal(t, 1, result.Winner)
	assert.Equal(t, int64(10), result.Seats[1].Winnings)
	assert.Equal(t, int64(5), result.Seats[1].Net)
	assert.Equal(t, int64(-5), result.Seats[0].Net)
	assert.Equal(t, int64(1005), game.Seats[1].Stack)
	assert.Equal(t, plo8sim.GameStatus_Settled, game.Status)
}

func TestSettle_HiLoSplit(t *testing.T) {
	// Seat 0 makes the nut low (A-2-4-5-6), seat 1 a pair of nines for
	// the high. Each side takes half the pot.
	game := newShowdownGame(t, 0, showdownCards)
	checkDown(t, game)

	result, err := game.Settle(evaluator.NewPLO8Evaluator())
	require.NoError(t, err)

	assert.Equal(t, plo8sim.Settlement_HiLoSplit, result.Type)
	assert.Equal(t, int64(20), result.Pot)
	assert.Equal(t, int64(10), result.Seats[0].Winnings, "low half")
	assert.Equal(t, int64(10), result.Seats[1].Winnings, "high half")
	assert.Equal(t, plo8sim.UnsetValue, result.Winner, "both seats break even")

	require.NotNil(t, result.Seats[0].Rank)
	assert.Equal(t, []int32{6, 5, 4, 2, 1}, result.Seats[0].Rank.Low)
	assert.False(t, result.Seats[1].Rank.HasLow())
}

func TestSettle_HighScoop(t *testing.T) {
	// Only two low cards ever hit the board, so no low qualifies and
	// seat 1's broadway straight takes the whole pot over trip aces.
	cards := "AsAd7c8c" + "KhQhJc2d" + "AcKd9s" + "Ts" + "3h"
	game := newShowdownGame(t, 0, cards)
	checkDown(t, game)

	result, err := game.Settle(evaluator.NewPLO8Evaluator())
	require.NoError(t, err)

	assert.Equal(t, plo8sim.Settlement_HighScoop, result.Type)
	assert.Equal(t, int64(20), result.Pot)
	assert.Equal(t, 1, result.Winner)
	assert.Equal(t, int64(20), result.Seats[1].Winnings)
	assert.Equal(t, int64(10), result.Seats[1].Net)
	assert.Equal(t, int64(-10), result.Seats[0].Net)
	assert.False(t, result.Seats[0].Rank.HasLow())
	assert.False(t, result.Seats[1].Rank.HasLow())
}

func TestSettle_Chop(t *testing.T) {
	// Mirrored holes: both seats play A-2 for the wheel high and the
	// identical nut low. The pot splits evenly.
	cards := "Ac2dKhQh" + "Ad2cKsQs" + "3s4s5h" + "8d" + "8c"
	game := newShowdownGame(t, 0, cards)
	checkDown(t, game)

	result, err := game.Settle(evaluator.NewPLO8Evaluator())
	require.NoError(t, err)

	assert.Equal(t, plo8sim.Settlement_Chop, result.Type)
	assert.Equal(t, plo8sim.UnsetValue, result.Winner)
	assert.Equal(t, int64(10), result.Seats[0].Winnings)
	assert.Equal(t, int64(10), result.Seats[1].Winnings)
	assert.True(t, result.EvaluatorDisagreement, "identical ranks on disjoint holes are flagged")
	assert.Equal(t, int64(1000), game.Seats[0].Stack)
	assert.Equal(t, int64(1000), game.Seats[1].Stack)
}

func TestSettle_WholePotDistributed(t *testing.T) {
	game := newShowdownGame(t, 1, showdownCards)
	checkDown(t, game)

	result, err := game.Settle(evaluator.NewPLO8Evaluator())
	require.NoError(t, err)

	assert.Equal(t, result.Pot, result.Seats[0].Winnings+result.Seats[1].Winnings)
	assert.Equal(t, int64(0), result.Seats[0].Net+result.Seats[1].Net)
}

func TestSettle_Guards(t *testing.T) {
	game := newShowdownGame(t, 0, showdownCards)
	ev := evaluator.NewPLO8Evaluator()

	_, err := game.Settle(ev)
	assert.ErrorIs(t, err, plo8sim.ErrHandNotOver, "hand still in progress")

	checkDown(t, game)
	_, err = game.Settle(ev)
	require.NoError(t, err)

	_, err = game.Settle(ev)
	assert.ErrorIs(t, err, plo8sim.ErrAlreadySettled)
}
