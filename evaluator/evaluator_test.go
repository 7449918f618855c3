package evaluator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weedbox/plo8sim"
)

func evaluate(t *testing.T, hole, board string) plo8sim.HandRank {
	t.Helper()

	holeCards, err := plo8sim.ParseCards(hole)
	require.NoError(t, err)
	boardCards, err := plo8sim.ParseCards(board)
	require.NoError(t, err)

	rank, err := NewPLO8Evaluator().Evaluate(holeCards, boardCards)
	require.NoError(t, err)
	return rank
}

func TestEvaluate_InputValidation(t *testing.T) {
	ev := NewPLO8Evaluator()
	hole, _ := plo8sim.ParseCards("As2sKdQd")
	board, _ := plo8sim.ParseCards("4c5d6hTsJs")

	_, err := ev.Evaluate(hole[:3], board)
	assert.ErrorIs(t, err, ErrInvalidHoleCards)

	_, err = ev.Evaluate(hole, board[:2])
	assert.ErrorIs(t, err, ErrInvalidBoard)

	_, err = ev.Evaluate(hole, board[:3])
	assert.NoError(t, err, "flop-only boards are evaluable")
}

func TestEvaluate_HighOrdering(t *testing.T) {
	board := "AcKd9sTs3h"

	straight := evaluate(t, "KhQhJc2d", board) // A-K-Q-J-T
	trips := evaluate(t, "AsAd7c8c", board)    // three aces
	pair := evaluate(t, "Kh9c5c6d", board)     // kings and nines

	assert.Negative(t, straight.CompareHigh(trips), "straight beats trips")
	assert.Negative(t, trips.CompareHigh(pair), "trips beat two pair")
	assert.Zero(t, straight.CompareHigh(straight))
}

func TestEvaluate_LowQualification(t *testing.T) {
	// Nut low: A-2 in the hole with three low board cards.
	rank := evaluate(t, "As2sKdQd", "4c5d6hTsJs")
	require.True(t, rank.HasLow())
	assert.Equal(t, []int32{6, 5, 4, 2, 1}, rank.Low, "ace counts as 1")

	// A nine never makes a low.
	rank = evaluate(t, "AhKh9c9d", "4c5d6hTsJs")
	assert.False(t, rank.HasLow())

	// Two low cards on the board are not enough for any hole.
	rank = evaluate(t, "As2s3s4s", "5cTdJhQsKc")
	assert.False(t, rank.HasLow())

	// Duplicated ranks across hole and board do not qualify.
	rank = evaluate(t, "4h5hKdKs", "4c5d8hTsJs")
	assert.False(t, rank.HasLow(), "low needs five distinct ranks")
}

func TestEvaluate_LowUsesExactlyTwoHoleCards(t *testing.T) {
	// Board 2-3-4 low cards plus A-5 in the hole: the only qualifying
	// combination is both low hole cards with the three board low cards.
	rank := evaluate(t, "Ah5hKdQs", "2c3d4hTsJs")
	require.True(t, rank.HasLow())
	assert.Equal(t, []int32{5, 4, 3, 2, 1}, rank.Low)

	// With just one low hole card no 2-hole combination stays under 9.
	rank = evaluate(t, "AhKhKdQs", "2c3d4hTsJs")
	assert.False(t, rank.HasLow())
}

func TestEvaluate_LowOrdering(t *testing.T) {
	board := "2c4d7hTsJs"

	nut := evaluate(t, "Ah3hKdQs", "2c4d7hTsJs") // 7-4-3-2-A
	rough := evaluate(t, "5h6hKdQs", board)      // 7-6-5-4-2

	require.True(t, nut.HasLow())
	require.True(t, rough.HasLow())
	assert.Negative(t, nut.CompareLow(rough))
	assert.Equal(t, []int32{7, 4, 3, 2, 1}, nut.Low)
	assert.Equal(t, []int32{7, 6, 5, 4, 2}, rough.Low)
}

func TestEvaluate_BestOfManyCombos(t *testing.T) {
	// The evaluator must pick the strongest high across all twenty
	// 2-hole/3-board combinations for a 5-card board.
	flush := evaluate(t, "AhKh2c3d", "4h7hTh9s9c")
	pairOnly := evaluate(t, "AcKd2c3d", "4h7hTh9s9c")

	assert.Negative(t, flush.CompareHigh(pairOnly), "heart flush found among combos")
}
