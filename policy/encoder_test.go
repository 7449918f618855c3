package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weedbox/plo8sim"
)

func newEncoderGame(t *testing.T) *plo8sim.Game {
	t.Helper()

	cards, err := plo8sim.ParseCards("As2sKdQd" + "AhKh9c9d" + "4c5d6h" + "Ts" + "Js")
	require.NoError(t, err)

	game, err := plo8sim.NewGame("encode", plo8sim.NewDefaultGameOptions(), 0, [plo8sim.SeatCount]int64{1000, 1000}, plo8sim.NewStackedDeck(cards))
	require.NoError(t, err)
	return game
}

func TestEncode_PreflopLayout(t *testing.T) {
	game := newEncoderGame(t)
	input := Encode(game, 0)

	require.Len(t, input, InputSize)

	// Hole one-hots: As, 2s, Kd, Qd and nothing else.
	holeIDs := map[int]bool{}
	for _, card := range game.Seats[0].HoleCards {
		holeIDs[card.ID()] = true
	}
	for i := 0; i < 52; i++ {
		if holeIDs[i] {
			assert.Equal(t, float32(1), input[i], "hole card id %d", i)
		} else {
			assert.Equal(t, float32(0), input[i], "unexpected hole card id %d", i)
		}
	}

	// No board cards yet.
	for i := 52; i < 104; i++ {
		assert.Equal(t, float32(0), input[i])
	}

	// Dealer posted the small blind: stack 995 of a 200bb cap.
	assert.InDelta(t, 99.5/200, input[104], 1e-6)
	assert.InDelta(t, 0.5/200, input[105], 1e-6)
	assert.InDelta(t, 1.5/400, input[106], 1e-6)

	// Street one-hot: preflop.
	assert.Equal(t, float32(1), input[107])
	assert.Equal(t, float32(0), input[108])
	assert.Equal(t, float32(0), input[109])
	assert.Equal(t, float32(0), input[110])

	assert.Equal(t, float32(1), input[111], "seat 0 holds the button")

	// Opponent posted the big blind.
	assert.InDelta(t, 1.0/200, input[112], 1e-6)
	assert.InDelta(t, 99.0/200, input[113], 1e-6)
}

func TestEncode_BoardAndPerspective(t *testing.T) {
	game := newEncoderGame(t)

	_, err := game.ApplyIntent(plo8sim.Intent_CallMinBet)
	require.NoError(t, err)
	_, err = game.ApplyIntent(plo8sim.Intent_CheckFold)
	require.NoError(t, err)
	require.Equal(t, plo8sim.Street_Flop, game.Street)

	input := Encode(game, 1)

	// Seat 1 sees its own hole cards, not seat 0's.
	assert.Equal(t, float32(1), input[game.Seats[1].HoleCards[0].ID()])
	assert.Equal(t, float32(0), input[game.Seats[0].HoleCards[0].ID()])

	for _, card := range game.Board {
		assert.Equal(t, float32(1), input[52+card.ID()], "board card %s", card)
	}

	// Street one-hot moved to the flop slot.
	assert.Equal(t, float32(0), input[107])
	assert.Equal(t, float32(1), input[108])

	assert.Equal(t, float32(0), input[111], "seat 1 is not the dealer")
}

func TestEncode_NormalizationCaps(t *testing.T) {
	game := newEncoderGame(t)

	// Inflate beyond the caps; features must saturate at 1.
	game.Seats[0].Stack = 10000
	game.Pot = 100000

	input := Encode(game, 0)
	assert.Equal(t, float32(1), input[104])
	assert.Equal(t, float32(1), input[106])
}
