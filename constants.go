package plo8sim

const (
	// General
	UnsetValue = -1

	// Number of seats in a heads-up game
	SeatCount = 2

	// Hole cards per seat in Omaha variants
	HoleCardCount = 4

	// Wager Action
	WagerAction_Fold  = "fold"
	WagerAction_Check = "check"
	WagerAction_Call  = "call"
	WagerAction_Bet   = "bet"
	WagerAction_Raise = "raise"
	WagerAction_AllIn = "allin"
)

type GameStatus string

const (
	GameStatus_Playing  GameStatus = "playing"  // hand in progress
	GameStatus_Showdown GameStatus = "showdown" // betting closed, awaiting settlement
	GameStatus_FoldOut  GameStatus = "fold_out" // ended by fold, awaiting settlement
	GameStatus_Settled  GameStatus = "settled"
)

type Street string

const (
	Street_Preflop Street = "preflop"
	Street_Flop    Street = "flop"
	Street_Turn    Street = "turn"
	Street_River   Street = "river"
)

var streetOrder = []Street{Street_Preflop, Street_Flop, Street_Turn, Street_River}

// StreetIndex returns the zero-based index of a betting street
// (preflop=0 .. river=3), or UnsetValue for anything else.
func StreetIndex(street Street) int {
	for idx, s := range streetOrder {
		if s == street {
			return idx
		}
	}
	return UnsetValue
}

// ActionIntent is one of the five discretized decisions exposed to a policy.
// Every intent always resolves to some legal wager for the acting seat.
type ActionIntent int

const (
	Intent_CheckFold ActionIntent = iota
	Intent_CallMinBet
	Intent_BetHalfPot
	Intent_BetThreeQuarterPot
	Intent_BetPot
)

// IntentCount is the size of the discretized action space.
const IntentCount = 5

var intentSymbols = map[ActionIntent]string{
	Intent_CheckFold:          "check/fold",
	Intent_CallMinBet:         "call/minbet",
	Intent_BetHalfPot:         "bet1/2pot",
	Intent_BetThreeQuarterPot: "bet3/4pot",
	Intent_BetPot:             "betpot",
}

func (intent ActionIntent) String() string {
	if symbol, ok := intentSymbols[intent]; ok {
		return symbol
	}
	return "unknown"
}
