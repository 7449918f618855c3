package plo8sim

// BetState is the minimal view of a hand needed to resolve an action
// intent into a concrete wager. Keeping resolution a pure function of
// this struct makes the pot-limit sizing testable without running hands.
type BetState struct {
	Pot            int64 // chips already committed by both seats
	CurrentBet     int64 // street bet level to match
	LastRaiseSize  int64 // size of the last bet/raise on this street
	BigBlind       int64
	SeatStreetBet  int64 // acting seat's chips committed this street
	SeatStack      int64 // acting seat's remaining stack
	OpponentCanAct bool  // false when the opponent is folded or all-in
}

// Move is a resolved wager: the action type plus the chips the acting
// seat adds to the pot (not a raise-to level).
type Move struct {
	Seat   int    `json:"seat"`
	Street Street `json:"street"`
	Action string `json:"action"`
	Chips  int64  `json:"chips,omitempty"`
}

var potFractions = map[ActionIntent]struct{ num, den int64 }{
	Intent_BetHalfPot:         {1, 2},
	Intent_BetThreeQuarterPot: {3, 4},
	Intent_BetPot:             {1, 1},
}

// ResolveIntent maps one of the five action intents onto a legal move for
// the given betting state. It is total over valid intents: shallow stacks
// and capped raises degrade to calls or all-ins rather than failing, so a
// policy can pick any index without ever producing an illegal wager.
func ResolveIntent(intent ActionIntent, bs BetState) (Move, error) {
	if intent < Intent_CheckFold || intent >= IntentCount {
		return Move{}, ErrInvalidActionIndex
	}

	toCall := bs.CurrentBet - bs.SeatStreetBet
	if toCall < 0 {
		toCall = 0
	}

	switch intent {
	case Intent_CheckFold:
		if toCall == 0 {
			return Move{Action: WagerAction_Check}, nil
		}
		return Move{Action: WagerAction_Fold}, nil

	case Intent_CallMinBet:
		if toCall > 0 {
			return capToStack(WagerAction_Call, toCall, bs.SeatStack), nil
		}
		if !bs.OpponentCanAct {
			// No one left to respond; a bet would be dead money.
			return Move{Action: WagerAction_Check}, nil
		}
		return capToStack(WagerAction_Bet, bs.BigBlind, bs.SeatStack), nil
	}

	// Pot-fraction sizings. The pot-limit cap is the pot after a
	// hypothetical call; the minimum is a full bet or the last raise size.
	if !bs.OpponentCanAct {
		// Raising is pointless against a folded or all-in opponent;
		// reclassify as a call or check.
		if toCall > 0 {
			return capToStack(WagerAction_Call, toCall, bs.SeatStack), nil
		}
		return Move{Action: WagerAction_Check}, nil
	}

	if bs.SeatStack <= toCall {
		// Cannot cover the call, let alone raise.
		return capToStack(WagerAction_Call, toCall, bs.SeatStack), nil
	}

	frac := potFractions[intent]
	effectivePot := bs.Pot + toCall
	maxRaise := effectivePot

	minRaise := bs.LastRaiseSize
	if minRaise < bs.BigBlind {
		minRaise = bs.BigBlind
	}

	raise := effectivePot * frac.num / frac.den
	if raise < minRaise {
		raise = minRaise
	}
	if raise > maxRaise {
		raise = maxRaise
	}

	action := WagerAction_Raise
	if toCall == 0 {
		action = WagerAction_Bet
	}
	return capToStack(action, toCall+raise, bs.SeatStack), nil
}

func capToStack(action string, chips, stack int64) Move {
	if chips >= stack {
		return Move{Action: WagerAction_AllIn, Chips: stack}
	}
	return Move{Action: action, Chips: chips}
}
