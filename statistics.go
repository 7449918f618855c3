package plo8sim

// SeatStatistics accumulates one seat's betting behaviour over a single
// hand. The trainer's metrics exporter aggregates these across episodes
// to reconstruct win-rate and aggression frequencies.
type SeatStatistics struct {
	ActionTimes    int    `json:"action_times"` // total wager decisions
	RaiseTimes     int    `json:"raise_times"`  // bets and raises
	CallTimes      int    `json:"call_times"`
	CheckTimes     int    `json:"check_times"`
	IsFold         bool   `json:"is_fold"`
	FoldStreet     Street `json:"fold_street,omitempty"`
	WentToShowdown bool   `json:"went_to_showdown"`
}

func (st *SeatStatistics) onCheck() {
	st.ActionTimes++
	st.CheckTimes++
}

func (st *SeatStatistics) onFold(street Street) {
	st.ActionTimes++
	st.IsFold = true
	st.FoldStreet = street
}

func (st *SeatStatistics) onWager(action string) {
	st.ActionTimes++
	switch action {
	case WagerAction_Call:
		st.CallTimes++
	case WagerAction_Bet, WagerAction_Raise, WagerAction_AllIn:
		st.RaiseTimes++
	}
}

// AggressionFrequency is raises over total wager decisions, 0 for a seat
// that never acted.
func (st *SeatStatistics) AggressionFrequency() float64 {
	if st.ActionTimes == 0 {
		return 0
	}
	return float64(st.RaiseTimes) / float64(st.ActionTimes)
}
