package actor

import (
	"context"
	"errors"
	"math/rand"

	"github.com/weedbox/syncsaga"
	"go.uber.org/zap"

	"github.com/weedbox/plo8sim"
	"github.com/weedbox/plo8sim/evaluator"
)

var (
	ErrArenaNoRunners = errors.New("actor: both seats require a runner")
)

type ArenaOptions struct {
	Hands         int   `json:"hands"`
	ReadyTimeout  int   `json:"ready_timeout"`
	SmallBlind    int64 `json:"small_blind"`
	BigBlind      int64 `json:"big_blind"`
	StartingStack int64 `json:"starting_stack"`
	Seed          int64 `json:"seed"`
}

func NewDefaultArenaOptions() *ArenaOptions {
	return &ArenaOptions{
		Hands:         100,
		ReadyTimeout:  5,
		SmallBlind:    5,
		BigBlind:      10,
		StartingStack: 1000,
		Seed:          1,
	}
}

// MatchResult aggregates a multi-hand match between two runners.
type MatchResult struct {
	Hands       int      `json:"hands"`
	Wins        [2]int   `json:"wins"`
	Nets        [2]int64 `json:"nets"`
	Showdowns   int      `json:"showdowns"`
	FinalStacks [2]int64 `json:"final_stacks"`
}

// Arena plays a fixed-length heads-up match on one table. Each hand is
// gated by a ready group so humanized runners can take their time, with
// a timeout that auto-readies stragglers.
type Arena struct {
	options   *ArenaOptions
	logger    *zap.Logger
	runners   [plo8sim.SeatCount]Runner
	table     *plo8sim.Table
	rg        *syncsaga.ReadyGroup
	evaluator plo8sim.HandEvaluator

	onHandSettled func(*plo8sim.Game, *plo8sim.Result)
}

func NewArena(options *ArenaOptions, runners [plo8sim.SeatCount]Runner, logger *zap.Logger) (*Arena, error) {
	for _, r := range runners {
		if r == nil {
			return nil, ErrArenaNoRunners
		}
	}

	tableOptions := plo8sim.NewDefaultTableOptions()
	tableOptions.SmallBlind = options.SmallBlind
	tableOptions.BigBlind = options.BigBlind
	tableOptions.StartingStack = options.StartingStack

	return &Arena{
		options:   options,
		logger:    logger,
		runners:   runners,
		table:     plo8sim.NewTable(tableOptions, rand.New(rand.NewSource(options.Seed))),
		rg:        syncsaga.NewReadyGroup(),
		evaluator: evaluator.NewPLO8Evaluator(),
	}, nil
}

func (a *Arena) OnHandSettled(fn func(*plo8sim.Game, *plo8sim.Result)) {
	a.onHandSettled = fn
}

// Run plays hands until the budget is spent, a seat goes broke, or ctx
// is canceled.
func (a *Arena) Run(ctx context.Context) (*MatchResult, error) {
	match := &MatchResult{}

	for hand := 0; hand < a.options.Hands && !a.table.IsOver(); hand++ {
		if err := ctx.Err(); err != nil {
			return match, err
		}

		if err := a.waitReady(ctx); err != nil {
			return match, err
		}

		game, err := a.table.OpenGame()
		if err != nil {
			return match, err
		}

		for !game.IsOver() {
			seat := game.ActingSeat
			intent, err := a.runners[seat].Act(game, seat)
			if err != nil {
				return match, err
			}

			if _, err := game.ApplyIntent(intent); err != nil {
				return match, err
			}
		}

		result, err := a.table.SettleGame(a.evaluator)
		if err != nil {
			return match, err
		}

		match.Hands++
		if result.Winner != plo8sim.UnsetValue {
			match.Wins[result.Winner]++
		}
		if result.Type != plo8sim.Settlement_FoldWin {
			match.Showdowns++
		}
		for seat := 0; seat < plo8sim.SeatCount; seat++ {
			match.Nets[seat] += result.Seats[seat].Net
		}

		a.logger.Debug("hand settled",
			zap.String("game_id", game.ID),
			zap.String("type", string(result.Type)),
			zap.Int64("pot", result.Pot),
			zap.Int("winner", result.Winner))

		if a.onHandSettled != nil {
			a.onHandSettled(game, result)
		}
	}

	match.FinalStacks = a.table.Stacks
	return match, nil
}

// waitReady gates the next hand on both runners. Unready seats are
// auto-readied after the timeout.
func (a *Arena) waitReady(ctx context.Context) error {
	done := make(chan struct{})

	a.rg.Stop()
	a.rg.SetTimeoutInterval(a.options.ReadyTimeout)
	a.rg.OnTimeout(func(rg *syncsaga.ReadyGroup) {
		for idx, isReady := range rg.GetParticipantStates() {
			if !isReady {
				rg.Ready(idx)
			}
		}
	})
	a.rg.OnCompleted(func(rg *syncsaga.ReadyGroup) {
		close(done)
	})

	a.rg.ResetParticipants()
	for seat := 0; seat < plo8sim.SeatCount; seat++ {
		a.rg.Add(int64(seat), false)
	}
	a.rg.Start()

	for seat, runner := range a.runners {
		seat := seat
		runner.ReserveReady(func() {
			a.rg.Ready(int64(seat))
		})
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		a.rg.Stop()
		return ctx.Err()
	}
}
