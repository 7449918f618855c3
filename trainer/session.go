package trainer

import (
	"context"
	"errors"
	"math/rand"

	"go.uber.org/zap"

	"github.com/weedbox/plo8sim"
	"github.com/weedbox/plo8sim/evaluator"
	"github.com/weedbox/plo8sim/policy"
)

var (
	ErrSessionCompleted = errors.New("trainer: session already completed its episode budget")
)

type SessionOptions struct {
	Episodes        int     `json:"episodes"`
	BufferCapacity  int     `json:"buffer_capacity"`
	BatchSize       int     `json:"batch_size"`
	Gamma           float64 `json:"gamma"`
	EpsilonStart    float64 `json:"epsilon_start"`
	EpsilonDecay    float64 `json:"epsilon_decay"`
	EpsilonFloor    float64 `json:"epsilon_floor"`
	TargetSyncEvery int     `json:"target_sync_every"`
	CheckpointEvery int     `json:"checkpoint_every"`
	CheckpointPath  string  `json:"checkpoint_path"`
	SmallBlind      int64   `json:"small_blind"`
	BigBlind        int64   `json:"big_blind"`
	StartingStack   int64   `json:"starting_stack"`
	Seed            int64   `json:"seed"`
}

func NewDefaultSessionOptions() *SessionOptions {
	return &SessionOptions{
		Episodes:        10000,
		BufferCapacity:  50000,
		BatchSize:       64,
		Gamma:           0.99,
		EpsilonStart:    1.0,
		EpsilonDecay:    0.995,
		EpsilonFloor:    0.01,
		TargetSyncEvery: 100,
		CheckpointEvery: 100,
		CheckpointPath:  "plo8sim.checkpoint.json",
		SmallBlind:      5,
		BigBlind:        10,
		StartingStack:   1000,
		Seed:            1,
	}
}

// EpisodeReport summarizes one settled self-play hand.
type EpisodeReport struct {
	Episode    int      `json:"episode"`
	FinalPot   int64    `json:"final_pot"`
	WinnerSeat int      `json:"winner_seat"`
	Actions    int      `json:"actions"`
	Showdown   bool     `json:"showdown"`
	Epsilon    float64  `json:"epsilon"`
	Loss       float64  `json:"loss"`
	Nets       [2]int64 `json:"nets"`
}

// Session drives the self-play training loop: one fresh hand per
// episode, both seats acting from the same network under epsilon-greedy
// exploration, experience pooled into a shared replay buffer.
type Session struct {
	options   *SessionOptions
	logger    *zap.Logger
	rng       *rand.Rand
	net       *policy.MLP
	target    *policy.MLP
	buffer    *ReplayBuffer
	reward    RewardFunc
	evaluator plo8sim.HandEvaluator

	epsilon        float64
	episode        int
	cumulativeNets [2]int64

	onEpisodeCompleted func(EpisodeReport)
}

func NewSession(options *SessionOptions, logger *zap.Logger) *Session {
	rng := rand.New(rand.NewSource(options.Seed))

	return &Session{
		options:   options,
		logger:    logger,
		rng:       rng,
		net:       policy.NewMLP(policy.NewDefaultMLPOptions(), rng),
		buffer:    NewReplayBuffer(options.BufferCapacity),
		reward:    NetChipsReward,
		evaluator: evaluator.NewPLO8Evaluator(),
		epsilon:   options.EpsilonStart,
	}
}

// SetRewardFunc swaps the terminal reward shaping. Must be called
// before Run.
func (s *Session) SetRewardFunc(fn RewardFunc) {
	s.reward = fn
}

func (s *Session) OnEpisodeCompleted(fn func(EpisodeReport)) {
	s.onEpisodeCompleted = fn
}

// Policy exposes the trained network, e.g. for evaluation matches.
func (s *Session) Policy() *policy.MLP {
	return s.net
}

func (s *Session) Episode() int {
	return s.episode
}

func (s *Session) Epsilon() float64 {
	return s.epsilon
}

// Run plays episodes until the budget is exhausted or ctx is canceled.
// It checkpoints on the configured cadence and once more on exit.
func (s *Session) Run(ctx context.Context) error {
	if s.episode >= s.options.Episodes {
		return ErrSessionCompleted
	}

	if s.target == nil {
		s.target = s.net.Clone()
	}

	for s.episode < s.options.Episodes {
		if err := ctx.Err(); err != nil {
			return s.checkpointAndReturn(err)
		}

		report, err := s.runEpisode()
		if err != nil {
			// An unplayable hand is abnormal. Its experience is
			// discarded and training continues.
			s.logger.Error("episode aborted", zap.Int("episode", s.episode), zap.Error(err))
			continue
		}

		s.episode++
		s.epsilon = s.epsilon * s.options.EpsilonDecay
		if s.epsilon < s.options.EpsilonFloor {
			s.epsilon = s.options.EpsilonFloor
		}

		if s.episode%s.options.TargetSyncEvery == 0 {
			s.target.SyncFrom(s.net)
		}

		if s.options.CheckpointPath != "" && s.episode%s.options.CheckpointEvery == 0 {
			if err := s.SaveCheckpoint(s.options.CheckpointPath); err != nil {
				return err
			}
		}

		report.Episode = s.episode
		report.Epsilon = s.epsilon
		if s.onEpisodeCompleted != nil {
			s.onEpisodeCompleted(report)
		}
	}

	return s.checkpointAndReturn(nil)
}

func (s *Session) checkpointAndReturn(err error) error {
	if s.options.CheckpointPath != "" {
		if saveErr := s.SaveCheckpoint(s.options.CheckpointPath); saveErr != nil {
			return saveErr
		}
	}
	return err
}

type pendingStep struct {
	state  []float32
	action int
}

func (s *Session) runEpisode() (EpisodeReport, error) {
	table := plo8sim.NewTable(&plo8sim.TableOptions{
		SmallBlind:    s.options.SmallBlind,
		BigBlind:      s.options.BigBlind,
		StartingStack: s.options.StartingStack,
	}, s.rng)

	game, err := table.OpenGame()
	if err != nil {
		return EpisodeReport{}, err
	}

	var episodeSteps []Transition
	var last [2]*pendingStep
	actions := 0

	for !game.IsOver() {
		seat := game.ActingSeat
		state := policy.Encode(game, seat)
		intent := s.chooseIntent(state)

		if prev := last[seat]; prev != nil {
			episodeSteps = append(episodeSteps, Transition{
				State:     prev.state,
				Action:    prev.action,
				NextState: state,
			})
		}
		last[seat] = &pendingStep{state: state, action: int(intent)}

		if _, err := game.ApplyIntent(intent); err != nil {
			return EpisodeReport{}, err
		}
		actions++
	}

	result, err := table.SettleGame(s.evaluator)
	if err != nil {
		return EpisodeReport{}, err
	}

	if result.EvaluatorDisagreement {
		s.logger.Warn("showdown ranks identical across disjoint holes",
			zap.String("game_id", game.ID),
			zap.Int64("pot", result.Pot))
	}

	for seat, prev := range last {
		if prev == nil {
			continue
		}
		episodeSteps = append(episodeSteps, Transition{
			State:    prev.state,
			Action:   prev.action,
			Reward:   s.reward(result, seat, s.options.BigBlind),
			Terminal: true,
		})
	}

	for _, t := range episodeSteps {
		s.buffer.Add(t)
	}

	loss := s.trainStep()

	for seat := 0; seat < plo8sim.SeatCount; seat++ {
		s.cumulativeNets[seat] += result.Seats[seat].Net
	}

	return EpisodeReport{
		FinalPot:   result.Pot,
		WinnerSeat: result.Winner,
		Actions:    actions,
		Showdown:   result.Type != plo8sim.Settlement_FoldWin,
		Loss:       loss,
		Nets:       s.cumulativeNets,
	}, nil
}

func (s *Session) chooseIntent(state []float32) plo8sim.ActionIntent {
	if s.rng.Float64() < s.epsilon {
		return policy.SampleIntent(s.rng)
	}
	return policy.Greedy(s.net, state)
}

// trainStep samples a batch and regresses the probability of each taken
// action towards its bootstrapped target under the frozen network.
func (s *Session) trainStep() float64 {
	if s.buffer.Len() < s.options.BatchSize {
		return 0
	}

	batch := s.buffer.Sample(s.rng, s.options.BatchSize)

	states := make([][]float32, len(batch))
	actions := make([]int, len(batch))
	targets := make([]float32, len(batch))

	for i, t := range batch {
		states[i] = t.State
		actions[i] = t.Action

		target := t.Reward
		if !t.Terminal {
			target += float32(s.options.Gamma) * maxProb(s.target.Probs(t.NextState))
		}
		targets[i] = target
	}

	return s.net.Train(states, actions, targets)
}

func maxProb(probs []float32) float32 {
	best := probs[0]
	for _, p := range probs[1:] {
		if p > best {
			best = p
		}
	}
	return best
}
