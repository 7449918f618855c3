package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/pterm/pterm"
	"go.uber.org/zap"

	"github.com/weedbox/plo8sim"
	"github.com/weedbox/plo8sim/actor"
	"github.com/weedbox/plo8sim/trainer"
)

func main() {
	// Optional overrides from a local .env file. Missing file is fine.
	godotenv.Load()

	options := trainer.NewDefaultSessionOptions()

	episodes := flag.Int("episodes", envInt("PLO8SIM_EPISODES", options.Episodes), "number of self-play hands to train on")
	checkpointPath := flag.String("checkpoint", options.CheckpointPath, "checkpoint file path")
	checkpointEvery := flag.Int("checkpoint-every", options.CheckpointEvery, "episodes between checkpoints")
	resume := flag.Bool("resume", false, "resume from the checkpoint file")
	metricsPath := flag.String("metrics", "", "append per-episode metrics to this JSONL file")
	seed := flag.Int64("seed", options.Seed, "rng seed")
	smallBlind := flag.Int64("sb", options.SmallBlind, "small blind")
	bigBlind := flag.Int64("bb", options.BigBlind, "big blind")
	stack := flag.Int64("stack", options.StartingStack, "starting stack per seat")
	evalHands := flag.Int("eval-hands", 200, "hands vs a random opponent after training, 0 to skip")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	options.Episodes = *episodes
	options.CheckpointPath = *checkpointPath
	options.CheckpointEvery = *checkpointEvery
	options.Seed = *seed
	options.SmallBlind = *smallBlind
	options.BigBlind = *bigBlind
	options.StartingStack = *stack

	logger, err := newLogger(*verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, options, *resume, *metricsPath, *evalHands, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("training failed", zap.Error(err))
	}
}

func run(ctx context.Context, options *trainer.SessionOptions, resume bool, metricsPath string, evalHands int, logger *zap.Logger) error {
	session := trainer.NewSession(options, logger)

	if resume {
		if err := session.LoadCheckpoint(options.CheckpointPath); err != nil {
			return err
		}
		logger.Info("resumed from checkpoint",
			zap.String("path", options.CheckpointPath),
			zap.Int("episode", session.Episode()),
			zap.Float64("epsilon", session.Epsilon()))
	}

	var metrics *trainer.MetricsWriter
	if metricsPath != "" {
		var err error
		metrics, err = trainer.NewMetricsWriter(metricsPath)
		if err != nil {
			return err
		}
		defer metrics.Close()
	}

	bar, err := pterm.DefaultProgressbar.
		WithTotal(options.Episodes).
		WithCurrent(session.Episode()).
		WithTitle("self-play").
		Start()
	if err != nil {
		return err
	}

	session.OnEpisodeCompleted(func(report trainer.EpisodeReport) {
		bar.Increment()
		if metrics != nil {
			if err := metrics.Write(report); err != nil {
				logger.Warn("metrics write failed", zap.Error(err))
			}
		}
	})

	if err := session.Run(ctx); err != nil {
		bar.Stop()
		return err
	}
	bar.Stop()

	pterm.Success.Printf("trained %d episodes, epsilon %.3f\n", session.Episode(), session.Epsilon())

	if evalHands > 0 {
		return evaluate(ctx, session, evalHands, options, logger)
	}
	return nil
}

// evaluate benchmarks the trained policy against a uniform random
// opponent on a fresh table.
func evaluate(ctx context.Context, session *trainer.Session, hands int, options *trainer.SessionOptions, logger *zap.Logger) error {
	arenaOptions := actor.NewDefaultArenaOptions()
	arenaOptions.Hands = hands
	arenaOptions.SmallBlind = options.SmallBlind
	arenaOptions.BigBlind = options.BigBlind
	arenaOptions.StartingStack = options.StartingStack
	arenaOptions.Seed = options.Seed + 1

	runners := [plo8sim.SeatCount]actor.Runner{
		actor.NewPolicyRunner("trained", session.Policy()),
		actor.NewRandomRunner("random", rand.New(rand.NewSource(options.Seed+2))),
	}

	arena, err := actor.NewArena(arenaOptions, runners, logger)
	if err != nil {
		return err
	}

	match, err := arena.Run(ctx)
	if err != nil {
		return err
	}

	pterm.Info.Printf("evaluation: %d hands, trained won %d, net %+d chips (showdowns %d)\n",
		match.Hands, match.Wins[0], match.Nets[0], match.Showdowns)
	return nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func envInt(key string, fallback int) int {
	if raw, ok := os.LookupEnv(key); ok {
		if v, err := strconv.Atoi(raw); err == nil {
			return v
		}
	}
	return fallback
}
