package trainer

import (
	"bufio"
	"context"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/weedbox/plo8sim"
)

func newTestOptions(t *testing.T, episodes int) *SessionOptions {
	t.Helper()

	options := NewDefaultSessionOptions()
	options.Episodes = episodes
	options.CheckpointEvery = 10
	options.CheckpointPath = filepath.Join(t.TempDir(), "checkpoint.json")
	options.Seed = 42
	return options
}

func TestSession_RunCompletesEpisodes(t *testing.T) {
	options := newTestOptions(t, 30)
	session := NewSession(options, zap.NewNop())

	reports := 0
	lastEpisode := 0
	session.OnEpisodeCompleted(func(report EpisodeReport) {
		reports++
		assert.Greater(t, report.Episode, lastEpisode, "episodes arrive in order")
		lastEpisode = report.Episode
		assert.Greater(t, report.FinalPot, int64(0))
		assert.Greater(t, report.Actions, 0)
		assert.Equal(t, int64(0), report.Nets[0]+report.Nets[1], "self-play is zero sum")
	})

	require.NoError(t, session.Run(context.Background()))

	assert.Equal(t, 30, reports)
	assert.Equal(t, 30, session.Episode())

	expected := math.Pow(options.EpsilonDecay, 30) * options.EpsilonStart
	assert.InDelta(t, expected, session.Epsilon(), 1e-9, "epsilon decays per episode")

	_, err := os.Stat(options.CheckpointPath)
	assert.NoError(t, err, "final checkpoint written")

	assert.ErrorIs(t, session.Run(context.Background()), ErrSessionCompleted)
}

func TestSession_EpsilonFloor(t *testing.T) {
	options := newTestOptions(t, 20)
	options.EpsilonStart = 0.02
	options.EpsilonDecay = 0.5
	session := NewSession(options, zap.NewNop())

	require.NoError(t, session.Run(context.Background()))
	assert.Equal(t, options.EpsilonFloor, session.Epsilon(), "decay never crosses the floor")
}

func TestSession_CheckpointResume(t *testing.T) {
	options := newTestOptions(t, 15)
	session := NewSession(options, zap.NewNop())
	require.NoError(t, session.Run(context.Background()))

	state := make([]float32, 114)
	wantProbs := session.Policy().Probs(state)

	resumedOptions := newTestOptions(t, 25)
	resumedOptions.CheckpointPath = options.CheckpointPath
	resumed := NewSession(resumedOptions, zap.NewNop())
	require.NoError(t, resumed.LoadCheckpoint(options.CheckpointPath))

	assert.Equal(t, 15, resumed.Episode())
	assert.InDelta(t, session.Epsilon(), resumed.Epsilon(), 1e-12)
	assert.Equal(t, wantProbs, resumed.Policy().Probs(state), "network weights restored")

	require.NoError(t, resumed.Run(context.Background()))
	assert.Equal(t, 25, resumed.Episode())
}

func TestSession_LoadRejectsUnknownVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkpoint.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version":99}`), 0644))

	session := NewSession(newTestOptions(t, 5), zap.NewNop())
	assert.ErrorIs(t, session.LoadCheckpoint(path), ErrUnsupportedCheckpoint)
}

func TestSession_CanceledContext(t *testing.T) {
	options := newTestOptions(t, 50)
	session := NewSession(options, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, session.Run(ctx), context.Canceled)
	_, err := os.Stat(options.CheckpointPath)
	assert.NoError(t, err, "checkpoint saved on interruption")
}

func TestSession_CustomReward(t *testing.T) {
	options := newTestOptions(t, 5)
	session := NewSession(options, zap.NewNop())
	session.SetRewardFunc(func(result *plo8sim.Result, seatIdx int, bigBlind int64) float32 {
		if result.Winner == seatIdx {
			return 1
		}
		return -1
	})

	require.NoError(t, session.Run(context.Background()))
	assert.Equal(t, 5, session.Episode())
}

func TestMetricsWriter_AppendsJSONL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metrics.jsonl")

	writer, err := NewMetricsWriter(path)
	require.NoError(t, err)
	require.NoError(t, writer.Write(EpisodeReport{Episode: 1, FinalPot: 20}))
	require.NoError(t, writer.Write(EpisodeReport{Episode: 2, FinalPot: 40, Showdown: true}))
	require.NoError(t, writer.Close())

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	var reports []EpisodeReport
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var report EpisodeReport
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &report))
		reports = append(reports, report)
	}
	require.NoError(t, scanner.Err())

	require.Len(t, reports, 2)
	assert.Equal(t, int64(40), reports[1].FinalPot)
	assert.True(t, reports[1].Showdown)
}
