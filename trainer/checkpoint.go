package trainer

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/weedbox/plo8sim/policy"
)

const checkpointVersion = 1

var (
	ErrUnsupportedCheckpoint = errors.New("trainer: unsupported checkpoint version")
)

// Checkpoint is the durable training state: enough to resume a session
// without replaying its history. The replay buffer is deliberately not
// persisted, it refills within a few hundred episodes.
type Checkpoint struct {
	Version        int                   `json:"version"`
	Episode        int                   `json:"episode"`
	Epsilon        float64               `json:"epsilon"`
	CumulativeNets [2]int64              `json:"cumulative_nets"`
	Policy         []policy.LayerWeights `json:"policy"`
	Target         []policy.LayerWeights `json:"target"`
}

// SaveCheckpoint writes the session state atomically: a temp file in the
// target directory, then a rename.
func (s *Session) SaveCheckpoint(path string) error {
	cp := Checkpoint{
		Version:        checkpointVersion,
		Episode:        s.episode,
		Epsilon:        s.epsilon,
		CumulativeNets: s.cumulativeNets,
		Policy:         s.net.Weights(),
	}
	if s.target != nil {
		cp.Target = s.target.Weights()
	}

	data, err := json.Marshal(&cp)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".checkpoint-*")
	if err != nil {
		return err
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	return os.Rename(tmp.Name(), path)
}

// LoadCheckpoint restores a previously saved session state. Call before
// Run to resume training.
func (s *Session) LoadCheckpoint(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var cp Checkpoint
	if err := json.Unmarshal(data, &cp); err != nil {
		return err
	}

	if cp.Version != checkpointVersion {
		return fmt.Errorf("%w: %d", ErrUnsupportedCheckpoint, cp.Version)
	}

	if err := s.net.SetWeights(cp.Policy); err != nil {
		return err
	}

	if len(cp.Target) > 0 {
		s.target = s.net.Clone()
		if err := s.target.SetWeights(cp.Target); err != nil {
			return err
		}
	}

	s.episode = cp.Episode
	s.epsilon = cp.Epsilon
	s.cumulativeNets = cp.CumulativeNets
	return nil
}
