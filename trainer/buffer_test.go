package trainer

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplayBuffer_FillAndEvict(t *testing.T) {
	buffer := NewReplayBuffer(5)
	assert.Equal(t, 0, buffer.Len())

	for i := 0; i < 7; i++ {
		buffer.Add(Transition{Action: i})
	}
	assert.Equal(t, 5, buffer.Len(), "capacity bounds the buffer")

	// The two oldest transitions were evicted.
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		batch := buffer.Sample(r, 1)
		require.Len(t, batch, 1)
		assert.GreaterOrEqual(t, batch[0].Action, 2, "evicted transition resurfaced")
		assert.LessOrEqual(t, batch[0].Action, 6)
	}
}

func TestReplayBuffer_SampleKeepsContents(t *testing.T) {
	buffer := NewReplayBuffer(10)
	for i := 0; i < 4; i++ {
		buffer.Add(Transition{Action: i, Reward: float32(i)})
	}

	r := rand.New(rand.NewSource(2))
	batch := buffer.Sample(r, 8)
	assert.Len(t, batch, 8, "sampling is with replacement")
	assert.Equal(t, 4, buffer.Len(), "sampling does not consume")
}

func TestReplayBuffer_SampleEmpty(t *testing.T) {
	buffer := NewReplayBuffer(3)
	assert.Nil(t, buffer.Sample(rand.New(rand.NewSource(3)), 2))
}
