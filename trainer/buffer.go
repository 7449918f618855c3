package trainer

import (
	"math/rand"
)

// Transition is one step of experience from a self-play hand. Terminal
// transitions carry the realized reward and a nil next state, so no
// bootstrapping happens past the end of a hand.
type Transition struct {
	State     []float32
	Action    int
	Reward    float32
	NextState []float32
	Terminal  bool
}

// ReplayBuffer is a fixed-capacity ring of transitions. Once full, new
// experience evicts the oldest entries.
type ReplayBuffer struct {
	transitions []Transition
	capacity    int
	next        int
	full        bool
}

func NewReplayBuffer(capacity int) *ReplayBuffer {
	return &ReplayBuffer{
		transitions: make([]Transition, capacity),
		capacity:    capacity,
	}
}

func (b *ReplayBuffer) Add(t Transition) {
	b.transitions[b.next] = t
	b.next++
	if b.next == b.capacity {
		b.next = 0
		b.full = true
	}
}

func (b *ReplayBuffer) Len() int {
	if b.full {
		return b.capacity
	}
	return b.next
}

// Sample draws n transitions uniformly with replacement. The buffer is
// not consumed.
func (b *ReplayBuffer) Sample(r *rand.Rand, n int) []Transition {
	size := b.Len()
	if size == 0 {
		return nil
	}

	batch := make([]Transition, n)
	for i := range batch {
		batch[i] = b.transitions[r.Intn(size)]
	}
	return batch
}
