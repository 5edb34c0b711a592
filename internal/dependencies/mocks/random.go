package mocks

import (
	"github.com/avoronin/photobattle/internal/dependencies/random"
)

// MockRandom is a mock implementation of Random for testing
type MockRandom struct {
	// IntnResults is a queue of results to return from Intn
	IntnResults []int
	intnIndex   int

	// Pick2Results is a queue of index pairs to return from Pick2
	Pick2Results [][2]int
	pick2Index   int
}

// Ensure MockRandom implements Random
var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// Intn returns the next queued result, or 0 if none remaining
func (r *MockRandom) Intn(n int) int {
	if r.intnIndex >= len(r.IntnResults) {
		return 0
	}
	result := r.IntnResults[r.intnIndex]
	r.intnIndex++
	return result
}

// Pick2 returns the next queued pair, or (0, 1) if none remaining
func (r *MockRandom) Pick2(n int) (int, int) {
	if r.pick2Index >= len(r.Pick2Results) {
		return 0, 1
	}
	pair := r.Pick2Results[r.pick2Index]
	r.pick2Index++
	return pair[0], pair[1]
}

// QueueIntn adds values to the Intn result queue
func (r *MockRandom) QueueIntn(values ...int) {
	r.IntnResults = append(r.IntnResults, values...)
}

// QueuePick2 adds index pairs to the Pick2 result queue
func (r *MockRandom) QueuePick2(pairs ...[2]int) {
	r.Pick2Results = append(r.Pick2Results, pairs...)
}
