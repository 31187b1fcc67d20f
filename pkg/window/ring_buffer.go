package window

import (
	"sync"

	"github.com/tunogya/lagcast/pkg/model"
)

// RingBuffer is a circular buffer for observations with fixed capacity
type RingBuffer struct {
	data     []model.Observation
	capacity int
	size     int
	head     int // points to the next write position
	mu       sync.RWMutex
}

// NewRingBuffer creates a new ring buffer with the specified capacity
func NewRingBuffer(capacity int) *RingBuffer {
	return &RingBuffer{
		data:     make([]model.Observation, capacity),
		capacity: capacity,
	}
}

// Push adds an observation, overwriting the oldest one when full
func (rb *RingBuffer) Push(o model.Observation) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	rb.data[rb.head] = o
	rb.head = (rb.head + 1) % rb.capacity
	if rb.size < rb.capacity {
		rb.size++
	}
}

// Size returns the current number of elements in the buffer
func (rb *RingBuffer) Size() int {
	rb.mu.RLock()
	defer rb.mu.RUnlock()
	return rb.size
}

// IsFull returns true if the buffer is at capacity
func (rb *RingBuffer) IsFull() bool {
	rb.mu.RLock()
	defer rb.mu.RUnlock()
	return rb.size == rb.capacity
}

// Capacity returns the maximum capacity of the buffer
func (rb *RingBuffer) Capacity() int {
	return rb.capacity
}

// At returns the i-th oldest observation. i must be in [0, Size()).
func (rb *RingBuffer) At(i int) model.Observation {
	rb.mu.RLock()
	defer rb.mu.RUnlock()
	return rb.data[(rb.start()+i)%rb.capacity]
}

// ToSlice returns all observations in chronological order (oldest first)
func (rb *RingBuffer) ToSlice() []model.Observation {
	rb.mu.RLock()
	defer rb.mu.RUnlock()

	result := make([]model.Observation, rb.size)
	start := rb.start()
	for i := 0; i < rb.size; i++ {
		result[i] = rb.data[(start+i)%rb.capacity]
	}
	return result
}

// Last returns the most recent observation
func (rb *RingBuffer) Last() *model.Observation {
	rb.mu.RLock()
	defer rb.mu.RUnlock()

	if rb.size == 0 {
		return nil
	}

	o := rb.data[(rb.head-1+rb.capacity)%rb.capacity]
	return &o
}

// Clear empties the buffer
func (rb *RingBuffer) Clear() {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	rb.size = 0
	rb.head = 0
}

// start is the position of the oldest element; callers hold the lock
func (rb *RingBuffer) start() int {
	if rb.size == rb.capacity {
		return rb.head
	}
	return 0
}
