package control

import "sync"

// Manual passes through the last input set by a user. Set may be called
// from a goroutine other than the one running the simulation.
type Manual struct {
	mu sync.Mutex
	in Input
}

func NewManual() *Manual {
	return &Manual{}
}

// Set replaces the held input.
func (c *Manual) Set(in Input) {
	c.mu.Lock()
	c.in = in
	c.mu.Unlock()
}

// Update edits the held input in place.
func (c *Manual) Update(fn func(*Input)) {
	c.mu.Lock()
	fn(&c.in)
	c.mu.Unlock()
}

func (c *Manual) Compute(Status, float64) Input {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.in
}
