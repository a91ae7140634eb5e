package upload

import "sync"

// Control is the pause/cancel state shared between a queue and the
// coordinator working on it. It is checked before every chunk transfer.
type Control struct {
	mu      sync.Mutex
	paused  bool
	cancels map[string]struct{}
}

func NewControl() *Control {
	return &Control{cancels: make(map[string]struct{})}
}

func (c *Control) Pause() {
	c.mu.Lock()
	c.paused = true
	c.mu.Unlock()
}

func (c *Control) Resume() {
	c.mu.Lock()
	c.paused = false
	c.mu.Unlock()
}

func (c *Control) Paused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paused
}

// RequestCancel marks task id for cancellation at its next checkpoint.
func (c *Control) RequestCancel(id string) {
	c.mu.Lock()
	c.cancels[id] = struct{}{}
	c.mu.Unlock()
}

func (c *Control) clearCancel(id string) {
	c.mu.Lock()
	delete(c.cancels, id)
	c.mu.Unlock()
}

// checkpoint reports whether task id may send its next chunk. Cancellation
// wins over pause.
func (c *Control) checkpoint(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.cancels[id]; ok {
		return ErrCancelled
	}
	if c.paused {
		return ErrPaused
	}
	return nil
}

// cancelRequested is the merge-time check: a pause no longer matters once
// every chunk is on the server.
func (c *Control) cancelRequested(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.cancels[id]
	return ok
}
