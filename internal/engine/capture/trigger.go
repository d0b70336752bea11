package capture

import "sync/atomic"

// Trigger lets any input source request a capture without knowing how the
// capture runs. The render loop consumes the request after a regular frame.
type Trigger struct {
	pending atomic.Bool
}

// Request marks a capture as pending. Repeated requests before the next
// Take collapse into one.
func (t *Trigger) Request() {
	t.pending.Store(true)
}

// Take clears and returns the pending flag.
func (t *Trigger) Take() bool {
	return t.pending.Swap(false)
}
