package fieldmap

import (
	"sync"
)

// Hook function types for insertion events
type (
	// InsertedHook is called after a record was written into a row.
	InsertedHook func(outcome Outcome)

	// FailedHook is called when an insertion fails.
	FailedHook func(outcome Outcome)
)

// hooks manages event callbacks for insertions
type hooks struct {
	mu         sync.RWMutex
	onInserted []InsertedHook
	onFailed   []FailedHook
}

// newHooks creates a new hooks instance
func newHooks() *hooks {
	return &hooks{}
}

// OnInserted registers a callback for successful insertions
func (h *hooks) OnInserted(fn InsertedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onInserted = append(h.onInserted, fn)
}

// OnFailed registers a callback for failed insertions
func (h *hooks) OnFailed(fn FailedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onFailed = append(h.onFailed, fn)
}

// trigger dispatches the outcome to the matching hooks
func (h *hooks) trigger(outcome Outcome) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if outcome.Success {
		for _, hook := range h.onInserted {
			hook(outcome)
		}
		return
	}
	for _, hook := range h.onFailed {
		hook(outcome)
	}
}
