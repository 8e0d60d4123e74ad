package hierarchy

import (
	"sync/atomic"

	"github.com/salescope/salescope/modules/directory/domain/aggregates/employee"
)

// Holder publishes index rebuilds by copy-and-swap: a request in flight
// observes either the old or the new complete index, never a partial one.
// A failed build keeps the previous good index in use.
type Holder struct {
	current atomic.Pointer[Index]
}

func NewHolder() *Holder {
	return &Holder{}
}

// Rebuild builds a fresh index from the roster and swaps it in atomically.
// On build failure the previous index stays published and the error is
// returned to the caller.
func (h *Holder) Rebuild(roster []employee.Employee) error {
	idx, err := Build(roster)
	if err != nil {
		return err
	}
	h.current.Store(idx)
	return nil
}

// Current returns the published index, or false when no build has succeeded yet.
func (h *Holder) Current() (*Index, bool) {
	idx := h.current.Load()
	return idx, idx != nil
}
