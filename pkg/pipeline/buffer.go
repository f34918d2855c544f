package pipeline

import (
	"sync"

	"github.com/SaidZahrai/go-parallel-operators/log"
)

// Handoff is the single-slot channel between two stages. It holds exactly one
// cell of T and moves items by swapping cell handles, so the payload itself is
// never copied. Each side brings its own cell: the total population across
// sender cell, internal cell and receiver cell is conserved at three.
//
// At any quiescent moment exactly one of available/filled is true. Send blocks
// until the slot is available, Receive blocks until it is filled, and
// Terminate wakes both sides for good.
type Handoff[T any] struct {
	name       string
	mu         sync.Mutex
	cond       *sync.Cond
	cell       *T
	available  bool
	filled     bool
	terminated bool
	log        log.Logger
}

// NewHandoff creates an empty buffer. A nil logger disables the per-event
// diagnostics.
func NewHandoff[T any](name string, l log.Logger) *Handoff[T] {
	if l == nil {
		l = log.NewNop()
	}
	h := &Handoff[T]{
		name:      name,
		cell:      new(T),
		available: true,
		log:       l,
	}
	h.cond = sync.NewCond(&h.mu)

	return h
}

// Name returns the buffer name used in diagnostics.
func (h *Handoff[T]) Name() string {
	return h.name
}

// Send deposits the item held in cell. It blocks until the slot is available
// or the buffer is terminated. On success the internal cell is swapped with
// cell and returned together with true; the returned cell typically holds the
// stand-in left behind by the consumer's previous Receive. On termination cell
// is returned unchanged with false and must not be treated as delivered.
func (h *Handoff[T]) Send(cell *T) (*T, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.log.Debugf("%s: waiting for the slot to become available", h.name)
	for !h.available && !h.terminated {
		h.cond.Wait()
	}
	if h.terminated {
		h.log.Debugf("%s: terminated, send returns without swap", h.name)

		return cell, false
	}
	h.log.Debugf("%s: slot available, swapping in new item", h.name)
	h.cell, cell = cell, h.cell
	h.available = false
	h.filled = true
	h.cond.Signal()

	return cell, true
}

// Receive withdraws the resident item into cell. It blocks until the slot is
// filled or the buffer is terminated. On success the internal cell is swapped
// with cell and returned together with true. On termination cell is returned
// unchanged with false; the wake is purely a shutdown notice and the cell
// contents must not be processed as payload.
func (h *Handoff[T]) Receive(cell *T) (*T, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.log.Debugf("%s: waiting for refreshed data", h.name)
	for !h.filled && !h.terminated {
		h.cond.Wait()
	}
	if h.terminated {
		h.log.Debugf("%s: terminated, receive returns without swap", h.name)

		return cell, false
	}
	h.log.Debugf("%s: new data arrived, swapping out", h.name)
	h.cell, cell = cell, h.cell
	h.available = true
	h.filled = false
	h.cond.Signal()

	return cell, true
}

// Terminate marks the buffer terminated and wakes all waiters. It is
// idempotent; subsequent Send and Receive calls return immediately without
// swapping.
func (h *Handoff[T]) Terminate() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.terminated {
		return
	}
	h.log.Debugf("%s: terminating, releasing all waiters", h.name)
	h.terminated = true
	h.cond.Broadcast()
}

// Terminated reports whether Terminate has been called.
func (h *Handoff[T]) Terminated() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.terminated
}
