package singleton

import (
	"sync"
	"sync/atomic"
)

// Holder owns at most one *T for its whole lifetime.
//
// The zero value is ready to use. A Holder must not be copied after first use.
//
// State moves Uninitialized -> Initialized exactly once; there is no way back.
type Holder[T any] struct {
	mu  sync.Mutex
	val atomic.Pointer[T]
}

// New returns a fresh, uninitialized Holder.
func New[T any]() *Holder[T] {
	return &Holder[T]{}
}

// Get returns the held value, constructing it with ctor on the first call.
//
// Once initialized, ctor is ignored: later callers observe the first instance
// regardless of what they pass. If ctor is nil, returns nil, or panics, the
// holder stays uninitialized and the next Get tries again (the panic is
// re-raised to the caller).
func (h *Holder[T]) Get(ctor func() *T) *T {
	if v := h.val.Load(); v != nil {
		return v
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	// Another caller may have won while we waited.
	if v := h.val.Load(); v != nil {
		return v
	}
	if ctor == nil {
		return nil
	}

	v := ctor()
	if v == nil {
		return nil
	}
	h.val.Store(v)
	return v
}

// Load returns the held value without constructing it.
func (h *Holder[T]) Load() (*T, bool) {
	v := h.val.Load()
	return v, v != nil
}

// Initialized reports whether a value has been stored.
func (h *Holder[T]) Initialized() bool {
	return h.val.Load() != nil
}
