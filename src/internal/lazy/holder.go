// FILE: svckit/src/internal/lazy/holder.go
package lazy

import "sync"

// Holder keeps one lazily built value behind a mutex.
// The value is built on first Get, replaced wholesale by Set or Reload, and never
// partially visible: readers see either the previous value or the fully built new one.
type Holder[T any] struct {
	mu     sync.RWMutex
	init   func() (T, error)
	value  T
	loaded bool
}

// New creates a holder that builds its value with init.
func New[T any](init func() (T, error)) *Holder[T] {
	return &Holder[T]{init: init}
}

// Get returns the held value, building it first if the holder is empty.
// A failed build is not cached, the next Get retries.
func (h *Holder[T]) Get() (T, error) {
	h.mu.RLock()
	if h.loaded {
		v := h.value
		h.mu.RUnlock()
		return v, nil
	}
	h.mu.RUnlock()

	h.mu.Lock()
	defer h.mu.Unlock()

	// Another caller may have built it between the locks
	if h.loaded {
		return h.value, nil
	}

	v, err := h.init()
	if err != nil {
		var zero T
		return zero, err
	}
	h.value = v
	h.loaded = true
	return v, nil
}

// Reload rebuilds the value and swaps it in only if the build succeeds.
func (h *Holder[T]) Reload() (T, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	v, err := h.init()
	if err != nil {
		var zero T
		return zero, err
	}
	h.value = v
	h.loaded = true
	return v, nil
}

// Set replaces the held value.
func (h *Holder[T]) Set(v T) {
	h.mu.Lock()
	h.value = v
	h.loaded = true
	h.mu.Unlock()
}

// SetInit replaces the build function. The held value is kept until the next Reload or Reset.
func (h *Holder[T]) SetInit(init func() (T, error)) {
	h.mu.Lock()
	h.init = init
	h.mu.Unlock()
}

// Reset drops the held value so the next Get builds it again.
func (h *Holder[T]) Reset() {
	h.mu.Lock()
	var zero T
	h.value = zero
	h.loaded = false
	h.mu.Unlock()
}

// Loaded reports whether a value is held.
func (h *Holder[T]) Loaded() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.loaded
}
