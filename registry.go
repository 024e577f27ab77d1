package main

import (
	"errors"
	"fmt"
	"runtime/debug"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
)

var (
	// ErrPoisoned is returned once a callback has panicked while the registry lock was held.
	// No shortcut fires after that point.
	ErrPoisoned = errors.New("shortcut registry poisoned by a panicking callback")

	// ErrNilCallback is returned when registering a shortcut without a callback.
	ErrNilCallback = errors.New("shortcut callback is nil")
)

// Callback is invoked on the hook thread when its shortcut fires. It must return
// immediately: hand work off, never block.
type Callback func()

// Registry maps canonical shortcut strings to callbacks.
//
// The dispatcher invokes callbacks while holding the read lock, so a callback
// must not call Register or UnregisterAll.
type Registry struct {
	log zerolog.Logger

	mu        sync.RWMutex
	callbacks map[string]Callback

	poisoned atomic.Bool
}

// NewRegistry returns an empty registry.
func NewRegistry(log zerolog.Logger) *Registry {
	return &Registry{
		log:       log,
		callbacks: make(map[string]Callback),
	}
}

// Register binds cb to shortcut, replacing any previous callback for the same string.
func (r *Registry) Register(shortcut string, cb Callback) error {
	if cb == nil {
		return fmt.Errorf("register %s: %w", shortcut, ErrNilCallback)
	}
	if r.poisoned.Load() {
		r.log.Error().Str("shortcut", shortcut).Msg("Refusing registration: shortcut registry is poisoned, no hotkeys will fire")
		return fmt.Errorf("register %s: %w", shortcut, ErrPoisoned)
	}

	r.mu.Lock()
	_, replaced := r.callbacks[shortcut]
	r.callbacks[shortcut] = cb
	r.mu.Unlock()

	r.log.Debug().Str("shortcut", shortcut).Bool("replaced", replaced).Msg("Registered shortcut")
	return nil
}

// UnregisterAll removes every binding. It is idempotent and never fails.
func (r *Registry) UnregisterAll() error {
	r.mu.Lock()
	n := len(r.callbacks)
	clear(r.callbacks)
	r.mu.Unlock()

	r.log.Debug().Int("count", n).Msg("Unregistered all shortcuts")
	return nil
}

// LookupAndInvoke runs the callback bound to shortcut, if any, under the read lock.
//
// Parameters:
//   - shortcut: Canonical shortcut string composed from the current key event.
//
// Returns:
//   - bool: True if a callback ran to completion.
func (r *Registry) LookupAndInvoke(shortcut string) (fired bool) {
	if r.poisoned.Load() {
		return false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	cb, ok := r.callbacks[shortcut]
	if !ok {
		return false
	}

	defer func() {
		if p := recover(); p != nil {
			r.poison(shortcut, p)
		}
	}()
	cb()
	return true
}

// Shortcuts returns the registered shortcut strings in sorted order.
func (r *Registry) Shortcuts() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.callbacks))
	for s := range r.callbacks {
		out = append(out, s)
	}
	slices.Sort(out)
	return out
}

// Len returns the number of registered shortcuts.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.callbacks)
}

// Poisoned reports whether a callback panic has disabled the registry.
func (r *Registry) Poisoned() bool {
	return r.poisoned.Load()
}

func (r *Registry) poison(shortcut string, p any) {
	r.poisoned.Store(true)
	r.log.Error().
		Str("shortcut", shortcut).
		Interface("panic", p).
		Str("stack", string(debug.Stack())).
		Msg("Shortcut callback panicked: registry poisoned, global hotkeys are disabled until restart")
}
