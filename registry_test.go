package main

import (
	"errors"
	"slices"
	"sync"
	"testing"

	"github.com/rs/zerolog"
)

func TestRegistry(t *testing.T) {
	t.Parallel()

	t.Run("last registration wins", func(t *testing.T) {
		t.Parallel()

		r := NewRegistry(zerolog.Nop())
		var first, second int
		if err := r.Register("Alt+F5", func() { first++ }); err != nil {
			t.Fatalf("register: %v", err)
		}
		if err := r.Register("Alt+F5", func() { second++ }); err != nil {
			t.Fatalf("register: %v", err)
		}
		if !r.LookupAndInvoke("Alt+F5") {
			t.Fatalf("expected Alt+F5 to fire")
		}
		if first != 0 || second != 1 {
			t.Fatalf("first=%d second=%d, want 0 and 1", first, second)
		}
		if r.Len() != 1 {
			t.Fatalf("expected 1 registration, got %d", r.Len())
		}
	})

	t.Run("unknown shortcut does nothing", func(t *testing.T) {
		t.Parallel()

		r := NewRegistry(zerolog.Nop())
		if r.LookupAndInvoke("Alt+F5") {
			t.Fatalf("empty registry fired")
		}
	})

	t.Run("unregister all", func(t *testing.T) {
		t.Parallel()

		r := NewRegistry(zerolog.Nop())
		var fired int
		_ = r.Register("Alt+F5", func() { fired++ })
		_ = r.Register("Ctrl+Home", func() { fired++ })

		if err := r.UnregisterAll(); err != nil {
			t.Fatalf("unregister all: %v", err)
		}
		if err := r.UnregisterAll(); err != nil {
			t.Fatalf("second unregister all: %v", err)
		}
		if r.LookupAndInvoke("Alt+F5") || r.LookupAndInvoke("Ctrl+Home") {
			t.Fatalf("callback fired after UnregisterAll")
		}
		if fired != 0 || r.Len() != 0 {
			t.Fatalf("fired=%d len=%d", fired, r.Len())
		}
	})

	t.Run("rejects nil callback", func(t *testing.T) {
		t.Parallel()

		r := NewRegistry(zerolog.Nop())
		if err := r.Register("Alt+F5", nil); !errors.Is(err, ErrNilCallback) {
			t.Fatalf("expected ErrNilCallback, got %v", err)
		}
	})

	t.Run("panicking callback poisons", func(t *testing.T) {
		t.Parallel()

		r := NewRegistry(zerolog.Nop())
		var fired int
		_ = r.Register("Alt+F5", func() { panic("boom") })
		_ = r.Register("Alt+F6", func() { fired++ })

		if r.LookupAndInvoke("Alt+F5") {
			t.Fatalf("panicking callback reported as fired")
		}
		if !r.Poisoned() {
			t.Fatalf("expected registry to be poisoned")
		}
		if r.LookupAndInvoke("Alt+F6") || fired != 0 {
			t.Fatalf("poisoned registry still fires")
		}
		if err := r.Register("Alt+F7", func() {}); !errors.Is(err, ErrPoisoned) {
			t.Fatalf("expected ErrPoisoned, got %v", err)
		}
		if err := r.UnregisterAll(); err != nil {
			t.Fatalf("unregister all on poisoned registry: %v", err)
		}
	})

	t.Run("shortcuts sorted", func(t *testing.T) {
		t.Parallel()

		r := NewRegistry(zerolog.Nop())
		for _, s := range []string{"Ctrl+Home", "Alt+F5", "F1"} {
			_ = r.Register(s, func() {})
		}
		want := []string{"Alt+F5", "Ctrl+Home", "F1"}
		if got := r.Shortcuts(); !slices.Equal(got, want) {
			t.Fatalf("Shortcuts()=%v, want %v", got, want)
		}
	})

	t.Run("concurrent register and lookup", func(t *testing.T) {
		t.Parallel()

		r := NewRegistry(zerolog.Nop())
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(2)
			go func() {
				defer wg.Done()
				for j := 0; j < 200; j++ {
					_ = r.Register("Alt+F5", func() {})
				}
			}()
			go func() {
				defer wg.Done()
				for j := 0; j < 200; j++ {
					r.LookupAndInvoke("Alt+F5")
				}
			}()
		}
		wg.Wait()
		if r.Poisoned() {
			t.Fatalf("registry poisoned without a panic")
		}
	})
}
