package main

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

func TestBus(t *testing.T) {
	t.Parallel()

	t.Run("publish never blocks", func(t *testing.T) {
		t.Parallel()

		bus := NewBus(2, zerolog.Nop())
		for i := 0; i < 2; i++ {
			if !bus.Publish(Event{Shortcut: "Alt+F5"}) {
				t.Fatalf("publish %d rejected", i)
			}
		}
		if bus.Publish(Event{Shortcut: "Alt+F5"}) {
			t.Fatalf("publish on full queue accepted")
		}
		if bus.Dropped() != 1 {
			t.Fatalf("expected 1 dropped event, got %d", bus.Dropped())
		}
	})

	t.Run("default size", func(t *testing.T) {
		t.Parallel()

		bus := NewBus(0, zerolog.Nop())
		if cap(bus.queue) != defaultQueueSize {
			t.Fatalf("expected queue size %d, got %d", defaultQueueSize, cap(bus.queue))
		}
	})

	t.Run("run survives panicking handler", func(t *testing.T) {
		t.Parallel()

		bus := NewBus(4, zerolog.Nop())
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		got := make(chan string, 4)
		done := make(chan struct{})
		go func() {
			defer close(done)
			bus.Run(ctx, func(_ context.Context, ev Event) {
				if ev.Shortcut == "boom" {
					panic("handler failed")
				}
				got <- ev.Shortcut
			})
		}()

		bus.Publish(Event{Shortcut: "boom"})
		bus.Publish(Event{Shortcut: "Alt+F5"})

		select {
		case s := <-got:
			if s != "Alt+F5" {
				t.Fatalf("unexpected event %q", s)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("handler not called after a panicking one")
		}

		cancel()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatalf("Run did not return after cancel")
		}
	})
}

func TestPublisher(t *testing.T) {
	t.Parallel()

	bus := NewBus(1, zerolog.Nop())
	cb := bus.publisher(Hotkey{
		Shortcut: "Alt+F5",
		Kind:     EventShortcutTriggered,
		Event:    "timer-1",
		Action:   []string{"notepad.exe"},
	})
	cb()

	ev := <-bus.queue
	if ev.ID == uuid.Nil {
		t.Fatalf("event has no id")
	}
	if ev.Kind != EventShortcutTriggered || ev.Shortcut != "Alt+F5" || ev.Target != "timer-1" {
		t.Fatalf("unexpected event %+v", ev)
	}
	if len(ev.Action) != 1 || ev.Action[0] != "notepad.exe" {
		t.Fatalf("unexpected action %v", ev.Action)
	}
	if ev.Time.IsZero() {
		t.Fatalf("event has no time")
	}
}
