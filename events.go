package main

import (
	"context"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Event kinds published to subscribers.
const (
	EventShortcutTriggered = "shortcut-triggered"
	EventResetAllTimers    = "reset-all-timers"
)

const defaultQueueSize = 64

// Event is emitted when a shortcut fires.
type Event struct {
	ID       uuid.UUID `json:"id"`
	Kind     string    `json:"kind"`
	Shortcut string    `json:"shortcut"`
	Target   string    `json:"target,omitempty"`
	Time     time.Time `json:"time"`

	// Action is the command configured for the binding; it never leaves the process.
	Action []string `json:"-"`
}

// Bus moves events off the hook thread. Publish never blocks.
type Bus struct {
	queue   chan Event
	dropped atomic.Uint64
	log     zerolog.Logger
}

// NewBus creates a bus holding up to size pending events.
func NewBus(size int, log zerolog.Logger) *Bus {
	if size <= 0 {
		size = defaultQueueSize
	}
	return &Bus{
		queue: make(chan Event, size),
		log:   log,
	}
}

// Publish enqueues ev and reports whether it was accepted. A full queue drops the event.
func (b *Bus) Publish(ev Event) bool {
	select {
	case b.queue <- ev:
		return true
	default:
		n := b.dropped.Add(1)
		b.log.Warn().Str("shortcut", ev.Shortcut).Uint64("dropped", n).Msg("Event queue full, shortcut dropped")
		return false
	}
}

// Dropped returns the number of events lost to a full queue.
func (b *Bus) Dropped() uint64 {
	return b.dropped.Load()
}

// Run hands queued events to handle until ctx is cancelled. A panicking handler
// is logged and the loop continues with the next event.
func (b *Bus) Run(ctx context.Context, handle func(context.Context, Event)) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-b.queue:
			b.handle(ctx, ev, handle)
		}
	}
}

func (b *Bus) handle(ctx context.Context, ev Event, handle func(context.Context, Event)) {
	defer func() {
		if p := recover(); p != nil {
			b.log.Error().
				Interface("panic", p).
				Str("stack", string(debug.Stack())).
				Str("shortcut", ev.Shortcut).
				Msg("Event handler panicked")
		}
	}()
	handle(ctx, ev)
}

// publisher returns the callback registered for a binding: it stamps a new
// event and publishes it without blocking the hook thread.
func (b *Bus) publisher(hk Hotkey) Callback {
	return func() {
		b.Publish(Event{
			ID:       uuid.New(),
			Kind:     hk.Kind,
			Shortcut: hk.Shortcut,
			Target:   hk.Event,
			Time:     time.Now(),
			Action:   hk.Action,
		})
	}
}
