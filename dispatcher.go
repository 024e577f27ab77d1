package main

import (
	"sync/atomic"

	"github.com/rs/zerolog"
)

// Keyboard message identifiers delivered in the hook's wParam.
const (
	wmKeyDown    = 0x0100
	wmKeyUp      = 0x0101
	wmSysKeyDown = 0x0104
	wmSysKeyUp   = 0x0105
)

const (
	hcAction      = 0
	llkhfInjected = 0x10
)

// KeyEvent is the validated, owned copy of the OS keyboard event record.
type KeyEvent struct {
	VKCode   uint32
	ScanCode uint32
	Flags    uint32
	Time     uint32
}

// Injected reports whether the event was synthesized by SendInput or keybd_event.
func (e KeyEvent) Injected() bool {
	return e.Flags&llkhfInjected != 0
}

// ModifierReader samples the physical state of Alt, Ctrl and Shift.
type ModifierReader interface {
	Modifiers() Modifiers
}

// Dispatcher turns raw keyboard events into shortcut lookups.
type Dispatcher struct {
	registry       *Registry
	mods           ModifierReader
	ignoreInjected bool
	log            zerolog.Logger

	// pressed tracks keys currently held so that auto-repeat key-downs are skipped.
	pressed [256]atomic.Bool
}

// NewDispatcher creates a dispatcher that looks shortcuts up in registry.
//
// Parameters:
//   - registry: Shared shortcut registry.
//   - mods: Modifier state reader, sampled on every key-down.
//   - ignoreInjected: Skip key-downs flagged as injected.
//   - log: Logger; only debug level is used on the hook path.
//
// Returns:
//   - *Dispatcher: A ready to use dispatcher.
func NewDispatcher(registry *Registry, mods ModifierReader, ignoreInjected bool, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		registry:       registry,
		mods:           mods,
		ignoreInjected: ignoreInjected,
		log:            log,
	}
}

// Dispatch handles one keyboard event and always hands it to next.
//
// Parameters:
//   - code: Hook code; negative values must be passed on untouched.
//   - msg: WM_KEYDOWN, WM_KEYUP, WM_SYSKEYDOWN or WM_SYSKEYUP.
//   - ev: The event record.
//   - next: Forwards the event to the next hook in the chain.
//
// Returns:
//   - uintptr: The value returned by next.
func (d *Dispatcher) Dispatch(code int32, msg uintptr, ev KeyEvent, next func() uintptr) (ret uintptr) {
	defer func() {
		if p := recover(); p != nil {
			d.log.Error().Interface("panic", p).Uint32("vk", ev.VKCode).Msg("Keyboard dispatch panicked, event forwarded")
		}
		ret = next()
	}()

	if code < hcAction {
		return
	}

	switch msg {
	case wmKeyDown, wmSysKeyDown:
	case wmKeyUp, wmSysKeyUp:
		d.release(ev.VKCode)
		return
	default:
		return
	}

	if !d.press(ev.VKCode) {
		return
	}
	if d.ignoreInjected && ev.Injected() {
		return
	}

	key, ok := keyName(ev.VKCode)
	if !ok {
		return
	}
	shortcut := composeShortcut(d.mods.Modifiers(), key)
	if d.registry.LookupAndInvoke(shortcut) {
		d.log.Debug().Str("shortcut", shortcut).Msg("Shortcut fired")
	}
	return
}

// Reset forgets the pressed state of every key.
func (d *Dispatcher) Reset() {
	for i := range d.pressed {
		d.pressed[i].Store(false)
	}
}

// press records vk as held and reports whether this is a fresh press.
func (d *Dispatcher) press(vk uint32) bool {
	if vk >= uint32(len(d.pressed)) {
		return true
	}
	return !d.pressed[vk].Swap(true)
}

func (d *Dispatcher) release(vk uint32) {
	if vk < uint32(len(d.pressed)) {
		d.pressed[vk].Store(false)
	}
}
