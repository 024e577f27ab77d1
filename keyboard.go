package main

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// Mode describes how registered shortcuts are currently delivered.
type Mode int

const (
	// ModeStopped means Start has not been called, or Stop has run.
	ModeStopped Mode = iota
	// ModeHook delivers shortcuts through the low-level keyboard hook.
	ModeHook
	// ModeFallback delivers shortcuts through RegisterHotKey.
	ModeFallback
	// ModeInert keeps shortcuts registered but nothing fires them.
	ModeInert
)

func (m Mode) String() string {
	switch m {
	case ModeHook:
		return "hook"
	case ModeFallback:
		return "fallback"
	case ModeInert:
		return "inert"
	default:
		return "stopped"
	}
}

// KeyboardOptions configures a Keyboard.
type KeyboardOptions struct {
	Registry       *Registry
	Hook           Hook
	Modifiers      ModifierReader
	Fallback       fallbackBinder // optional
	IgnoreInjected bool
	Logger         zerolog.Logger
}

// Keyboard is the entry point used by the rest of the application: it owns the
// hook handle and exposes shortcut registration.
type Keyboard struct {
	registry   *Registry
	dispatcher *Dispatcher
	hook       Hook
	fallback   fallbackBinder
	log        zerolog.Logger

	mu     sync.Mutex
	handle HookHandle
	mode   Mode
}

// NewKeyboard wires a dispatcher between opts.Hook and opts.Registry.
func NewKeyboard(opts KeyboardOptions) *Keyboard {
	return &Keyboard{
		registry:   opts.Registry,
		dispatcher: NewDispatcher(opts.Registry, opts.Modifiers, opts.IgnoreInjected, opts.Logger),
		hook:       opts.Hook,
		fallback:   opts.Fallback,
		log:        opts.Logger,
	}
}

// Start installs the low-level hook. If that is impossible the keyboard falls
// back to RegisterHotKey where available, or stays inert.
//
// Returns:
//   - error: nil in hook mode; otherwise wraps ErrUnsupported or ErrInstall. Callers
//     log it and carry on: shortcuts still work in fallback mode.
func (k *Keyboard) Start() error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.mode != ModeStopped {
		return nil
	}

	handle, err := k.hook.Install(k.dispatcher)
	if err == nil && !k.hook.Supported() {
		err = ErrUnsupported
	}
	if err == nil {
		k.handle = handle
		k.mode = ModeHook
		return nil
	}
	if errors.Is(err, ErrAlreadyInstalled) {
		return err
	}

	if k.fallback == nil {
		k.mode = ModeInert
		k.log.Warn().Err(err).Msg("Global shortcuts unavailable on this platform, registrations are inert")
		return err
	}

	k.mode = ModeFallback
	k.log.Warn().Err(err).Str("fallback", k.fallback.Name()).Msg("Low-level keyboard hook unavailable, falling back")
	for _, shortcut := range k.registry.Shortcuts() {
		if bindErr := k.fallback.Bind(shortcut); bindErr != nil {
			k.log.Error().Err(bindErr).Str("shortcut", shortcut).Msg("Fallback could not bind shortcut")
		}
	}
	return err
}

// Stop removes the hook or fallback bindings. Registrations are kept.
func (k *Keyboard) Stop() error {
	k.mu.Lock()
	defer k.mu.Unlock()

	var err error
	switch k.mode {
	case ModeHook:
		err = k.hook.Uninstall(k.handle)
		k.handle = 0
	case ModeFallback:
		k.fallback.UnbindAll()
	}
	k.mode = ModeStopped
	return err
}

// RegisterShortcut binds onFire to shortcut. The shortcut is normalized first, so
// "shift+alt+f5" and "Alt+Shift+F5" are the same binding. A later registration
// of the same shortcut replaces the earlier one.
//
// Parameters:
//   - shortcut: Shortcut string, [Alt+][Ctrl+][Shift+]Key.
//   - onFire: Called on the hook thread; must hand off and return.
//
// Returns:
//   - error: Wraps ErrInvalidShortcut, ErrNilCallback or ErrPoisoned.
func (k *Keyboard) RegisterShortcut(shortcut string, onFire Callback) error {
	canonical, err := normalizeShortcut(shortcut)
	if err != nil {
		return err
	}
	if err := k.registry.Register(canonical, onFire); err != nil {
		return err
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	if k.mode == ModeFallback {
		if err := k.fallback.Bind(canonical); err != nil {
			return fmt.Errorf("fallback bind: %w", err)
		}
	}
	return nil
}

// UnregisterAllShortcuts clears every registration. It always succeeds.
func (k *Keyboard) UnregisterAllShortcuts() error {
	k.mu.Lock()
	if k.mode == ModeFallback {
		k.fallback.UnbindAll()
	}
	k.mu.Unlock()
	return k.registry.UnregisterAll()
}

// Mode reports how shortcuts are currently delivered.
func (k *Keyboard) Mode() Mode {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.mode
}
