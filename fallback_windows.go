//go:build windows

package main

import (
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.design/x/hotkey"
)

// hotkeyFallback registers shortcuts with RegisterHotKey through golang.design/x/hotkey.
// Unlike the hook it consumes the key-down and cannot claim keys owned by other applications.
type hotkeyFallback struct {
	registry *Registry
	log      zerolog.Logger

	mu    sync.Mutex
	bound map[string]*boundHotkey
}

type boundHotkey struct {
	hk     *hotkey.Hotkey
	stopCh chan struct{}
}

func newFallback(registry *Registry, log zerolog.Logger) fallbackBinder {
	return &hotkeyFallback{
		registry: registry,
		log:      log,
		bound:    make(map[string]*boundHotkey),
	}
}

func (f *hotkeyFallback) Name() string {
	return "RegisterHotKey"
}

// Bind registers shortcut once; later registrations of the same string are
// picked up through the registry lookup.
func (f *hotkeyFallback) Bind(shortcut string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.bound[shortcut]; ok {
		return nil
	}

	mods, key, err := fallbackChord(shortcut)
	if err != nil {
		return err
	}
	hk := hotkey.New(mods, key)
	if err := hk.Register(); err != nil {
		return fmt.Errorf("RegisterHotKey %s: %w", shortcut, err)
	}

	b := &boundHotkey{hk: hk, stopCh: make(chan struct{})}
	f.bound[shortcut] = b
	go f.listen(shortcut, b)

	f.log.Debug().Str("shortcut", shortcut).Msg("Bound shortcut through fallback")
	return nil
}

func (f *hotkeyFallback) listen(shortcut string, b *boundHotkey) {
	for {
		select {
		case <-b.stopCh:
			return
		case _, ok := <-b.hk.Keydown():
			if !ok {
				return
			}
			f.registry.LookupAndInvoke(shortcut)
		}
	}
}

func (f *hotkeyFallback) UnbindAll() {
	f.mu.Lock()
	defer f.mu.Unlock()

	for shortcut, b := range f.bound {
		close(b.stopCh)
		if err := b.hk.Unregister(); err != nil {
			f.log.Warn().Err(err).Str("shortcut", shortcut).Msg("UnregisterHotKey failed")
		}
	}
	clear(f.bound)
}

// fallbackChord converts a canonical shortcut string into hotkey modifiers and key.
func fallbackChord(shortcut string) ([]hotkey.Modifier, hotkey.Key, error) {
	parts := strings.Split(shortcut, "+")
	vk, _, ok := keyCode(parts[len(parts)-1])
	if !ok {
		return nil, 0, fmt.Errorf("%w: %q", ErrInvalidShortcut, shortcut)
	}

	var mods []hotkey.Modifier
	for _, p := range parts[:len(parts)-1] {
		switch p {
		case "Alt":
			mods = append(mods, hotkey.ModAlt)
		case "Ctrl":
			mods = append(mods, hotkey.ModCtrl)
		case "Shift":
			mods = append(mods, hotkey.ModShift)
		default:
			return nil, 0, fmt.Errorf("%w: modifier %q in %q", ErrInvalidShortcut, p, shortcut)
		}
	}
	return mods, hotkey.Key(vk), nil
}
