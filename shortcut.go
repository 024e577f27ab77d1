package main

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrInvalidShortcut is returned when a shortcut string does not follow the
// [Alt+][Ctrl+][Shift+]Key grammar.
var ErrInvalidShortcut = errors.New("invalid shortcut")

// Modifiers is a snapshot of the modifier keys taking part in a shortcut.
type Modifiers struct {
	Alt   bool
	Ctrl  bool
	Shift bool
}

// composeShortcut renders modifiers and a key name in canonical order: Alt, Ctrl, Shift, key.
//
// Parameters:
//   - mods: Modifier state.
//   - key: Canonical key name as returned by keyName.
//
// Returns:
//   - string: Canonical shortcut string, e.g. "Alt+Shift+F5".
func composeShortcut(mods Modifiers, key string) string {
	var b strings.Builder
	b.Grow(len(key) + len("Alt+Ctrl+Shift+"))
	if mods.Alt {
		b.WriteString("Alt+")
	}
	if mods.Ctrl {
		b.WriteString("Ctrl+")
	}
	if mods.Shift {
		b.WriteString("Shift+")
	}
	b.WriteString(key)
	return b.String()
}

// normalizeShortcut parses a user supplied shortcut ("shift+alt+f5", "Ctrl + Home")
// into its canonical string ("Alt+Shift+F5", "Ctrl+Home").
//
// Parameters:
//   - s: '+' separated modifiers followed by exactly one key.
//
// Returns:
//   - string: The canonical shortcut string.
//   - error: Wraps ErrInvalidShortcut on empty input, unknown or repeated modifiers, or unknown keys.
func normalizeShortcut(s string) (string, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidShortcut)
	}
	parts := strings.Split(raw, "+")

	keyToken := strings.TrimSpace(parts[len(parts)-1])
	if keyToken == "" {
		return "", fmt.Errorf("%w: missing key in %q", ErrInvalidShortcut, raw)
	}
	_, key, ok := keyCode(keyToken)
	if !ok {
		return "", fmt.Errorf("%w: unknown key %q in %q", ErrInvalidShortcut, keyToken, raw)
	}

	var mods Modifiers
	for _, p := range parts[:len(parts)-1] {
		var seen bool
		switch strings.ToLower(strings.TrimSpace(p)) {
		case "alt":
			seen, mods.Alt = mods.Alt, true
		case "ctrl", "control":
			seen, mods.Ctrl = mods.Ctrl, true
		case "shift":
			seen, mods.Shift = mods.Shift, true
		default:
			return "", fmt.Errorf("%w: unknown modifier %q in %q", ErrInvalidShortcut, p, raw)
		}
		if seen {
			return "", fmt.Errorf("%w: modifier %q repeated in %q", ErrInvalidShortcut, p, raw)
		}
	}
	return composeShortcut(mods, key), nil
}

// joinShortcut builds a shortcut string from the separate modifiers and key
// fields of a config binding.
func joinShortcut(modifiers, key string) string {
	modifiers = strings.TrimSpace(modifiers)
	if modifiers == "" {
		return key
	}
	return modifiers + "+" + key
}

// nextFreeShortcut returns the first Alt+F1..Alt+F12 shortcut not present in used.
//
// Parameters:
//   - used: Canonical shortcut strings already bound.
//
// Returns:
//   - string: A free shortcut.
//   - error: Non-nil if Alt+F1 through Alt+F12 are all taken.
func nextFreeShortcut(used []string) (string, error) {
	for n := 1; n <= 12; n++ {
		candidate := fmt.Sprintf("Alt+F%d", n)
		if !slices.Contains(used, candidate) {
			return candidate, nil
		}
	}
	return "", errors.New("no available Alt+F* shortcuts (F1-F12 all in use)")
}
