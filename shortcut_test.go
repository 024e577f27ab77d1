package main

import (
	"errors"
	"testing"
)

func TestComposeShortcut(t *testing.T) {
	t.Parallel()

	tests := []struct {
		mods Modifiers
		key  string
		want string
	}{
		{Modifiers{}, "F5", "F5"},
		{Modifiers{Alt: true}, "F5", "Alt+F5"},
		{Modifiers{Shift: true, Alt: true}, "F5", "Alt+Shift+F5"},
		{Modifiers{Ctrl: true, Shift: true}, "Home", "Ctrl+Shift+Home"},
		{Modifiers{Alt: true, Ctrl: true, Shift: true}, "Space", "Alt+Ctrl+Shift+Space"},
	}
	for _, tt := range tests {
		if got := composeShortcut(tt.mods, tt.key); got != tt.want {
			t.Fatalf("composeShortcut(%+v, %q)=%q, want %q", tt.mods, tt.key, got, tt.want)
		}
	}
}

func TestNormalizeShortcut(t *testing.T) {
	t.Parallel()

	t.Run("canonical form", func(t *testing.T) {
		t.Parallel()

		tests := map[string]string{
			"Alt+F5":          "Alt+F5",
			"shift+alt+f5":    "Alt+Shift+F5",
			"Shift+Alt+F5":    "Alt+Shift+F5",
			"ctrl + home":     "Ctrl+Home",
			"Control+Shift+a": "Ctrl+Shift+A",
			"f1":              "F1",
			"alt+esc":         "Alt+Escape",
			"Ctrl+Numpad0":    "Ctrl+Numpad0",
		}
		for in, want := range tests {
			got, err := normalizeShortcut(in)
			if err != nil {
				t.Fatalf("normalizeShortcut(%q): %v", in, err)
			}
			if got != want {
				t.Fatalf("normalizeShortcut(%q)=%q, want %q", in, got, want)
			}
		}
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		t.Parallel()

		for _, in := range []string{"", "   ", "Alt+", "Alt+Alt+F5", "Win+F5", "Hyper+A", "Ctrl+F13", "Alt+Shift"} {
			_, err := normalizeShortcut(in)
			if !errors.Is(err, ErrInvalidShortcut) {
				t.Fatalf("normalizeShortcut(%q): expected ErrInvalidShortcut, got %v", in, err)
			}
		}
	})
}

func TestJoinShortcut(t *testing.T) {
	t.Parallel()

	if got := joinShortcut("ctrl+alt", "a"); got != "ctrl+alt+a" {
		t.Fatalf("got %q", got)
	}
	if got := joinShortcut("  ", "f1"); got != "f1" {
		t.Fatalf("got %q", got)
	}
}

func TestNextFreeShortcut(t *testing.T) {
	t.Parallel()

	got, err := nextFreeShortcut(nil)
	if err != nil || got != "Alt+F1" {
		t.Fatalf("nextFreeShortcut(nil)=(%q, %v), want Alt+F1", got, err)
	}

	got, err = nextFreeShortcut([]string{"Alt+F1", "Alt+F2", "Ctrl+F3", "Alt+F4"})
	if err != nil || got != "Alt+F3" {
		t.Fatalf("got (%q, %v), want Alt+F3", got, err)
	}

	var all []string
	for _, s := range []string{"F1", "F2", "F3", "F4", "F5", "F6", "F7", "F8", "F9", "F10", "F11", "F12"} {
		all = append(all, "Alt+"+s)
	}
	if _, err := nextFreeShortcut(all); err == nil {
		t.Fatalf("expected error when Alt+F1..F12 are taken")
	}
}
