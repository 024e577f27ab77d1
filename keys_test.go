package main

import (
	"fmt"
	"testing"
)

func TestKeyName(t *testing.T) {
	t.Parallel()

	t.Run("documented ranges", func(t *testing.T) {
		t.Parallel()

		want := map[uint32]string{
			0x08: "Backspace",
			0x09: "Tab",
			0x0D: "Enter",
			0x1B: "Escape",
			0x20: "Space",
			0x21: "PageUp",
			0x22: "PageDown",
			0x23: "End",
			0x24: "Home",
			0x25: "ArrowLeft",
			0x26: "ArrowUp",
			0x27: "ArrowRight",
			0x28: "ArrowDown",
			0x2D: "Insert",
			0x2E: "Delete",
		}
		for vk := uint32(0x30); vk <= 0x39; vk++ {
			want[vk] = string(rune('0' + vk - 0x30))
		}
		for vk := uint32(0x41); vk <= 0x5A; vk++ {
			want[vk] = string(rune('A' + vk - 0x41))
		}
		for vk := uint32(0x60); vk <= 0x69; vk++ {
			want[vk] = fmt.Sprintf("Numpad%d", vk-0x60)
		}
		for vk := uint32(0x70); vk <= 0x7B; vk++ {
			want[vk] = fmt.Sprintf("F%d", vk-0x70+1)
		}

		for vk := uint32(0); vk <= 0x1FF; vk++ {
			got, ok := keyName(vk)
			exp, mapped := want[vk]
			if ok != mapped {
				t.Fatalf("keyName(0x%02X): mapped=%v, want %v", vk, ok, mapped)
			}
			if got != exp {
				t.Fatalf("keyName(0x%02X)=%q, want %q", vk, got, exp)
			}
		}
	})

	t.Run("modifiers have no mapping", func(t *testing.T) {
		t.Parallel()

		for _, vk := range []uint32{vkShift, vkControl, vkMenu, 0xA0, 0xA2, 0xA4, 0x5B} {
			if name, ok := keyName(vk); ok {
				t.Fatalf("keyName(0x%02X)=%q, want no mapping", vk, name)
			}
		}
	})
}

func TestKeyCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		vk   uint32
		name string
	}{
		{"a", 0x41, "A"},
		{"Z", 0x5A, "Z"},
		{"7", 0x37, "7"},
		{"f5", 0x74, "F5"},
		{"F12", 0x7B, "F12"},
		{"numpad3", 0x63, "Numpad3"},
		{"HOME", 0x24, "Home"},
		{" space ", 0x20, "Space"},
		{"esc", 0x1B, "Escape"},
		{"return", 0x0D, "Enter"},
		{"pgdn", 0x22, "PageDown"},
		{"up", 0x26, "ArrowUp"},
		{"arrowleft", 0x25, "ArrowLeft"},
	}
	for _, tt := range tests {
		vk, name, ok := keyCode(tt.in)
		if !ok {
			t.Fatalf("keyCode(%q): not found", tt.in)
		}
		if vk != tt.vk || name != tt.name {
			t.Fatalf("keyCode(%q)=(0x%02X, %q), want (0x%02X, %q)", tt.in, vk, name, tt.vk, tt.name)
		}
	}

	for _, in := range []string{"", "F13", "win", "shift", "definitely-not-a-key"} {
		if _, _, ok := keyCode(in); ok {
			t.Fatalf("keyCode(%q): expected no mapping", in)
		}
	}
}
