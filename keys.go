package main

import (
	"fmt"
	"strings"
)

// Windows virtual-key codes used by the translator and the dispatcher.
const (
	vkBack    = 0x08
	vkTab     = 0x09
	vkReturn  = 0x0D
	vkShift   = 0x10
	vkControl = 0x11
	vkMenu    = 0x12
	vkEscape  = 0x1B
	vkSpace   = 0x20
	vkPrior   = 0x21
	vkNext    = 0x22
	vkEnd     = 0x23
	vkHome    = 0x24
	vkLeft    = 0x25
	vkUp      = 0x26
	vkRight   = 0x27
	vkDown    = 0x28
	vkInsert  = 0x2D
	vkDelete  = 0x2E
	vk0       = 0x30
	vk9       = 0x39
	vkA       = 0x41
	vkZ       = 0x5A
	vkNumpad0 = 0x60
	vkNumpad9 = 0x69
	vkF1      = 0x70
	vkF12     = 0x7B
)

var namedKeys = map[uint32]string{
	vkSpace:  "Space",
	vkReturn: "Enter",
	vkTab:    "Tab",
	vkEscape: "Escape",
	vkBack:   "Backspace",
	vkDelete: "Delete",
	vkInsert: "Insert",
	vkHome:   "Home",
	vkEnd:    "End",
	vkPrior:  "PageUp",
	vkNext:   "PageDown",
	vkUp:     "ArrowUp",
	vkDown:   "ArrowDown",
	vkLeft:   "ArrowLeft",
	vkRight:  "ArrowRight",
}

// keyAliases are accepted when parsing shortcuts but never produced by keyName.
var keyAliases = map[string]uint32{
	"return": vkReturn,
	"esc":    vkEscape,
	"del":    vkDelete,
	"ins":    vkInsert,
	"pgup":   vkPrior,
	"pgdn":   vkNext,
	"up":     vkUp,
	"down":   vkDown,
	"left":   vkLeft,
	"right":  vkRight,
}

// keyCodes maps lower-cased canonical key names back to virtual-key codes.
var keyCodes = buildKeyCodes()

// keyName maps a virtual-key code to its canonical key name.
//
// Parameters:
//   - vk: Virtual-key code as reported by the keyboard hook.
//
// Returns:
//   - string: Canonical key name (e.g. "A", "F5", "Numpad3", "PageUp").
//   - bool: False if the key never takes part in a shortcut.
func keyName(vk uint32) (string, bool) {
	switch {
	case vk >= vk0 && vk <= vk9:
		return string(rune('0' + vk - vk0)), true
	case vk >= vkA && vk <= vkZ:
		return string(rune('A' + vk - vkA)), true
	case vk >= vkF1 && vk <= vkF12:
		return fmt.Sprintf("F%d", vk-vkF1+1), true
	case vk >= vkNumpad0 && vk <= vkNumpad9:
		return fmt.Sprintf("Numpad%d", vk-vkNumpad0), true
	}
	name, ok := namedKeys[vk]
	return name, ok
}

// keyCode maps a key name (case-insensitive, aliases allowed) to its virtual-key code
// and canonical name.
//
// Parameters:
//   - name: Key token such as "f5", "Home" or "esc".
//
// Returns:
//   - uint32: Virtual-key code.
//   - string: Canonical key name as produced by keyName.
//   - bool: False if the name is not part of the key vocabulary.
func keyCode(name string) (uint32, string, bool) {
	s := strings.ToLower(strings.TrimSpace(name))
	vk, ok := keyCodes[s]
	if !ok {
		vk, ok = keyAliases[s]
	}
	if !ok {
		return 0, "", false
	}
	canonical, _ := keyName(vk)
	return vk, canonical, true
}

func buildKeyCodes() map[string]uint32 {
	m := make(map[string]uint32, 80)
	for vk := uint32(0); vk <= 0xFF; vk++ {
		if name, ok := keyName(vk); ok {
			m[strings.ToLower(name)] = vk
		}
	}
	return m
}
