//go:build windows

package main

// asyncModifiers samples modifier keys with GetAsyncKeyState. The low-level
// hook record does not carry modifier state, so it is read on every key-down.
type asyncModifiers struct{}

func (asyncModifiers) Modifiers() Modifiers {
	return Modifiers{
		Alt:   keyIsDown(vkMenu),
		Ctrl:  keyIsDown(vkControl),
		Shift: keyIsDown(vkShift),
	}
}

// keyIsDown reports whether the high-order bit of GetAsyncKeyState is set for vk.
func keyIsDown(vk uintptr) bool {
	r, _, _ := procGetAsyncKeyState.Call(vk)
	return uint16(r)&0x8000 != 0
}
