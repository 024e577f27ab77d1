//go:build windows

package main

import (
	"errors"
	"fmt"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32   = windows.NewLazySystemDLL("user32.dll")
	kernel32 = windows.NewLazySystemDLL("kernel32.dll")

	procSetWindowsHookExW   = user32.NewProc("SetWindowsHookExW")
	procUnhookWindowsHookEx = user32.NewProc("UnhookWindowsHookEx")
	procCallNextHookEx      = user32.NewProc("CallNextHookEx")
	procGetAsyncKeyState    = user32.NewProc("GetAsyncKeyState")

	procGetMessageW        = user32.NewProc("GetMessageW")
	procPeekMessageW       = user32.NewProc("PeekMessageW")
	procTranslateMessage   = user32.NewProc("TranslateMessage")
	procDispatchMessageW   = user32.NewProc("DispatchMessageW")
	procPostThreadMessageW = user32.NewProc("PostThreadMessageW")

	procGetModuleHandleW = kernel32.NewProc("GetModuleHandleW")
)

const (
	whKeyboardLL = 13
	wmQuit       = 0x0012
	pmNoRemove   = 0x0000
)

// MSG mirrors the Win32 MSG struct. Layout must match winuser.h on 32 and 64 bit.
type MSG struct {
	HWnd     uintptr
	Message  uint32
	WParam   uintptr
	LParam   uintptr
	Time     uint32
	Pt       struct{ X, Y int32 }
	LPrivate uint32
}

// KBDLLHOOKSTRUCT mirrors the record passed by the OS in a WH_KEYBOARD_LL lParam.
type KBDLLHOOKSTRUCT struct {
	VkCode      uint32
	ScanCode    uint32
	Flags       uint32
	Time        uint32
	DwExtraInfo uintptr
}

// keyEventFromLParam copies the OS record behind lParam into an owned KeyEvent.
// This is the only place the raw pointer is dereferenced.
//
// Parameters:
//   - lParam: Pointer to a KBDLLHOOKSTRUCT, valid only for the duration of the hook call.
//
// Returns:
//   - KeyEvent: The copied event.
//   - bool: False if lParam is nil.
func keyEventFromLParam(lParam uintptr) (KeyEvent, bool) {
	if lParam == 0 {
		return KeyEvent{}, false
	}
	kb := (*KBDLLHOOKSTRUCT)(unsafe.Pointer(lParam))
	return KeyEvent{
		VKCode:   kb.VkCode,
		ScanCode: kb.ScanCode,
		Flags:    kb.Flags,
		Time:     kb.Time,
	}, true
}

// setWindowsHook installs proc as a WH_KEYBOARD_LL hook owned by the current module.
//
// Parameters:
//   - proc: Callback pointer obtained from windows.NewCallback.
//
// Returns:
//   - uintptr: The HHOOK.
//   - error: Non-nil if the module handle cannot be obtained or the OS refuses the hook.
func setWindowsHook(proc uintptr) (uintptr, error) {
	module, _, err := procGetModuleHandleW.Call(0)
	if module == 0 {
		return 0, lastError("GetModuleHandleW", err)
	}
	hhk, _, err := procSetWindowsHookExW.Call(whKeyboardLL, proc, module, 0)
	if hhk == 0 {
		return 0, lastError("SetWindowsHookExW", err)
	}
	return hhk, nil
}

func unhookWindowsHook(hhk uintptr) error {
	r, _, err := procUnhookWindowsHookEx.Call(hhk)
	if r == 0 {
		return lastError("UnhookWindowsHookEx", err)
	}
	return nil
}

func callNextHook(nCode, wParam, lParam uintptr) uintptr {
	r, _, _ := procCallNextHookEx.Call(0, nCode, wParam, lParam)
	return r
}

// ensureMessageQueue forces creation of the thread message queue so that
// PostThreadMessageW can reach the thread before its first GetMessageW.
func ensureMessageQueue() {
	var msg MSG
	procPeekMessageW.Call(uintptr(unsafe.Pointer(&msg)), 0, 0, 0, pmNoRemove) //nolint:errcheck
}

// messageLoop pumps messages on the calling thread until WM_QUIT is received.
// Low-level hooks are called through this loop.
func messageLoop() {
	var msg MSG
	for {
		r, _, _ := procGetMessageW.Call(uintptr(unsafe.Pointer(&msg)), 0, 0, 0)
		if int32(r) == 0 {
			break
		}
		if int32(r) == -1 {
			logger.Error().Err(syscall.GetLastError()).Msg("GetMessageW failed, leaving hook message loop")
			break
		}
		procTranslateMessage.Call(uintptr(unsafe.Pointer(&msg))) //nolint:errcheck
		procDispatchMessageW.Call(uintptr(unsafe.Pointer(&msg))) //nolint:errcheck
	}
}

func postQuit(threadID uint32) error {
	if threadID == 0 {
		return errors.New("cannot post WM_QUIT: thread id is 0")
	}
	r, _, err := procPostThreadMessageW.Call(uintptr(threadID), wmQuit, 0, 0)
	if r == 0 {
		return lastError("PostThreadMessageW", err)
	}
	return nil
}

// lastError turns the error of a LazyProc.Call into something useful when the
// OS did not set a last error.
func lastError(op string, err error) error {
	if errno, ok := err.(syscall.Errno); ok && errno == 0 {
		return errors.New(op + " failed")
	}
	return fmt.Errorf("%s: %w", op, err)
}
