package main

import "errors"

var (
	// ErrUnsupported means the platform has no low-level keyboard hook. Not fatal:
	// shortcuts stay registered but never fire.
	ErrUnsupported = errors.New("low-level keyboard hook not supported on this platform")

	// ErrInstall means the OS refused to install the hook.
	ErrInstall = errors.New("install low-level keyboard hook")

	// ErrAlreadyInstalled is returned when a hook is already alive in this process.
	ErrAlreadyInstalled = errors.New("low-level keyboard hook already installed")
)

// HookHandle identifies an installed hook. The zero value is never a live hook.
type HookHandle uintptr

// Hook installs and removes the system-wide keyboard interception point.
type Hook interface {
	// Install routes every keyboard event of the session through d.
	Install(d *Dispatcher) (HookHandle, error)

	// Uninstall removes the hook. Stale or zero handles are a no-op.
	Uninstall(h HookHandle) error

	// Supported reports whether Install really intercepts keyboard input.
	Supported() bool
}
