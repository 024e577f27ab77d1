//go:build !windows

package main

import "github.com/rs/zerolog"

// noopHook stands in for the low-level hook on platforms without one.
type noopHook struct {
	log zerolog.Logger
}

func newHook(log zerolog.Logger) Hook {
	return &noopHook{log: log}
}

func (h *noopHook) Install(*Dispatcher) (HookHandle, error) {
	h.log.Debug().Msg("Low-level keyboard hook unavailable, install is a no-op")
	return 0, nil
}

func (h *noopHook) Uninstall(HookHandle) error {
	return nil
}

func (h *noopHook) Supported() bool {
	return false
}
