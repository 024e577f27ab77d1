//go:build !windows

package main

import "github.com/rs/zerolog"

// newFallback returns nil: without a low-level hook there is nothing to fall back to.
func newFallback(*Registry, zerolog.Logger) fallbackBinder {
	return nil
}
