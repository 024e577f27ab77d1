//go:build !windows

package main

import "os"

// actionEnv returns the environment for a started action.
func actionEnv() ([]string, error) {
	return os.Environ(), nil
}
