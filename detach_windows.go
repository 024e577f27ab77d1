//go:build windows

package main

import (
	"os/exec"

	"golang.org/x/sys/windows"
)

// detach makes the started process independent of the daemon's console.
func detach(c *exec.Cmd) {
	c.SysProcAttr = &windows.SysProcAttr{
		CreationFlags: windows.DETACHED_PROCESS,
	}
}
