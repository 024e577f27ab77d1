package main

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// executeCommand starts cmd in a detached process that runs independently of the daemon.
//
// Parameters:
//   - cmd: The executable to run and its arguments.
//
// Returns:
//   - int: The process ID of the started process.
//   - error: Non-nil if cmd is empty or the process cannot be started.
func executeCommand(cmd []string) (int, error) {
	if len(cmd) == 0 {
		return 0, errors.New("command array is empty")
	}
	c := exec.Command(cmd[0], cmd[1:]...)
	detach(c)

	// prepare environment for process
	env, err := actionEnv()
	if err != nil {
		return 0, fmt.Errorf("failed to get environment: %w", err)
	}
	c.Env = env

	if err := c.Start(); err != nil {
		return 0, fmt.Errorf("failed to start command %v : %w", cmd, err)
	}
	pid := c.Process.Pid
	// reap the child without blocking the event worker
	go c.Wait() //nolint:errcheck
	return pid, nil
}

// eventHandler returns the bus handler: it runs the binding's command, if any,
// and forwards the event to pipe subscribers.
//
// Parameters:
//   - pipe: Event pipe, may be nil.
//
// Returns:
//   - func(context.Context, Event): Handler for Bus.Run.
func eventHandler(pipe *EventPipe) func(context.Context, Event) {
	return func(ctx context.Context, ev Event) {
		logger.Info().Str("shortcut", ev.Shortcut).Str("kind", ev.Kind).Str("target", ev.Target).Msg("Shortcut triggered")

		if len(ev.Action) > 0 {
			pid, err := executeCommand(ev.Action)
			if err != nil {
				logger.Error().Err(err).Strs("action", ev.Action).Msg("Action failed")
			} else {
				logger.Info().Int("pid", pid).Strs("action", ev.Action).Msg("Executed")
			}
		}

		pipe.Broadcast(ev)
	}
}
