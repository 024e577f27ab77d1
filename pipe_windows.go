//go:build windows

package main

import (
	"context"
	"errors"
	"fmt"
	"os/user"
	"regexp"
	"strings"
	"time"

	"github.com/Microsoft/go-winio"
	"github.com/rs/zerolog"
)

const (
	pipeBufferSize  = 16 * 1024
	pipeDialTimeout = 3 * time.Second
)

var validSIDPattern = regexp.MustCompile(`^S-1(-\d+)+$`)

// listenEventPipe creates the event pipe, restricted to SYSTEM and the current user.
//
// Parameters:
//   - name: Full pipe path, e.g. \\.\pipe\hookkeys-alice.
//   - log: Logger for subscriber activity.
//
// Returns:
//   - *EventPipe: The running pipe; the caller must Close it.
//   - error: Non-nil if the security descriptor or the pipe cannot be created.
func listenEventPipe(name string, log zerolog.Logger) (*EventPipe, error) {
	sd, err := pipeSecurityDescriptor()
	if err != nil {
		return nil, err
	}
	l, err := winio.ListenPipe(name, &winio.PipeConfig{
		SecurityDescriptor: sd,
		MessageMode:        false,
		InputBufferSize:    pipeBufferSize,
		OutputBufferSize:   pipeBufferSize,
	})
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", name, err)
	}
	log.Info().Str("pipe", name).Msg("Event pipe listening")
	return newEventPipe(l, log), nil
}

func pipeSecurityDescriptor() (string, error) {
	current, err := user.Current()
	if err != nil {
		return "", fmt.Errorf("resolve current user: %w", err)
	}
	sid := strings.TrimSpace(current.Uid)
	if sid == "" {
		return "", errors.New("current user SID is unavailable")
	}
	if !validSIDPattern.MatchString(sid) {
		return "", fmt.Errorf("current user SID has unexpected format: %s", sid)
	}
	// D:P protected DACL, full access for SYSTEM and the current user only
	return fmt.Sprintf("D:P(A;;GA;;;SY)(A;;GA;;;%s)", sid), nil
}

// subscribeEvents connects to a running daemon and calls fn for every event.
//
// Parameters:
//   - ctx: Cancelling it closes the connection.
//   - name: Full pipe path.
//   - fn: Called for each received event.
//
// Returns:
//   - error: The dial error, ctx.Err() after cancellation, or the read error that ended the stream.
func subscribeEvents(ctx context.Context, name string, fn func(Event)) error {
	timeout := pipeDialTimeout
	conn, err := winio.DialPipe(name, &timeout)
	if err != nil {
		return fmt.Errorf("connect %s: %w", name, err)
	}
	defer conn.Close() //nolint:errcheck
	return readEvents(ctx, conn, fn)
}
