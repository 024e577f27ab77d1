//go:build !windows

package main

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
)

var errPipeUnsupported = errors.New("event pipe requires Windows named pipes")

func listenEventPipe(name string, log zerolog.Logger) (*EventPipe, error) {
	return nil, errPipeUnsupported
}

func subscribeEvents(ctx context.Context, name string, fn func(Event)) error {
	return errPipeUnsupported
}
