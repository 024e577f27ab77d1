package main

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"os"
	"os/user"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultPipePrefix = `\\.\pipe\hookkeys-`
	pipeWriteTimeout  = 2 * time.Second
	maxPipeClients    = 16
)

// defaultPipeName returns the per-user event pipe, e.g. \\.\pipe\hookkeys-alice.
func defaultPipeName() string {
	username := strings.TrimSpace(os.Getenv("USERNAME"))
	if username == "" {
		if current, err := user.Current(); err == nil {
			username = current.Username
		}
	}
	return defaultPipePrefix + sanitizeUsername(username)
}

// sanitizeUsername keeps pipe names free of path separators and spaces.
func sanitizeUsername(name string) string {
	if i := strings.LastIndexAny(name, `\/`); i >= 0 {
		name = name[i+1:]
	}
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "default"
	}
	return b.String()
}

// EventPipe broadcasts events as JSON lines to every connected subscriber.
// Subscribers only read; a subscriber that cannot keep up is disconnected.
type EventPipe struct {
	listener net.Listener
	log      zerolog.Logger

	mu      sync.Mutex
	clients map[net.Conn]struct{}
	closed  bool
	wg      sync.WaitGroup
}

// newEventPipe serves subscribers accepted from l until Close.
func newEventPipe(l net.Listener, log zerolog.Logger) *EventPipe {
	p := &EventPipe{
		listener: l,
		log:      log,
		clients:  make(map[net.Conn]struct{}),
	}
	p.wg.Add(1)
	go p.acceptLoop()
	return p
}

func (p *EventPipe) acceptLoop() {
	defer p.wg.Done()
	for {
		conn, err := p.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) || p.isClosed() {
				return
			}
			p.log.Warn().Err(err).Msg("Event pipe accept failed")
			continue
		}

		p.mu.Lock()
		if p.closed || len(p.clients) >= maxPipeClients {
			p.mu.Unlock()
			p.log.Warn().Int("max", maxPipeClients).Msg("Event pipe subscriber rejected")
			conn.Close() //nolint:errcheck
			continue
		}
		p.clients[conn] = struct{}{}
		n := len(p.clients)
		p.mu.Unlock()
		p.log.Debug().Int("subscribers", n).Msg("Event pipe subscriber connected")
	}
}

func (p *EventPipe) isClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// Broadcast writes ev to every subscriber. It is safe to call on a nil pipe.
func (p *EventPipe) Broadcast(ev Event) {
	if p == nil {
		return
	}
	line, err := json.Marshal(ev)
	if err != nil {
		p.log.Error().Err(err).Msg("Encode event")
		return
	}
	line = append(line, '\n')

	p.mu.Lock()
	defer p.mu.Unlock()
	for conn := range p.clients {
		err := conn.SetWriteDeadline(time.Now().Add(pipeWriteTimeout))
		if err == nil {
			_, err = conn.Write(line)
		}
		if err != nil {
			p.log.Debug().Err(err).Msg("Event pipe subscriber dropped")
			conn.Close() //nolint:errcheck
			delete(p.clients, conn)
		}
	}
}

// Subscribers returns the number of connected subscribers.
func (p *EventPipe) Subscribers() int {
	if p == nil {
		return 0
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.clients)
}

// Close stops accepting subscribers and disconnects the existing ones.
func (p *EventPipe) Close() error {
	if p == nil {
		return nil
	}
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	for conn := range p.clients {
		conn.Close() //nolint:errcheck
		delete(p.clients, conn)
	}
	p.mu.Unlock()

	err := p.listener.Close()
	p.wg.Wait()
	return err
}

// readEvents decodes JSON-line events from conn and hands them to fn until
// ctx is cancelled or the server goes away.
func readEvents(ctx context.Context, conn net.Conn, fn func(Event)) error {
	stop := context.AfterFunc(ctx, func() {
		conn.Close() //nolint:errcheck
	})
	defer stop()

	dec := json.NewDecoder(conn)
	for {
		var ev Event
		if err := dec.Decode(&ev); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		fn(ev)
	}
}
