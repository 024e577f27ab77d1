//go:build windows

package main

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sys/windows"
)

// uninstallTimeout bounds the wait for the hook thread to unhook and exit.
const uninstallTimeout = 2 * time.Second

// activeDispatcher is read by the hook procedure. The OS only knows a plain
// function pointer, so the live dispatcher is published here.
var activeDispatcher atomic.Pointer[Dispatcher]

// keyboardProc is created once: callbacks made by windows.NewCallback are never released.
var keyboardProc = sync.OnceValue(func() uintptr {
	return windows.NewCallback(lowLevelKeyboardProc)
})

// lowLevelKeyboardProc is the WH_KEYBOARD_LL entry point. It runs on the hook
// thread for every keyboard event of the session and must return quickly.
func lowLevelKeyboardProc(nCode, wParam, lParam uintptr) uintptr {
	next := func() uintptr { return callNextHook(nCode, wParam, lParam) }

	d := activeDispatcher.Load()
	if d == nil || int32(nCode) < hcAction {
		return next()
	}
	ev, ok := keyEventFromLParam(lParam)
	if !ok {
		return next()
	}
	return d.Dispatch(int32(nCode), wParam, ev, next)
}

// installedHook is the state of a live hook. When non-nil, the hook thread is running.
type installedHook struct {
	handle   HookHandle
	threadID uint32
	doneCh   chan struct{}
}

type hookReady struct {
	hhk      uintptr
	threadID uint32
	err      error
}

// llHook owns the process-wide WH_KEYBOARD_LL hook.
type llHook struct {
	log zerolog.Logger

	mu     sync.Mutex
	active *installedHook
}

func newHook(log zerolog.Logger) Hook {
	return &llHook{log: log}
}

func (h *llHook) Supported() bool {
	return true
}

// Install starts the hook thread, installs the hook there and waits until the OS accepted it.
//
// Parameters:
//   - d: Dispatcher receiving every keyboard event.
//
// Returns:
//   - HookHandle: Handle to pass to Uninstall.
//   - error: Wraps ErrUnsupported, ErrInstall or ErrAlreadyInstalled.
func (h *llHook) Install(d *Dispatcher) (HookHandle, error) {
	if err := user32.Load(); err != nil {
		return 0, fmt.Errorf("%w: user32.dll: %w", ErrUnsupported, err)
	}
	if err := procSetWindowsHookExW.Find(); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrUnsupported, err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.active != nil {
		return 0, ErrAlreadyInstalled
	}

	d.Reset()
	activeDispatcher.Store(d)

	readyCh := make(chan hookReady, 1)
	doneCh := make(chan struct{})
	go runHookThread(h.log, readyCh, doneCh)

	ready := <-readyCh
	if ready.err != nil {
		activeDispatcher.Store(nil)
		return 0, fmt.Errorf("%w: %w", ErrInstall, ready.err)
	}

	h.active = &installedHook{
		handle:   HookHandle(ready.hhk),
		threadID: ready.threadID,
		doneCh:   doneCh,
	}
	h.log.Info().Uint32("thread", ready.threadID).Msg("Low-level keyboard hook installed")
	return h.active.handle, nil
}

// Uninstall removes the hook identified by handle and waits for the hook thread to exit.
//
// Parameters:
//   - handle: Handle returned by Install. Stale or zero handles are ignored.
//
// Returns:
//   - error: Non-nil if the hook thread could not be stopped in time.
func (h *llHook) Uninstall(handle HookHandle) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.active == nil || handle == 0 || h.active.handle != handle {
		h.log.Debug().Uint64("handle", uint64(handle)).Msg("Uninstall of a hook that is not installed, nothing to do")
		return nil
	}

	ah := h.active
	h.active = nil
	activeDispatcher.Store(nil)

	if err := postQuit(ah.threadID); err != nil {
		return fmt.Errorf("stop hook thread %d: %w", ah.threadID, err)
	}

	timer := time.NewTimer(uninstallTimeout)
	defer timer.Stop()

	select {
	case <-ah.doneCh:
		h.log.Info().Msg("Low-level keyboard hook removed")
		return nil
	case <-timer.C:
		return fmt.Errorf("hook thread %d did not exit within %s", ah.threadID, uninstallTimeout)
	}
}

// runHookThread installs the hook on a locked OS thread and pumps messages until WM_QUIT.
// The OS calls the hook procedure through this thread's message loop.
func runHookThread(log zerolog.Logger, readyCh chan<- hookReady, doneCh chan struct{}) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(doneCh)

	threadID := windows.GetCurrentThreadId()
	if threadID == 0 {
		readyCh <- hookReady{err: errors.New("GetCurrentThreadId returned 0")}
		return
	}
	ensureMessageQueue()

	hhk, err := setWindowsHook(keyboardProc())
	if err != nil {
		readyCh <- hookReady{err: err}
		return
	}
	defer func() {
		if err := unhookWindowsHook(hhk); err != nil {
			log.Warn().Err(err).Msg("UnhookWindowsHookEx failed, the OS reclaims the hook at exit")
		}
	}()

	readyCh <- hookReady{hhk: hhk, threadID: threadID}
	messageLoop()
}
