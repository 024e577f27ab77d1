package main

import (
	"bytes"
	"context"
	"flag"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestInitFlags(t *testing.T) {
	t.Parallel()

	fs := flag.NewFlagSet("hookkeys", flag.ContinueOnError)
	cfg := initFlags(fs)
	if err := fs.Parse([]string{"-f", "x.toml", "--log", "out.log", "--log-level", "debug", "--list"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.path != "x.toml" || cfg.logPath != "out.log" || cfg.logLevel != "debug" || !cfg.list {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.nextFree || cfg.listen || cfg.help || cfg.version {
		t.Fatalf("unexpected flags set %+v", cfg)
	}
}

func TestResolveConfigPath(t *testing.T) {
	t.Setenv(HOOKKEYS_CONFIG_HOME_VAR, "")
	t.Setenv("HOOKKEYS_TEST_BASE", "/tmp/base")

	if got := resolveConfigPath("$HOOKKEYS_TEST_BASE/hookkeys.toml"); got != "/tmp/base/hookkeys.toml" {
		t.Fatalf("unexpected path %q", got)
	}

	t.Setenv(HOOKKEYS_CONFIG_HOME_VAR, "%HOOKKEYS_TEST_BASE%/other.toml")
	if got := resolveConfigPath("ignored.toml"); got != "/tmp/base/other.toml" {
		t.Fatalf("environment override not applied, got %q", got)
	}
}

func TestListShortcuts(t *testing.T) {
	t.Parallel()

	path := writeTempConfig(t, `
[keybindings]
reset_all = "alt+shift+r"

  [[keybindings.bindings]]
  shortcut = "alt+f5"
  event = "timer-1"
  action = ["notepad.exe", "todo.txt"]
`)

	var out bytes.Buffer
	if err := listShortcuts(&out, path); err != nil {
		t.Fatalf("listShortcuts: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", out.String())
	}
	if !strings.HasPrefix(lines[0], "Alt+F5") || !strings.Contains(lines[0], "timer-1 -> notepad.exe todo.txt") {
		t.Fatalf("unexpected first line %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "Alt+Shift+R") || !strings.Contains(lines[1], EventResetAllTimers) {
		t.Fatalf("unexpected second line %q", lines[1])
	}
}

func TestPrintNextFree(t *testing.T) {
	t.Parallel()

	path := writeTempConfig(t, `
[keybindings]
  [[keybindings.bindings]]
  shortcut = "Alt+F1"

  [[keybindings.bindings]]
  shortcut = "Alt+F2"
`)

	var out bytes.Buffer
	if err := printNextFree(&out, path); err != nil {
		t.Fatalf("printNextFree: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "Alt+F3" {
		t.Fatalf("expected Alt+F3, got %q", got)
	}
}

func TestServe_ReloadAndShutdown(t *testing.T) {
	t.Parallel()

	path := writeTempConfig(t, `
[keybindings]
  [[keybindings.bindings]]
  shortcut = "Alt+F5"
`)
	kb := newTestKeyboard(&fakeHook{supported: true}, nil, &fakeModifiers{})
	bus := NewBus(1, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	reloadCh := make(chan struct{}, 1)
	done := make(chan error, 1)
	go func() {
		done <- serve(ctx, kb, bus, path, reloadCh)
	}()

	reloadCh <- struct{}{}
	deadline := time.Now().Add(2 * time.Second)
	for kb.registry.Len() != 1 {
		if time.Now().After(deadline) {
			t.Fatalf("reload did not register the binding")
		}
		time.Sleep(10 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serve: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("serve did not return after cancel")
	}
}
