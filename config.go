package main

import (
	"fmt"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/fsnotify/fsnotify"
)

type ConfigFile struct {
	Hook        HookConfig        `toml:"hook"`
	Keybindings KeybindingsConfig `toml:"keybindings"`
}

type HookConfig struct {
	IgnoreInjected *bool  `toml:"ignore_injected"`
	QueueSize      int    `toml:"queue_size"`
	Pipe           string `toml:"pipe"`
}

type KeybindingsConfig struct {
	ResetAll string    `toml:"reset_all"`
	Bindings []Binding `toml:"bindings"`
}

type Binding struct {
	Shortcut  string   `toml:"shortcut"`
	Modifiers string   `toml:"modifiers"`
	Key       string   `toml:"key"`
	Event     string   `toml:"event"`
	Action    []string `toml:"action"`
}

// Hotkey is a validated binding ready for registration.
type Hotkey struct {
	Shortcut  string   // Canonical shortcut string, e.g. "Alt+F5"
	KeyString string   // Shortcut as written in the config file
	Kind      string   // Event kind published when the shortcut fires
	Event     string   // Target reported to event subscribers
	Action    []string // Command to execute
}

// Settings are the [hook] options with defaults applied.
type Settings struct {
	IgnoreInjected bool
	QueueSize      int
	Pipe           string
}

// settings applies defaults to the [hook] table.
func (c *ConfigFile) settings() Settings {
	s := Settings{
		IgnoreInjected: true,
		QueueSize:      c.Hook.QueueSize,
		Pipe:           c.Hook.Pipe,
	}
	if c.Hook.IgnoreInjected != nil {
		s.IgnoreInjected = *c.Hook.IgnoreInjected
	}
	if s.QueueSize <= 0 {
		s.QueueSize = defaultQueueSize
	}
	return s
}

// shouldReloadConfig reports whether an fsnotify event warrants a config reload.
//
// Parameters:
//   - paths: Cleaned absolute paths of the config file (and its symlink target, if any).
//   - event: Filesystem event to evaluate.
//
// Returns:
//   - bool: True if the event should trigger a reload.
func shouldReloadConfig(paths []string, event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	name := filepath.Clean(event.Name)
	for _, p := range paths {
		if name == p {
			return true
		}
		// Some editors write via temp + rename, resulting in partial paths.
		if filepath.Base(name) == filepath.Base(p) {
			return true
		}
	}
	return false
}

// reloadHotkeys loads the config, unregisters all shortcuts and registers the loaded bindings.
//
// Parameters:
//   - kb: Keyboard receiving the registrations.
//   - bus: Bus the shortcut callbacks publish to.
//   - path: Path to the TOML config file.
//
// Returns:
//   - []Hotkey: The registered hotkeys.
//   - error: Non-nil if the config cannot be loaded; the previous bindings stay active.
func reloadHotkeys(kb *Keyboard, bus *Bus, path string) ([]Hotkey, error) {

	// 1. Load hotkeys from config
	hotkeys, _, err := loadConfig(path)
	if err != nil {
		return nil, err
	}

	// 2. Start from a clean state
	kb.UnregisterAllShortcuts() //nolint:errcheck

	// 3. Register all hotkeys
	registered := hotkeys[:0]
	for _, hk := range hotkeys {
		if err := kb.RegisterShortcut(hk.Shortcut, bus.publisher(hk)); err != nil {
			logger.Error().Err(err).Str("shortcut", hk.Shortcut).Msg("Failed to register shortcut")
			continue
		}
		logger.Info().Str("shortcut", hk.Shortcut).Str("event", hk.Event).Strs("action", hk.Action).Msg("Registered")
		registered = append(registered, hk)
	}

	logger.Info().Int("count", len(registered)).Str("path", path).Msg("Loaded and registered bindings")
	return registered, nil
}

// loadConfig reads a TOML config file and converts it to a list of hotkeys.
//
// Parameters:
//   - path: Path to the TOML config file.
//
// Returns:
//   - []Hotkey: Parsed hotkeys in registration order, reset_all last.
//   - Settings: The [hook] options with defaults applied.
//   - error: Non-nil if the file cannot be decoded.
func loadConfig(path string) ([]Hotkey, Settings, error) {
	var config ConfigFile
	if _, err := toml.DecodeFile(path, &config); err != nil {
		return nil, Settings{}, fmt.Errorf("decode toml: %w", err)
	}

	var keyList []Hotkey
	seen := make(map[string]string)

	add := func(keyString string, hk Hotkey) {
		shortcut, err := normalizeShortcut(keyString)
		if err != nil {
			logger.Warn().Err(err).Msg("Skipping invalid hotkey")
			return
		}
		if prev, ok := seen[shortcut]; ok {
			logger.Warn().Str("shortcut", shortcut).Str("previous", prev).Str("current", keyString).
				Msg("Duplicate shortcut, the last binding wins")
		}
		seen[shortcut] = keyString
		hk.Shortcut = shortcut
		hk.KeyString = keyString
		keyList = append(keyList, hk)
	}

	for _, binding := range config.Keybindings.Bindings {
		keyString := binding.Shortcut
		if keyString == "" {
			keyString = joinShortcut(binding.Modifiers, binding.Key)
		}
		add(keyString, Hotkey{
			Kind:   EventShortcutTriggered,
			Event:  binding.Event,
			Action: binding.Action,
		})
	}
	if config.Keybindings.ResetAll != "" {
		add(config.Keybindings.ResetAll, Hotkey{Kind: EventResetAllTimers})
	}
	return keyList, config.settings(), nil
}

// usedShortcuts returns the canonical shortcuts of hotkeys.
func usedShortcuts(hotkeys []Hotkey) []string {
	used := make([]string, 0, len(hotkeys))
	for _, hk := range hotkeys {
		used = append(used, hk.Shortcut)
	}
	return used
}
