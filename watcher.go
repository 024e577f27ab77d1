package main

import (
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 200 * time.Millisecond

// resolveWatchPaths returns the cleaned absolute config path and, when it is a
// symlink, the cleaned absolute path of its target.
//
// Parameters:
//   - configPath: Path to the config file.
//
// Returns:
//   - string: The config path itself.
//   - string: The symlink target, or "" if configPath is not a symlink.
func resolveWatchPaths(configPath string) (string, string) {
	link := configPath
	if abs, err := filepath.Abs(configPath); err == nil {
		link = abs
	}
	link = filepath.Clean(link)

	fi, err := os.Lstat(link)
	if err != nil || fi.Mode()&os.ModeSymlink == 0 {
		return link, ""
	}
	target, err := filepath.EvalSymlinks(link)
	if err != nil {
		return link, ""
	}
	if abs, err := filepath.Abs(target); err == nil {
		target = abs
	}
	return link, filepath.Clean(target)
}

// startConfigWatcherWithNotifier watches configPath, and its symlink target, for
// changes and calls notify after each (debounced) change.
//
// Parameters:
//   - configPath: Full path to the config file.
//   - notify: Called from the watcher goroutine; must not block for long.
//
// Returns:
//   - *fsnotify.Watcher: A watcher the caller should close when done.
//   - error: Non-nil if the watcher cannot be created or the directory cannot be watched.
func startConfigWatcherWithNotifier(configPath string, notify func()) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	link, target := resolveWatchPaths(configPath)
	paths := []string{link}
	if target != "" {
		paths = append(paths, target)
	}

	// Watching a directory is more reliable on Windows than watching a single file.
	watched := make(map[string]bool)
	for _, p := range paths {
		dir := filepath.Dir(p)
		if watched[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			watcher.Close() //nolint:errcheck
			return nil, err
		}
		watched[dir] = true
	}

	go func() {
		var last time.Time
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !shouldReloadConfig(paths, event) {
					continue
				}
				// Debounce noisy editor save patterns.
				if time.Since(last) < reloadDebounce {
					continue
				}
				last = time.Now()
				logger.Info().Str("file", event.Name).Msg("Config reload signalled")
				notify()

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn().Err(err).Msg("Config watcher error")
			}
		}
	}()
	return watcher, nil
}
