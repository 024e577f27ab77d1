package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
)

// https://goreleaser.com/cookbooks/using-main.version/
var (
	name    string
	version string
	date    string
	commit  string
)

// flags
type Config struct {
	help     bool
	version  bool
	path     string
	logPath  string
	logLevel string
	list     bool
	nextFree bool
	listen   bool
}

// takes precedence over the default config path
const HOOKKEYS_CONFIG_HOME_VAR = "HOOKKEYS_CONFIG_HOME"

// defaultConfigPath returns the config file path used when -f is not given.
func defaultConfigPath() string {
	if runtime.GOOS == "windows" {
		return "%USERPROFILE%\\.config\\hookkeys.toml"
	}
	return "$HOME/.config/hookkeys.toml"
}

func initFlags(fs *flag.FlagSet) *Config {
	cfg := &Config{}
	fs.StringVar(&cfg.path, "f", defaultConfigPath(), "")
	fs.StringVar(&cfg.path, "file", defaultConfigPath(), "specify config file path")
	fs.StringVar(&cfg.logPath, "l", "", "")
	fs.StringVar(&cfg.logPath, "log", "", "also write the log to this file")
	fs.StringVar(&cfg.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	fs.BoolVar(&cfg.list, "list", false, "print the configured shortcuts and exit")
	fs.BoolVar(&cfg.nextFree, "next-free", false, "print the first unused Alt+F1..F12 shortcut and exit")
	fs.BoolVar(&cfg.listen, "listen", false, "print events of a running daemon")
	fs.BoolVar(&cfg.help, "?", false, "")
	fs.BoolVar(&cfg.help, "help", false, "displays this help message")
	fs.BoolVar(&cfg.version, "v", false, "")
	fs.BoolVar(&cfg.version, "version", false, "print version and exit")
	return cfg
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: "+name+` [OPTIONS]

Starts a daemon that observes every key press through a low-level keyboard hook and
fires the shortcuts bound in a TOML config file (hot-reload supported). Shortcuts are
[Alt+][Ctrl+][Shift+]Key, e.g. "Alt+F5" or "Ctrl+Shift+Space".

When the hook cannot be installed, shortcuts are registered with RegisterHotKey instead.
Processes started by the daemon inherit the current environment and updated USER and
SYSTEM environment variables from the Windows registry.

OPTIONS:

  -f, --file path
        specify config file path (default '` + defaultConfigPath() + `')
  -l, --log path
        also write the log to this file
  --log-level level
        log level: debug, info, warn, error (default 'info')
  --list
        print the configured shortcuts and exit
  --next-free
        print the first unused Alt+F1..F12 shortcut and exit
  --listen
        connect to a running daemon and print its events as JSON lines
  -?, --help
        display this help message
  -v, --version
        print version and exit`)
}

// main parses the flags and runs the requested mode.
func main() {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.Usage = usage
	cfg := initFlags(fs)
	fs.Parse(os.Args[1:]) //nolint:errcheck

	if fs.Arg(0) == "version" || cfg.version {
		fmt.Printf("%s %s, built on %s (commit: %s)\n", name, version, date, commit)
		return
	}

	if cfg.help {
		fs.Usage()
		return
	}

	if fs.NArg() > 0 {
		fs.Usage()
		os.Exit(1)
	}

	logFile, err := setupLogging(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if logFile != nil {
		defer logFile.Close() //nolint:errcheck
	}

	configPath := resolveConfigPath(cfg.path)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch {
	case cfg.list:
		err = listShortcuts(os.Stdout, configPath)
	case cfg.nextFree:
		err = printNextFree(os.Stdout, configPath)
	case cfg.listen:
		err = listen(ctx, os.Stdout, configPath)
	default:
		err = run(ctx, configPath)
	}
	if err != nil {
		logger.Error().Err(err).Msg("Exiting")
		if logFile != nil {
			logFile.Close() //nolint:errcheck
		}
		os.Exit(1)
	}
}

// resolveConfigPath applies HOOKKEYS_CONFIG_HOME and expands environment variables.
func resolveConfigPath(flagPath string) string {
	if p := os.Getenv(HOOKKEYS_CONFIG_HOME_VAR); p != "" {
		return expandVariable(p)
	}
	return expandVariable(flagPath)
}

// run is the daemon: it installs the keyboard hook, registers the configured
// shortcuts and serves events until ctx is cancelled.
func run(ctx context.Context, configPath string) error {
	logger.Info().Str("config", configPath).Msg("Starting hookkeys daemon...")

	_, settings, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config %s: %w", configPath, err)
	}

	registry := NewRegistry(logger)
	kb := NewKeyboard(KeyboardOptions{
		Registry:       registry,
		Hook:           newHook(logger),
		Modifiers:      asyncModifiers{},
		Fallback:       newFallback(registry, logger),
		IgnoreInjected: settings.IgnoreInjected,
		Logger:         logger,
	})
	bus := NewBus(settings.QueueSize, logger)

	pipeName := settings.Pipe
	if pipeName == "" {
		pipeName = defaultPipeName()
	}
	pipe, err := listenEventPipe(pipeName, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("Event pipe disabled")
	}
	defer pipe.Close() //nolint:errcheck

	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()
	go bus.Run(workerCtx, eventHandler(pipe))

	if _, err := reloadHotkeys(kb, bus, configPath); err != nil {
		return fmt.Errorf("load config %s: %w", configPath, err)
	}

	if err := kb.Start(); err != nil {
		logger.Warn().Err(err).Str("mode", kb.Mode().String()).Msg("Keyboard hook not installed")
	}
	defer func() {
		if err := kb.Stop(); err != nil {
			logger.Error().Err(err).Msg("Keyboard stop")
		}
		kb.UnregisterAllShortcuts() //nolint:errcheck
	}()

	// Start config file watcher
	reloadCh := make(chan struct{}, 1)
	watcher, err := startConfigWatcherWithNotifier(configPath, func() {
		select {
		case reloadCh <- struct{}{}:
		default:
		}
	})
	if err != nil {
		logger.Warn().Err(err).Msg("Config watcher disabled")
	}
	if watcher != nil {
		defer watcher.Close() //nolint:errcheck
	}

	return serve(ctx, kb, bus, configPath, reloadCh)
}

// serve reloads the bindings on every signal from reloadCh until ctx is cancelled.
func serve(ctx context.Context, kb *Keyboard, bus *Bus, configPath string, reloadCh <-chan struct{}) error {
	logger.Info().Str("mode", kb.Mode().String()).Msg("Listening for shortcuts")
	for {
		select {
		case <-ctx.Done():
			logger.Info().Uint64("dropped", bus.Dropped()).Msg("Exiting...")
			return nil
		case <-reloadCh:
			if _, err := reloadHotkeys(kb, bus, configPath); err != nil {
				logger.Error().Err(err).Msg("Reload failed, keeping previous bindings")
			}
		}
	}
}

// listShortcuts prints the configured bindings, one per line.
func listShortcuts(w io.Writer, configPath string) error {
	hotkeys, _, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	for _, hk := range hotkeys {
		target := hk.Event
		if target == "" {
			target = hk.Kind
		}
		line := fmt.Sprintf("%-20s %s", hk.Shortcut, target)
		if len(hk.Action) > 0 {
			line += " -> " + strings.Join(hk.Action, " ")
		}
		fmt.Fprintln(w, line)
	}
	return nil
}

// printNextFree prints the first Alt+F* shortcut the config does not use.
func printNextFree(w io.Writer, configPath string) error {
	hotkeys, _, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	shortcut, err := nextFreeShortcut(usedShortcuts(hotkeys))
	if err != nil {
		return err
	}
	fmt.Fprintln(w, shortcut)
	return nil
}

// listen prints the events of a running daemon as JSON lines until ctx is cancelled.
func listen(ctx context.Context, w io.Writer, configPath string) error {
	pipeName := defaultPipeName()
	if _, settings, err := loadConfig(configPath); err == nil && settings.Pipe != "" {
		pipeName = settings.Pipe
	}

	enc := json.NewEncoder(w)
	err := subscribeEvents(ctx, pipeName, func(ev Event) {
		enc.Encode(ev) //nolint:errcheck
	})
	if ctx.Err() != nil {
		return nil
	}
	return err
}
