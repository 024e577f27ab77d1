//go:build windows

package main

import (
	"os"
	"strings"

	"golang.org/x/sys/windows/registry"
)

const (
	systemEnvKey = `SYSTEM\CurrentControlSet\Control\Session Manager\Environment`
	userEnvKey   = `Environment`
)

// actionEnv returns the environment for a started action: the current environment
// overridden by the USER and SYSTEM variables from the registry. "Path" and
// "PsModulePath" are merged with SYSTEM entries first.
//
// Returns:
//   - []string: Environment in "key=value" form.
//   - error: Always nil; unreadable registry keys are skipped.
func actionEnv() ([]string, error) {
	envMap := make(map[string]string)

	// Obtain COMPUTERNAME, SYSTEMDRIVE, USERPROFILE, etc. from current environment
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "=") {
			continue // Skip per-drive entries such as "=C:=C:\"
		}
		if k, v, ok := strings.Cut(env, "="); ok {
			envMap[k] = v
		}
	}

	readRegistryEnv(registry.LOCAL_MACHINE, systemEnvKey, func(name, val string) {
		envMap[name] = val
	})
	readRegistryEnv(registry.CURRENT_USER, userEnvKey, func(name, val string) {
		if name == "Path" || name == "PsModulePath" {
			envMap[name] = envMap[name] + ";" + val
			return
		}
		envMap[name] = val
	})

	env := make([]string, 0, len(envMap))
	for k, v := range envMap {
		env = append(env, k+"="+expandVariable(v))
	}
	return env, nil
}

func readRegistryEnv(root registry.Key, path string, set func(name, val string)) {
	k, err := registry.OpenKey(root, path, registry.READ)
	if err != nil {
		logger.Debug().Err(err).Str("key", path).Msg("Registry environment not readable")
		return
	}
	defer k.Close() //nolint:errcheck

	names, _ := k.ReadValueNames(0)
	for _, name := range names {
		val, _, err := k.GetStringValue(name)
		if err != nil {
			continue
		}
		set(name, val)
	}
}
