package main

// fallbackBinder binds shortcuts through a reduced-capability mechanism when
// the low-level hook cannot be installed.
type fallbackBinder interface {
	// Bind makes shortcut fire through the registry.
	Bind(shortcut string) error

	// UnbindAll releases every binding.
	UnbindAll()

	// Name is used for logging.
	Name() string
}
