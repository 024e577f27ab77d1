//go:build !windows

package main

// asyncModifiers reports no modifiers: there is no global key state to sample.
type asyncModifiers struct{}

func (asyncModifiers) Modifiers() Modifiers {
	return Modifiers{}
}
