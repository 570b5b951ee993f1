// Package util provides a collection of domain-agnostic utility functions and cross-platform helpers.
package util

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"golang.org/x/exp/constraints"
	"golang.org/x/term"
)

// Quantify returns a pluralized string representation of a count and its associated labels.
func Quantify(count int, singular, plural string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, singular)
	}
	return fmt.Sprintf("%d %s", count, plural)
}

// ResolveBinary normalizes a configured binary location into an invocable path.
// Bare names and relative paths are looked up against PATH; absolute paths
// pass through untouched. If the lookup fails the input is returned as-is so
// the eventual exec error names what the user configured.
func ResolveBinary(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if resolved, err := exec.LookPath(path); err == nil {
		return resolved
	}
	return path
}

// PrintErasable prints an ephemeral message to the terminal and returns a closure to clear it.
// Scheme handlers are usually spawned by a browser without a terminal
// attached; in that case nothing is printed and the eraser is a no-op.
func PrintErasable(msg string) (eraser func()) {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return func() {}
	}

	fmt.Fprintf(os.Stdout, "\r%s", msg)
	return func() {
		fmt.Fprintf(os.Stdout, "\r%s\r", strings.Repeat(" ", len(msg)))
	}
}

// Ignore executes a function and explicitly discards its error return value.
func Ignore(f func() error) {
	_ = f()
}

// Max returns the maximum value among arguments.
func Max[T constraints.Ordered](items ...T) (max T) {
	if len(items) == 0 {
		return
	}
	max = items[0]
	for _, item := range items[1:] {
		if item > max {
			max = item
		}
	}
	return
}

// Min returns the minimum value among arguments.
func Min[T constraints.Ordered](items ...T) (min T) {
	if len(items) == 0 {
		return
	}
	min = items[0]
	for _, item := range items[1:] {
		if item < min {
			min = item
		}
	}
	return
}
