// SPDX-License-Identifier: MPL-2.0

// Package introspect recovers a usable interpreter path from the command
// line of a running reference process. The reference process (the host
// guest agent) is itself a script run by an interpreter, so its first
// command-line token names an interpreter binary that demonstrably works
// on this machine.
package introspect

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/shirou/gopsutil/v4/process"
	"mvdan.cc/sh/v3/shell"
)

// ErrNotFound is returned when no running process yields an interpreter
// for the configured reference.
var ErrNotFound = errors.New("reference process not found")

// Scanner locates the reference process in the process table and extracts
// the interpreter it runs under.
type Scanner struct {
	// Reference is the process the interpreter is recovered from,
	// e.g. "guestagent".
	Reference string

	// commandLines lists the command lines of running processes.
	// Swapped in tests.
	commandLines func(ctx context.Context) ([]string, error)
}

// New returns a Scanner reading the live process table.
func New(reference string) *Scanner {
	return &Scanner{
		Reference:    reference,
		commandLines: liveCommandLines,
	}
}

// newWithCommandLines returns a Scanner over a fixed set of command lines.
func newWithCommandLines(reference string, lines func(ctx context.Context) ([]string, error)) *Scanner {
	return &Scanner{Reference: reference, commandLines: lines}
}

// InterpreterPath scans the process table for the reference process and
// returns the interpreter path from its command line. A reference process
// running natively (not under an interpreter) does not match: there is no
// interpreter to recover from it.
func (s *Scanner) InterpreterPath(ctx context.Context) (string, error) {
	if s.Reference == "" {
		return "", fmt.Errorf("no reference process configured: %w", ErrNotFound)
	}

	lines, err := s.commandLines(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to scan process table: %w", err)
	}

	for _, line := range lines {
		fields, err := shell.Fields(line, nil)
		if err != nil || len(fields) < 2 {
			continue
		}
		if filepath.Base(fields[0]) == s.Reference {
			continue
		}
		for _, field := range fields[1:] {
			if filepath.Base(field) == s.Reference {
				return fields[0], nil
			}
		}
	}

	return "", fmt.Errorf("reference process %q: %w", s.Reference, ErrNotFound)
}

// liveCommandLines reads the command line of every running process.
// Per-process read failures are skipped; processes exit mid-scan routinely.
func liveCommandLines(ctx context.Context) ([]string, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, err
	}

	lines := make([]string, 0, len(procs))
	for _, p := range procs {
		line, err := p.CmdlineWithContext(ctx)
		if err != nil || line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines, nil
}
