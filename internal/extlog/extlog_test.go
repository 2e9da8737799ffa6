// SPDX-License-Identifier: MPL-2.0

package extlog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log: %v", err)
	}
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

func TestSinkWritesTimestampedLine(t *testing.T) {
	t.Parallel()

	s := New(t.TempDir())
	s.Printf("interpreter found: %s", "/usr/bin/python3.10")

	lines := readLines(t, s.Path())
	if len(lines) != 1 {
		t.Fatalf("log has %d lines, want 1: %v", len(lines), lines)
	}
	if !strings.Contains(lines[0], "interpreter found: /usr/bin/python3.10") {
		t.Errorf("line missing message: %q", lines[0])
	}

	stamp := strings.SplitN(lines[0], " ", 2)[0]
	if _, err := time.Parse(time.RFC3339, stamp); err != nil {
		t.Errorf("line does not start with an RFC3339 timestamp: %q", lines[0])
	}
}

func TestSinkAppendsInOrder(t *testing.T) {
	t.Parallel()

	s := New(t.TempDir())
	s.Printf("first")
	s.Printf("second")
	s.Printf("third")

	lines := readLines(t, s.Path())
	if len(lines) != 3 {
		t.Fatalf("log has %d lines, want 3: %v", len(lines), lines)
	}
	for i, want := range []string{"first", "second", "third"} {
		if !strings.Contains(lines[i], want) {
			t.Errorf("line %d = %q, want it to contain %q", i, lines[i], want)
		}
	}
}

func TestSinkCreatesLogFolder(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "var", "log", "ext")
	s := New(dir)
	s.Printf("hello")

	if _, err := os.Stat(filepath.Join(dir, FileName)); err != nil {
		t.Fatalf("log file was not created under nested folder: %v", err)
	}
}

func TestSinkReleasesFileBetweenLines(t *testing.T) {
	t.Parallel()

	s := New(t.TempDir())
	s.Printf("before removal")

	// The sink holds no handle between lines, so the file can be rotated
	// away and is recreated by the next write.
	if err := os.Remove(s.Path()); err != nil {
		t.Fatalf("failed to remove log between writes: %v", err)
	}
	s.Printf("after removal")

	lines := readLines(t, s.Path())
	if len(lines) != 1 || !strings.Contains(lines[0], "after removal") {
		t.Errorf("recreated log = %v, want single line after removal", lines)
	}
}
