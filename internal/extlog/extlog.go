// SPDX-License-Identifier: MPL-2.0

// Package extlog appends bootstrap progress lines to the extension log.
//
// The host agent tails this file across lifecycle runs, so the sink never
// holds the file open: every line opens the log for append, writes and
// closes again. Write failures are swallowed; logging never fails a run.
package extlog

import (
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

// FileName is the log file created inside the agent-provided log folder.
const FileName = "extension.log"

// Sink is an append-only, line-at-a-time extension log. It is built for a
// single sequential writer; the bootstrap never logs concurrently.
type Sink struct {
	path string
}

// New returns a sink writing to dir/extension.log. Missing directories are
// created on first write.
func New(dir string) *Sink {
	return &Sink{path: filepath.Join(dir, FileName)}
}

// Path returns the log file location.
func (s *Sink) Path() string { return s.path }

// Printf appends one timestamped line.
func (s *Sink) Printf(format string, args ...any) {
	f, err := s.open()
	if err != nil {
		return
	}
	defer f.Close()

	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
	})
	logger.Printf(format, args...)
}

func (s *Sink) open() (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
}
