// SPDX-License-Identifier: MPL-2.0

// Package seed places the bundled default workload configuration onto the
// host at install time. A file whose workload_name has been customized is
// treated as deployment-owned and is never overwritten; anything else
// (missing file, default name, no name at all) is replaced with the bundle.
package seed

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/pelletier/go-toml/v2"
)

const (
	// DefaultWorkloadName is the workload_name shipped in the bundled
	// configuration. A file carrying any other name counts as edited.
	DefaultWorkloadName = "default"

	// OutcomeKept means an edited file was found and left byte-identical.
	OutcomeKept Outcome = "kept"
	// OutcomeSeeded means the bundled default was written into place.
	OutcomeSeeded Outcome = "seeded"
)

//go:embed workload.toml
var defaultWorkload []byte

// workloadNamePattern captures the configured workload_name value.
// Commented-out assignments do not match.
var workloadNamePattern = regexp.MustCompile(`(?m)^\s*workload_name\s*=\s*"([^"]*)"`)

type (
	// Outcome reports what Seed did to the target file.
	Outcome string

	// Workload is the typed shape of the bundled workload configuration.
	Workload struct {
		// Name identifies the workload this host serves.
		Name string `toml:"workload_name"`
		// Handler configures the downstream handler process.
		Handler HandlerSettings `toml:"handler"`
	}

	// HandlerSettings configures the downstream handler process.
	HandlerSettings struct {
		// StateDir is where the handler persists its state.
		StateDir string `toml:"state_dir"`
		// PollIntervalSeconds is the handler's polling cadence.
		PollIntervalSeconds int `toml:"poll_interval_seconds"`
	}
)

// String returns the string representation of the Outcome.
func (o Outcome) String() string { return string(o) }

// Edited reports whether the file at path carries a customized
// workload_name. A missing file, a file without a workload_name
// assignment, and a file naming the default workload all count as
// unedited.
func Edited(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read workload config: %w", err)
	}

	match := workloadNamePattern.FindSubmatch(data)
	if match == nil {
		return false, nil
	}
	return string(match[1]) != DefaultWorkloadName, nil
}

// Seed installs the bundled default workload configuration at path unless
// an edited file is already in place. Parent directories are created as
// needed. Seeding an unedited or missing file is idempotent.
func Seed(path string) (Outcome, error) {
	edited, err := Edited(path)
	if err != nil {
		return "", err
	}
	if edited {
		return OutcomeKept, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create workload config directory: %w", err)
	}
	if err := os.WriteFile(path, defaultWorkload, 0o644); err != nil {
		return "", fmt.Errorf("failed to write workload config: %w", err)
	}
	return OutcomeSeeded, nil
}

// Default returns the bundled workload configuration in typed form.
func Default() (*Workload, error) {
	var w Workload
	if err := toml.Unmarshal(defaultWorkload, &w); err != nil {
		return nil, fmt.Errorf("internal error: failed to parse bundled workload config: %w", err)
	}
	return &w, nil
}
