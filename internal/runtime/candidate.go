// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"os"
	"path/filepath"
)

type (
	// Candidate is one ranked interpreter binary probed at up to two
	// well-known locations. Candidates are evaluated in list order and the
	// first one that works ends the walk.
	Candidate struct {
		// Name is the interpreter binary name, e.g. "python3.10".
		Name string
		// PrimaryDir is probed first, SecondaryDir only when the primary
		// location has no regular file of that name.
		PrimaryDir   string
		SecondaryDir string
	}

	// Introspector recovers an interpreter path by inspecting running
	// processes. It is the last resolution method tried, after the ranked
	// candidates and the PATH lookup have both failed.
	Introspector interface {
		// InterpreterPath returns the absolute path of the interpreter a
		// running reference process was started with.
		InterpreterPath(ctx context.Context) (string, error)
	}
)

// Probe returns the first location where the candidate exists as a regular
// file. Existence alone is the predicate; executability is not checked.
func (c Candidate) Probe() (string, bool) {
	for _, dir := range []string{c.PrimaryDir, c.SecondaryDir} {
		if dir == "" {
			continue
		}
		path := filepath.Join(dir, c.Name)
		if regularFile(path) {
			return path, true
		}
	}
	return "", false
}

func regularFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}
