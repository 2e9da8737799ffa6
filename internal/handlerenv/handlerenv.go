// SPDX-License-Identifier: MPL-2.0

// Package handlerenv reads the environment descriptor the host agent drops
// into the extension directory (HandlerEnvironment.json). The bootstrap
// only consumes the log folder; every other descriptor field belongs to the
// downstream handler and stays opaque here.
//
// Agents have historically shipped the descriptor both as a one-element
// array and as a bare object, sometimes with comments or trailing commas,
// so parsing accepts all of those shapes.
package handlerenv

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"
)

// FileName is the descriptor file name, fixed by the host agent contract.
const FileName = "HandlerEnvironment.json"

// ErrNotFound is returned when no descriptor exists in any searched location.
var ErrNotFound = errors.New("handler environment descriptor not found")

type (
	// Environment is the subset of the descriptor the bootstrap reads.
	Environment struct {
		// Version is the descriptor schema version reported by the agent.
		Version float64
		// LogFolder is where the agent expects extension logs to land.
		LogFolder string
	}

	// wireEnvironment mirrors the descriptor's on-disk shape.
	wireEnvironment struct {
		Version            float64 `json:"version"`
		HandlerEnvironment struct {
			LogFolder string `json:"logFolder"`
		} `json:"handlerEnvironment"`
	}
)

// Parse strips comments and trailing commas from data, then unmarshals the
// descriptor. A one-element array and a bare object are both accepted; in
// the array form only the first element is read.
func Parse(data []byte) (*Environment, error) {
	stripped := jsonc.ToJSON(data)

	var wires []wireEnvironment
	if err := json.Unmarshal(stripped, &wires); err != nil {
		var wire wireEnvironment
		if objErr := json.Unmarshal(stripped, &wire); objErr != nil {
			return nil, fmt.Errorf("parsing handler environment: %w", err)
		}
		wires = []wireEnvironment{wire}
	}
	if len(wires) == 0 {
		return nil, errors.New("handler environment descriptor is empty")
	}

	return &Environment{
		Version:   wires[0].Version,
		LogFolder: wires[0].HandlerEnvironment.LogFolder,
	}, nil
}

// Locate searches startDir and its parent for the descriptor and returns
// the first hit. The parent is included because agents place the file at
// the extension root while the bootstrap may run from a subdirectory.
func Locate(startDir string) (string, error) {
	for _, dir := range []string{startDir, filepath.Dir(startDir)} {
		path := filepath.Join(dir, FileName)
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path, nil
		}
	}
	return "", ErrNotFound
}

// Load locates and parses the descriptor starting from dir.
func Load(dir string) (*Environment, error) {
	path, err := Locate(dir)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	env, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return env, nil
}
