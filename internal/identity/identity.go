// SPDX-License-Identifier: MPL-2.0

// Package identity tracks the machine identity carried in the hosting
// environment descriptor. The install step records the identity; later runs
// compare against the recorded value to detect that the extension now runs
// on a different machine, e.g. after a reprovision.
package identity

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// StateFileName is the file the recorded identity is persisted to,
// relative to the extension directory.
const StateFileName = ".machine_identity"

// ErrNoRole is returned when the hosting descriptor parses but contains no
// Role element to take the identity from.
var ErrNoRole = errors.New("hosting descriptor has no Role element")

// Store reads the live machine identity and persists a copy across runs.
type Store struct {
	// DescriptorPath is the hosting descriptor XML.
	// Empty disables identity tracking.
	DescriptorPath string
	// StatePath is where the recorded identity lives.
	StatePath string
}

// New returns a Store reading descriptorPath and persisting under stateDir.
func New(descriptorPath, stateDir string) *Store {
	return &Store{
		DescriptorPath: descriptorPath,
		StatePath:      filepath.Join(stateDir, StateFileName),
	}
}

// Current returns the machine identity from the hosting descriptor. It is
// "" when tracking is disabled or the descriptor is absent; both are normal
// on hosts provisioned without one.
func (s *Store) Current() (string, error) {
	if s.DescriptorPath == "" {
		return "", nil
	}

	f, err := os.Open(s.DescriptorPath)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to open hosting descriptor: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only descriptor

	return roleGUID(f)
}

// roleGUID scans the descriptor for the first Role element, at any depth,
// and returns its guid attribute. A Role without a guid yields "".
func roleGUID(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return "", ErrNoRole
		}
		if err != nil {
			return "", fmt.Errorf("failed to parse hosting descriptor: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "Role" {
			continue
		}
		for _, attr := range start.Attr {
			if attr.Name.Local == "guid" {
				return attr.Value, nil
			}
		}
		return "", nil
	}
}

// Save records the current identity, replacing any previous record. When
// the descriptor is absent an empty identity is recorded, matching a fresh
// install on a host without one.
func (s *Store) Save() error {
	id, err := s.Current()
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.StatePath, []byte(id), 0o644); err != nil {
		return fmt.Errorf("failed to record machine identity: %w", err)
	}
	return nil
}

// Stored returns the identity recorded by a previous run, or "" when none
// was recorded.
func (s *Store) Stored() (string, error) {
	data, err := os.ReadFile(s.StatePath)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read recorded machine identity: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}
