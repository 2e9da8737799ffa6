// SPDX-License-Identifier: MPL-2.0

package config

// configDirOverride allows tests to override the config directory.
// This is necessary because /etc/extboot is a system path that tests
// cannot (and must not) write to.
var configDirOverride string

// Reset clears test overrides. Call from test cleanup to restore defaults.
func Reset() {
	configDirOverride = ""
}

// SetConfigDirOverride sets a custom config directory path.
// This is primarily intended for testing to point the loader at a
// temporary directory instead of /etc/extboot.
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
}
