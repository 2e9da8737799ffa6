// SPDX-License-Identifier: MPL-2.0

package bootstrap

// Command is the lifecycle action requested by the host agent. Exactly one
// command is classified per process run.
type Command string

const (
	// CommandInstall seeds host configuration; it never resolves a runtime.
	CommandInstall Command = "install"
	// CommandEnable forwards to the handler through a resolved interpreter.
	CommandEnable Command = "enable"
	// CommandDaemon forwards to the handler through a resolved interpreter.
	CommandDaemon Command = "daemon"
)

// String returns the string representation of the Command.
func (c Command) String() string { return string(c) }

// NeedsRuntime reports whether the command is forwarded to the handler
// through a resolved interpreter. Commands outside the lifecycle set are
// no-op successes under the installer-host contract.
func (c Command) NeedsRuntime() bool {
	return c == CommandEnable || c == CommandDaemon
}

// Arg renders the handler argument form of the command, e.g. "-enable".
func (c Command) Arg() string { return "-" + string(c) }
