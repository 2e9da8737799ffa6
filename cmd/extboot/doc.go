// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the CLI surface for extboot.
//
// The package wires the Cobra root command through charmbracelet/fang and
// maps the dispatcher's final status onto the process exit code via
// ExitError. One lifecycle command runs per process.
package cmd
