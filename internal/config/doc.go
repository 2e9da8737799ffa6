// SPDX-License-Identifier: MPL-2.0

// Package config handles extension bootstrap configuration using Viper with
// CUE as the file format.
//
// Configuration is loaded from /etc/extboot/extboot.cue, falling back to an
// extboot.cue in the extension directory, and finally to built-in defaults
// when no file exists. A --config flag can pin an explicit file instead. The
// package provides type-safe access to the handler script, sequence variable,
// interpreter candidate list, and fallback settings.
//
// Configuration validation is performed against a CUE schema
// (config_schema.cue) to ensure type safety and provide clear error messages
// for invalid configurations.
package config
