// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidInterpreterName is returned when an InterpreterName value is empty or whitespace-only.
	ErrInvalidInterpreterName = errors.New("invalid interpreter name")
	// ErrInvalidScriptPath is returned when a ScriptPath value is empty or whitespace-only.
	ErrInvalidScriptPath = errors.New("invalid script path")
	// ErrInvalidEnvVarName is returned when an EnvVarName value is empty or malformed.
	ErrInvalidEnvVarName = errors.New("invalid environment variable name")
	// ErrInvalidProcessName is returned when a ProcessName value is whitespace-only.
	ErrInvalidProcessName = errors.New("invalid process name")
	// ErrInvalidWorkloadConfigPath is returned when a WorkloadConfigPath value is empty or whitespace-only.
	ErrInvalidWorkloadConfigPath = errors.New("invalid workload config path")
	// ErrInvalidDescriptorPath is returned when a DescriptorPath value is whitespace-only.
	ErrInvalidDescriptorPath = errors.New("invalid descriptor path")
	// ErrInvalidLogDirPath is returned when a LogDirPath value is empty or whitespace-only.
	ErrInvalidLogDirPath = errors.New("invalid log dir path")
	// ErrInvalidProbeDirPath is returned when a ProbeDirPath value is whitespace-only.
	ErrInvalidProbeDirPath = errors.New("invalid probe dir path")
	// ErrInvalidCandidateEntry is the sentinel error wrapped by InvalidCandidateEntryError.
	ErrInvalidCandidateEntry = errors.New("invalid candidate entry")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// InterpreterName is the bare name of an interpreter binary, e.g. "python3.11".
	// A valid name must be non-empty and not whitespace-only.
	InterpreterName string

	// InvalidInterpreterNameError is returned when an InterpreterName value is
	// empty or whitespace-only. It wraps ErrInvalidInterpreterName for errors.Is().
	InvalidInterpreterNameError struct {
		Value InterpreterName
	}

	// ScriptPath is the handler script handed to the resolved interpreter,
	// relative to the extension directory. A valid path must be non-empty
	// and not whitespace-only.
	ScriptPath string

	// InvalidScriptPathError is returned when a ScriptPath value is empty or
	// whitespace-only. It wraps ErrInvalidScriptPath for errors.Is().
	InvalidScriptPathError struct {
		Value ScriptPath
	}

	// EnvVarName names the environment variable carrying the configuration
	// sequence number. A valid name must be non-empty, not whitespace-only,
	// and must not contain '='.
	EnvVarName string

	// InvalidEnvVarNameError is returned when an EnvVarName value is empty,
	// whitespace-only, or contains '='. It wraps ErrInvalidEnvVarName for errors.Is().
	InvalidEnvVarNameError struct {
		Value EnvVarName
	}

	// ProcessName names the running process whose command line is inspected
	// to recover an interpreter as the final fallback.
	// The zero value ("") is valid and disables the recovery.
	// Non-zero values must not be whitespace-only.
	ProcessName string

	// InvalidProcessNameError is returned when a ProcessName value is
	// non-empty but whitespace-only.
	InvalidProcessNameError struct {
		Value ProcessName
	}

	// WorkloadConfigPath is the well-known workload configuration file seeded
	// by the install step. A valid path must be non-empty and not whitespace-only.
	WorkloadConfigPath string

	// InvalidWorkloadConfigPathError is returned when a WorkloadConfigPath value
	// is empty or whitespace-only. It wraps ErrInvalidWorkloadConfigPath for errors.Is().
	InvalidWorkloadConfigPathError struct {
		Value WorkloadConfigPath
	}

	// DescriptorPath is the hosting descriptor XML holding the machine identity.
	// The zero value ("") is valid and disables the identity check.
	// Non-zero values must not be whitespace-only.
	DescriptorPath string

	// InvalidDescriptorPathError is returned when a DescriptorPath value is
	// non-empty but whitespace-only.
	InvalidDescriptorPathError struct {
		Value DescriptorPath
	}

	// LogDirPath is the directory extension.log falls back to when the handler
	// environment descriptor yields no usable logFolder. A valid path must be
	// non-empty and not whitespace-only.
	LogDirPath string

	// InvalidLogDirPathError is returned when a LogDirPath value is empty or
	// whitespace-only. It wraps ErrInvalidLogDirPath for errors.Is().
	InvalidLogDirPathError struct {
		Value LogDirPath
	}

	// ProbeDirPath is a directory probed for a candidate interpreter binary.
	// The zero value ("") is valid and means "skip this location".
	// Non-zero values must not be whitespace-only.
	ProbeDirPath string

	// InvalidProbeDirPathError is returned when a ProbeDirPath value is
	// non-empty but whitespace-only.
	InvalidProbeDirPathError struct {
		Value ProbeDirPath
	}

	// InvalidCandidateEntryError is returned when a CandidateEntry has invalid fields.
	// It wraps ErrInvalidCandidateEntry for errors.Is() compatibility and collects
	// field-level validation errors from Name and the probe directories.
	InvalidCandidateEntryError struct {
		FieldErrors []error
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// CandidateEntry is one ranked interpreter candidate. The binary named by
	// Name is probed at PrimaryDir first, then at SecondaryDir. Empty
	// directories are skipped.
	CandidateEntry struct {
		// Name is the interpreter binary name, e.g. "python3.11".
		Name InterpreterName `json:"name" mapstructure:"name"`
		// PrimaryDir is probed first.
		PrimaryDir ProbeDirPath `json:"primary_dir,omitempty" mapstructure:"primary_dir"`
		// SecondaryDir is probed when the primary location has no match.
		SecondaryDir ProbeDirPath `json:"secondary_dir,omitempty" mapstructure:"secondary_dir"`
	}

	// Config holds the extension bootstrap configuration.
	Config struct {
		// HandlerScript is the script handed to the resolved interpreter.
		HandlerScript ScriptPath `json:"handler_script" mapstructure:"handler_script"`
		// SequenceEnv names the variable carrying the configuration sequence number.
		SequenceEnv EnvVarName `json:"sequence_env" mapstructure:"sequence_env"`
		// GenericRuntime is resolved through PATH when every ranked candidate
		// fails. Empty disables the lookup.
		GenericRuntime InterpreterName `json:"generic_runtime" mapstructure:"generic_runtime"`
		// ReferenceProcess is inspected to recover an interpreter as the final
		// fallback. Empty disables the recovery.
		ReferenceProcess ProcessName `json:"reference_process" mapstructure:"reference_process"`
		// WorkloadConfig is the well-known workload configuration file seeded
		// by the install step.
		WorkloadConfig WorkloadConfigPath `json:"workload_config" mapstructure:"workload_config"`
		// IdentityDescriptor is the hosting descriptor XML holding the machine
		// identity.
		IdentityDescriptor DescriptorPath `json:"identity_descriptor" mapstructure:"identity_descriptor"`
		// FallbackLogDir is where extension.log lands when the handler
		// environment has no usable logFolder.
		FallbackLogDir LogDirPath `json:"fallback_log_dir" mapstructure:"fallback_log_dir"`
		// Candidates are the ranked interpreter candidates, evaluated in order.
		Candidates []CandidateEntry `json:"candidates" mapstructure:"candidates"`
	}
)

// IsValid returns whether the CandidateEntry has valid fields.
// It delegates to Name.IsValid() unconditionally and to each probe
// directory's IsValid() (the zero-value directory is always valid).
func (e CandidateEntry) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := e.Name.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := e.PrimaryDir.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := e.SecondaryDir.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidCandidateEntryError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidCandidateEntryError.
func (e *InvalidCandidateEntryError) Error() string {
	return fmt.Sprintf("invalid candidate entry: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidCandidateEntry for errors.Is() compatibility.
func (e *InvalidCandidateEntryError) Unwrap() error { return ErrInvalidCandidateEntry }

// IsValid returns whether the Config has valid fields.
// It delegates to the field types' IsValid() methods; GenericRuntime is
// checked only when non-empty (the zero value disables the PATH lookup).
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.HandlerScript.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.SequenceEnv.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if c.GenericRuntime != "" {
		if valid, fieldErrs := c.GenericRuntime.IsValid(); !valid {
			errs = append(errs, fieldErrs...)
		}
	}
	if valid, fieldErrs := c.ReferenceProcess.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.WorkloadConfig.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.IdentityDescriptor.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.FallbackLogDir.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	for _, entry := range c.Candidates {
		if valid, fieldErrs := entry.IsValid(); !valid {
			errs = append(errs, fieldErrs...)
		}
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// String returns the string representation of the InterpreterName.
func (n InterpreterName) String() string { return string(n) }

// IsValid returns whether the InterpreterName is valid.
// A valid name must be non-empty and not whitespace-only.
func (n InterpreterName) IsValid() (bool, []error) {
	if strings.TrimSpace(string(n)) == "" {
		return false, []error{&InvalidInterpreterNameError{Value: n}}
	}
	return true, nil
}

// Error implements the error interface for InvalidInterpreterNameError.
func (e *InvalidInterpreterNameError) Error() string {
	return fmt.Sprintf("invalid interpreter name %q: must be non-empty", e.Value)
}

// Unwrap returns ErrInvalidInterpreterName for errors.Is() compatibility.
func (e *InvalidInterpreterNameError) Unwrap() error { return ErrInvalidInterpreterName }

// String returns the string representation of the ScriptPath.
func (p ScriptPath) String() string { return string(p) }

// IsValid returns whether the ScriptPath is valid.
// A valid path must be non-empty and not whitespace-only.
func (p ScriptPath) IsValid() (bool, []error) {
	if strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidScriptPathError{Value: p}}
	}
	return true, nil
}

// Error implements the error interface for InvalidScriptPathError.
func (e *InvalidScriptPathError) Error() string {
	return fmt.Sprintf("invalid script path %q: must be non-empty", e.Value)
}

// Unwrap returns ErrInvalidScriptPath for errors.Is() compatibility.
func (e *InvalidScriptPathError) Unwrap() error { return ErrInvalidScriptPath }

// String returns the string representation of the EnvVarName.
func (n EnvVarName) String() string { return string(n) }

// IsValid returns whether the EnvVarName is valid.
// A valid name must be non-empty, not whitespace-only, and must not
// contain '='.
func (n EnvVarName) IsValid() (bool, []error) {
	if strings.TrimSpace(string(n)) == "" || strings.Contains(string(n), "=") {
		return false, []error{&InvalidEnvVarNameError{Value: n}}
	}
	return true, nil
}

// Error implements the error interface for InvalidEnvVarNameError.
func (e *InvalidEnvVarNameError) Error() string {
	return fmt.Sprintf("invalid environment variable name %q: must be non-empty and must not contain '='", e.Value)
}

// Unwrap returns ErrInvalidEnvVarName for errors.Is() compatibility.
func (e *InvalidEnvVarNameError) Unwrap() error { return ErrInvalidEnvVarName }

// String returns the string representation of the ProcessName.
func (n ProcessName) String() string { return string(n) }

// IsValid returns whether the ProcessName is valid.
// The zero value ("") is valid (disables interpreter recovery).
// Non-zero values must not be whitespace-only.
func (n ProcessName) IsValid() (bool, []error) {
	if n == "" {
		return true, nil
	}
	if strings.TrimSpace(string(n)) == "" {
		return false, []error{&InvalidProcessNameError{Value: n}}
	}
	return true, nil
}

// Error implements the error interface for InvalidProcessNameError.
func (e *InvalidProcessNameError) Error() string {
	return fmt.Sprintf("invalid process name %q: non-empty value must not be whitespace-only", e.Value)
}

// Unwrap returns ErrInvalidProcessName for errors.Is() compatibility.
func (e *InvalidProcessNameError) Unwrap() error { return ErrInvalidProcessName }

// String returns the string representation of the WorkloadConfigPath.
func (p WorkloadConfigPath) String() string { return string(p) }

// IsValid returns whether the WorkloadConfigPath is valid.
// A valid path must be non-empty and not whitespace-only.
func (p WorkloadConfigPath) IsValid() (bool, []error) {
	if strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidWorkloadConfigPathError{Value: p}}
	}
	return true, nil
}

// Error implements the error interface for InvalidWorkloadConfigPathError.
func (e *InvalidWorkloadConfigPathError) Error() string {
	return fmt.Sprintf("invalid workload config path %q: must be non-empty", e.Value)
}

// Unwrap returns ErrInvalidWorkloadConfigPath for errors.Is() compatibility.
func (e *InvalidWorkloadConfigPathError) Unwrap() error { return ErrInvalidWorkloadConfigPath }

// String returns the string representation of the DescriptorPath.
func (p DescriptorPath) String() string { return string(p) }

// IsValid returns whether the DescriptorPath is valid.
// The zero value ("") is valid (disables the identity check).
// Non-zero values must not be whitespace-only.
func (p DescriptorPath) IsValid() (bool, []error) {
	if p == "" {
		return true, nil
	}
	if strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidDescriptorPathError{Value: p}}
	}
	return true, nil
}

// Error implements the error interface for InvalidDescriptorPathError.
func (e *InvalidDescriptorPathError) Error() string {
	return fmt.Sprintf("invalid descriptor path %q: non-empty value must not be whitespace-only", e.Value)
}

// Unwrap returns ErrInvalidDescriptorPath for errors.Is() compatibility.
func (e *InvalidDescriptorPathError) Unwrap() error { return ErrInvalidDescriptorPath }

// String returns the string representation of the LogDirPath.
func (p LogDirPath) String() string { return string(p) }

// IsValid returns whether the LogDirPath is valid.
// A valid path must be non-empty and not whitespace-only.
func (p LogDirPath) IsValid() (bool, []error) {
	if strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidLogDirPathError{Value: p}}
	}
	return true, nil
}

// Error implements the error interface for InvalidLogDirPathError.
func (e *InvalidLogDirPathError) Error() string {
	return fmt.Sprintf("invalid log dir path %q: must be non-empty", e.Value)
}

// Unwrap returns ErrInvalidLogDirPath for errors.Is() compatibility.
func (e *InvalidLogDirPathError) Unwrap() error { return ErrInvalidLogDirPath }

// String returns the string representation of the ProbeDirPath.
func (p ProbeDirPath) String() string { return string(p) }

// IsValid returns whether the ProbeDirPath is valid.
// The zero value ("") is valid (means "skip this location").
// Non-zero values must not be whitespace-only.
func (p ProbeDirPath) IsValid() (bool, []error) {
	if p == "" {
		return true, nil
	}
	if strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidProbeDirPathError{Value: p}}
	}
	return true, nil
}

// Error implements the error interface for InvalidProbeDirPathError.
func (e *InvalidProbeDirPathError) Error() string {
	return fmt.Sprintf("invalid probe dir path %q: non-empty value must not be whitespace-only", e.Value)
}

// Unwrap returns ErrInvalidProbeDirPath for errors.Is() compatibility.
func (e *InvalidProbeDirPathError) Unwrap() error { return ErrInvalidProbeDirPath }

// DefaultCandidates returns the built-in ranked interpreter candidates,
// newest first. Each candidate is probed under /usr/bin before /usr/local/bin.
func DefaultCandidates() []CandidateEntry {
	names := []InterpreterName{
		"python3.12",
		"python3.11",
		"python3.10",
		"python3.9",
		"python3.8",
		"python3.6",
		"python2.7",
	}
	entries := make([]CandidateEntry, 0, len(names))
	for _, name := range names {
		entries = append(entries, CandidateEntry{
			Name:         name,
			PrimaryDir:   "/usr/bin",
			SecondaryDir: "/usr/local/bin",
		})
	}
	return entries
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		HandlerScript:      "main/handle.py",
		SequenceEnv:        "ConfigSequenceNumber",
		GenericRuntime:     "python3",
		ReferenceProcess:   "guestagent",
		WorkloadConfig:     "/etc/extboot/workload.toml",
		IdentityDescriptor: "/var/lib/guestagent/HostingEnvironmentConfig.xml",
		FallbackLogDir:     ".",
		Candidates:         DefaultCandidates(),
	}
}
