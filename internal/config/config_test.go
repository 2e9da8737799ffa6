// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/extboot/extboot/internal/issue"
)

// writeConfigFile drops content into dir as extboot.cue and returns the path.
func writeConfigFile(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName+"."+ConfigFileExt)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestConstants(t *testing.T) {
	if AppName != "extboot" {
		t.Errorf("AppName = %s, want extboot", AppName)
	}

	if ConfigFileName != "extboot" {
		t.Errorf("ConfigFileName = %s, want extboot", ConfigFileName)
	}

	if ConfigFileExt != "cue" {
		t.Errorf("ConfigFileExt = %s, want cue", ConfigFileExt)
	}
}

func TestConfigDir_Default(t *testing.T) {
	Reset()

	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() returned error: %v", err)
	}

	if dir != "/etc/extboot" {
		t.Errorf("ConfigDir() = %s, want /etc/extboot", dir)
	}
}

func TestConfigDir_Override(t *testing.T) {
	tmpDir := t.TempDir()
	SetConfigDirOverride(tmpDir)
	defer Reset()

	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() returned error: %v", err)
	}

	if dir != tmpDir {
		t.Errorf("ConfigDir() = %s, want %s", dir, tmpDir)
	}
}

func TestLoad_DefaultsWhenNoConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	// Chdir so no stray extboot.cue in the working directory is picked up.
	t.Chdir(tmpDir)

	cfg, path, err := loadWithOptions(context.Background(), LoadOptions{ConfigDirPath: tmpDir})
	if err != nil {
		t.Fatalf("loadWithOptions() returned error: %v", err)
	}

	if path != "" {
		t.Errorf("expected empty resolved path for defaults, got %s", path)
	}

	defaults := DefaultConfig()
	if cfg.HandlerScript != defaults.HandlerScript {
		t.Errorf("HandlerScript = %s, want %s", cfg.HandlerScript, defaults.HandlerScript)
	}
	if cfg.SequenceEnv != defaults.SequenceEnv {
		t.Errorf("SequenceEnv = %s, want %s", cfg.SequenceEnv, defaults.SequenceEnv)
	}
	if len(cfg.Candidates) != len(defaults.Candidates) {
		t.Errorf("Candidates length = %d, want %d", len(cfg.Candidates), len(defaults.Candidates))
	}
}

func TestLoad_ReadsConfigDirFile(t *testing.T) {
	tmpDir := t.TempDir()
	t.Chdir(t.TempDir())

	cfgPath := writeConfigFile(t, tmpDir, `handler_script: "main/run.py"
sequence_env: "SeqNo"
`)

	cfg, path, err := loadWithOptions(context.Background(), LoadOptions{ConfigDirPath: tmpDir})
	if err != nil {
		t.Fatalf("loadWithOptions() returned error: %v", err)
	}

	if path != cfgPath {
		t.Errorf("resolved path = %s, want %s", path, cfgPath)
	}

	if cfg.HandlerScript != "main/run.py" {
		t.Errorf("HandlerScript = %s, want main/run.py", cfg.HandlerScript)
	}
	if cfg.SequenceEnv != "SeqNo" {
		t.Errorf("SequenceEnv = %s, want SeqNo", cfg.SequenceEnv)
	}

	// Untouched keys keep their defaults.
	if cfg.GenericRuntime != "python3" {
		t.Errorf("GenericRuntime = %s, want python3", cfg.GenericRuntime)
	}
	if len(cfg.Candidates) != 7 {
		t.Errorf("Candidates length = %d, want 7", len(cfg.Candidates))
	}
}

func TestLoad_ReadsExtensionDirFile(t *testing.T) {
	emptyCfgDir := t.TempDir()
	workDir := t.TempDir()
	t.Chdir(workDir)

	writeConfigFile(t, workDir, `generic_runtime: "python3.13"`)

	cfg, path, err := loadWithOptions(context.Background(), LoadOptions{ConfigDirPath: emptyCfgDir})
	if err != nil {
		t.Fatalf("loadWithOptions() returned error: %v", err)
	}

	if path != ConfigFileName+"."+ConfigFileExt {
		t.Errorf("resolved path = %s, want %s", path, ConfigFileName+"."+ConfigFileExt)
	}

	if cfg.GenericRuntime != "python3.13" {
		t.Errorf("GenericRuntime = %s, want python3.13", cfg.GenericRuntime)
	}
}

func TestLoad_EmptyValueDisablesFallback(t *testing.T) {
	tmpDir := t.TempDir()
	t.Chdir(t.TempDir())

	writeConfigFile(t, tmpDir, `generic_runtime: ""
reference_process: ""
`)

	cfg, _, err := loadWithOptions(context.Background(), LoadOptions{ConfigDirPath: tmpDir})
	if err != nil {
		t.Fatalf("loadWithOptions() returned error: %v", err)
	}

	if cfg.GenericRuntime != "" {
		t.Errorf("GenericRuntime = %q, want empty", cfg.GenericRuntime)
	}
	if cfg.ReferenceProcess != "" {
		t.Errorf("ReferenceProcess = %q, want empty", cfg.ReferenceProcess)
	}
}

func TestLoad_CandidatesOverrideReplacesDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	t.Chdir(t.TempDir())

	writeConfigFile(t, tmpDir, `candidates: [
	{name: "python3.13", primary_dir: "/opt/python/bin"},
]
`)

	cfg, _, err := loadWithOptions(context.Background(), LoadOptions{ConfigDirPath: tmpDir})
	if err != nil {
		t.Fatalf("loadWithOptions() returned error: %v", err)
	}

	if len(cfg.Candidates) != 1 {
		t.Fatalf("Candidates length = %d, want 1", len(cfg.Candidates))
	}

	entry := cfg.Candidates[0]
	if entry.Name != "python3.13" {
		t.Errorf("Name = %s, want python3.13", entry.Name)
	}
	if entry.PrimaryDir != "/opt/python/bin" {
		t.Errorf("PrimaryDir = %s, want /opt/python/bin", entry.PrimaryDir)
	}
	if entry.SecondaryDir != "" {
		t.Errorf("SecondaryDir = %q, want empty", entry.SecondaryDir)
	}
}

func TestLoad_CustomPath_Valid(t *testing.T) {
	tmpDir := t.TempDir()
	customPath := filepath.Join(tmpDir, "pinned.cue")
	if err := os.WriteFile(customPath, []byte(`handler_script: "alt/handle.py"`), 0o644); err != nil {
		t.Fatalf("failed to write custom config: %v", err)
	}

	cfg, path, err := loadWithOptions(context.Background(), LoadOptions{ConfigFilePath: customPath})
	if err != nil {
		t.Fatalf("loadWithOptions() returned error: %v", err)
	}

	if path != customPath {
		t.Errorf("resolved path = %s, want %s", path, customPath)
	}
	if cfg.HandlerScript != "alt/handle.py" {
		t.Errorf("HandlerScript = %s, want alt/handle.py", cfg.HandlerScript)
	}
}

func TestLoad_CustomPath_NotFound_ReturnsError(t *testing.T) {
	nonExistentPath := "/this/path/does/not/exist/extboot.cue"

	_, _, err := loadWithOptions(context.Background(), LoadOptions{ConfigFilePath: nonExistentPath})
	if err == nil {
		t.Fatal("expected error for non-existent config file")
	}

	errStr := err.Error()
	if !strings.Contains(errStr, "load configuration") {
		t.Errorf("error should contain 'load configuration', got: %s", errStr)
	}
	if !strings.Contains(errStr, nonExistentPath) {
		t.Errorf("error should contain the path, got: %s", errStr)
	}
	if !strings.Contains(errStr, "config file not found") {
		t.Errorf("error should contain 'config file not found', got: %s", errStr)
	}

	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		t.Fatal("expected error to be *issue.ActionableError")
	}
	if len(ae.Suggestions) == 0 {
		t.Error("expected ActionableError to have suggestions")
	}
	foundSuggestion := false
	for _, s := range ae.Suggestions {
		if strings.Contains(s, "Verify the file path is correct") {
			foundSuggestion = true
			break
		}
	}
	if !foundSuggestion {
		t.Errorf("expected suggestion 'Verify the file path is correct', got: %v", ae.Suggestions)
	}
}

func TestLoad_CustomPath_InvalidCUE_ReturnsError(t *testing.T) {
	tmpDir := t.TempDir()
	customPath := filepath.Join(tmpDir, "broken.cue")
	if err := os.WriteFile(customPath, []byte(`this is not valid CUE syntax {{{{`), 0o644); err != nil {
		t.Fatalf("failed to write invalid config: %v", err)
	}

	_, _, err := loadWithOptions(context.Background(), LoadOptions{ConfigFilePath: customPath})
	if err == nil {
		t.Fatal("expected error for invalid CUE config file")
	}

	errStr := err.Error()
	if !strings.Contains(errStr, "load configuration") {
		t.Errorf("error should contain 'load configuration', got: %s", errStr)
	}
	if !strings.Contains(errStr, customPath) {
		t.Errorf("error should contain the path, got: %s", errStr)
	}
}

func TestLoad_SchemaViolation_ReturnsError(t *testing.T) {
	tmpDir := t.TempDir()
	t.Chdir(t.TempDir())

	// handler_script must be a string.
	writeConfigFile(t, tmpDir, `handler_script: 123`)

	_, _, err := loadWithOptions(context.Background(), LoadOptions{ConfigDirPath: tmpDir})
	if err == nil {
		t.Fatal("expected error for schema violation")
	}

	if !strings.Contains(err.Error(), "handler_script") {
		t.Errorf("error should name the offending field, got: %s", err.Error())
	}
}

func TestLoad_UnknownField_ReturnsError(t *testing.T) {
	tmpDir := t.TempDir()
	t.Chdir(t.TempDir())

	writeConfigFile(t, tmpDir, `surprise_field: true`)

	_, _, err := loadWithOptions(context.Background(), LoadOptions{ConfigDirPath: tmpDir})
	if err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestLoad_DuplicateCandidateNames_ReturnsError(t *testing.T) {
	tmpDir := t.TempDir()
	t.Chdir(t.TempDir())

	writeConfigFile(t, tmpDir, `candidates: [
	{name: "python3.11", primary_dir: "/usr/bin"},
	{name: "python3.11", primary_dir: "/usr/local/bin"},
]
`)

	_, _, err := loadWithOptions(context.Background(), LoadOptions{ConfigDirPath: tmpDir})
	if err == nil {
		t.Fatal("expected error for duplicate candidate names")
	}

	if !strings.Contains(err.Error(), "duplicate candidate name") {
		t.Errorf("error should mention the duplicate, got: %s", err.Error())
	}
}

func TestLoad_WhitespaceCandidateName_ReturnsError(t *testing.T) {
	tmpDir := t.TempDir()
	t.Chdir(t.TempDir())

	// Passes the CUE non-empty check but fails Go-level validation.
	writeConfigFile(t, tmpDir, `candidates: [{name: "   "}]`)

	_, _, err := loadWithOptions(context.Background(), LoadOptions{ConfigDirPath: tmpDir})
	if err == nil {
		t.Fatal("expected error for whitespace-only candidate name")
	}

	if !errors.Is(err, ErrInvalidCandidateEntry) {
		t.Errorf("error should wrap ErrInvalidCandidateEntry, got: %v", err)
	}
}

func TestLoad_CanceledContext_ReturnsError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := loadWithOptions(ctx, LoadOptions{})
	if err == nil {
		t.Fatal("expected error for canceled context")
	}

	if !strings.Contains(err.Error(), "load config canceled") {
		t.Errorf("error should mention cancellation, got: %s", err.Error())
	}
}
