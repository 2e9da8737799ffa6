// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeScript creates an executable shell script to stand in for the
// downstream handler. Tests use /bin/sh as the "interpreter".
func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}
	return path
}

func TestExecInvokerForwardsArgs(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	script := writeScript(t, t.TempDir(), "handle.sh", `echo "$1 $2"`+"\n")

	var stdout, stderr bytes.Buffer
	iv := NewExecInvoker(script)
	iv.Stdout = &stdout
	iv.Stderr = &stderr

	status, err := iv.Invoke(context.Background(), "/bin/sh", []string{"-seqNo:42", "-enable"})
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if status != StatusOK {
		t.Errorf("Invoke() status = %v, want %v", status, StatusOK)
	}

	got := strings.TrimSpace(stdout.String())
	if got != "-seqNo:42 -enable" {
		t.Errorf("handler argv = %q, want %q", got, "-seqNo:42 -enable")
	}
}

func TestExecInvokerPropagatesExitStatus(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	script := writeScript(t, t.TempDir(), "handle.sh", "exit 7\n")

	iv := NewExecInvoker(script)
	iv.Stdout = &bytes.Buffer{}
	iv.Stderr = &bytes.Buffer{}

	status, err := iv.Invoke(context.Background(), "/bin/sh", nil)
	if err != nil {
		t.Fatalf("Invoke() error = %v, want nil for a plain non-zero exit", err)
	}
	if status != 7 {
		t.Errorf("Invoke() status = %v, want 7", status)
	}
}

func TestExecInvokerInheritsEnvironment(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	t.Setenv("EXTBOOT_TEST_MARKER", "carried")
	script := writeScript(t, t.TempDir(), "handle.sh", `printf '%s' "$EXTBOOT_TEST_MARKER"`+"\n")

	var stdout bytes.Buffer
	iv := NewExecInvoker(script)
	iv.Stdout = &stdout
	iv.Stderr = &bytes.Buffer{}

	if status, err := iv.Invoke(context.Background(), "/bin/sh", nil); err != nil || status != StatusOK {
		t.Fatalf("Invoke() = %v, %v, want 0, nil", status, err)
	}
	if stdout.String() != "carried" {
		t.Errorf("child environment missing marker, stdout = %q", stdout.String())
	}
}

func TestExecInvokerLaunchFailure(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	iv := NewExecInvoker("handle.sh")
	iv.Stdout = &bytes.Buffer{}
	iv.Stderr = &bytes.Buffer{}

	status, err := iv.Invoke(context.Background(), filepath.Join(t.TempDir(), "no-such-interpreter"), nil)
	if err == nil {
		t.Fatal("Invoke() error = nil, want launch failure")
	}
	if status.IsSuccess() {
		t.Errorf("Invoke() status = %v, want non-zero on launch failure", status)
	}
}
