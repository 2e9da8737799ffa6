// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"os/exec"
)

// Resolver walks an ordered interpreter candidate list and, when that is
// exhausted without a successful handler run, two last-resort fallbacks: a
// generic PATH lookup and process introspection.
type Resolver struct {
	// Candidates are probed in order. The order is fixed for the lifetime
	// of the resolver; a failed candidate is never retried.
	Candidates []Candidate
	// GenericName is resolved through PATH when every ranked candidate
	// failed. Empty disables the lookup.
	GenericName string
	// Introspector recovers an interpreter from a running reference
	// process. Nil disables the recovery.
	Introspector Introspector
	// Invoker launches the handler through each resolved interpreter.
	Invoker HandlerInvoker
	// Logf receives one line per resolution event. Nil discards them.
	Logf func(format string, args ...any)
}

// Run resolves an interpreter and invokes the handler with args, returning
// the exit status of the last invocation. The status accumulator starts at
// StatusNoRuntime and is overwritten only by an actual invocation, so a
// final StatusNoRuntime means total resolution failure.
func (r *Resolver) Run(ctx context.Context, args []string) Status {
	status := StatusNoRuntime
	invoked := false

	for _, c := range r.Candidates {
		path, ok := c.Probe()
		if !ok {
			continue
		}
		r.logf("interpreter found: %s", path)
		status = r.invoke(ctx, path, args)
		invoked = true
		if status.IsSuccess() {
			break
		}
	}

	if !status.IsSuccess() && r.GenericName != "" {
		if path, err := exec.LookPath(r.GenericName); err == nil {
			r.logf("interpreter found on PATH: %s", path)
			status = r.invoke(ctx, path, args)
			invoked = true
		}
	}

	if !status.IsSuccess() && r.Introspector != nil {
		if path, err := r.Introspector.InterpreterPath(ctx); err != nil {
			r.logf("interpreter recovery failed: %v", err)
		} else if regularFile(path) {
			r.logf("interpreter recovered from reference process: %s", path)
			status = r.invoke(ctx, path, args)
			invoked = true
		}
	}

	if !invoked {
		r.logf("runtime version unknown")
	}
	r.logf("exit status %s", status)
	return status
}

func (r *Resolver) invoke(ctx context.Context, interpreter string, args []string) Status {
	status, err := r.Invoker.Invoke(ctx, interpreter, args)
	if err != nil {
		r.logf("%v", err)
	}
	return status
}

func (r *Resolver) logf(format string, args ...any) {
	if r.Logf != nil {
		r.Logf(format, args...)
	}
}
