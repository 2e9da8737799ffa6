// SPDX-License-Identifier: MPL-2.0

// Package runtime resolves a working interpreter and runs the extension
// handler through it.
//
// Resolution walks an ordered Candidate list, probing each name at its
// primary then secondary directory. When the ranked walk ends without a
// successful handler run, two last-resort fallbacks apply: a generic PATH
// lookup and interpreter recovery from a running reference process
// (Introspector). The handler itself is launched by a HandlerInvoker; the
// production ExecInvoker runs it as a real child process.
//
// Status carries the exit code contract. 0 is success. StatusNoRuntime (3)
// is the accumulator sentinel meaning the handler was never invoked; any
// other value is the child's own exit status, forwarded verbatim.
package runtime
