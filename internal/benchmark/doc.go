// SPDX-License-Identifier: MPL-2.0

// Package benchmark provides benchmarks for PGO profile generation.
// These benchmarks cover the bootstrap's hot paths:
//   - CUE config compilation and schema validation
//   - Handler environment descriptor parsing
//   - Workload config edited-state detection
//   - Interpreter candidate probing
//
// To generate a PGO profile, run:
//
//	go test -bench=. -cpuprofile=default.pgo ./internal/benchmark/
package benchmark
