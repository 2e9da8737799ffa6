// SPDX-License-Identifier: MPL-2.0

// Package bootstrap provides command classification and dispatch for the
// extension lifecycle: one command in, one exit status out. It decouples
// CLI-layer argument handling from seeding, identity tracking, and
// interpreter resolution.
package bootstrap
