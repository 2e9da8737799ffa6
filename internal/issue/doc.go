// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// The bootstrap reports failures to the agent through exit statuses alone;
// this package carries the human-facing side: error types with remediation
// steps and Markdown-formatted guidance pages rendered to stderr.
package issue
