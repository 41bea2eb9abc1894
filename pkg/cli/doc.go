// Package cli provides terminal helpers for the skiff command:
// progress reporting for long-running exports and output formatting
// for command results.
package cli
