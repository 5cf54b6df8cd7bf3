// Package cli provides the command-line glue shared by the scalectl commands.
//
// # Core Components
//
// Printer renders command output in one of the supported formats:
//   - text: a one-line summary for reconciliation results, a kubectl-style
//     plain table for server lists, and a bordered key/value table for a
//     single server
//   - json and yaml: machine-readable documents for scripting
//
// Server secrets are redacted unless explicitly requested.
//
// Progress shows a spinner on stderr while the API is being called. It is
// silent in quiet mode and when stderr is not a terminal, so it never mixes
// with the output on stdout.
//
// CommandFlags and RegisterCommonFlags give every command the same output,
// quiet, debug and timeout flags.
//
// # Error Presentation
//
// ClassifyConnectionError turns low-level network failures into a
// ConnectionError that explains the likely cause (TLS, DNS, timeout or plain
// connectivity). Describe picks the most helpful message for any error a
// command returns.
package cli
