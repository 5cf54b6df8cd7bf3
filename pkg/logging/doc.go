// Package logging provides subsystem-tagged structured logging for scalectl.
//
// The package is a thin layer over Go's standard slog package. Every entry
// carries a subsystem attribute so that output from the signer, the API
// client and the reconciler can be told apart when --debug is set.
//
// # Usage
//
//	logging.InitForCLI(logging.LevelInfo, os.Stderr)
//
//	logging.Info("Reconciler", "Server %s is up to date", id)
//	logging.Debug("Scalelite", "POST %s (request %s)", endpoint, requestID)
//	logging.Error("Scalelite", err, "Listing servers failed")
//
// Logs are written to stderr by the CLI; stdout is reserved for command
// results so that json and yaml output can be piped.
//
// Secrets must never be logged verbatim. Use Redact when a secret needs to
// be referenced in a message.
package logging
