// Package logging provides structured logging for the netcommander tools.
//
// This package wraps a zap logger with convenience functions. It is silent
// by default so that the client library prints nothing when embedded; set
// NETCOMMANDER_LOG_LEVEL (debug, info, warn, error) or call Initialize to
// turn it on.
//
// # Log Levels
//
//   - Debug: every command and raw device reply (hex and ascii dumps)
//   - Info: outlet writes and batch operations
//   - Warn: non-fatal issues (registry write failures, skipped probes)
//   - Error: per-outlet failures inside batch operations
//
// # Structured Logging
//
//	logging.Info("Setting outlet",
//	    zap.String("host", "192.168.1.100"),
//	    zap.Int("outlet", 3),
//	    zap.String("state", "ON"),
//	)
//
// # Configuration
//
//	if err := logging.InitializeFromEnv(); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// Output goes to stderr in console format.
package logging
