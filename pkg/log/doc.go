/*
Package log provides structured logging for Burrow using zerolog.

The log package wraps the zerolog library to provide JSON-structured logging
with component-specific child loggers, configurable log levels, and helper
functions for common logging patterns. All logs include timestamps and
support filtering by severity level.

# Usage

	log.Init(log.Config{Level: log.InfoLevel, JSONOutput: true})
	logger := log.WithComponent("kube")
	logger.Info().Str("namespace", ns).Msg("devnet deployed")
*/
package log
