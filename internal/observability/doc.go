// Package observability builds the process-wide zap logger from the
// LOG_LEVEL and LOG_FORMAT settings.
package observability
