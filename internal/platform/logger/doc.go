// Package logger configures the process-wide slog JSON logger and carries
// request-scoped loggers through context.Context.
//
// Handlers and services call FromContextOrDefault so that attributes added
// by the HTTP middleware (trace_id, learner_id) appear on every record
// written while serving a request.
package logger
