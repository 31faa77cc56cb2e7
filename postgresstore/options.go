package postgresstore

import (
	"github.com/librarykit/lending-policy-go/lending"
)

// The observability contracts live in the lending package so that command
// handlers and stores share one set of interfaces. The aliases below let
// store consumers configure everything through this package alone.

// Logger interface for SQL query logging, operational messages, warnings, and error reporting.
type Logger = lending.Logger

// MetricsCollector interface for collecting store performance and operational metrics.
type MetricsCollector = lending.MetricsCollector

// SpanContext represents an active tracing span that can be finished and updated with attributes.
type SpanContext = lending.SpanContext

// TracingCollector interface for collecting distributed tracing information from store operations.
type TracingCollector = lending.TracingCollector

// ContextualLogger interface for context-aware logging with automatic trace correlation.
type ContextualLogger = lending.ContextualLogger

// Option defines a functional option for configuring a store.
type Option func(*storeBase) error

// WithTableName sets the table name for the store.
// The default is "books" for BookStore and "members" for MemberStore.
func WithTableName(tableName string) Option {
	return func(sb *storeBase) error {
		if tableName == "" {
			return sb.emptyTableNameError
		}

		sb.tableName = tableName

		return nil
	}
}

// WithLogger sets the logger for the store.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: SQL queries with execution timing (development use)
// Info level: Saves, deletes, durations, concurrency conflicts (production-safe)
// Warn level: Non-critical issues like cleanup failures
// Error level: Critical failures that cause operation failures.
func WithLogger(logger Logger) Option {
	return func(sb *storeBase) error {
		sb.logger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the store.
// The metrics collector will receive performance and operational metrics including
// operation durations, row counts, concurrency conflicts, and database errors.
func WithMetrics(collector MetricsCollector) Option {
	return func(sb *storeBase) error {
		sb.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the store.
// The tracing collector will receive distributed tracing information including
// span creation for read/write operations, context propagation, and error tracking.
func WithTracing(collector TracingCollector) Option {
	return func(sb *storeBase) error {
		sb.tracingCollector = collector
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the store.
// The contextual logger will receive log messages with context information including
// automatic trace/span correlation when tracing is enabled, enabling unified observability.
func WithContextualLogger(logger ContextualLogger) Option {
	return func(sb *storeBase) error {
		sb.contextualLogger = logger
		return nil
	}
}
