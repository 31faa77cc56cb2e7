package shell

import (
	"context"
)

// Command represents the contract for all command types in the lending application.
// Each command encapsulates the intent and parameters needed to execute a specific lending operation.
// The CommandType method enables polymorphic handling and observability instrumentation.
type Command interface {
	CommandType() string
}

// Query represents the contract for all query types in the lending application.
// Each query encapsulates the intent and parameters needed to retrieve a specific read model.
// The QueryType method enables polymorphic handling and observability instrumentation.
type Query interface {
	QueryType() string
}

// CoreCommandHandler defines the contract for components that process commands with pure business logic.
// Handlers orchestrate the complete command workflow: loading state, deciding, and persisting.
// The generic parameters C and R ensure type safety between commands and their domain results.
// Implementations should focus purely on business logic without observability concerns.
// This interface is designed to be wrapped with observability decorators for complete functionality.
// Handlers return the domain result plus a HandlerResult containing the business outcome
// classification and execution metadata (retry info).
type CoreCommandHandler[C Command, R any] interface {
	Handle(ctx context.Context, command C) (R, HandlerResult, error)
}

// CommandHandler defines the caller-facing contract for command handlers: the domain
// result and an error. Typically implemented by wrapper types that translate the
// HandlerResult metadata into metrics, traces, and logs.
type CommandHandler[C Command, R any] interface {
	Handle(ctx context.Context, command C) (R, error)
}

// CoreQueryHandler defines the contract for components that process queries with pure business logic.
// Handlers orchestrate the complete query workflow: loading stored state and projecting the read model.
// The generic parameters Q and R ensure type safety between queries and their corresponding results.
// Implementations should focus purely on business logic without observability concerns.
// This interface is designed to be wrapped with observability decorators for complete functionality.
type CoreQueryHandler[Q Query, R any] interface {
	Handle(ctx context.Context, query Q) (R, error)
}

// QueryHandler defines the caller-facing contract for fully assembled query handlers,
// typically an observability wrapper around a CoreQueryHandler.
type QueryHandler[Q Query, R any] interface {
	CoreQueryHandler[Q, R]
}
