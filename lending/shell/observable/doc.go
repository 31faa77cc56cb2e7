// Package observable provides wrapper components for instrumenting command and query handlers
// with comprehensive observability (metrics, tracing, logging) while keeping business logic pure.
//
// # Core Principle: External Wrapping
//
// The observable wrappers are applied externally at bootstrap/wiring time, not hidden
// inside factory functions. This makes the observability composition explicit and transparent.
//
// # Command Handler Usage
//
// Basic pattern for wrapping a command handler with observability:
//
//	// 1. Create pure business logic handler
//	coreHandler := borrowbook.NewCommandHandler(bookStore)
//
//	// 2. Wrap with observability (external, explicit)
//	observableHandler, err := observable.NewCommandWrapper(
//		coreHandler,
//		observable.WithCommandMetrics[borrowbook.Command, lending.BorrowResult](metricsCollector),
//		observable.WithCommandTracing[borrowbook.Command, lending.BorrowResult](tracingCollector),
//	)
//
//	// 3. Use wrapped handler in application
//	result, err := observableHandler.Handle(ctx, command)
//
// # Selective Observability
//
// You can choose which observability concerns to apply; every option is independent.
//
// # Pure Business Logic Testing
//
// For unit tests focused on business logic, use handlers without observability:
//
//	// Pure handler - no observability overhead
//	handler := borrowbook.NewCommandHandler(bookStore)
//	result, _, err := handler.Handle(ctx, command) // Direct business logic execution
//
// # Architecture Benefits
//
//   - Command handlers contain ONLY business logic (Load → Decide → Save)
//   - All observability is optional and composable
//   - Clear separation between business logic and infrastructure concerns
//   - Easy to test business logic without observability complexity
//   - External wrapping makes observability composition explicit and transparent
package observable
