package borrowbook

import (
	"context"
	"errors"

	"github.com/librarykit/lending-policy-go/lending"
	"github.com/librarykit/lending-policy-go/lending/shell"
)

// BookStore defines the interface needed by the CommandHandler for book store operations.
type BookStore interface {
	FindByID(ctx context.Context, id lending.BookIDString) (lending.Book, error)
	Save(ctx context.Context, book lending.Book) (lending.Book, error)
	CountByLoanedTo(ctx context.Context, memberID lending.MemberIDString) (int, error)
}

// CommandHandler orchestrates the complete command processing workflow with pure business logic and retry.
// It handles the core workflow: Load -> Decide -> Save.
// External wrappers handle all observability concerns.
type CommandHandler struct {
	bookStore    BookStore
	clock        lending.Clock
	retryOptions []shell.RetryOption
}

// Option configures a CommandHandler.
type Option func(*CommandHandler)

// WithClock sets the time source the handler uses for "today".
// The default is lending.SystemClock.
func WithClock(clock lending.Clock) Option {
	return func(h *CommandHandler) {
		h.clock = clock
	}
}

// WithRetryOptions sets a custom retry configuration for the handler.
func WithRetryOptions(opts ...shell.RetryOption) Option {
	return func(h *CommandHandler) {
		h.retryOptions = opts
	}
}

// NewCommandHandler creates a new CommandHandler with optional configuration.
func NewCommandHandler(bookStore BookStore, opts ...Option) CommandHandler {
	handler := CommandHandler{
		bookStore: bookStore,
		clock:     lending.SystemClock{},
	}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle executes the complete command processing workflow with retry logic.
// It delegates business logic to executeCommand and handles retry with exponential backoff.
// Returns the domain result plus a HandlerResult containing the business outcome
// classification and execution metadata for observability.
//
// Resilience: Implements exponential backoff retry logic for concurrency conflicts.
func (h CommandHandler) Handle(ctx context.Context, command Command) (lending.BorrowResult, shell.HandlerResult, error) {
	var result lending.BorrowResult

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		execResult, execErr := h.executeCommand(retryCtx, command)
		result = execResult

		return execErr
	}, h.retryOptions...)

	if err != nil {
		return lending.BorrowResult{}, shell.NewErrorResult(retryMetrics), err
	}

	if !result.Ok {
		return result, shell.NewRejectedResult(result.Reason, retryMetrics), nil
	}

	return result, shell.NewGrantedResult(retryMetrics), nil
}

// executeCommand contains the core command processing logic that can be retried.
func (h CommandHandler) executeCommand(ctx context.Context, command Command) (lending.BorrowResult, error) {
	ctx = lending.WithStrongConsistency(ctx)

	// Load phase
	book, err := h.bookStore.FindByID(ctx, command.BookID)
	if err != nil {
		if errors.Is(err, lending.ErrBookNotFound) {
			return lending.BorrowRejected(lending.ReasonNotFound), nil
		}

		return lending.BorrowResult{}, err
	}

	activeLoans, err := h.bookStore.CountByLoanedTo(ctx, command.MemberID)
	if err != nil {
		return lending.BorrowResult{}, err
	}

	// Business logic phase - delegate to pure core function
	updatedBook, result := Decide(book, activeLoans, command, h.clock.Today())

	if !result.Ok {
		return result, nil // Rejected - nothing to persist
	}

	// Save phase - concurrency conflicts surface here and trigger a retry
	if _, saveErr := h.bookStore.Save(ctx, updatedBook); saveErr != nil {
		return lending.BorrowResult{}, saveErr
	}

	return result, nil
}
