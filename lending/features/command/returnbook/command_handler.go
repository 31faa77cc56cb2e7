package returnbook

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

// MemberStore defines the interface needed by the CommandHandler for member store operations.
type MemberStore interface {
	ExistsByID(ctx context.Context, id lending.MemberIDString) (bool, error)
}

// CommandHandler orchestrates the complete command processing workflow with pure business logic and retry.
// It handles the core workflow: Load -> Resolve hand-off facts -> Decide -> Save.
// External wrappers handle all observability concerns.
type CommandHandler struct {
	bookStore    BookStore
	memberStore  MemberStore
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
func NewCommandHandler(bookStore BookStore, memberStore MemberStore, opts ...Option) CommandHandler {
	handler := CommandHandler{
		bookStore:   bookStore,
		memberStore: memberStore,
		clock:       lending.SystemClock{},
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
func (h CommandHandler) Handle(ctx context.Context, command Command) (lending.ReturnResult, shell.HandlerResult, error) {
	var result lending.ReturnResult

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		execResult, execErr := h.executeCommand(retryCtx, command)
		result = execResult

		return execErr
	}, h.retryOptions...)

	if err != nil {
		return lending.ReturnResult{}, shell.NewErrorResult(retryMetrics), err
	}

	if !result.Ok {
		return result, shell.NewRejectedResult(result.Reason, retryMetrics), nil
	}

	return result, shell.NewGrantedResult(retryMetrics), nil
}

// executeCommand contains the core command processing logic that can be retried.
func (h CommandHandler) executeCommand(ctx context.Context, command Command) (lending.ReturnResult, error) {
	ctx = lending.WithStrongConsistency(ctx)

	// Load phase
	book, err := h.bookStore.FindByID(ctx, command.BookID)
	if err != nil {
		if errors.Is(err, lending.ErrBookNotFound) {
			return lending.ReturnRejected(lending.ReasonNotFound), nil
		}

		return lending.ReturnResult{}, err
	}

	handOff, err := h.resolveHandOffContext(ctx, book)
	if err != nil {
		return lending.ReturnResult{}, err
	}

	// Business logic phase - delegate to pure core function
	updatedBook, result := Decide(book, handOff, command, h.clock.Today())

	if !result.Ok {
		return result, nil // Rejected - nothing to persist
	}

	// Save phase - concurrency conflicts surface here and trigger a retry
	if _, saveErr := h.bookStore.Save(ctx, updatedBook); saveErr != nil {
		return lending.ReturnResult{}, saveErr
	}

	return result, nil
}

// resolveHandOffContext looks up existence and active-loan count for every
// queued member, so the hand-off scan in Decide needs no store access.
func (h CommandHandler) resolveHandOffContext(ctx context.Context, book lending.Book) (HandOffContext, error) {
	handOff := NewHandOffContext()

	for _, candidate := range book.ReservationQueue {
		exists, err := h.memberStore.ExistsByID(ctx, candidate)
		if err != nil {
			return HandOffContext{}, err
		}

		activeLoans := 0
		if exists {
			activeLoans, err = h.bookStore.CountByLoanedTo(ctx, candidate)
			if err != nil {
				return HandOffContext{}, err
			}
		}

		handOff = handOff.WithCandidate(candidate, exists, activeLoans)
	}

	return handOff, nil
}
