package reservationqueue

import (
	"context"
	"errors"
	"time"

	"github.com/librarykit/lending-policy-go/lending"
	"github.com/librarykit/lending-policy-go/lending/shell"
)

// BookStore defines the interface needed by the QueryHandler for book store operations.
type BookStore interface {
	FindByID(ctx context.Context, id lending.BookIDString) (lending.Book, error)
}

// MemberStore defines the interface needed by the QueryHandler for member store operations.
type MemberStore interface {
	FindByID(ctx context.Context, id lending.MemberIDString) (lending.Member, error)
}

// QueryHandler orchestrates the complete query processing workflow.
// It handles infrastructure concerns like store interactions and observability
// instrumentation, and delegates projection logic to the pure core function.
type QueryHandler struct {
	bookStore        BookStore
	memberStore      MemberStore
	metricsCollector shell.MetricsCollector
	tracingCollector shell.TracingCollector
	contextualLogger shell.ContextualLogger
	logger           shell.Logger
}

// NewQueryHandler creates a new QueryHandler with the provided store dependencies and options.
func NewQueryHandler(bookStore BookStore, memberStore MemberStore, opts ...Option) (QueryHandler, error) {
	h := QueryHandler{
		bookStore:   bookStore,
		memberStore: memberStore,
	}

	for _, opt := range opts {
		if err := opt(&h); err != nil {
			return QueryHandler{}, err
		}
	}

	return h, nil
}

// Handle executes the complete query processing workflow: Load -> Resolve names -> Project.
// It loads the book, resolves the queued members' display names, delegates
// projection logic to the core function, and instruments the operation with
// comprehensive observability.
//
// A missing book propagates as lending.ErrBookNotFound.
func (h QueryHandler) Handle(ctx context.Context, query Query) (ReservationQueue, error) {
	queryStart := time.Now()
	ctx, span := shell.StartQuerySpan(ctx, h.tracingCollector, queryType)
	shell.LogQueryStart(ctx, h.logger, h.contextualLogger, queryType)

	ctx = lending.WithEventualConsistency(ctx)

	// Load phase
	book, err := h.bookStore.FindByID(ctx, query.BookID)
	if err != nil {
		h.recordQueryError(ctx, err, time.Since(queryStart), span)
		return ReservationQueue{}, err
	}

	memberNames, err := h.resolveMemberNames(ctx, book)
	if err != nil {
		h.recordQueryError(ctx, err, time.Since(queryStart), span)
		return ReservationQueue{}, err
	}

	// Projection phase - delegate to a pure core function
	result := ProjectReservationQueue(book, memberNames)

	h.recordQuerySuccess(ctx, time.Since(queryStart), span)

	return result, nil
}

// resolveMemberNames looks up the display name of every queued member.
// Queue entries that do not resolve to a stored member are simply absent
// from the map; they project with an empty name.
func (h QueryHandler) resolveMemberNames(ctx context.Context, book lending.Book) (map[lending.MemberIDString]string, error) {
	memberNames := make(map[lending.MemberIDString]string, len(book.ReservationQueue))

	for _, memberID := range book.ReservationQueue {
		member, err := h.memberStore.FindByID(ctx, memberID)
		if err != nil {
			if errors.Is(err, lending.ErrMemberNotFound) {
				continue
			}

			return nil, err
		}

		memberNames[memberID] = member.Name
	}

	return memberNames, nil
}

/*** Query Handler Options and helper methods for observability ***/

// Option defines a functional option for configuring QueryHandler.
type Option func(*QueryHandler) error

// WithMetrics sets the metrics collector for the QueryHandler.
func WithMetrics(collector shell.MetricsCollector) Option {
	return func(h *QueryHandler) error {
		h.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the QueryHandler.
func WithTracing(collector shell.TracingCollector) Option {
	return func(h *QueryHandler) error {
		h.tracingCollector = collector
		return nil
	}
}

// WithContextualLogging sets the contextual logger for the QueryHandler.
func WithContextualLogging(logger shell.ContextualLogger) Option {
	return func(h *QueryHandler) error {
		h.contextualLogger = logger
		return nil
	}
}

// WithLogging sets the basic logger for the QueryHandler.
func WithLogging(logger shell.Logger) Option {
	return func(h *QueryHandler) error {
		h.logger = logger
		return nil
	}
}

// recordQuerySuccess records successful query execution with observability.
func (h QueryHandler) recordQuerySuccess(ctx context.Context, duration time.Duration, span shell.SpanContext) {
	shell.RecordQueryMetrics(ctx, h.metricsCollector, queryType, shell.StatusSuccess, duration)
	shell.FinishQuerySpan(h.tracingCollector, span, shell.StatusSuccess, duration, nil)
	shell.LogQuerySuccess(ctx, h.logger, h.contextualLogger, queryType, shell.StatusSuccess, duration)
}

// recordQueryError records failed query execution with observability.
func (h QueryHandler) recordQueryError(ctx context.Context, err error, duration time.Duration, span shell.SpanContext) {
	status := shell.StatusError

	switch {
	case shell.IsCancellationError(err):
		status = shell.StatusCanceled
	case shell.IsTimeoutError(err):
		status = shell.StatusTimeout
	}

	shell.RecordQueryMetrics(ctx, h.metricsCollector, queryType, status, duration)
	shell.FinishQuerySpan(h.tracingCollector, span, status, duration, err)
	shell.LogQueryError(ctx, h.logger, h.contextualLogger, queryType, err)
}
