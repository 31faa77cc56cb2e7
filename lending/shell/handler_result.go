package shell

import "time"

// HandlerResult represents the outcome of a command handler execution.
// It captures both business outcomes (policy grants and rejections) and execution
// metadata (retry information) without coupling the handler to specific
// observability implementations.
type HandlerResult struct {
	// Rejected indicates whether the lending policy rejected the operation (no state change).
	// This is a first-class business outcome, not an error condition.
	Rejected bool

	// RejectionReason carries the reason code of a rejected operation
	// (e.g. "BOOK_LOANED", "QUEUE_EXISTS"). Empty when the operation was granted.
	RejectionReason string

	// RetryAttempts is the total number of attempts made (1 for no retries, 2+ for retries).
	RetryAttempts int

	// TotalRetryDelay is the cumulative time spent in retry backoff delays.
	// This excludes the actual execution time, only counting sleep/wait periods.
	TotalRetryDelay time.Duration

	// LastErrorType describes the type of the final error encountered during retries.
	// Values: "none" (success), "concurrency_conflict", "context_canceled", "context_deadline_exceeded", "other"
	LastErrorType string

	// RetriesExhausted indicates whether max retry attempts were reached with a retryable error.
	// This is true only when all retry attempts were exhausted for retryable errors (e.g., concurrency conflicts).
	RetriesExhausted bool
}

// NewGrantedResult creates a HandlerResult for operations the policy granted.
func NewGrantedResult(retryMetrics RetryMetrics) HandlerResult {
	return HandlerResult{
		Rejected:         false,
		RetryAttempts:    retryMetrics.Attempts,
		TotalRetryDelay:  retryMetrics.TotalDelay,
		LastErrorType:    retryMetrics.LastErrorType,
		RetriesExhausted: retryMetrics.RetriesExhausted,
	}
}

// NewRejectedResult creates a HandlerResult for operations the policy rejected.
// The reason is the rejection code carried by the domain result.
func NewRejectedResult(reason string, retryMetrics RetryMetrics) HandlerResult {
	return HandlerResult{
		Rejected:         true,
		RejectionReason:  reason,
		RetryAttempts:    retryMetrics.Attempts,
		TotalRetryDelay:  retryMetrics.TotalDelay,
		LastErrorType:    retryMetrics.LastErrorType,
		RetriesExhausted: retryMetrics.RetriesExhausted,
	}
}

// NewErrorResult creates a HandlerResult for failed operations.
// This is used when the handler returns an error but still wants to report retry metadata.
func NewErrorResult(retryMetrics RetryMetrics) HandlerResult {
	return HandlerResult{
		Rejected:         false,
		RetryAttempts:    retryMetrics.Attempts,
		TotalRetryDelay:  retryMetrics.TotalDelay,
		LastErrorType:    retryMetrics.LastErrorType,
		RetriesExhausted: retryMetrics.RetriesExhausted,
	}
}
