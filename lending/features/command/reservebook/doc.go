// Package reservebook implements the Reserve Book use case.
//
// This feature lets a member queue up for a book that is currently on loan,
// or borrow it outright when it turns out to be available: a reservation of
// an unloaned book is treated as an immediate loan and adds no queue entry.
// It follows the Load-Decide-Save pattern with proper separation between
// infrastructure concerns (CommandHandler) and pure business logic (Decide function).
//
// Duplicate reservations are rejected, including a member reserving a book
// they already borrow. The immediate-loan path enforces the same loan limit
// as a direct borrow.
package reservebook
