// Package borrowbook implements the Borrow Book use case.
//
// This feature grants a direct loan of an available book to a member.
// It follows the Load-Decide-Save pattern with proper separation between
// infrastructure concerns (CommandHandler) and pure business logic (Decide function).
//
// The business logic enforces multiple constraints: the book must not be on
// loan, direct borrowing is blocked while other members wait in the
// reservation queue (unless the caller is the queue head claiming their
// turn), and members cannot exceed their loan limit (max 5 active loans).
// Policy rejections are returned as structured results, never as errors.
package borrowbook
