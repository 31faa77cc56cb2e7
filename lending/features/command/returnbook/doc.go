// Package returnbook implements the Return Book use case, including the
// reservation hand-off.
//
// Only the current borrower may return a book. On return, the reservation
// queue is scanned from head to tail: entries whose member id does not
// resolve to a stored member, or whose member already holds the maximum
// number of active loans, are skipped; the first eligible member becomes
// the new borrower. Every visited entry is consumed, whether skipped or
// selected, and entries after the winner keep their relative order. When no
// queued member is eligible the book becomes available.
//
// It follows the Load-Decide-Save pattern: the CommandHandler pre-resolves
// the eligibility facts for the queued members into a HandOffContext, so
// the Decide function stays pure.
package returnbook
