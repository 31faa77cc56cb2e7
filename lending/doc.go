// Package lending provides the core types and ports for the library
// lending policy: books, members, the FIFO reservation queue, and the
// structured results the policy operations return.
//
// This package defines the fundamental types used across the command and
// query slices and the store implementations, including the Book and
// Member aggregates, the store ports, result shapes with their reason
// codes, and common error definitions.
//
// The lending policy governs three operations, implemented as feature
// slices under features/command:
//   - borrow: grant a loan when the book is available and nobody else waits
//   - reserve: queue up for a loaned book, or loan immediately when available
//   - return: hand the book off to the earliest eligible queued member
//
// Key types:
//   - Book: the aggregate mutated by the lending operations
//   - Member: a library member, identity and display name only
//   - BookStore / MemberStore: the storage ports the policy depends on
//   - BorrowResult / ReserveResult / ReturnResult: structured outcomes
//
// Business-rule rejections are reported as result values (Ok=false with a
// reason code), never as errors; errors are reserved for infrastructure
// faults such as an unreachable store or a concurrency conflict.
package lending
