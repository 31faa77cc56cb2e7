// Package fixtures contains test data builders for the lending domain.
//
// This package provides fixture books and members plus Given* helpers that
// seed a BookStore or MemberStore with well-known states (a book in
// circulation, an active loan, a reservation queue, a member at the loan
// limit). The helpers work against the store interfaces, so the same
// arrange code runs for the in-memory store and the PostgreSQL store.
//
// It also provides a FixedClock so tests can pin "today" instead of
// depending on the wall clock.
//
// This is testing infrastructure - not production domain code.
package fixtures
