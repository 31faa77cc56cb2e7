// Package memorystore provides in-memory implementations of the lending
// store ports, with the same optimistic-concurrency semantics as the
// PostgreSQL stores: Save is a compare-and-swap on the aggregate Version
// and a missed swap fails with lending.ErrConcurrencyConflict.
//
// Aggregates are deep-copied on the way in and out, so callers can never
// mutate stored state behind the store's back. This makes the stores safe
// for concurrent use and a faithful stand-in for the PostgreSQL stores in
// handler unit tests, property tests, and the demo's in-memory mode.
package memorystore
