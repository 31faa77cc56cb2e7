// Package shell provides the imperative-shell building blocks shared by the
// feature slices: handler contracts, retry logic for optimistic concurrency
// conflicts, handler result metadata, and observability constants and helpers.
//
// The lending policy itself lives in pure Decide functions inside the feature
// slices (the functional core); this package carries everything those slices
// need to run against the stores and to be instrumented from the outside.
//
// In Domain-Driven Design or Hexagonal Architecture terminology, this would be
// called the 'infrastructure' layer.
package shell
