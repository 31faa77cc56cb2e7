package reservationqueue

import (
	"github.com/librarykit/lending-policy-go/lending"
)

const (
	queryType = "ReservationQueue"
)

// Query represents the intent to inspect the reservation queue of a book.
type Query struct {
	BookID lending.BookIDString
}

// QueryType returns the type identifier for this query, used for observability and routing.
func (q Query) QueryType() string {
	return queryType
}

// BuildQuery creates a new Query with the provided parameters.
func BuildQuery(bookID lending.BookIDString) Query {
	return Query{
		BookID: bookID,
	}
}
