package overdueloans

const (
	queryType = "OverdueLoans"
)

// Query represents the intent to list all loans whose due date has passed.
// It carries no parameters; "today" comes from the handler's clock.
type Query struct{}

// QueryType returns the type identifier for this query, used for observability and routing.
func (q Query) QueryType() string {
	return queryType
}

// BuildQuery creates a new Query.
func BuildQuery() Query {
	return Query{}
}
