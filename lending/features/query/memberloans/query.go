package memberloans

import (
	"github.com/librarykit/lending-policy-go/lending"
)

const (
	queryType = "MemberLoans"
)

// Query represents the intent to list the books currently on loan to a member.
type Query struct {
	MemberID lending.MemberIDString
}

// QueryType returns the type identifier for this query, used for observability and routing.
func (q Query) QueryType() string {
	return queryType
}

// BuildQuery creates a new Query with the provided parameters.
func BuildQuery(memberID lending.MemberIDString) Query {
	return Query{
		MemberID: memberID,
	}
}
