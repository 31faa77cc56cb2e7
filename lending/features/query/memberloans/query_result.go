package memberloans

import (
	"time"

	"github.com/librarykit/lending-policy-go/lending"
)

// Loan describes one book currently on loan to the queried member.
type Loan struct {
	BookID  lending.BookIDString
	Title   string
	DueDate time.Time
}

// MemberLoans is the result of the MemberLoans query: the member's active
// loans ordered by due date (earliest first), plus their count. The count is
// the same figure the lending policy checks against the loan limit.
type MemberLoans struct {
	MemberID lending.MemberIDString
	Loans    []Loan
	Count    int
}
