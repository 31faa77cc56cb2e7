package overdueloans

import (
	"time"

	"github.com/librarykit/lending-policy-go/lending"
)

// Loan describes one overdue loan.
type Loan struct {
	BookID   lending.BookIDString
	Title    string
	MemberID lending.MemberIDString
	DueDate  time.Time
}

// OverdueLoans is the result of the OverdueLoans query: every loan whose
// due date lies before AsOf, ordered by due date (most overdue first).
// Fine computation is out of scope; this is the raw overdue listing.
type OverdueLoans struct {
	AsOf  time.Time
	Loans []Loan
}
