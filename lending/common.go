package lending

import (
	"time"
)

// Instead of implementing full value objects, I'm using some alias types and helper functions here ...

type BookIDString = string
type MemberIDString = string
type LibraryDate = time.Time

// LoanDays is the loan period granted to a borrower, in days.
const LoanDays = 14

// MaxLoansPerMember is the number of simultaneous active loans a member may hold.
const MaxLoansPerMember = 5

// ToLibraryDate truncates a point in time to the day granularity the lending policy works with.
func ToLibraryDate(t time.Time) LibraryDate {
	return t.UTC().Truncate(24 * time.Hour)
}

// DueDateFrom computes the due date for a loan granted today.
func DueDateFrom(today time.Time) LibraryDate {
	return ToLibraryDate(today).AddDate(0, 0, LoanDays)
}
