package overdueloans

import (
	"slices"
	"strings"
	"time"

	"github.com/librarykit/lending-policy-go/lending"
)

// ProjectOverdueLoans implements the query logic to determine the overdue
// loans as of the given date. This is a pure function with no side effects -
// it takes the current book states and the reference date and returns the
// projected read model.
//
// Query Logic:
//
//	GIVEN: All books and a reference date
//	WHEN: OverdueLoans query is executed
//	THEN: OverdueLoans struct is returned listing every loan due before the date
//	INCLUDES: loan information (BookID, Title, MemberID, DueDate), most overdue first
//	EXCLUDES: books not on loan and loans due today or later
func ProjectOverdueLoans(books []lending.Book, asOf time.Time) OverdueLoans {
	loans := make([]Loan, 0)

	for _, book := range books {
		if !book.IsLoaned() {
			continue
		}

		if !book.DueDate.Before(asOf) {
			continue
		}

		loans = append(loans, Loan{
			BookID:   book.ID,
			Title:    book.Title,
			MemberID: book.LoanedTo,
			DueDate:  book.DueDate,
		})
	}

	slices.SortFunc(loans, func(a, b Loan) int {
		if cmp := a.DueDate.Compare(b.DueDate); cmp != 0 {
			return cmp
		}

		return strings.Compare(a.BookID, b.BookID)
	})

	return OverdueLoans{
		AsOf:  asOf,
		Loans: loans,
	}
}
