package memberloans

import (
	"slices"
	"strings"

	"github.com/librarykit/lending-policy-go/lending"
)

// ProjectMemberLoans implements the query logic to determine the books
// currently on loan to a member. This is a pure function with no side
// effects - it takes the current book states and a query and returns the
// projected read model.
//
// Query Logic:
//
//	GIVEN: A member with MemberID
//	WHEN: MemberLoans query is executed
//	THEN: MemberLoans struct is returned with the member's active loans
//	INCLUDES: loan information (BookID, Title, DueDate), sorted by due date
//	EXCLUDES: books loaned to other members or not on loan at all
func ProjectMemberLoans(books []lending.Book, query Query) MemberLoans {
	loans := make([]Loan, 0)

	for _, book := range books {
		if !book.IsLoanedTo(query.MemberID) {
			continue
		}

		loans = append(loans, Loan{
			BookID:  book.ID,
			Title:   book.Title,
			DueDate: book.DueDate,
		})
	}

	// Sort by due date (earliest first), then by book id for a stable order
	slices.SortFunc(loans, func(a, b Loan) int {
		if cmp := a.DueDate.Compare(b.DueDate); cmp != 0 {
			return cmp
		}

		return strings.Compare(a.BookID, b.BookID)
	})

	return MemberLoans{
		MemberID: query.MemberID,
		Loans:    loans,
		Count:    len(loans),
	}
}
