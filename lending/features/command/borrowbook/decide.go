package borrowbook

import (
	"time"

	"github.com/librarykit/lending-policy-go/lending"
)

// Decide implements the business logic to determine whether a book should be
// loaned to the requesting member. This is a pure function with no side
// effects - it takes the current book state, the member's active-loan count
// and a command, and returns the updated book plus the structured result.
// The returned book equals the input book when the borrow was rejected.
//
// Business Rules:
//
//	GIVEN: A book with BookID and a member with MemberID
//	WHEN: BorrowBook command is received
//	THEN: The book is loaned to the member, due in 14 days
//	REJECTED: "BOOK_LOANED" if the book currently has a borrower
//	REJECTED: "QUEUE_EXISTS" if members are waiting and the caller is not the queue head
//	REJECTED: "LOAN_LIMIT" if the member already holds the maximum number of active loans
//
// A caller who is the queue head claims their earned turn: the head entry is
// removed from the queue as part of granting the loan.
func Decide(
	book lending.Book,
	activeLoans int,
	command Command,
	today time.Time,
) (lending.Book, lending.BorrowResult) {

	if book.IsLoaned() {
		return book, lending.BorrowRejected(lending.ReasonBookLoaned)
	}

	queueHead := book.QueueHead()
	if queueHead != "" && queueHead != command.MemberID {
		return book, lending.BorrowRejected(lending.ReasonQueueExists)
	}

	if activeLoans >= lending.MaxLoansPerMember {
		return book, lending.BorrowRejected(lending.ReasonLoanLimit)
	}

	granted := book
	if queueHead == command.MemberID {
		granted = granted.WithQueueDropped(1)
	}

	granted = granted.WithLoan(command.MemberID, lending.DueDateFrom(today))

	return granted, lending.BorrowGranted()
}
