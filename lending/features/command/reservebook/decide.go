package reservebook

import (
	"time"

	"github.com/librarykit/lending-policy-go/lending"
)

// Decide implements the business logic to determine what a reservation
// request does to the book. This is a pure function with no side effects -
// it takes the current book state, the member's active-loan count and a
// command, and returns the updated book plus the structured result.
// The returned book equals the input book when the reservation was rejected.
//
// Business Rules:
//
//	GIVEN: A book with BookID and a member with MemberID
//	WHEN: ReserveBook command is received
//	THEN (book available): the reservation is an immediate loan, due in 14 days;
//	      the member's own queue entry, if any, is removed; other entries stay
//	THEN (book on loan): the member is appended to the tail of the reservation queue
//	REJECTED: "ALREADY_RESERVED" if the member already occupies the queue,
//	      or already borrows the book themselves
//	REJECTED: "LOAN_LIMIT" if an immediate loan would exceed the member's loan limit
func Decide(
	book lending.Book,
	activeLoans int,
	command Command,
	today time.Time,
) (lending.Book, lending.ReserveResult) {

	if !book.IsLoaned() {
		if activeLoans >= lending.MaxLoansPerMember {
			return book, lending.ReserveRejected(lending.ReasonLoanLimit)
		}

		granted := book.
			WithQueueEntryRemoved(command.MemberID).
			WithLoan(command.MemberID, lending.DueDateFrom(today))

		return granted, lending.ReserveGranted()
	}

	if book.IsLoanedTo(command.MemberID) || book.QueueContains(command.MemberID) {
		return book, lending.ReserveRejected(lending.ReasonAlreadyReserved)
	}

	return book.WithQueueAppended(command.MemberID), lending.ReserveGranted()
}
