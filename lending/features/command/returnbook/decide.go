package returnbook

import (
	"time"

	"github.com/librarykit/lending-policy-go/lending"
)

// HandOffContext carries the pre-resolved eligibility facts for the queued
// members, so that Decide can run the hand-off scan as a pure function.
// The CommandHandler builds it from the stores before deciding.
type HandOffContext struct {
	existingMembers map[lending.MemberIDString]bool
	activeLoans     map[lending.MemberIDString]int
}

// NewHandOffContext creates an empty HandOffContext.
func NewHandOffContext() HandOffContext {
	return HandOffContext{
		existingMembers: make(map[lending.MemberIDString]bool),
		activeLoans:     make(map[lending.MemberIDString]int),
	}
}

// WithCandidate records the eligibility facts for one queued member.
func (c HandOffContext) WithCandidate(memberID lending.MemberIDString, exists bool, activeLoans int) HandOffContext {
	c.existingMembers[memberID] = exists
	c.activeLoans[memberID] = activeLoans

	return c
}

// memberExists reports whether the queued member id resolves to a stored member.
// Unresolved ids count as missing.
func (c HandOffContext) memberExists(memberID lending.MemberIDString) bool {
	return c.existingMembers[memberID]
}

// activeLoansOf returns the member's current active-loan count.
func (c HandOffContext) activeLoansOf(memberID lending.MemberIDString) int {
	return c.activeLoans[memberID]
}

// Decide implements the business logic of returning a book, including the
// reservation hand-off scan. This is a pure function with no side effects -
// it takes the current book state, the pre-resolved hand-off facts and a
// command, and returns the updated book plus the structured result.
// The returned book equals the input book when the return was rejected.
//
// Business Rules:
//
//	GIVEN: A book with BookID borrowed by the member with MemberID
//	WHEN: ReturnBook command is received
//	THEN: The queue is scanned head to tail; every visited entry is consumed.
//	      The first candidate that is a stored member below the loan limit
//	      becomes the new borrower, due in 14 days; entries after the winner
//	      keep their relative order. With no eligible candidate the book
//	      becomes available and the consumed entries stay consumed.
//	REJECTED: "NOT_BORROWER" if the caller does not currently borrow the book
func Decide(
	book lending.Book,
	handOff HandOffContext,
	command Command,
	today time.Time,
) (lending.Book, lending.ReturnResult) {

	if !book.IsLoanedTo(command.MemberID) {
		return book, lending.ReturnRejected(lending.ReasonNotBorrower)
	}

	for position, candidate := range book.ReservationQueue {
		if !handOff.memberExists(candidate) {
			continue
		}

		if handOff.activeLoansOf(candidate) >= lending.MaxLoansPerMember {
			continue
		}

		handedOff := book.
			WithQueueDropped(position + 1).
			WithLoan(candidate, lending.DueDateFrom(today))

		return handedOff, lending.ReturnAccepted(candidate)
	}

	// No eligible candidate - the book becomes available, the scanned
	// (and therefore consumed) queue entries do not come back.
	available := book.
		WithQueueDropped(len(book.ReservationQueue)).
		WithoutLoan()

	return available, lending.ReturnAccepted("")
}
