package borrowbook_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/librarykit/lending-policy-go/lending"
	"github.com/librarykit/lending-policy-go/lending/features/command/borrowbook"
)

var today = time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

func Test_Decide_Granted_WhenBookAvailableAndNobodyWaits(t *testing.T) {
	// arrange
	book := lending.BuildBook("b1", "Learning Domain-Driven Design")
	command := borrowbook.BuildCommand("b1", "m1")

	// act
	updatedBook, result := borrowbook.Decide(book, 0, command, today)

	// assert
	assert.True(t, result.Ok)
	assert.Empty(t, result.Reason)
	assert.True(t, updatedBook.IsLoanedTo("m1"))
	assert.Equal(t, today.AddDate(0, 0, lending.LoanDays), updatedBook.DueDate)
	assert.Empty(t, updatedBook.ReservationQueue)
}

func Test_Decide_Rejected_WhenBookIsLoaned(t *testing.T) {
	// arrange
	book := lending.BuildBook("b1", "Learning Domain-Driven Design").
		WithLoan("m1", lending.DueDateFrom(today))
	command := borrowbook.BuildCommand("b1", "m2")

	// act
	updatedBook, result := borrowbook.Decide(book, 0, command, today)

	// assert
	assert.False(t, result.Ok)
	assert.Equal(t, lending.ReasonBookLoaned, result.Reason)
	assert.Equal(t, book, updatedBook, "a rejected borrow should leave the book unchanged")
}

func Test_Decide_Rejected_WhenAnotherMemberHeadsTheQueue(t *testing.T) {
	// arrange
	book := lending.BuildBook("b1", "Learning Domain-Driven Design").
		WithQueueAppended("m1").
		WithQueueAppended("m2")
	command := borrowbook.BuildCommand("b1", "m2")

	// act
	updatedBook, result := borrowbook.Decide(book, 0, command, today)

	// assert
	assert.False(t, result.Ok)
	assert.Equal(t, lending.ReasonQueueExists, result.Reason)
	assert.Equal(t, book, updatedBook)
}

func Test_Decide_Granted_WhenCallerHeadsTheQueue_ClaimsTheirTurn(t *testing.T) {
	// arrange
	book := lending.BuildBook("b1", "Learning Domain-Driven Design").
		WithQueueAppended("m2").
		WithQueueAppended("m3")
	command := borrowbook.BuildCommand("b1", "m2")

	// act
	updatedBook, result := borrowbook.Decide(book, 0, command, today)

	// assert
	assert.True(t, result.Ok)
	assert.True(t, updatedBook.IsLoanedTo("m2"))
	assert.Equal(t, today.AddDate(0, 0, 14), updatedBook.DueDate)
	assert.Equal(t, []lending.MemberIDString{"m3"}, updatedBook.ReservationQueue,
		"the claimed head entry should be removed, later entries kept in order")
}

func Test_Decide_Rejected_WhenMemberIsAtTheLoanLimit(t *testing.T) {
	// arrange
	book := lending.BuildBook("b1", "Learning Domain-Driven Design")
	command := borrowbook.BuildCommand("b1", "m1")

	// act
	updatedBook, result := borrowbook.Decide(book, lending.MaxLoansPerMember, command, today)

	// assert
	assert.False(t, result.Ok)
	assert.Equal(t, lending.ReasonLoanLimit, result.Reason)
	assert.Equal(t, book, updatedBook)
}

func Test_Decide_Granted_WhenMemberIsOneBelowTheLoanLimit(t *testing.T) {
	// arrange
	book := lending.BuildBook("b1", "Learning Domain-Driven Design")
	command := borrowbook.BuildCommand("b1", "m1")

	// act
	_, result := borrowbook.Decide(book, lending.MaxLoansPerMember-1, command, today)

	// assert
	assert.True(t, result.Ok)
}

func Test_Decide_ChecksTheRulesInOrder_LoanedBeforeQueueBeforeLimit(t *testing.T) {
	// arrange: loaned book with a foreign queue head and a caller at the limit
	book := lending.BuildBook("b1", "Learning Domain-Driven Design").
		WithLoan("m1", lending.DueDateFrom(today)).
		WithQueueAppended("m3")
	command := borrowbook.BuildCommand("b1", "m2")

	// act
	_, result := borrowbook.Decide(book, lending.MaxLoansPerMember, command, today)

	// assert
	assert.Equal(t, lending.ReasonBookLoaned, result.Reason,
		"the loaned check should win over queue and limit checks")
}
