package lending

import (
	"time"
)

// Book is the aggregate governed by the lending policy. LoanedTo is empty
// when the book is not on loan; DueDate is set if and only if LoanedTo is
// set. ReservationQueue is the FIFO waitlist of member ids: no member id
// appears twice, and the current borrower never appears in it.
//
// Version carries the optimistic concurrency token managed by the stores;
// zero means the book has not been persisted yet.
type Book struct {
	ID               BookIDString
	Title            string
	LoanedTo         MemberIDString
	DueDate          time.Time
	ReservationQueue []MemberIDString
	Version          uint
}

// BuildBook creates an available book with an empty reservation queue.
func BuildBook(id BookIDString, title string) Book {
	return Book{
		ID:    id,
		Title: title,
	}
}

func (b Book) IsLoaned() bool {
	return b.LoanedTo != ""
}

func (b Book) IsLoanedTo(memberID MemberIDString) bool {
	return b.LoanedTo != "" && b.LoanedTo == memberID
}

// QueueHead returns the first waiting member id, or empty when nobody waits.
func (b Book) QueueHead() MemberIDString {
	if len(b.ReservationQueue) == 0 {
		return ""
	}

	return b.ReservationQueue[0]
}

func (b Book) QueueContains(memberID MemberIDString) bool {
	for _, queued := range b.ReservationQueue {
		if queued == memberID {
			return true
		}
	}

	return false
}

// WithLoan returns a copy of the book loaned to the given member with the given due date.
func (b Book) WithLoan(memberID MemberIDString, dueDate time.Time) Book {
	loaned := b
	loaned.LoanedTo = memberID
	loaned.DueDate = ToLibraryDate(dueDate)
	loaned.ReservationQueue = b.copyQueue()

	return loaned
}

// WithoutLoan returns a copy of the book with no borrower and no due date.
func (b Book) WithoutLoan() Book {
	available := b
	available.LoanedTo = ""
	available.DueDate = time.Time{}
	available.ReservationQueue = b.copyQueue()

	return available
}

// WithQueueAppended returns a copy of the book with the member id added to the tail of the queue.
func (b Book) WithQueueAppended(memberID MemberIDString) Book {
	queued := b
	queued.ReservationQueue = append(b.copyQueue(), memberID)

	return queued
}

// WithQueueDropped returns a copy of the book with the first n queue entries removed.
func (b Book) WithQueueDropped(n int) Book {
	if n > len(b.ReservationQueue) {
		n = len(b.ReservationQueue)
	}

	shortened := b
	shortened.ReservationQueue = append([]MemberIDString(nil), b.ReservationQueue[n:]...)

	return shortened
}

// WithQueueEntryRemoved returns a copy of the book with the member's queue
// entry removed, at whatever position it occupies. The book is returned
// unchanged (still with a fresh queue slice) when the member is not queued.
func (b Book) WithQueueEntryRemoved(memberID MemberIDString) Book {
	cleaned := b
	cleaned.ReservationQueue = make([]MemberIDString, 0, len(b.ReservationQueue))

	for _, queued := range b.ReservationQueue {
		if queued == memberID {
			continue
		}

		cleaned.ReservationQueue = append(cleaned.ReservationQueue, queued)
	}

	return cleaned
}

func (b Book) copyQueue() []MemberIDString {
	return append([]MemberIDString(nil), b.ReservationQueue...)
}
