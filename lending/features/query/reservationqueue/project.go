package reservationqueue

import (
	"github.com/librarykit/lending-policy-go/lending"
)

// ProjectReservationQueue implements the query logic to present a book's
// reservation queue. This is a pure function with no side effects - it takes
// the book state and the resolved member names and returns the projected
// read model.
//
// Query Logic:
//
//	GIVEN: A book with BookID and the names of its queued members
//	WHEN: ReservationQueue query is executed
//	THEN: ReservationQueue struct is returned with the waitlist in FIFO order
//	INCLUDES: queue position (1-based), member id, display name
//	NOTE: members missing from the name map get an empty name
func ProjectReservationQueue(book lending.Book, memberNames map[lending.MemberIDString]string) ReservationQueue {
	entries := make([]Entry, 0, len(book.ReservationQueue))

	for position, memberID := range book.ReservationQueue {
		entries = append(entries, Entry{
			Position: position + 1,
			MemberID: memberID,
			Name:     memberNames[memberID],
		})
	}

	return ReservationQueue{
		BookID:  book.ID,
		Entries: entries,
	}
}
