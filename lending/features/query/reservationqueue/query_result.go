package reservationqueue

import (
	"github.com/librarykit/lending-policy-go/lending"
)

// Entry describes one waiting member, Position counting from 1 at the head.
// Name is empty when the queued member id does not resolve to a stored
// member - such entries still occupy their queue position until a return
// scan consumes them.
type Entry struct {
	Position int
	MemberID lending.MemberIDString
	Name     string
}

// ReservationQueue is the result of the ReservationQueue query: the book's
// waitlist in FIFO order, enriched with member names.
type ReservationQueue struct {
	BookID  lending.BookIDString
	Entries []Entry
}
