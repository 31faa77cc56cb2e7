// Package reservationqueue implements the Reservation Queue query.
//
// It presents a book's waitlist in FIFO order with 1-based positions,
// enriched with the members' display names. Queue entries whose member id
// does not resolve to a stored member project with an empty name; the
// lending policy skips them during the return hand-off scan.
package reservationqueue
