package lending

// Reason codes carried by rejected results.
const (
	ReasonNotFound        = "NOT_FOUND"
	ReasonBookLoaned      = "BOOK_LOANED"
	ReasonQueueExists     = "QUEUE_EXISTS"
	ReasonAlreadyReserved = "ALREADY_RESERVED"
	ReasonNotBorrower     = "NOT_BORROWER"
	ReasonLoanLimit       = "LOAN_LIMIT"
)

// BorrowResult reports the outcome of a borrow request.
// Reason is empty when Ok is true.
type BorrowResult struct {
	Ok     bool
	Reason string
}

func BorrowGranted() BorrowResult {
	return BorrowResult{Ok: true}
}

func BorrowRejected(reason string) BorrowResult {
	return BorrowResult{Ok: false, Reason: reason}
}

// ReserveResult reports the outcome of a reserve request.
// Reason is empty when Ok is true.
type ReserveResult struct {
	Ok     bool
	Reason string
}

func ReserveGranted() ReserveResult {
	return ReserveResult{Ok: true}
}

func ReserveRejected(reason string) ReserveResult {
	return ReserveResult{Ok: false, Reason: reason}
}

// ReturnResult reports the outcome of a return request. NextMemberID is
// the member the book was handed off to; it is empty when the book became
// available or when the return was rejected.
type ReturnResult struct {
	Ok           bool
	Reason       string
	NextMemberID MemberIDString
}

func ReturnAccepted(nextMemberID MemberIDString) ReturnResult {
	return ReturnResult{Ok: true, NextMemberID: nextMemberID}
}

func ReturnRejected(reason string) ReturnResult {
	return ReturnResult{Ok: false, Reason: reason}
}
