// Package memberloans implements the Member Loans query.
//
// It projects the books currently on loan to a member from the book store,
// sorted by due date, together with the active-loan count - the same figure
// the lending policy checks against the loan limit.
package memberloans
