// Package overdueloans implements the Overdue Loans query.
//
// It projects every loan whose due date lies before the handler clock's
// "today", most overdue first. Fine computation is out of scope; the query
// reports the raw overdue listing only.
package overdueloans
