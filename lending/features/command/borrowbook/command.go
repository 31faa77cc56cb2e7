package borrowbook

import (
	"github.com/librarykit/lending-policy-go/lending"
)

const (
	commandType = "BorrowBook"
)

// Command represents the intent of a member to borrow a book directly.
// It encapsulates all the necessary information required to execute the borrow book use case.
type Command struct {
	BookID   lending.BookIDString
	MemberID lending.MemberIDString
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(bookID lending.BookIDString, memberID lending.MemberIDString) Command {
	return Command{
		BookID:   bookID,
		MemberID: memberID,
	}
}
