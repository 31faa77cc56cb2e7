package lending

// Member is a library member: identity and display name. Active loan
// counts are not stored here; they are derived from the books via
// BookStore.CountByLoanedTo.
type Member struct {
	ID      MemberIDString
	Name    string
	Version uint
}

// BuildMember creates a member.
func BuildMember(id MemberIDString, name string) Member {
	return Member{
		ID:   id,
		Name: name,
	}
}
