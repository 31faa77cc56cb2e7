package memorystore

import (
	"context"
	"sync"

	"github.com/librarykit/lending-policy-go/lending"
)

// MemberStore is an in-memory implementation of lending.MemberStore.
type MemberStore struct {
	mu      sync.RWMutex
	members map[lending.MemberIDString]lending.Member
}

var _ lending.MemberStore = (*MemberStore)(nil)

// NewMemberStore creates an empty in-memory MemberStore.
func NewMemberStore() *MemberStore {
	return &MemberStore{
		members: make(map[lending.MemberIDString]lending.Member),
	}
}

// FindByID returns the stored member or lending.ErrMemberNotFound.
func (s *MemberStore) FindByID(ctx context.Context, id lending.MemberIDString) (lending.Member, error) {
	if err := ctx.Err(); err != nil {
		return lending.Member{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	member, ok := s.members[id]
	if !ok {
		return lending.Member{}, lending.ErrMemberNotFound
	}

	return member, nil
}

// FindAll returns all stored members in unspecified order.
func (s *MemberStore) FindAll(ctx context.Context) ([]lending.Member, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	members := make([]lending.Member, 0, len(s.members))
	for _, member := range s.members {
		members = append(members, member)
	}

	return members, nil
}

// Save upserts the member with the same version compare-and-swap semantics as BookStore.Save.
func (s *MemberStore) Save(ctx context.Context, member lending.Member) (lending.Member, error) {
	if err := ctx.Err(); err != nil {
		return lending.Member{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, exists := s.members[member.ID]

	if member.Version == 0 {
		if exists {
			return lending.Member{}, lending.ErrConcurrencyConflict
		}
	} else if !exists || stored.Version != member.Version {
		return lending.Member{}, lending.ErrConcurrencyConflict
	}

	saved := member
	saved.Version = member.Version + 1
	s.members[member.ID] = saved

	return saved, nil
}

// Delete removes the member; deleting a member that is not stored is a no-op.
func (s *MemberStore) Delete(ctx context.Context, member lending.Member) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.members, member.ID)

	return nil
}

// ExistsByID reports whether a member with the given id is stored.
func (s *MemberStore) ExistsByID(ctx context.Context, id lending.MemberIDString) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.members[id]

	return ok, nil
}
