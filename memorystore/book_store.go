package memorystore

import (
	"context"
	"sync"

	"github.com/librarykit/lending-policy-go/lending"
)

// BookStore is an in-memory implementation of lending.BookStore.
type BookStore struct {
	mu    sync.RWMutex
	books map[lending.BookIDString]lending.Book
}

var _ lending.BookStore = (*BookStore)(nil)

// NewBookStore creates an empty in-memory BookStore.
func NewBookStore() *BookStore {
	return &BookStore{
		books: make(map[lending.BookIDString]lending.Book),
	}
}

// FindByID returns the stored book or lending.ErrBookNotFound.
func (s *BookStore) FindByID(ctx context.Context, id lending.BookIDString) (lending.Book, error) {
	if err := ctx.Err(); err != nil {
		return lending.Book{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	book, ok := s.books[id]
	if !ok {
		return lending.Book{}, lending.ErrBookNotFound
	}

	return copyBook(book), nil
}

// FindAll returns all stored books in unspecified order.
func (s *BookStore) FindAll(ctx context.Context) ([]lending.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	books := make([]lending.Book, 0, len(s.books))
	for _, book := range s.books {
		books = append(books, copyBook(book))
	}

	return books, nil
}

// Save upserts the book with a compare-and-swap on its Version: a book with
// Version zero must not exist yet, otherwise the stored version must still
// equal book.Version. A missed swap fails with lending.ErrConcurrencyConflict.
// The returned book carries the incremented version.
func (s *BookStore) Save(ctx context.Context, book lending.Book) (lending.Book, error) {
	if err := ctx.Err(); err != nil {
		return lending.Book{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, exists := s.books[book.ID]

	if book.Version == 0 {
		if exists {
			return lending.Book{}, lending.ErrConcurrencyConflict
		}
	} else if !exists || stored.Version != book.Version {
		return lending.Book{}, lending.ErrConcurrencyConflict
	}

	saved := copyBook(book)
	saved.Version = book.Version + 1
	s.books[book.ID] = saved

	return copyBook(saved), nil
}

// Delete removes the book; deleting a book that is not stored is a no-op.
func (s *BookStore) Delete(ctx context.Context, book lending.Book) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.books, book.ID)

	return nil
}

// ExistsByID reports whether a book with the given id is stored.
func (s *BookStore) ExistsByID(ctx context.Context, id lending.BookIDString) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.books[id]

	return ok, nil
}

// CountByLoanedTo returns the number of books currently on loan to the member.
func (s *BookStore) CountByLoanedTo(ctx context.Context, memberID lending.MemberIDString) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, book := range s.books {
		if book.IsLoanedTo(memberID) {
			count++
		}
	}

	return count, nil
}

// copyBook returns a copy whose reservation queue shares no storage with the original.
func copyBook(book lending.Book) lending.Book {
	copied := book
	copied.ReservationQueue = append([]lending.MemberIDString(nil), book.ReservationQueue...)

	return copied
}
