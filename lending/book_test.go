package lending

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_WithLoan_SetsBorrowerAndDueDate_AndLeavesOriginalUntouched(t *testing.T) {
	// arrange
	today := time.Date(2025, 7, 1, 9, 30, 0, 0, time.UTC)
	original := BuildBook("b1", "The Go Programming Language").WithQueueAppended("m2")

	// act
	loaned := original.WithLoan("m1", DueDateFrom(today))

	// assert
	assert.True(t, loaned.IsLoaned())
	assert.True(t, loaned.IsLoanedTo("m1"))
	assert.Equal(t, time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC), loaned.DueDate)
	assert.Equal(t, []MemberIDString{"m2"}, loaned.ReservationQueue)

	assert.False(t, original.IsLoaned(), "the original book should not have been mutated")
	assert.True(t, original.DueDate.IsZero())
}

func Test_WithoutLoan_ClearsBorrowerAndDueDate(t *testing.T) {
	// arrange
	today := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	loaned := BuildBook("b1", "Some Title").WithLoan("m1", DueDateFrom(today))

	// act
	available := loaned.WithoutLoan()

	// assert
	assert.False(t, available.IsLoaned())
	assert.True(t, available.DueDate.IsZero())
	assert.Empty(t, available.ReservationQueue)
}

func Test_QueueHelpers(t *testing.T) {
	book := BuildBook("b1", "Some Title").
		WithQueueAppended("m1").
		WithQueueAppended("m2")

	assert.Equal(t, "m1", book.QueueHead())
	assert.True(t, book.QueueContains("m2"))
	assert.False(t, book.QueueContains("m3"))

	empty := BuildBook("b2", "Another Title")
	assert.Equal(t, "", empty.QueueHead())
}

//nolint:funlen
func Test_QueueModifiers(t *testing.T) {
	testCases := []struct {
		name          string
		initialQueue  []MemberIDString
		modify        func(Book) Book
		expectedQueue []MemberIDString
	}{
		{
			name:          "append to empty queue",
			initialQueue:  nil,
			modify:        func(b Book) Book { return b.WithQueueAppended("m1") },
			expectedQueue: []MemberIDString{"m1"},
		},
		{
			name:          "append keeps insertion order",
			initialQueue:  []MemberIDString{"m1"},
			modify:        func(b Book) Book { return b.WithQueueAppended("m2") },
			expectedQueue: []MemberIDString{"m1", "m2"},
		},
		{
			name:          "drop first entries",
			initialQueue:  []MemberIDString{"m1", "m2", "m3"},
			modify:        func(b Book) Book { return b.WithQueueDropped(2) },
			expectedQueue: []MemberIDString{"m3"},
		},
		{
			name:          "drop more than queued",
			initialQueue:  []MemberIDString{"m1"},
			modify:        func(b Book) Book { return b.WithQueueDropped(5) },
			expectedQueue: []MemberIDString{},
		},
		{
			name:          "remove entry in the middle",
			initialQueue:  []MemberIDString{"m1", "m2", "m3"},
			modify:        func(b Book) Book { return b.WithQueueEntryRemoved("m2") },
			expectedQueue: []MemberIDString{"m1", "m3"},
		},
		{
			name:          "remove entry that is not queued",
			initialQueue:  []MemberIDString{"m1"},
			modify:        func(b Book) Book { return b.WithQueueEntryRemoved("m9") },
			expectedQueue: []MemberIDString{"m1"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			book := BuildBook("b1", "Some Title")
			book.ReservationQueue = tc.initialQueue

			// act
			modified := tc.modify(book)

			// assert
			assert.Equal(t, tc.expectedQueue, modified.ReservationQueue)
			assert.Equal(t, tc.initialQueue, book.ReservationQueue, "the original queue should be unchanged")
		})
	}
}

func Test_QueueModifiers_DoNotShareStorageWithTheOriginal(t *testing.T) {
	// arrange
	book := BuildBook("b1", "Some Title").WithQueueAppended("m1")

	// act
	modified := book.WithQueueAppended("m2")
	modified.ReservationQueue[0] = "changed"

	// assert
	assert.Equal(t, "m1", book.ReservationQueue[0])
}
