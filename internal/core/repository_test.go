package core

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sequentialIDs returns an ID generator yielding book-1, book-2, ...
func sequentialIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("book-%d", n)
	}
}

func newTestRepository() *Repository {
	return NewRepository(
		WithValidator(NewValidator(WithClock(fixedClock(2024)))),
		WithIDGenerator(sequentialIDs()),
	)
}

func TestRepository_CreateAndGet(t *testing.T) {
	repo := newTestRepository()

	b, err := repo.Create(BookInput{Title: "Dune", Author: "Frank Herbert", PublishedYear: Year(1965)})
	require.NoError(t, err)
	assert.Equal(t, Book{ID: "book-1", Title: "Dune", Author: "Frank Herbert", PublishedYear: 1965}, b)

	got, ok := repo.Get("book-1")
	require.True(t, ok)
	assert.Equal(t, b, got)

	_, ok = repo.Get("missing")
	assert.False(t, ok)
}

func TestRepository_CreateInvalid(t *testing.T) {
	repo := newTestRepository()

	_, err := repo.Create(BookInput{Title: "", Author: "A", PublishedYear: Year(2000)})
	require.Error(t, err)

	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	require.Len(t, verrs, 1)
	assert.Equal(t, FieldTitle, verrs[0].Field)
	assert.Equal(t, 0, repo.Len(), "rejected input must not be stored")
}

func TestRepository_CreateAssignsUniqueIDs(t *testing.T) {
	repo := NewRepository()
	in := BookInput{Title: "Same", Author: "Same", PublishedYear: Year(2000)}

	a, err := repo.Create(in)
	require.NoError(t, err)
	b, err := repo.Create(in)
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	assert.Len(t, a.ID, 36)
}

func TestRepository_All(t *testing.T) {
	repo := newTestRepository()

	assert.NotNil(t, repo.All())
	assert.Empty(t, repo.All())

	for _, title := range []string{"A", "B", "C"} {
		_, err := repo.Create(BookInput{Title: title, Author: "X", PublishedYear: Year(2000)})
		require.NoError(t, err)
	}

	all := repo.All()
	require.Len(t, all, 3)
	assert.Equal(t, "A", all[0].Title)
	assert.Equal(t, "C", all[2].Title)

	all[0].Title = "changed"
	got, _ := repo.Get("book-1")
	assert.Equal(t, "A", got.Title, "All must return a copy")
}

func TestRepository_Update(t *testing.T) {
	tests := []struct {
		name      string
		id        string
		in        BookInput
		wantFound bool
		wantErr   bool
	}{
		{
			name:      "replaces every field",
			id:        "book-1",
			in:        BookInput{Title: "Dune Messiah", Author: "F. Herbert", PublishedYear: Year(1969)},
			wantFound: true,
		},
		{
			name:      "unknown id",
			id:        "nope",
			in:        BookInput{Title: "T", Author: "A", PublishedYear: Year(1969)},
			wantFound: false,
		},
		{
			name:    "invalid input on unknown id still fails validation",
			id:      "nope",
			in:      BookInput{Title: "T", Author: "A"},
			wantErr: true,
		},
		{
			name:    "invalid input on known id",
			id:      "book-1",
			in:      BookInput{Title: "", Author: "A", PublishedYear: Year(1969)},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newTestRepository()
			orig, err := repo.Create(BookInput{Title: "Dune", Author: "Frank Herbert", PublishedYear: Year(1965)})
			require.NoError(t, err)

			got, found, err := repo.Update(tt.id, tt.in)
			if tt.wantErr {
				require.Error(t, err)
				stored, _ := repo.Get(orig.ID)
				assert.Equal(t, orig, stored, "failed update must not change the record")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantFound, found)
			if !found {
				return
			}

			assert.Equal(t, tt.id, got.ID)
			assert.Equal(t, *tt.in.PublishedYear, got.PublishedYear)
			stored, _ := repo.Get(tt.id)
			assert.Equal(t, got, stored)
			assert.Equal(t, 1, repo.Len())
		})
	}
}

func TestRepository_Delete(t *testing.T) {
	repo := newTestRepository()
	for _, title := range []string{"A", "B", "C"} {
		_, err := repo.Create(BookInput{Title: title, Author: "X", PublishedYear: Year(2000)})
		require.NoError(t, err)
	}

	assert.True(t, repo.Delete("book-2"))
	assert.False(t, repo.Delete("book-2"), "second delete reports absence")

	all := repo.All()
	require.Len(t, all, 2)
	assert.Equal(t, "A", all[0].Title)
	assert.Equal(t, "C", all[1].Title)
}

func TestRepository_ConcurrentCreate(t *testing.T) {
	repo := NewRepository()

	const workers = 8
	const perWorker = 50

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				_, err := repo.Create(BookInput{Title: "T", Author: "A", PublishedYear: Year(2000)})
				assert.NoError(t, err)
				_ = repo.All()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, workers*perWorker, repo.Len())
}
