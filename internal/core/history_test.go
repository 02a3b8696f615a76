package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportHistory_RecordAndLookup(t *testing.T) {
	h := NewImportHistory(time.Minute)
	defer h.Close()

	started := time.Now().Add(-150 * time.Millisecond)
	res := ImportResult{Success: true, BooksAdded: 3, Errors: []ValidationError{}}

	rec := h.Record("books.csv", started, res)
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "books.csv", rec.FileName)
	assert.GreaterOrEqual(t, rec.DurationMs, int64(150))
	assert.Equal(t, 1, h.Len())

	got, err := h.Lookup(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec, got)
}

func TestImportHistory_UnknownID(t *testing.T) {
	h := NewImportHistory(time.Minute)
	defer h.Close()

	_, err := h.Lookup("does-not-exist")
	assert.ErrorIs(t, err, ErrImportNotFound)
}

func TestImportHistory_Expires(t *testing.T) {
	h := NewImportHistory(30 * time.Millisecond)
	defer h.Close()

	rec := h.Record("", time.Now(), ImportResult{Errors: []ValidationError{}})

	assert.Eventually(t, func() bool {
		_, err := h.Lookup(rec.ID)
		return err != nil
	}, time.Second, 10*time.Millisecond)
}

func TestImportHistory_DistinctIDs(t *testing.T) {
	h := NewImportHistory(time.Minute)
	defer h.Close()

	a := h.Record("a.csv", time.Now(), ImportResult{})
	b := h.Record("b.csv", time.Now(), ImportResult{})

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 2, h.Len())
}
