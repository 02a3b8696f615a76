package core

import (
	"slices"
	"sync"

	"github.com/google/uuid"
)

// Repository holds the book collection in memory, in insertion order.
// All methods are safe for concurrent use; readers receive copies.
type Repository struct {
	mu    sync.RWMutex
	books []Book

	validator *Validator
	newID     func() string
}

// RepositoryOption configures a Repository.
type RepositoryOption func(*Repository)

// WithValidator replaces the default Validator.
func WithValidator(v *Validator) RepositoryOption {
	return func(r *Repository) {
		r.validator = v
	}
}

// WithIDGenerator replaces the UUID generator used for new books.
func WithIDGenerator(fn func() string) RepositoryOption {
	return func(r *Repository) {
		r.newID = fn
	}
}

// NewRepository creates an empty repository.
func NewRepository(opts ...RepositoryOption) *Repository {
	r := &Repository{
		books:     make([]Book, 0),
		validator: NewValidator(),
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// All returns every book in insertion order.
func (r *Repository) All() []Book {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Book, len(r.books))
	copy(out, r.books)
	return out
}

// Get looks a book up by ID.
func (r *Repository) Get(id string) (Book, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return Book{}, false
	}
	return r.books[i], true
}

// Len returns the number of stored books.
func (r *Repository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.books)
}

// Create validates in and stores it under a fresh ID.
// A rejected input yields ValidationErrors and leaves the collection untouched.
func (r *Repository) Create(in BookInput) (Book, error) {
	if errs := r.validator.Validate(in); len(errs) > 0 {
		return Book{}, ValidationErrors(errs)
	}
	return r.insert(in), nil
}

// Update replaces every field of the book with the given ID, keeping the ID.
// Validation runs before the lookup, so invalid input is reported even for
// unknown IDs. The bool is false when no such book exists.
func (r *Repository) Update(id string, in BookInput) (Book, bool, error) {
	if errs := r.validator.Validate(in); len(errs) > 0 {
		return Book{}, false, ValidationErrors(errs)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return Book{}, false, nil
	}

	r.books[i] = newBook(id, in)
	return r.books[i], true, nil
}

// Delete removes the book with the given ID and reports whether it existed.
func (r *Repository) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return false
	}

	r.books = slices.Delete(r.books, i, i+1)
	return true
}

// insert stores an already-validated input.
func (r *Repository) insert(in BookInput) Book {
	r.mu.Lock()
	defer r.mu.Unlock()

	b := newBook(r.newID(), in)
	r.books = append(r.books, b)
	return b
}

// indexOf must be called with r.mu held.
func (r *Repository) indexOf(id string) int {
	return slices.IndexFunc(r.books, func(b Book) bool { return b.ID == id })
}

func newBook(id string, in BookInput) Book {
	b := Book{ID: id, Title: in.Title, Author: in.Author}
	if in.PublishedYear != nil {
		b.PublishedYear = *in.PublishedYear
	}
	return b
}
