package core

// Book is a stored bibliographic record.
type Book struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Author        string `json:"author"`
	PublishedYear int    `json:"publishedYear"`
}

// BookInput is unvalidated candidate data for creating or replacing a Book.
// PublishedYear is nil when the caller supplied no usable number.
type BookInput struct {
	Title         string `json:"title" validate:"notblank"`
	Author        string `json:"author" validate:"notblank"`
	PublishedYear *int   `json:"publishedYear" validate:"required,min=0,notfuture"`
}

// ImportResult summarizes a CSV import.
// BooksAdded counts inserted rows even when Success is false.
type ImportResult struct {
	Success    bool              `json:"success"`
	BooksAdded int               `json:"booksAdded"`
	Errors     []ValidationError `json:"errors"`
}

// Field names used in ValidationError.Field.
const (
	FieldTitle         = "title"
	FieldAuthor        = "author"
	FieldPublishedYear = "publishedYear"
	FieldHeader        = "header"
	FieldFormat        = "format"
	FieldFile          = "file"
)

// Year returns a pointer to y, for building BookInput literals.
func Year(y int) *int {
	return &y
}
