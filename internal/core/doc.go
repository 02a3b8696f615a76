// Package core provides the business logic for the book catalog.
//
// The package has no transport dependencies. Web handlers, CLI tools, and
// tests all drive the same types.
//
// # Components
//
//   - [Validator]: field rules shared by single-record writes and CSV rows.
//   - [Repository]: the in-memory, insertion-ordered book collection.
//   - [Repository.Import]: CSV bulk import with per-row error aggregation.
//   - [ImportLimiter]: bounds concurrent imports.
//   - [ImportHistory]: keeps recent import results for later lookup.
//
// # Import Flow
//
//	repo := core.NewRepository()
//	res := repo.Import("title,author,publishedYear\nDune,Frank Herbert,1965\n")
//	// res.Success == true, res.BooksAdded == 1
//
// Valid rows are inserted as they are read. A bad row adds errors to the
// result but does not stop the import, and earlier rows stay inserted. Only
// a missing data row or an unusable header aborts before any insert.
//
// # Error Handling
//
// Validation problems are data ([ValidationError]), never panics. Transport
// errors are mapped to user-facing messages with [MapError].
package core
