package core

// import.go implements CSV bulk import.
//
// The flow for one document:
//  1. Decode as UTF-8 while streaming: a leading BOM is dropped and invalid
//     bytes become U+FFFD
//  2. Read the first non-blank record as the header; a document without a
//     header and at least one data record fails with a single "file" error
//  3. Reject the whole import with a single "header" error unless the header
//     names exactly title, author, publishedYear (any order)
//  4. For every later record: skip blank records, report a "format" error on
//     a column count mismatch, otherwise validate and insert
//
// Records never span lines: a quote left open is closed at the end of its
// line, so damage stays in that row. Row numbers are physical line offsets
// from the header line: the header is row 0 and blank lines still advance
// the count. Rows are inserted as soon as they pass validation and are never
// rolled back by a later failure.

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
)

var expectedHeader = []string{FieldTitle, FieldAuthor, FieldPublishedYear}

// headerIndex maps a header column name to its position in a record.
type headerIndex map[string]int

// Import parses a CSV document and inserts every row that passes validation.
func (r *Repository) Import(data string) ImportResult {
	return r.ImportReader(strings.NewReader(data))
}

// ImportReader is Import for an io.Reader. Read failures are reported as a
// "file" error in the result, never returned.
func (r *Repository) ImportReader(src io.Reader) ImportResult {
	res := ImportResult{Errors: []ValidationError{}}

	rr := newRecordReader(src)

	header, err := rr.next()
	if err == nil {
		var first csvRecord
		first, err = rr.next()
		if err == nil {
			r.importRecords(&res, rr, header, first)
			res.Success = len(res.Errors) == 0
			return res
		}
	}

	if errors.Is(err, io.EOF) {
		res.Errors = append(res.Errors, ValidationError{
			Field:   FieldFile,
			Message: "CSV file must contain at least a header row and one data row",
		})
	} else {
		res.Errors = append(res.Errors, parseFailure(err))
	}
	return res
}

func (r *Repository) importRecords(res *ImportResult, rr *recordReader, header, first csvRecord) {
	cols, ok := parseHeader(header.fields)
	if !ok {
		res.Errors = append(res.Errors, ValidationError{
			Field:   FieldHeader,
			Message: fmt.Sprintf("CSV header must contain %s", strings.Join(expectedHeader, ", ")),
		})
		return
	}

	rec := first
	for {
		row := rec.line - header.line
		if rec.err != nil {
			res.Errors = append(res.Errors, ValidationError{
				Row:     &row,
				Field:   FieldFormat,
				Message: fmt.Sprintf("Row %d could not be parsed: %v", row, rec.err),
			})
		} else {
			r.importRow(res, cols, rec.fields, row)
		}

		var err error
		rec, err = rr.next()
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			res.Errors = append(res.Errors, parseFailure(err))
			return
		}
	}
}

func (r *Repository) importRow(res *ImportResult, cols headerIndex, fields []string, row int) {
	if len(fields) != len(cols) {
		res.Errors = append(res.Errors, ValidationError{
			Row:     &row,
			Field:   FieldFormat,
			Message: fmt.Sprintf("Row %d has %d values, expected %d", row, len(fields), len(cols)),
		})
		return
	}

	in := BookInput{
		Title:         strings.TrimSpace(fields[cols[FieldTitle]]),
		Author:        strings.TrimSpace(fields[cols[FieldAuthor]]),
		PublishedYear: parseYear(fields[cols[FieldPublishedYear]]),
	}

	if errs := r.validator.ValidateRow(in, row); len(errs) > 0 {
		res.Errors = append(res.Errors, errs...)
		return
	}

	r.insert(in)
	res.BooksAdded++
}

// parseHeader accepts exactly the expected columns, in any order.
func parseHeader(fields []string) (headerIndex, bool) {
	if len(fields) != len(expectedHeader) {
		return nil, false
	}

	idx := make(headerIndex, len(fields))
	for i, f := range fields {
		name := strings.TrimSpace(f)
		if !slices.Contains(expectedHeader, name) {
			return nil, false
		}
		if _, dup := idx[name]; dup {
			return nil, false
		}
		idx[name] = i
	}
	return idx, true
}

// parseYear returns nil for anything that is not a base-10 integer.
func parseYear(s string) *int {
	y, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	return &y
}

func parseFailure(err error) ValidationError {
	return ValidationError{
		Field:   FieldFile,
		Message: fmt.Sprintf("Failed to parse CSV file: %v", err),
	}
}

// maxLineSize bounds a single CSV line; longer lines fail the import.
const maxLineSize = 1 << 20

type csvRecord struct {
	fields []string
	line   int
	err    error
}

// recordReader yields non-blank records, one per physical line. Each line is
// parsed on its own so an unbalanced quote cannot swallow the lines after it.
type recordReader struct {
	lines *bufio.Scanner
	line  int
}

func newRecordReader(src io.Reader) *recordReader {
	sc := bufio.NewScanner(unicode.UTF8BOM.NewDecoder().Reader(src))
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	return &recordReader{lines: sc}
}

// next returns io.EOF after the last record. A line that fails to parse is
// returned with err set; read failures are returned as the error.
func (rr *recordReader) next() (csvRecord, error) {
	for rr.lines.Scan() {
		rr.line++
		text := rr.lines.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}

		fields, err := parseLine(text)
		if err != nil {
			return csvRecord{line: rr.line, err: err}, nil
		}
		if isBlankRecord(fields) {
			continue
		}
		return csvRecord{fields: fields, line: rr.line}, nil
	}

	if err := rr.lines.Err(); err != nil {
		return csvRecord{}, err
	}
	return csvRecord{}, io.EOF
}

// parseLine splits one line, honouring quoted commas within it.
func parseLine(line string) ([]string, error) {
	r := csv.NewReader(strings.NewReader(line))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	return r.Read()
}

// isBlankRecord reports whether the record came from a whitespace-only line.
// A line of bare separators such as ",," is a record of empty fields, not blank.
func isBlankRecord(fields []string) bool {
	return len(fields) == 1 && strings.TrimSpace(fields[0]) == ""
}
