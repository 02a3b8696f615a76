// Package core provides the business logic for the book catalog.
//
// # Error Codes Reference
//
// Technical errors are mapped to user-facing messages with a code that users
// can quote to support staff.
//
// # Validation Errors (VAL001-VAL099)
//
//	VAL001 - Invalid book: One or more fields failed validation
//	         Action: Check title, author, and publishedYear
//	         Patterns: "validation failed"
//
//	VAL002 - Invalid JSON: Request body is not valid JSON
//	         Action: Send a JSON object with title, author, and publishedYear
//	         Patterns: "invalid json"
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large: Upload exceeds the configured size limit
//	          Action: Split the file into smaller chunks
//	          Patterns: "request body too large", "file too large"
//
//	FILE002 - No file: No CSV file was uploaded
//	          Action: Attach the CSV in the "file" form field
//	          Patterns: "no csv file uploaded"
//
//	FILE003 - Not CSV: Uploaded content is not text
//	          Action: Upload a plain-text, comma-separated file
//	          Patterns: "not a text file"
//
// # Import Errors (IMP001-IMP099)
//
//	IMP001 - System busy: Too many imports in progress
//	         Action: Please wait a moment and try again
//	         Patterns: "too many concurrent imports"
//
//	IMP002 - Import not found: The import record expired or never existed
//	         Action: Import results are kept for a limited time
//	         Patterns: "import not found"
//
//	IMP003 - Request timeout: The import did not finish in time
//	         Action: Try a smaller file
//	         Patterns: "context deadline exceeded"
//
//	IMP004 - Request cancelled: The client went away
//	         Action: Please try again
//	         Patterns: "context canceled"
//
// # Book Errors (BOOK001-BOOK099)
//
//	BOOK001 - Book not found: No book with that id
//	          Action: List books to find a valid id
//	          Patterns: "book not found"
//
// # Rate Limiting (RATE001-RATE099)
//
//	RATE001 - Rate limited: Too many requests
//	          Action: Please wait a moment before trying again
//	          Patterns: "rate limit"
//
// # Authentication (AUTH001-AUTH099)
//
//	AUTH001 - Unauthorized: Missing or invalid API key
//	          Action: Send a valid key in the X-API-Key header
//	          Patterns: "api key"
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Not found: No route matches the URL
//	         Action: GET / lists the available endpoints
//	         Patterns: "not found" (after the specific not-found codes)
//
//	REQ002 - Method not allowed: The route exists but not for this method
//	         Action: GET / lists the available endpoints
//	         Patterns: "method not allowed"
//
// # Default Error (ERR000)
//
//	ERR000 - Unknown error: An unexpected error occurred
//	         Action: Please try again or contact support
//
// Patterns are matched case-insensitively with strings.Contains. The first
// match wins, so specific patterns come before general ones.
package core

import (
	"errors"
	"strings"
)

// ErrBookNotFound is used by transports that need an error for a missing book.
var ErrBookNotFound = errors.New("book not found")

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened
	Action  string // What to do about it
	Code    string // Support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// Validation
	{
		pattern: "validation failed",
		msg: UserMessage{
			Message: "One or more fields failed validation",
			Action:  "Check title, author, and publishedYear",
			Code:    "VAL001",
		},
	},
	{
		pattern: "invalid json",
		msg: UserMessage{
			Message: "Request body is not valid JSON",
			Action:  "Send a JSON object with title, author, and publishedYear",
			Code:    "VAL002",
		},
	},

	// File
	{
		pattern: "request body too large",
		msg: UserMessage{
			Message: "File exceeds the maximum upload size",
			Action:  "Split the file into smaller chunks",
			Code:    "FILE001",
		},
	},
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds the maximum upload size",
			Action:  "Split the file into smaller chunks",
			Code:    "FILE001",
		},
	},
	{
		pattern: "no csv file uploaded",
		msg: UserMessage{
			Message: "No CSV file uploaded",
			Action:  `Attach the CSV in the "file" form field`,
			Code:    "FILE002",
		},
	},
	{
		pattern: "not a text file",
		msg: UserMessage{
			Message: "Uploaded file is not a CSV",
			Action:  "Upload a plain-text, comma-separated file",
			Code:    "FILE003",
		},
	},

	// Import
	{
		pattern: "too many concurrent imports",
		msg: UserMessage{
			Message: "System is busy processing other imports",
			Action:  "Please wait a moment and try again",
			Code:    "IMP001",
		},
	},
	{
		pattern: "import not found",
		msg: UserMessage{
			Message: "Import not found",
			Action:  "Import results are kept for a limited time",
			Code:    "IMP002",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try a smaller file",
			Code:    "IMP003",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "IMP004",
		},
	},

	// Book
	{
		pattern: "book not found",
		msg: UserMessage{
			Message: "Book not found",
			Action:  "List books to find a valid id",
			Code:    "BOOK001",
		},
	},

	// Rate limiting
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},

	// Auth
	{
		pattern: "api key",
		msg: UserMessage{
			Message: "Missing or invalid API key",
			Action:  "Send a valid key in the X-API-Key header",
			Code:    "AUTH001",
		},
	},

	// Request
	{
		pattern: "not found",
		msg: UserMessage{
			Message: "Resource not found",
			Action:  "GET / lists the available endpoints",
			Code:    "REQ001",
		},
	},
	{
		pattern: "method not allowed",
		msg: UserMessage{
			Message: "Method not allowed",
			Action:  "GET / lists the available endpoints",
			Code:    "REQ002",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// A nil error maps to the zero UserMessage.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// IsUserFacing reports whether err matched a known pattern.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error with its user message.
type UserError struct {
	Technical error
	User      UserMessage
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
