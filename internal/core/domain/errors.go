package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent pipeline failures.
// Callers match them with errors.Is; components wrap them with context.
var (
	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrIO indicates the document could not be read.
	ErrIO = errors.New("document unreadable")

	// ErrEncodingExhausted indicates no candidate encoding could decode the document prefix.
	ErrEncodingExhausted = errors.New("undecidable encoding")

	// ErrUnknownEncoding indicates an encoding label that no decoder is registered for.
	ErrUnknownEncoding = errors.New("unknown encoding")

	// ErrMalformedXML indicates the strict parser rejected the document.
	ErrMalformedXML = errors.New("malformed XML")

	// ErrNoMatchingElements indicates the generic flattener found no product-like element.
	// This is a normal outcome for documents that are not product feeds.
	ErrNoMatchingElements = errors.New("no matching elements")

	// ErrExtraction indicates the catalog extractor could not produce output.
	ErrExtraction = errors.New("catalog extraction failed")
)

// MalformedXMLError carries the parser's position information.
// It matches ErrMalformedXML with errors.Is.
type MalformedXMLError struct {
	// Line is the 1-based line reported by the parser, or 0 if unknown.
	Line int

	// Err is the underlying parser error.
	Err error
}

func (e *MalformedXMLError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed XML at line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("malformed XML: %v", e.Err)
}

// Unwrap returns the underlying parser error.
func (e *MalformedXMLError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrMalformedXML.
func (e *MalformedXMLError) Is(target error) bool {
	return target == ErrMalformedXML
}
