// Package errors provides the structured fatal error type (BuildError) used
// across the docweave pipeline. Every BuildError aborts the whole run; there
// is no retry or partial-success mode.
package errors

import (
	"errors"
	"fmt"
)

// Kind classifies a fatal build error.
type Kind string

const (
	// Input and configuration errors
	KindInvalidConfig          Kind = "invalid_config"
	KindMissingSourceDirectory Kind = "missing_source_directory"
	KindReservedOutputPath     Kind = "reserved_output_path_exists"

	// Registry invariant violations
	KindDuplicateHeaderID     Kind = "duplicate_header_id"
	KindDuplicateDocEntry     Kind = "duplicate_documentation_entry"
	KindMissingDocumentation  Kind = "missing_documentation"

	// Cross-reference resolution failures
	KindUnresolvedSymbolRef Kind = "unresolved_symbol_reference"
	KindUnresolvedHeaderRef Kind = "unresolved_header_reference"

	// Example verification failures
	KindMalformedScriptDoctest Kind = "malformed_script_doctest"
	KindDoctestMismatch        Kind = "doctest_mismatch"

	// Anything else (I/O, runtime faults)
	KindInternal Kind = "internal"
)

// BuildError is a structured fatal error carrying enough context to locate
// the offending page and identifier.
type BuildError struct {
	Kind    Kind
	Page    string // source path of the offending page, when known
	Message string
	Cause   error
	Context map[string]any
}

// Error implements the error interface.
func (e *BuildError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	if e.Page != "" {
		msg = fmt.Sprintf("%s: %s: %s", e.Kind, e.Page, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap implements error unwrapping for errors.Is/As chains.
func (e *BuildError) Unwrap() error { return e.Cause }

// WithContext attaches a context field to the error and returns it.
func (e *BuildError) WithContext(key string, value any) *BuildError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// New creates a BuildError without a page attribution.
func New(kind Kind, format string, args ...any) *BuildError {
	return &BuildError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// NewPage creates a BuildError attributed to a source page.
func NewPage(kind Kind, page, format string, args ...any) *BuildError {
	return &BuildError{Kind: kind, Page: page, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a BuildError wrapping a cause.
func Wrap(err error, kind Kind, format string, args ...any) *BuildError {
	return &BuildError{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: err}
}

// WrapPage creates a page-attributed BuildError wrapping a cause.
func WrapPage(err error, kind Kind, page, format string, args ...any) *BuildError {
	return &BuildError{Kind: kind, Page: page, Message: fmt.Sprintf(format, args...), Cause: err}
}

// KindOf extracts the Kind from an error chain, or KindInternal when the
// chain carries no BuildError.
func KindOf(err error) Kind {
	var be *BuildError
	if errors.As(err, &be) {
		return be.Kind
	}
	return KindInternal
}

// IsKind reports whether the error chain carries a BuildError of the given kind.
func IsKind(err error, kind Kind) bool {
	var be *BuildError
	return errors.As(err, &be) && be.Kind == kind
}
