package sitesect

import (
	"errors"
	"fmt"
)

// Application error codes.
//
// These are meant to be generic and map well to HTTP status codes at the
// boundary, with a handful of domain-specific codes for the failure modes
// callers need to distinguish.
const (
	EINTERNAL    = "internal"
	EINVALID     = "invalid"
	ENOTFOUND    = "not_found"
	EUNAVAILABLE = "unavailable"

	// EACQUISITION indicates a site could not be acquired. The message
	// carries the causing condition (blocked, not found, refused) verbatim
	// so users can act on it.
	EACQUISITION = "acquisition"

	// ENODOCUMENTS indicates matching was attempted with zero candidate
	// documents.
	ENODOCUMENTS = "no_documents"

	// ESECTION indicates no resolution strategy located a section element.
	ESECTION = "section_not_found"

	// EASSEMBLY indicates an I/O failure while writing an assembled site.
	EASSEMBLY = "assembly"
)

// Error represents an application-specific error. Application errors can be
// unwrapped by the caller to extract out the code & message.
//
// Any non-application error (such as a disk error) should be reported as an
// EINTERNAL error; the end user should only see "internal error" messages.
type Error struct {
	// Machine-readable error code.
	Code string

	// Human-readable message.
	Message string

	// Wrapped underlying error, if any.
	Err error
}

// Error implements the error interface. Not used by the application
// otherwise.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("sitesect error: code=%s message=%s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("sitesect error: code=%s message=%s", e.Code, e.Message)
}

// Unwrap returns the wrapped error, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error".
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

// Errorf is a helper function to return an Error with a given code and
// formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// WrapErrorf is like Errorf but preserves an underlying error for callers
// that need errors.Is/As on the cause.
func WrapErrorf(err error, code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}
