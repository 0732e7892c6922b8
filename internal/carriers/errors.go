// Package carriers implements carrier identification and per-carrier field
// extraction over a transaction document's normalized text blocks.
package carriers

import (
	"errors"
	"fmt"
	"path/filepath"
)

var (
	// ErrUnidentifiedCarrier indicates no carrier marker matched the first page.
	ErrUnidentifiedCarrier = errors.New("carrier could not be identified")

	// ErrUnknownDocType indicates the carrier matched but no document type
	// keyword did.
	ErrUnknownDocType = errors.New("document type could not be detected")

	// ErrUnsupportedDocType indicates a detected document type the carrier's
	// rules do not cover.
	ErrUnsupportedDocType = errors.New("document type is not supported")

	// ErrDocParse indicates an expected label, value or structure was missing
	// or malformed.
	ErrDocParse = errors.New("document could not be parsed")
)

// DocError carries the operator-facing context of an extraction failure: the
// document's location plus whatever carrier detail was known when it failed.
type DocError struct {
	Err     error
	Path    string
	Carrier string
	Subtype Subtype
	Reason  string
}

func (e *DocError) Error() string {
	msg := e.Err.Error()
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Carrier != "" {
		msg += fmt.Sprintf(" (carrier %s", e.Carrier)
		if e.Subtype != "" {
			msg += fmt.Sprintf(", subtype %s", e.Subtype)
		}
		msg += ")"
	}
	return fmt.Sprintf("%s: file %q in %q", msg, filepath.Base(e.Path), filepath.Dir(e.Path))
}

func (e *DocError) Unwrap() error { return e.Err }

// Recoverable reports whether the failure can be resolved by the operator
// retrying the run or withdrawing the document.
func Recoverable(err error) bool {
	return errors.Is(err, ErrUnidentifiedCarrier) ||
		errors.Is(err, ErrUnknownDocType) ||
		errors.Is(err, ErrUnsupportedDocType) ||
		errors.Is(err, ErrDocParse)
}

func docErrf(sentinel error, d *Document, r Record, format string, args ...any) *DocError {
	return &DocError{
		Err:     sentinel,
		Path:    d.Path,
		Carrier: r.Carrier,
		Subtype: r.Subtype,
		Reason:  fmt.Sprintf(format, args...),
	}
}
