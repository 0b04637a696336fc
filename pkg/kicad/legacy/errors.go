package legacy

import (
	"errors"
	"fmt"
)

// Fatal errors
var (
	// ErrMissingDefinition is returned when no DEF line is present.
	ErrMissingDefinition = errors.New("legacy: no DEF record found")

	// ErrMalformedDefinition is returned when the DEF line does not match its grammar.
	ErrMalformedDefinition = errors.New("legacy: malformed DEF record")
)

// Non-fatal errors, reported through Diagnostic
var (
	ErrMalformedRecord = errors.New("legacy: malformed record")
	ErrUnknownRecord   = errors.New("legacy: unknown record identifier")

	// ErrPointCountMismatch is a malformed polygon whose coordinate list does
	// not match its declared point count. It matches ErrMalformedRecord too.
	ErrPointCountMismatch = fmt.Errorf("%w: polygon point count mismatch", ErrMalformedRecord)

	ErrLengthExceeded = errors.New("legacy: value exceeds maximum length")
)

// LengthError reports a bounded string that was too long
type LengthError struct {
	Field string
	Max   int
	Got   int
}

func (e *LengthError) Error() string {
	return fmt.Sprintf("legacy: %s is %d bytes, maximum is %d", e.Field, e.Got, e.Max)
}

// Unwrap lets errors.Is match ErrLengthExceeded
func (e *LengthError) Unwrap() error {
	return ErrLengthExceeded
}

// Diagnostic describes a line that was dropped while parsing
type Diagnostic struct {
	Line int // 1-based index into the parsed lines
	Kind RecordKind
	Text string
	Err  error
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("line %d (%s): %v: %q", d.Line, d.Kind, d.Err, d.Text)
}
