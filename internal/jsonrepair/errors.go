package jsonrepair

import (
	"errors"
	"fmt"
)

// ErrNoJSON is returned when the model output contains no object braces at all.
var ErrNoJSON = errors.New("jsonrepair: no JSON object found in model output")

// MalformedOutputError is returned when the repaired text still fails to
// parse. Window holds the text surrounding the parse error offset for
// diagnosis.
type MalformedOutputError struct {
	Offset int64
	Window string
	Cause  error
}

func (e *MalformedOutputError) Error() string {
	if e.Window != "" {
		return fmt.Sprintf("jsonrepair: malformed output at offset %d (near %q): %v", e.Offset, e.Window, e.Cause)
	}
	return fmt.Sprintf("jsonrepair: malformed output: %v", e.Cause)
}

func (e *MalformedOutputError) Unwrap() error {
	return e.Cause
}
