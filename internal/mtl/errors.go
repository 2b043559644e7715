package mtl

import (
	"fmt"
	"strings"
)

// MetadataIncompleteError reports calibration keys that never appeared.
type MetadataIncompleteError struct {
	Missing []string
}

func (e *MetadataIncompleteError) Error() string {
	return fmt.Sprintf("metadata incomplete: missing %s", strings.Join(e.Missing, ", "))
}

// ValueError reports a calibration key whose value is not a number.
type ValueError struct {
	Key   string
	Value string
	Line  int
	Err   error
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("line %d: invalid value %q for %s: %v", e.Line, e.Value, e.Key, e.Err)
}

func (e *ValueError) Unwrap() error { return e.Err }
