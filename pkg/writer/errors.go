package writer

import (
	"errors"
	"fmt"
)

// ErrNotOpen reports an I/O operation attempted with no open file.
var ErrNotOpen = errors.New("writer: no open file")

// ConfigError reports a malformed configuration argument. It is always
// detected before any I/O happens, so the session is never left partially
// mutated.
type ConfigError struct {
	Option string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("writer: invalid %s: %s", e.Option, e.Reason)
}

// IOError reports a failed operation on the underlying file.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("writer: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// SchemaError reports a record whose value count does not match the field
// names the file was opened with.
type SchemaError struct {
	Expected int
	Got      int
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("writer: record has %d values, schema expects %d", e.Got, e.Expected)
}
