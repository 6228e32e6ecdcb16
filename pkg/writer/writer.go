// Package writer implements buffered text output and delimited record
// serialization over a narrow filesystem surface.
package writer

import (
	"runtime"
	"strings"
)

// Mode selects how Open treats an existing file.
type Mode int

const (
	// Create truncates the target, creating it when absent.
	Create Mode = iota + 1
	// Append preserves existing contents and writes at the end.
	Append
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case Create:
		return "create"
	case Append:
		return "append"
	default:
		return "invalid"
	}
}

// EOL is a line terminator symbol.
type EOL string

const (
	CRLF EOL = "\r\n"
	LF   EOL = "\n"
	CR   EOL = "\r"
)

func (e EOL) valid() bool {
	return e == CRLF || e == LF || e == CR
}

// DefaultEOL returns the platform-natural line ending: CRLF on Windows, LF
// everywhere else.
func DefaultEOL() EOL {
	if runtime.GOOS == "windows" {
		return CRLF
	}
	return LF
}

// ParseEOL maps a symbolic name ("crlf", "lf", "cr") to its EOL.
func ParseEOL(s string) (EOL, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "crlf":
		return CRLF, nil
	case "lf":
		return LF, nil
	case "cr":
		return CR, nil
	}
	return "", &ConfigError{Option: "eol symbol", Reason: `must be one of "crlf", "lf", "cr"`}
}

// RecordWriter is the record-oriented surface shared by the delimited and
// spreadsheet writers, letting callers pick an output format per file.
type RecordWriter interface {
	// OpenWithFieldNames starts a session whose records must match the
	// given field names in count. With Create the names become the first
	// row of the file.
	OpenWithFieldNames(path string, names []string, mode Mode) error

	// WriteRecord appends one record.
	WriteRecord(values []string) error

	// Flush pushes completed rows toward the file.
	Flush() error

	// Close finishes the file and releases all resources. Idempotent.
	Close() error

	// FieldNames returns the active schema, nil when none.
	FieldNames() []string

	// FieldCount returns the active schema's size, 0 when none.
	FieldCount() int
}
