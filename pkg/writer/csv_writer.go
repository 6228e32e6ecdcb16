package writer

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/idct-tech/go-csv-writer/pkg/fs"
)

var fieldNamePattern = regexp.MustCompile(`^[A-Za-z0-9]+$`)

// CSVWriter serializes records into delimited, conditionally enclosed lines
// on top of TextWriter's buffering and session lifecycle. A session opened
// with field names enforces that every record carries the same number of
// values until the session closes.
//
// Delimiter and enclosure are instance configuration and survive Open/Close
// cycles; the field name schema is session state and does not.
type CSVWriter struct {
	*TextWriter

	delimiter  rune
	enclosure  rune
	fieldNames []string
}

var _ RecordWriter = (*CSVWriter)(nil)

// NewCSV returns a CSVWriter on the real filesystem with a comma delimiter
// and double-quote enclosure.
func NewCSV() *CSVWriter {
	return NewCSVFS(fs.NewReal())
}

// NewCSVFS returns a CSVWriter writing through fsys.
func NewCSVFS(fsys fs.FS) *CSVWriter {
	return &CSVWriter{
		TextWriter: NewFS(fsys),
		delimiter:  ',',
		enclosure:  '"',
	}
}

// SetDelimiter configures the field separator; s must be exactly one
// character. Changing it mid-session affects only lines written afterwards.
func (w *CSVWriter) SetDelimiter(s string) error {
	r, err := singleRune("delimiter", s)
	if err != nil {
		return err
	}
	w.delimiter = r
	return nil
}

// Delimiter returns the configured field separator.
func (w *CSVWriter) Delimiter() string {
	return string(w.delimiter)
}

// SetEnclosure configures the enclosure character; s must be exactly one
// character.
func (w *CSVWriter) SetEnclosure(s string) error {
	r, err := singleRune("enclosure", s)
	if err != nil {
		return err
	}
	w.enclosure = r
	return nil
}

// Enclosure returns the configured enclosure character.
func (w *CSVWriter) Enclosure() string {
	return string(w.enclosure)
}

func singleRune(option, s string) (rune, error) {
	if utf8.RuneCountInString(s) != 1 {
		return 0, &ConfigError{Option: option, Reason: "must be exactly one character"}
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}

// Open starts a session without a field name schema; any schema from a
// previous session is discarded.
func (w *CSVWriter) Open(path string, mode Mode) error {
	w.fieldNames = nil
	return w.TextWriter.Open(path, mode)
}

// OpenWithFieldNames starts a session whose records must match names in
// count. Names must be non-empty and alphanumeric, and are validated before
// anything touches the filesystem. With Create the names are written as the
// first line of the file; with Append the header is assumed present from a
// prior Create and only the count is enforced.
func (w *CSVWriter) OpenWithFieldNames(path string, names []string, mode Mode) error {
	if len(names) == 0 {
		return &ConfigError{Option: "field names", Reason: "must not be empty"}
	}
	for _, name := range names {
		if !fieldNamePattern.MatchString(name) {
			return &ConfigError{Option: "field names", Reason: fmt.Sprintf("%q is not alphanumeric", name)}
		}
	}
	if err := w.Open(path, mode); err != nil {
		return err
	}
	if mode == Create {
		if err := w.WriteLine(w.encodeRecord(names)); err != nil {
			return err
		}
	}
	w.fieldNames = append([]string(nil), names...)
	return nil
}

// WriteRecord serializes values as one delimited line, terminated by the
// configured EOL. A nil slice is an empty record. With an active schema the
// value count must match the field name count.
func (w *CSVWriter) WriteRecord(values []string) error {
	if !w.isOpen() {
		return ErrNotOpen
	}
	if n := len(w.fieldNames); n > 0 && len(values) != n {
		return &SchemaError{Expected: n, Got: len(values)}
	}
	return w.WriteLine(w.encodeRecord(values))
}

// FieldNames returns a copy of the active schema's field names, nil when no
// schema is active.
func (w *CSVWriter) FieldNames() []string {
	if w.fieldNames == nil {
		return nil
	}
	return append([]string(nil), w.fieldNames...)
}

// FieldCount returns the active schema's field count, 0 when none.
func (w *CSVWriter) FieldCount() int {
	return len(w.fieldNames)
}

// Close ends the session and clears the field name schema, even when the
// closing flush fails. Delimiter and enclosure survive into the next
// session.
func (w *CSVWriter) Close() error {
	err := w.TextWriter.Close()
	w.fieldNames = nil
	return err
}

// encodeRecord joins values with the delimiter. A value containing the
// delimiter, the enclosure, or a line break is wrapped in the enclosure
// character, with embedded enclosures doubled. No terminator is appended;
// the single EOL per record comes from WriteLine.
func (w *CSVWriter) encodeRecord(values []string) string {
	var sb strings.Builder
	for i, v := range values {
		if i > 0 {
			sb.WriteRune(w.delimiter)
		}
		w.encodeField(&sb, v)
	}
	return sb.String()
}

func (w *CSVWriter) encodeField(sb *strings.Builder, v string) {
	if !w.needsEnclosure(v) {
		sb.WriteString(v)
		return
	}
	sb.WriteRune(w.enclosure)
	for _, r := range v {
		if r == w.enclosure {
			sb.WriteRune(w.enclosure)
		}
		sb.WriteRune(r)
	}
	sb.WriteRune(w.enclosure)
}

func (w *CSVWriter) needsEnclosure(v string) bool {
	if strings.ContainsRune(v, w.delimiter) || strings.ContainsRune(v, w.enclosure) {
		return true
	}
	return strings.ContainsAny(v, "\r\n")
}
