package writer

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ExcelWriter streams records into an xlsx worksheet through the same
// record-oriented surface as CSVWriter. Rows accumulate in excelize's stream
// writer and the workbook is materialized at the target path by Close.
// Append mode is not supported: the xlsx container cannot be extended in
// place.
type ExcelWriter struct {
	file       *excelize.File
	stream     *excelize.StreamWriter
	sheetName  string
	outputPath string
	currentRow int
	fieldNames []string
}

var _ RecordWriter = (*ExcelWriter)(nil)

// NewExcel returns an ExcelWriter targeting the default worksheet.
func NewExcel() *ExcelWriter {
	return &ExcelWriter{sheetName: "Sheet1", currentRow: 1}
}

// SetSheetName configures the worksheet rows are written to. Takes effect on
// the next OpenWithFieldNames.
func (w *ExcelWriter) SetSheetName(name string) error {
	if name == "" {
		return &ConfigError{Option: "sheet name", Reason: "must not be empty"}
	}
	w.sheetName = name
	return nil
}

// SheetName returns the configured worksheet name.
func (w *ExcelWriter) SheetName() string {
	return w.sheetName
}

// OpenWithFieldNames starts a streaming session writing names as the header
// row. Names must be non-empty and alphanumeric. Only Create mode is
// supported for xlsx output.
func (w *ExcelWriter) OpenWithFieldNames(path string, names []string, mode Mode) error {
	if mode != Create {
		if mode != Append {
			return &ConfigError{Option: "mode", Reason: "must be Create or Append"}
		}
		return &ConfigError{Option: "mode", Reason: "append is not supported for xlsx output"}
	}
	if len(names) == 0 {
		return &ConfigError{Option: "field names", Reason: "must not be empty"}
	}
	for _, name := range names {
		if !fieldNamePattern.MatchString(name) {
			return &ConfigError{Option: "field names", Reason: fmt.Sprintf("%q is not alphanumeric", name)}
		}
	}
	if err := w.Close(); err != nil {
		return err
	}

	f := excelize.NewFile()
	if w.sheetName != "Sheet1" {
		index, err := f.NewSheet(w.sheetName)
		if err != nil {
			f.Close()
			return &IOError{Op: "sheet", Path: path, Err: err}
		}
		f.SetActiveSheet(index)
		_ = f.DeleteSheet("Sheet1")
	}
	stream, err := f.NewStreamWriter(w.sheetName)
	if err != nil {
		f.Close()
		return &IOError{Op: "stream", Path: path, Err: err}
	}

	w.file = f
	w.stream = stream
	w.outputPath = path
	w.currentRow = 1

	header := make([]interface{}, len(names))
	for i, name := range names {
		header[i] = name
	}
	if err := w.writeRow(header); err != nil {
		// Tear down without saving a header-less workbook.
		w.file.Close()
		w.file = nil
		w.stream = nil
		w.outputPath = ""
		w.currentRow = 1
		return err
	}
	w.fieldNames = append([]string(nil), names...)
	return nil
}

// WriteRecord appends values as one worksheet row, enforcing the field
// count.
func (w *ExcelWriter) WriteRecord(values []string) error {
	if w.stream == nil {
		return ErrNotOpen
	}
	if n := len(w.fieldNames); n > 0 && len(values) != n {
		return &SchemaError{Expected: n, Got: len(values)}
	}
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return w.writeRow(cells)
}

// Flush verifies an open session. Streamed xlsx rows cannot be committed
// incrementally; the workbook is materialized by Close.
func (w *ExcelWriter) Flush() error {
	if w.stream == nil {
		return ErrNotOpen
	}
	return nil
}

// FieldNames returns a copy of the active schema's field names, nil when no
// session is active.
func (w *ExcelWriter) FieldNames() []string {
	if w.fieldNames == nil {
		return nil
	}
	return append([]string(nil), w.fieldNames...)
}

// FieldCount returns the active schema's field count, 0 when none.
func (w *ExcelWriter) FieldCount() int {
	return len(w.fieldNames)
}

// Close ends the streaming session, saves the workbook at the target path,
// and clears the schema. Without an open session it is a no-op.
func (w *ExcelWriter) Close() error {
	if w.file == nil {
		w.fieldNames = nil
		return nil
	}
	err := w.finalize()
	w.file = nil
	w.stream = nil
	w.outputPath = ""
	w.currentRow = 1
	w.fieldNames = nil
	return err
}

func (w *ExcelWriter) finalize() error {
	defer w.file.Close()
	if err := w.stream.Flush(); err != nil {
		return &IOError{Op: "flush", Path: w.outputPath, Err: err}
	}
	if err := w.file.SaveAs(w.outputPath); err != nil {
		return &IOError{Op: "save", Path: w.outputPath, Err: err}
	}
	return nil
}

func (w *ExcelWriter) writeRow(cells []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, w.currentRow)
	if err != nil {
		return &IOError{Op: "row", Path: w.outputPath, Err: err}
	}
	if err := w.stream.SetRow(cell, cells); err != nil {
		return &IOError{Op: "row", Path: w.outputPath, Err: err}
	}
	w.currentRow++
	return nil
}
