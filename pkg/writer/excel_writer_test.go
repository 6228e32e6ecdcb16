package writer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExcelWriter_WritesHeaderAndRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	w := NewExcel()

	require.NoError(t, w.OpenWithFieldNames(path, []string{"ID", "Name"}, Create))
	require.NoError(t, w.WriteRecord([]string{"1", "Alice"}))
	require.NoError(t, w.WriteRecord([]string{"2", "Bob"}))
	require.NoError(t, w.Close())

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Sheet1")
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"ID", "Name"},
		{"1", "Alice"},
		{"2", "Bob"},
	}, rows)
}

func TestExcelWriter_CustomSheetName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	w := NewExcel()
	require.NoError(t, w.SetSheetName("Export"))

	require.NoError(t, w.OpenWithFieldNames(path, []string{"Col1"}, Create))
	require.NoError(t, w.WriteRecord([]string{"value"}))
	require.NoError(t, w.Close())

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	val, err := f.GetCellValue("Export", "A2")
	require.NoError(t, err)
	assert.Equal(t, "value", val)
}

func TestExcelWriter_AppendNotSupported(t *testing.T) {
	w := NewExcel()

	err := w.OpenWithFieldNames(filepath.Join(t.TempDir(), "x.xlsx"), []string{"A"}, Append)
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
}

func TestExcelWriter_FieldNameValidation(t *testing.T) {
	dir := t.TempDir()
	w := NewExcel()

	var cfgErr *ConfigError
	require.ErrorAs(t, w.OpenWithFieldNames(filepath.Join(dir, "x.xlsx"), nil, Create), &cfgErr)
	require.ErrorAs(t, w.OpenWithFieldNames(filepath.Join(dir, "x.xlsx"), []string{"bad name"}, Create), &cfgErr)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestExcelWriter_SchemaEnforced(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	w := NewExcel()

	require.NoError(t, w.OpenWithFieldNames(path, []string{"A", "B"}, Create))

	err := w.WriteRecord([]string{"only"})
	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, 2, schemaErr.Expected)
	require.NoError(t, w.Close())
}

func TestExcelWriter_OperationsWithoutSession(t *testing.T) {
	w := NewExcel()

	assert.ErrorIs(t, w.WriteRecord([]string{"a"}), ErrNotOpen)
	assert.ErrorIs(t, w.Flush(), ErrNotOpen)
	assert.NoError(t, w.Close())
	assert.Nil(t, w.FieldNames())
	assert.Equal(t, 0, w.FieldCount())
}

func TestExcelWriter_FileMaterializedOnClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "late.xlsx")
	w := NewExcel()

	require.NoError(t, w.OpenWithFieldNames(path, []string{"A"}, Create))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "workbook must not exist before Close")

	require.NoError(t, w.Close())
	_, err = os.Stat(path)
	assert.NoError(t, err)
}
