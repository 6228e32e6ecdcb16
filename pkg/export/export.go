// Package export drives batch file generation: it names an output file under
// a managed temp directory, streams rows through a record writer in the
// requested format, and reports metadata about the produced file.
package export

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/idct-tech/go-csv-writer/pkg/config"
	"github.com/idct-tech/go-csv-writer/pkg/writer"
)

// Format selects the output file format.
type Format string

const (
	FormatCSV   Format = "csv"
	FormatExcel Format = "xlsx"
)

// Request describes one export: the target filename, the header schema, and
// the rows to write.
type Request struct {
	Format     Format
	Filename   string
	FieldNames []string
	Rows       [][]string
}

// FileMetadata describes a produced file.
type FileMetadata struct {
	Path     string
	Size     int64
	Checksum string
	RowCount int64
}

// Exporter generates delimited or spreadsheet files under a temp directory,
// applying the configured writer defaults to every file it produces.
type Exporter struct {
	cfg *config.Config
	log *zap.Logger
}

// New creates an Exporter and ensures the temp directory exists. A nil
// logger disables logging.
func New(cfg *config.Config, log *zap.Logger) (*Exporter, error) {
	if err := os.MkdirAll(cfg.Export.TempDirectory, 0o755); err != nil {
		return nil, fmt.Errorf("create temp directory: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Exporter{cfg: cfg, log: log}, nil
}

// Export writes req's rows, header first, into a freshly named file and
// returns its metadata. The context is checked between rows; cancellation
// aborts the export and removes the partial file.
func (e *Exporter) Export(ctx context.Context, req Request) (*FileMetadata, error) {
	start := time.Now()
	path := e.tempPath(req.Filename)

	w, err := e.newRecordWriter(req.Format)
	if err != nil {
		return nil, err
	}

	log := e.log.With(
		zap.String("path", path),
		zap.String("format", string(req.Format)),
	)
	log.Info("export started", zap.Int("rows", len(req.Rows)))

	md, err := e.run(ctx, w, path, req)
	if err != nil {
		w.Close()
		os.Remove(path)
		log.Error("export failed", zap.Error(err))
		return nil, err
	}

	log.Info("export completed",
		zap.Int64("size", md.Size),
		zap.Int64("row_count", md.RowCount),
		zap.Duration("elapsed", time.Since(start)),
	)
	return md, nil
}

func (e *Exporter) run(ctx context.Context, w writer.RecordWriter, path string, req Request) (*FileMetadata, error) {
	if err := w.OpenWithFieldNames(path, req.FieldNames, writer.Create); err != nil {
		return nil, err
	}

	rows := int64(1) // header
	for _, row := range req.Rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := w.WriteRecord(row); err != nil {
			return nil, err
		}
		rows++
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	sum, err := checksum(path)
	if err != nil {
		return nil, err
	}
	return &FileMetadata{
		Path:     path,
		Size:     info.Size(),
		Checksum: sum,
		RowCount: rows,
	}, nil
}

// Remove deletes a produced file. A file already gone is not an error.
func (e *Exporter) Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}

// newRecordWriter builds a writer for format with the configured defaults.
func (e *Exporter) newRecordWriter(format Format) (writer.RecordWriter, error) {
	switch format {
	case FormatCSV:
		w := writer.NewCSV()
		if err := w.SetBufferSize(e.cfg.Writer.BufferSize); err != nil {
			return nil, err
		}
		if e.cfg.Writer.EOL != "" {
			eol, err := writer.ParseEOL(e.cfg.Writer.EOL)
			if err != nil {
				return nil, err
			}
			if err := w.SetEOL(eol); err != nil {
				return nil, err
			}
		}
		if err := w.SetDelimiter(e.cfg.Writer.Delimiter); err != nil {
			return nil, err
		}
		if err := w.SetEnclosure(e.cfg.Writer.Enclosure); err != nil {
			return nil, err
		}
		if e.cfg.Writer.Encoding != "" {
			if err := w.SetEncoding(e.cfg.Writer.Encoding); err != nil {
				return nil, err
			}
		}
		return w, nil
	case FormatExcel:
		w := writer.NewExcel()
		if err := w.SetSheetName(e.cfg.Export.ExcelSheet); err != nil {
			return nil, err
		}
		return w, nil
	default:
		return nil, fmt.Errorf("unsupported export format: %q", format)
	}
}

// tempPath derives a collision-free path for filename under the temp
// directory.
func (e *Exporter) tempPath(filename string) string {
	filename = filepath.Base(filename)
	timestamp := time.Now().Format("20060102-150405")
	name := fmt.Sprintf("%s_%s_%s", uuid.New().String(), timestamp, filename)
	return filepath.Join(e.cfg.Export.TempDirectory, name)
}

func checksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
