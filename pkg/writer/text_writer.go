package writer

import (
	"os"

	"golang.org/x/text/encoding"

	"github.com/idct-tech/go-csv-writer/pkg/charset"
	"github.com/idct-tech/go-csv-writer/pkg/fs"
)

// TextWriter writes sequential text to one file at a time. Writes either
// pass straight through to the handle or accumulate up to a configured number
// of bytes before being flushed. An exclusive advisory lock is held from Open
// until Close, guarding against other processes writing the same path.
//
// A TextWriter is not safe for concurrent use. Callers own the session
// lifecycle and should defer Close after a successful Open; Close is
// idempotent and releases the lock and handle on every path.
type TextWriter struct {
	fsys fs.FS
	file fs.File

	buf     []byte
	bufSize int
	eol     EOL

	encName string
	enc     *encoding.Encoder
}

// New returns a TextWriter on the real filesystem, unbuffered, with the
// platform line ending and no output transcoding.
func New() *TextWriter {
	return NewFS(fs.NewReal())
}

// NewFS returns a TextWriter writing through fsys.
func NewFS(fsys fs.FS) *TextWriter {
	return &TextWriter{fsys: fsys, eol: DefaultEOL()}
}

// SetBufferSize configures how many bytes may accumulate before an automatic
// flush; 0 disables buffering entirely. When a file is open, content
// accumulated under the old policy is flushed before the new one takes
// effect, so no data is lost by reconfiguring mid-session.
func (w *TextWriter) SetBufferSize(n int) error {
	if n < 0 {
		return &ConfigError{Option: "buffer size", Reason: "must not be negative"}
	}
	if w.file != nil && len(w.buf) > 0 {
		if err := w.Flush(); err != nil {
			return err
		}
	}
	w.bufSize = n
	return nil
}

// BufferSize returns the configured buffer size.
func (w *TextWriter) BufferSize() int {
	return w.bufSize
}

// SetEOL configures the line terminator. It affects only lines written after
// the call; buffered or flushed content is untouched.
func (w *TextWriter) SetEOL(eol EOL) error {
	if !eol.valid() {
		return &ConfigError{Option: "eol symbol", Reason: `must be one of "\r\n", "\n", "\r"`}
	}
	w.eol = eol
	return nil
}

// EOL returns the configured line terminator.
func (w *TextWriter) EOL() EOL {
	return w.eol
}

// SetEncoding installs an optional output transcoding by charset name,
// applied to text written after the call. The empty name (the default) and
// "utf-8" write input bytes unchanged. Runes the target page cannot
// represent are substituted rather than failing the write.
func (w *TextWriter) SetEncoding(name string) error {
	enc, err := charset.NewEncoder(name)
	if err != nil {
		return &ConfigError{Option: "encoding", Reason: err.Error()}
	}
	w.encName = name
	w.enc = enc
	return nil
}

// Encoding returns the configured output charset name; empty means output
// bytes are the input bytes.
func (w *TextWriter) Encoding() string {
	return w.encName
}

// Open starts a session on path. Any prior session is closed first, so a
// writer never holds two handles. The file is created when missing; Create
// truncates existing contents while Append preserves them.
func (w *TextWriter) Open(path string, mode Mode) error {
	var flag int
	switch mode {
	case Create:
		flag = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	case Append:
		flag = os.O_WRONLY | os.O_CREATE | os.O_APPEND
	default:
		return &ConfigError{Option: "mode", Reason: "must be Create or Append"}
	}
	if err := w.Close(); err != nil {
		return err
	}
	f, err := w.fsys.OpenFile(path, flag, 0o644)
	if err != nil {
		return &IOError{Op: "open", Path: path, Err: err}
	}
	if err := f.Lock(); err != nil {
		f.Close()
		return &IOError{Op: "lock", Path: path, Err: err}
	}
	w.file = f
	w.buf = w.buf[:0]
	return nil
}

func (w *TextWriter) isOpen() bool {
	return w.file != nil
}

// WriteString appends s to the open file under the buffering policy. Bytes
// reach the file in exactly the submitted order and there is no limit on the
// length of a single call: text larger than the remaining buffer space fills
// the buffer to capacity, flushes, and continues with the remainder.
func (w *TextWriter) WriteString(s string) error {
	if w.file == nil {
		return ErrNotOpen
	}
	if s == "" {
		return nil
	}
	b := []byte(s)
	if w.enc != nil {
		eb, err := w.enc.Bytes(b)
		if err != nil {
			return &IOError{Op: "encode", Path: w.file.Name(), Err: err}
		}
		b = eb
	}
	if w.bufSize == 0 {
		return w.writeOut(b)
	}
	for len(b) > 0 {
		free := w.bufSize - len(w.buf)
		if len(b) < free {
			w.buf = append(w.buf, b...)
			return nil
		}
		w.buf = append(w.buf, b[:free]...)
		b = b[free:]
		if err := w.Flush(); err != nil {
			return err
		}
	}
	return nil
}

// WriteLine writes s followed by one configured line terminator. The empty
// string yields a line holding the terminator alone.
func (w *TextWriter) WriteLine(s string) error {
	return w.WriteString(s + string(w.eol))
}

// Flush forces accumulated content to the handle and the handle's contents
// to stable storage. The accumulator is reset only when everything succeeds.
func (w *TextWriter) Flush() error {
	if w.file == nil {
		return ErrNotOpen
	}
	if len(w.buf) > 0 {
		if err := w.writeOut(w.buf); err != nil {
			return err
		}
		w.buf = w.buf[:0]
	}
	if err := w.file.Sync(); err != nil {
		return &IOError{Op: "sync", Path: w.file.Name(), Err: err}
	}
	return nil
}

func (w *TextWriter) writeOut(b []byte) error {
	if _, err := w.file.Write(b); err != nil {
		return &IOError{Op: "write", Path: w.file.Name(), Err: err}
	}
	return nil
}

// Close flushes remaining content, releases the advisory lock and the
// handle, and clears the session. Without an open session it is a no-op, so
// calling it repeatedly is safe. The lock and handle are released even when
// the final flush fails; that failure is still reported.
func (w *TextWriter) Close() error {
	if w.file == nil {
		return nil
	}
	path := w.file.Name()
	flushErr := w.Flush()
	_ = w.file.Unlock()
	closeErr := w.file.Close()
	w.file = nil
	w.buf = w.buf[:0]
	if flushErr != nil {
		return flushErr
	}
	if closeErr != nil {
		return &IOError{Op: "close", Path: path, Err: closeErr}
	}
	return nil
}
