package pointexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/royalcat/hexcities/geomodel"
)

var Header = []string{"point", "coordinates"}

// Writer writes point records as CSV rows. The header is written before the
// first row. Rows are buffered and reach the underlying writer on Flush, so a
// failing run may leave already flushed rows behind.
type Writer struct {
	csv           *csv.Writer
	headerWritten bool
	rows          int
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

func (w *Writer) Write(rec geomodel.PointRecord) error {
	if !w.headerWritten {
		if err := w.csv.Write(Header); err != nil {
			return fmt.Errorf("error writing header: %w", err)
		}
		w.headerWritten = true
	}
	if err := w.csv.Write([]string{rec.Label(), rec.Coordinates()}); err != nil {
		return fmt.Errorf("error writing row %d: %w", w.rows+1, err)
	}
	w.rows++
	return nil
}

// WriteAll writes the records and flushes. An empty input still produces the header.
func (w *Writer) WriteAll(records []geomodel.PointRecord) error {
	if !w.headerWritten {
		if err := w.csv.Write(Header); err != nil {
			return fmt.Errorf("error writing header: %w", err)
		}
		w.headerWritten = true
	}
	for _, rec := range records {
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return w.Flush()
}

func (w *Writer) Flush() error {
	w.csv.Flush()
	return w.csv.Error()
}

// Rows returns the number of data rows written so far.
func (w *Writer) Rows() int {
	return w.rows
}

// WriteFile exports the records to name, see Create for compression, and
// returns the number of data rows written. The file is closed on every path.
func WriteFile(name string, records []geomodel.PointRecord) (rows int, err error) {
	f, err := Create(name)
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("error closing %s: %w", name, cerr)
		}
	}()

	w := NewWriter(f)
	err = w.WriteAll(records)
	return w.Rows(), err
}

// Create opens name for writing, compressing with zstd when it ends with ".zst".
func Create(name string) (io.WriteCloser, error) {
	file, err := os.Create(name)
	if err != nil {
		return nil, fmt.Errorf("can`t create file: %w", err)
	}

	if strings.HasSuffix(name, ".zst") {
		enc, err := zstd.NewWriter(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("can`t create zstd writer: %w", err)
		}
		return &zstdFile{Encoder: enc, file: file}, nil
	}

	return file, nil
}

// Open opens an export written by Create.
func Open(name string) (io.ReadCloser, error) {
	file, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("can`t open file: %w", err)
	}

	if strings.HasSuffix(name, ".zst") {
		dec, err := zstd.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("can`t create zstd reader: %w", err)
		}
		return &zstdReadFile{dec: dec, file: file}, nil
	}

	return file, nil
}

type zstdFile struct {
	*zstd.Encoder
	file *os.File
}

func (z *zstdFile) Close() error {
	err := z.Encoder.Close()
	if cerr := z.file.Close(); err == nil {
		err = cerr
	}
	return err
}

type zstdReadFile struct {
	dec  *zstd.Decoder
	file *os.File
}

func (z *zstdReadFile) Read(p []byte) (int, error) {
	return z.dec.Read(p)
}

func (z *zstdReadFile) Close() error {
	z.dec.Close()
	return z.file.Close()
}
