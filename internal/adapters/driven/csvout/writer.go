// Package csvout writes domain tables as CSV files byte-compatible with
// Python's csv.DictWriter defaults: comma separated, CRLF terminated,
// minimal quoting with doubled quotes.
package csvout

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/bmeconv/internal/core/domain"
	"github.com/custodia-labs/bmeconv/internal/core/ports/driven"
)

// Ensure Writer implements the interface.
var _ driven.TableWriter = (*Writer)(nil)

const lineTerminator = "\r\n"

// Writer writes tables to files.
type Writer struct{}

// New creates a new CSV writer.
func New() *Writer {
	return &Writer{}
}

// Write renders the table to a temporary file next to path and renames it
// into place, so readers never see a partial file.
func (w *Writer) Write(path string, table domain.Table) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrIO, err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = Encode(tmp, table); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrIO, err)
	}
	if err = tmp.Chmod(0644); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrIO, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrIO, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrIO, err)
	}
	return nil
}

// Encode writes the header and every row. Fields missing from a row are
// written empty.
func Encode(w io.Writer, table domain.Table) error {
	bw := bufio.NewWriter(w)
	if err := writeRecord(bw, table.Header); err != nil {
		return err
	}
	for i := range table.Rows {
		if err := writeRecord(bw, table.Record(i)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func writeRecord(w *bufio.Writer, fields []string) error {
	// A lone empty field is quoted so the record is not a blank line.
	if len(fields) == 1 && fields[0] == "" {
		_, err := w.WriteString(`""` + lineTerminator)
		return err
	}

	for i, field := range fields {
		if i > 0 {
			if err := w.WriteByte(','); err != nil {
				return err
			}
		}
		if err := writeField(w, field); err != nil {
			return err
		}
	}
	_, err := w.WriteString(lineTerminator)
	return err
}

func writeField(w *bufio.Writer, field string) error {
	if !strings.ContainsAny(field, ",\"\r\n") {
		_, err := w.WriteString(field)
		return err
	}
	_, err := w.WriteString(`"` + strings.ReplaceAll(field, `"`, `""`) + `"`)
	return err
}
