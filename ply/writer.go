package ply

import (
	"bufio"
	"io"
	"os"

	"github.com/pkg/errors"
)

// Write writes a complete PLY file holding records.
func Write(w io.Writer, fields []FieldSpec, records []Record, comments []string) error {
	l, err := NewLayout(fields)
	if err != nil {
		return err
	}
	wb := bufio.NewWriter(w)
	if err := WriteHeader(wb, len(records), fields, comments); err != nil {
		return err
	}
	buf := make([]byte, 0, l.Stride)
	for i, rec := range records {
		buf, err = l.Encode(buf[:0], rec)
		if err != nil {
			return errors.Wrapf(err, "record %d", i)
		}
		if _, err := wb.Write(buf); err != nil {
			return err
		}
	}
	return wb.Flush()
}

// WriteFile writes a PLY file to path, replacing any existing content.
// On failure the file content is undefined.
func WriteFile(path string, fields []FieldSpec, records []Record, comments []string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, fields, records, comments); err != nil {
		f.Close()
		return errors.Wrapf(err, "%s", path)
	}
	return f.Close()
}
