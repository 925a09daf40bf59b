package ply

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const (
	magic          = "ply"
	formatBinaryLE = "binary_little_endian"
	formatVersion  = "1.0"
	endHeader      = "end_header"
	elementVertex  = "vertex"
)

// Header is the structural description of a PLY file.
type Header struct {
	Format   string
	Version  string
	Comments []string
	Count    int
	Fields   []FieldSpec
}

// ReadHeaderLines reads lines up to and including end_header and returns
// them with the byte offset of the body.
func ReadHeaderLines(r io.Reader) ([]string, int64, error) {
	rb := bufio.NewReader(r)
	var lines []string
	var offset int64
	for {
		b, err := rb.ReadBytes('\n')
		offset += int64(len(b))
		if len(b) > 0 {
			for _, c := range b {
				if c > 0x7f {
					return nil, 0, errors.Wrapf(ErrMalformedHeader, "line %d is not ASCII", len(lines)+1)
				}
			}
			line := strings.TrimSpace(string(b))
			lines = append(lines, line)
			if line == endHeader {
				return lines, offset, nil
			}
		}
		if err == io.EOF {
			return nil, 0, errors.Wrapf(ErrMalformedHeader, "%s not found", endHeader)
		}
		if err != nil {
			return nil, 0, err
		}
	}
}

// ParseHeader extracts the vertex count and the vertex properties from
// header lines. Properties of other elements are skipped.
func ParseHeader(lines []string) (*Header, error) {
	h := &Header{}
	var seenElement, seenVertex, inVertex bool

L_HEADER:
	for i, line := range lines {
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}
		malformed := func(format string, a ...interface{}) error {
			return errors.Wrapf(ErrMalformedHeader, "line %d %q: %s", i+1, line, fmt.Sprintf(format, a...))
		}
		switch args[0] {
		case "format":
			if len(args) < 2 {
				return nil, malformed("format must have value")
			}
			if args[1] != formatBinaryLE {
				return nil, errors.Wrapf(ErrUnsupportedFormat, "line %d: %s", i+1, args[1])
			}
			h.Format = args[1]
			if len(args) > 2 {
				h.Version = args[2]
			}
		case "comment":
			h.Comments = append(h.Comments, strings.TrimSpace(strings.TrimPrefix(line, "comment")))
		case "element":
			if len(args) != 3 {
				return nil, malformed("element must have name and count")
			}
			n, err := strconv.Atoi(args[2])
			if err != nil || n < 0 {
				return nil, malformed("count must be a non-negative integer")
			}
			seenElement = true
			if args[1] != elementVertex {
				// An empty element has no body bytes and does not shift
				// the vertex records.
				if !seenVertex && n > 0 {
					return nil, errors.Wrapf(ErrUnsupportedFormat, "line %d: element %s precedes vertex", i+1, args[1])
				}
				inVertex = false
				continue
			}
			if seenVertex {
				return nil, malformed("duplicated vertex element")
			}
			seenVertex, inVertex = true, true
			h.Count = n
		case "property":
			if !seenElement {
				return nil, malformed("property before element vertex")
			}
			if !inVertex {
				continue
			}
			if len(args) > 1 && args[1] == "list" {
				return nil, errors.Wrapf(ErrUnsupportedFieldType, "line %d: list property", i+1)
			}
			if len(args) != 3 {
				return nil, malformed("property must have type and name")
			}
			t, err := ParseFieldType(args[1])
			if err != nil {
				return nil, errors.Wrapf(err, "line %d", i+1)
			}
			h.Fields = append(h.Fields, FieldSpec{Type: t, Name: args[2]})
		case endHeader:
			break L_HEADER
		}
	}
	return h, nil
}

// ReadHeader reads and parses the header at the head of r.
func ReadHeader(r io.Reader) (*Header, int64, error) {
	lines, offset, err := ReadHeaderLines(r)
	if err != nil {
		return nil, 0, err
	}
	h, err := ParseHeader(lines)
	if err != nil {
		return nil, 0, err
	}
	return h, offset, nil
}

// WriteHeader writes a binary_little_endian header declaring count
// vertices with the given fields.
func WriteHeader(w io.Writer, count int, fields []FieldSpec, comments []string) error {
	var sb strings.Builder
	sb.WriteString(magic + "\n")
	sb.WriteString("format " + formatBinaryLE + " " + formatVersion + "\n")
	for _, c := range comments {
		if strings.ContainsAny(c, "\r\n") {
			return errors.Wrapf(ErrMalformedHeader, "comment %q has a line break", c)
		}
		for i := 0; i < len(c); i++ {
			if c[i] > 0x7f {
				return errors.Wrapf(ErrMalformedHeader, "comment %q is not ASCII", c)
			}
		}
		sb.WriteString("comment " + c + "\n")
	}
	fmt.Fprintf(&sb, "element %s %d\n", elementVertex, count)
	for _, f := range fields {
		if f.Type.Size() == 0 {
			return errors.Wrapf(ErrUnsupportedFieldType, "property %q", f.Name)
		}
		fmt.Fprintf(&sb, "property %s %s\n", f.Type, f.Name)
	}
	sb.WriteString(endHeader + "\n")
	_, err := io.WriteString(w, sb.String())
	return err
}
