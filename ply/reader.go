package ply

import (
	"io"
	"math"
	"os"

	"github.com/pkg/errors"
)

// Reader gives access to the vertex records of a binary PLY body.
type Reader struct {
	Header *Header
	Layout *Layout

	ra     io.ReaderAt
	offset int64
}

// NewReader parses the header of ra and derives the record layout.
// Header, format and field type errors are all reported here, before any
// body access. X, Y and Z properties are required only if the header
// declares any vertex.
func NewReader(ra io.ReaderAt) (*Reader, error) {
	h, offset, err := ReadHeader(io.NewSectionReader(ra, 0, math.MaxInt64))
	if err != nil {
		return nil, err
	}
	if h.Count > 0 && len(h.Fields) < 3 {
		return nil, errors.Wrapf(ErrMalformedHeader, "vertex has %d properties, x y z required", len(h.Fields))
	}
	l, err := NewLayout(h.Fields)
	if err != nil {
		return nil, err
	}
	return &Reader{
		Header: h,
		Layout: l,
		ra:     ra,
		offset: offset,
	}, nil
}

// Len returns the declared number of records.
func (r *Reader) Len() int {
	return r.Header.Count
}

// BodyOffset returns the byte offset of the first record.
func (r *Reader) BodyOffset() int64 {
	return r.offset
}

// RecordAt decodes the i-th record.
func (r *Reader) RecordAt(i int) (Record, error) {
	stride := r.Layout.Stride
	buf := make([]byte, stride)
	n, err := r.ra.ReadAt(buf, r.offset+int64(i)*int64(stride))
	if n < stride {
		if err == nil || err == io.EOF {
			return nil, errors.Wrapf(ErrTruncatedRecord, "record %d", i)
		}
		return nil, err
	}
	return r.Layout.Decode(buf)
}

// Chunks returns a sequential reader yielding up to chunkSize records per
// call of Next.
func (r *Reader) Chunks(chunkSize int) *ChunkReader {
	if chunkSize < 1 {
		chunkSize = 1
	}
	bufLen := chunkSize
	if r.Header.Count < bufLen {
		bufLen = r.Header.Count
	}
	return &ChunkReader{
		layout:    r.Layout,
		r:         io.NewSectionReader(r.ra, r.offset, math.MaxInt64-r.offset),
		buf:       make([]byte, bufLen*r.Layout.Stride),
		chunkSize: chunkSize,
		remaining: r.Header.Count,
	}
}

// ChunkReader reads the body front to back in fixed size chunks.
type ChunkReader struct {
	layout    *Layout
	r         io.Reader
	buf       []byte
	chunkSize int
	remaining int
	done      bool
}

// Next decodes the next chunk. It returns io.EOF once the declared count has
// been read, and ErrTruncatedRecord along with the complete records of the
// chunk if the body ends early. A record is either fully decoded or not
// consumed.
func (c *ChunkReader) Next() ([]Record, error) {
	if c.done || c.remaining <= 0 {
		return nil, io.EOF
	}
	n := c.chunkSize
	if n > c.remaining {
		n = c.remaining
	}
	stride := c.layout.Stride
	read, err := io.ReadFull(c.r, c.buf[:n*stride])
	switch err {
	case nil:
	case io.EOF, io.ErrUnexpectedEOF:
		c.done = true
	default:
		return nil, err
	}

	recs := make([]Record, 0, read/stride)
	for i := 0; i+stride <= read; i += stride {
		rec, err := c.layout.Decode(c.buf[i : i+stride])
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	c.remaining -= len(recs)
	if c.done {
		return recs, errors.Wrapf(ErrTruncatedRecord, "%d records missing", c.remaining)
	}
	return recs, nil
}

// File is a Reader backed by an opened file.
type File struct {
	*Reader
	Path string
	f    *os.File
}

// Open opens a PLY file and parses its header.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	r, err := NewReader(f)
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "%s", path)
	}
	return &File{Reader: r, Path: path, f: f}, nil
}

func (f *File) Close() error {
	return f.f.Close()
}
