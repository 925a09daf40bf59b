package ply

import (
	"bytes"
	"errors"
	"io"
	"reflect"
	"testing"
)

func TestNewReader(t *testing.T) {
	data := encodePLY(t, 3, xyzrgb, []Record{
		{1, 2, 3, 10, 20, 30},
		{4, 5, 6, 40, 50, 60},
		{7, 8, 9, 70, 80, 90},
	})
	r := newTestReader(t, data)
	if r.Len() != 3 {
		t.Errorf("Expected 3 records, got: %d", r.Len())
	}
	if r.Layout.Stride != 15 {
		t.Errorf("Expected stride: 15, got: %d", r.Layout.Stride)
	}
	if r.BodyOffset() != int64(len(data)-3*15) {
		t.Errorf("Expected body offset: %d, got: %d", len(data)-3*15, r.BodyOffset())
	}

	rec, err := r.RecordAt(1)
	if err != nil {
		t.Fatal(err)
	}
	if expected := (Record{4, 5, 6, 40, 50, 60}); !reflect.DeepEqual(expected, rec) {
		t.Errorf("Expected: %v, got: %v", expected, rec)
	}
	if _, err := r.RecordAt(3); !errors.Is(err, ErrTruncatedRecord) {
		t.Errorf("Expected ErrTruncatedRecord, got: %v", err)
	}
}

func TestNewReader_Errors(t *testing.T) {
	testCases := map[string]struct {
		data []byte
		err  error
	}{
		"NoTerminator": {
			data: []byte("ply\nformat binary_little_endian 1.0\nelement vertex 1\nproperty float x\n"),
			err:  ErrMalformedHeader,
		},
		"TwoFields": {
			data: []byte("ply\nformat binary_little_endian 1.0\nelement vertex 1\nproperty float x\nproperty float y\nend_header\n"),
			err:  ErrMalformedHeader,
		},
		"ASCII": {
			data: []byte("ply\nformat ascii 1.0\nelement vertex 1\nproperty float x\nproperty float y\nproperty float z\nend_header\n1 2 3\n"),
			err:  ErrUnsupportedFormat,
		},
		"Empty": {
			data: []byte{},
			err:  ErrMalformedHeader,
		},
	}
	for name, tt := range testCases {
		tt := tt
		t.Run(name, func(t *testing.T) {
			if _, err := NewReader(bytes.NewReader(tt.data)); !errors.Is(err, tt.err) {
				t.Errorf("Expected error: %v, got: %v", tt.err, err)
			}
		})
	}
}

func TestNewReader_NoVertex(t *testing.T) {
	testCases := map[string]string{
		"NoVertexElement":   "ply\nformat binary_little_endian 1.0\nend_header\n",
		"ZeroWithoutFields": "ply\nformat binary_little_endian 1.0\nelement vertex 0\nend_header\n",
	}
	for name, header := range testCases {
		header := header
		t.Run(name, func(t *testing.T) {
			r := newTestReader(t, []byte(header))
			if r.Len() != 0 {
				t.Errorf("Expected 0 records, got: %d", r.Len())
			}
			if _, err := EstimateBounds(r, 10); !errors.Is(err, ErrEmptyDataset) {
				t.Errorf("Expected ErrEmptyDataset, got: %v", err)
			}
		})
	}
}

func TestChunkReader(t *testing.T) {
	r := newTestReader(t, encodePLY(t, 7, xyz, lineRecords(7)))
	cr := r.Chunks(3)

	var sizes []int
	var all []Record
	for {
		recs, err := cr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		sizes = append(sizes, len(recs))
		all = append(all, recs...)
	}
	if expected := []int{3, 3, 1}; !reflect.DeepEqual(expected, sizes) {
		t.Errorf("Expected chunk sizes: %v, got: %v", expected, sizes)
	}
	if !reflect.DeepEqual(lineRecords(7), all) {
		t.Errorf("Expected records: %v, got: %v", lineRecords(7), all)
	}
}

func TestChunkReader_Truncated(t *testing.T) {
	data := encodePLY(t, 10, xyz, lineRecords(4))
	// Cut the last record in half.
	data = data[:len(data)-6]
	r := newTestReader(t, data)
	cr := r.Chunks(2)

	recs, err := cr.Next()
	if err != nil || len(recs) != 2 {
		t.Fatalf("Expected 2 records, got: %d, %v", len(recs), err)
	}
	recs, err = cr.Next()
	if !errors.Is(err, ErrTruncatedRecord) {
		t.Fatalf("Expected ErrTruncatedRecord, got: %v", err)
	}
	if len(recs) != 1 {
		t.Errorf("Expected 1 complete record, got: %d", len(recs))
	}
	if _, err := cr.Next(); err != io.EOF {
		t.Errorf("Expected io.EOF after truncation, got: %v", err)
	}
}
