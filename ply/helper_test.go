package ply

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

var xyz = []FieldSpec{{Float, "x"}, {Float, "y"}, {Float, "z"}}

// encodePLY encodes records under a header declaring count records, which
// may differ from len(records).
func encodePLY(t *testing.T, count int, fields []FieldSpec, records []Record) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := WriteHeader(&buf, count, fields, nil); err != nil {
		t.Fatal(err)
	}
	l, err := NewLayout(fields)
	if err != nil {
		t.Fatal(err)
	}
	var b []byte
	for _, r := range records {
		if b, err = l.Encode(b, r); err != nil {
			t.Fatal(err)
		}
	}
	buf.Write(b)
	return buf.Bytes()
}

func writeTestFile(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.ply")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newTestReader(t *testing.T, data []byte) *Reader {
	t.Helper()
	r, err := NewReader(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	return r
}

// lineRecords returns n records with x = i, y = -i, z = 2i.
func lineRecords(n int) []Record {
	recs := make([]Record, n)
	for i := range recs {
		recs[i] = Record{float64(i), float64(-i), float64(2 * i)}
	}
	return recs
}

// gridRecords returns n^3 records on an integer grid centered at the origin.
func gridRecords(n int) []Record {
	var recs []Record
	h := float64(n-1) / 2
	for x := 0; x < n; x++ {
		for y := 0; y < n; y++ {
			for z := 0; z < n; z++ {
				recs = append(recs, Record{float64(x) - h, float64(y) - h, float64(z) - h})
			}
		}
	}
	return recs
}
