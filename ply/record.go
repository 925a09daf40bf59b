package ply

import (
	"github.com/pkg/errors"

	"github.com/seqsense/plycrop/mat"
)

// Record is one decoded vertex, values in field order.
type Record []float64

// Vec3 returns the first three values, which are treated as X, Y and Z
// regardless of the property names.
func (r Record) Vec3() mat.Vec3 {
	return mat.Vec3{r[0], r[1], r[2]}
}

// Decode decodes one record from the head of b.
func (l *Layout) Decode(b []byte) (Record, error) {
	if len(b) < l.Stride {
		return nil, errors.Wrapf(ErrTruncatedRecord, "%d of %d bytes", len(b), l.Stride)
	}
	r := make(Record, len(l.dec))
	for i, dec := range l.dec {
		r[i] = dec(b[l.Offsets[i]:])
	}
	return r, nil
}

// Encode appends the encoded record to dst.
func (l *Layout) Encode(dst []byte, r Record) ([]byte, error) {
	if len(r) != len(l.enc) {
		return dst, errors.Errorf("record has %d values, layout has %d fields", len(r), len(l.enc))
	}
	n := len(dst)
	if cap(dst)-n < l.Stride {
		dst = append(dst, make([]byte, l.Stride)...)
	} else {
		dst = dst[:n+l.Stride]
	}
	for i, enc := range l.enc {
		enc(dst[n+l.Offsets[i]:], r[i])
	}
	return dst, nil
}
