package ply

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"github.com/seqsense/plycrop/mat"
)

// DefaultSampleSize is the default ceiling of the bounds sample.
const DefaultSampleSize = 10000

// Bounds is the spatial extent of a record sample.
type Bounds struct {
	Min, Max mat.Vec3
	// Samples is the number of records the bounds were computed from.
	Samples int
}

func (b *Bounds) Center() mat.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

func (b *Bounds) Extent() mat.Vec3 {
	return b.Max.Sub(b.Min)
}

// EstimateBounds computes the bounds of an evenly spaced sample of at most
// sampleSize records. Extreme points outside of the sample are not
// reflected, so the result is an estimate of the true extent.
func EstimateBounds(r *Reader, sampleSize int) (*Bounds, error) {
	total := r.Len()
	if total <= 0 {
		return nil, ErrEmptyDataset
	}
	if sampleSize <= 0 {
		sampleSize = DefaultSampleSize
	}
	n := sampleSize
	if total < n {
		n = total
	}
	step := total / n
	if step < 1 {
		step = 1
	}

	var axes [3][]float64
	for i := range axes {
		axes[i] = make([]float64, 0, n)
	}
	for i := 0; i < total && len(axes[0]) < n; i += step {
		rec, err := r.RecordAt(i)
		if errors.Is(err, ErrTruncatedRecord) {
			break
		}
		if err != nil {
			return nil, err
		}
		for a := range axes {
			axes[a] = append(axes[a], rec[a])
		}
	}
	if len(axes[0]) == 0 {
		return nil, ErrEmptyDataset
	}

	b := &Bounds{Samples: len(axes[0])}
	for a := range axes {
		b.Min[a] = floats.Min(axes[a])
		b.Max[a] = floats.Max(axes[a])
	}
	return b, nil
}
