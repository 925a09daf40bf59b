package ply

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/seqsense/plycrop/mat"
)

// SuggestMargin is the fraction of the extent trimmed from both ends of
// each axis by the suggested range policy.
const SuggestMargin = 0.1

var axisNames = [3]string{"X", "Y", "Z"}

// Interval is a closed range [Low, High].
type Interval struct {
	Low, High float64
}

func (i Interval) String() string {
	return fmt.Sprintf("[%.3f, %.3f]", i.Low, i.High)
}

// Box is the inclusion region of a crop, closed on both ends of each axis.
type Box struct {
	Min, Max mat.Vec3
}

func (b Box) Interval(axis int) Interval {
	return Interval{Low: b.Min[axis], High: b.Max[axis]}
}

func (b Box) IsInside(v mat.Vec3) bool {
	return !(v[0] < b.Min[0] ||
		v[1] < b.Min[1] ||
		v[2] < b.Min[2] ||
		b.Max[0] < v[0] ||
		b.Max[1] < v[1] ||
		b.Max[2] < v[2])
}

// Describe returns one "<axis> range: [lo, hi]" line per axis.
func (b Box) Describe() []string {
	out := make([]string, 3)
	for i, name := range axisNames {
		out[i] = fmt.Sprintf("%s range: %s", name, b.Interval(i))
	}
	return out
}

// Full returns the sampled bounds as a box.
func (b *Bounds) Full() Box {
	return Box{Min: b.Min, Max: b.Max}
}

// CenterRatio returns a box around the center scaled by ratio on every
// axis. Ratio 1 reproduces the sampled bounds.
func (b *Bounds) CenterRatio(ratio float64) (Box, error) {
	if !(ratio > 0 && ratio <= 1) {
		return Box{}, errors.Wrapf(ErrInvalidRatio, "%v", ratio)
	}
	if ratio == 1 {
		return b.Full(), nil
	}
	c := b.Center()
	half := b.Extent().Mul(ratio / 2)
	return Box{Min: c.Sub(half), Max: c.Add(half)}, nil
}

// Suggested returns the sampled bounds trimmed by SuggestMargin of the
// extent from both ends.
func (b *Bounds) Suggested() Box {
	m := b.Extent().Mul(SuggestMargin)
	return Box{Min: b.Min.Add(m), Max: b.Max.Sub(m)}
}

// Ranges holds explicit intervals per axis. A nil axis is not restricted
// beyond the sampled bounds.
type Ranges [3]*Interval

// Complete returns true if all axes are given.
func (r Ranges) Complete() bool {
	return r[0] != nil && r[1] != nil && r[2] != nil
}

// Validate checks that every given interval has Low <= High.
func (r Ranges) Validate() error {
	for i, in := range r {
		if in != nil && in.Low > in.High {
			return errors.Wrapf(ErrInvalidRange, "%s %s", axisNames[i], in)
		}
	}
	return nil
}

// Box resolves the ranges to a box, filling missing axes from b.
// b may be nil if the ranges are complete.
func (r Ranges) Box(b *Bounds) (Box, error) {
	if err := r.Validate(); err != nil {
		return Box{}, err
	}
	var box Box
	for i, in := range r {
		if in == nil {
			if b == nil {
				return Box{}, errors.Errorf("%s range is not given and bounds are unknown", axisNames[i])
			}
			box.Min[i], box.Max[i] = b.Min[i], b.Max[i]
			continue
		}
		box.Min[i], box.Max[i] = in.Low, in.High
	}
	return box, nil
}
