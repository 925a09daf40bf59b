// Package ply reads, spatially filters and writes binary little endian PLY
// point clouds without loading the source body into memory at once.
package ply

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Analysis is the result of Analyze.
type Analysis struct {
	Path     string
	Format   string
	Version  string
	Comments []string
	Count    int
	Fields   []FieldSpec
	Bounds   *Bounds
}

// Analyze estimates the spatial bounds of a PLY file from an evenly spaced
// sample of at most sampleSize records.
func Analyze(path string, sampleSize int) (*Analysis, error) {
	f, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	b, err := EstimateBounds(f.Reader, sampleSize)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return &Analysis{
		Path:     path,
		Format:   f.Header.Format,
		Version:  f.Header.Version,
		Comments: f.Header.Comments,
		Count:    f.Len(),
		Fields:   f.Header.Fields,
		Bounds:   b,
	}, nil
}

// CropOptions selects the crop box and tunes the passes.
//
// The box is chosen by the first applicable policy: CenterRatio if it is
// non-zero, the suggested box if Suggest is set, otherwise Ranges with
// missing axes taken from the sampled bounds.
type CropOptions struct {
	Options
	SampleSize  int
	Ranges      Ranges
	CenterRatio float64
	Suggest     bool
}

// CropStats summarizes a crop.
type CropStats struct {
	Original  int
	Retained  int
	Processed int
	Box       Box
	// Bounds is nil if the box did not need them.
	Bounds *Bounds
}

// Crop writes the records of input lying inside the selected box to output.
// Nothing is written if the header is invalid or no record is retained;
// in the latter case ErrEmptyResult is returned along with the stats.
func Crop(ctx context.Context, input, output string, opts CropOptions) (*CropStats, error) {
	if samePath(input, output) {
		return nil, errors.Wrapf(ErrSamePath, "%s", output)
	}
	f, err := Open(input)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	box, bounds, err := resolveBox(f.Reader, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", input)
	}
	stats := &CropStats{
		Original: f.Len(),
		Box:      box,
		Bounds:   bounds,
	}

	res, err := NewBoxFilter(box, opts.Options).Filter(ctx, f.Reader)
	if res != nil {
		stats.Retained = len(res.Records)
		stats.Processed = res.Processed
	}
	if err != nil {
		return stats, errors.Wrapf(err, "%s", input)
	}

	if err := WriteFile(output, f.Header.Fields, res.Records, Provenance(input, box, stats)); err != nil {
		return stats, err
	}
	return stats, nil
}

// Provenance returns the header comments recorded in a cropped file.
func Provenance(input string, box Box, stats *CropStats) []string {
	comments := []string{"Spatially cropped from " + asciiOnly(input)}
	comments = append(comments, box.Describe()...)
	return append(comments, fmt.Sprintf("Original: %d, Cropped: %d", stats.Original, stats.Retained))
}

func resolveBox(r *Reader, opts CropOptions) (Box, *Bounds, error) {
	if opts.CenterRatio != 0 && !(opts.CenterRatio > 0 && opts.CenterRatio <= 1) {
		return Box{}, nil, errors.Wrapf(ErrInvalidRatio, "%v", opts.CenterRatio)
	}
	if err := opts.Ranges.Validate(); err != nil {
		return Box{}, nil, err
	}
	if opts.CenterRatio == 0 && !opts.Suggest && opts.Ranges.Complete() {
		box, err := opts.Ranges.Box(nil)
		return box, nil, err
	}

	b, err := EstimateBounds(r, opts.SampleSize)
	if err != nil {
		return Box{}, nil, err
	}
	switch {
	case opts.CenterRatio != 0:
		box, err := b.CenterRatio(opts.CenterRatio)
		return box, b, err
	case opts.Suggest:
		return b.Suggested(), b, nil
	default:
		box, err := opts.Ranges.Box(b)
		return box, b, err
	}
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

func asciiOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r > 0x7e {
			return '?'
		}
		return r
	}, s)
}
