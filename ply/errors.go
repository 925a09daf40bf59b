package ply

import (
	"github.com/pkg/errors"
)

var (
	// ErrMalformedHeader is returned when the header is structurally invalid.
	ErrMalformedHeader = errors.New("malformed header")
	// ErrUnsupportedFormat is returned when the header declares a body
	// encoding other than binary_little_endian.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrUnsupportedFieldType is returned for a property type outside
	// float, uchar, int and double.
	ErrUnsupportedFieldType = errors.New("unsupported field type")
	// ErrTruncatedRecord signals a body shorter than one record stride.
	// It ends a streaming pass and is never returned from Analyze or Crop.
	ErrTruncatedRecord = errors.New("truncated record")
	// ErrEmptyDataset is returned when no record could be sampled.
	ErrEmptyDataset = errors.New("empty dataset")
	// ErrEmptyResult is returned when a crop retained no record.
	ErrEmptyResult = errors.New("no points remain after cropping")

	ErrInvalidRatio = errors.New("center crop ratio must be in (0, 1]")
	ErrInvalidRange = errors.New("range low must not exceed high")
	ErrSamePath     = errors.New("output path must differ from input path")
)
