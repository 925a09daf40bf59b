package ply

import (
	"context"
	"io"

	"github.com/pkg/errors"
)

// DefaultChunkSize is the default number of records decoded per chunk.
const DefaultChunkSize = 50000

// ProgressFunc is called after each chunk.
type ProgressFunc func(processed, retained, total int)

// State is the state of a BoxFilter pass.
type State int

const (
	StateReady State = iota
	StateStreaming
	StateExhausted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateStreaming:
		return "streaming"
	case StateExhausted:
		return "exhausted"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

type Options struct {
	ChunkSize int
	Progress  ProgressFunc
}

// BoxFilter retains the records whose first three values lie in Box.
type BoxFilter struct {
	Options
	Box Box

	state State
	chunk int
}

// FilterResult is the outcome of a BoxFilter pass.
type FilterResult struct {
	Records   []Record
	Processed int
	Total     int
}

func NewBoxFilter(box Box, opts Options) *BoxFilter {
	return &BoxFilter{
		Options: opts,
		Box:     box,
	}
}

// State returns the state of the latest pass.
func (f *BoxFilter) State() State {
	return f.state
}

// Chunks returns the number of chunks processed by the latest pass.
func (f *BoxFilter) Chunks() int {
	return f.chunk
}

// Filter streams all records of r through the box.
// A body shorter than the declared count ends the pass normally.
// ctx is checked only between chunks. If no record is retained,
// ErrEmptyResult is returned along with the result.
func (f *BoxFilter) Filter(ctx context.Context, r *Reader) (*FilterResult, error) {
	chunkSize := f.ChunkSize
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	res := &FilterResult{Total: r.Len()}
	f.state, f.chunk = StateStreaming, 0

	cr := r.Chunks(chunkSize)
	for {
		if err := ctx.Err(); err != nil {
			f.state = StateFailed
			return nil, err
		}
		recs, err := cr.Next()
		if err == io.EOF {
			break
		}
		truncated := errors.Is(err, ErrTruncatedRecord)
		if err != nil && !truncated {
			f.state = StateFailed
			return nil, err
		}
		if len(recs) == 0 {
			break
		}
		for _, rec := range recs {
			if f.Box.IsInside(rec.Vec3()) {
				res.Records = append(res.Records, rec)
			}
		}
		res.Processed += len(recs)
		f.chunk++
		if f.Progress != nil {
			f.Progress(res.Processed, len(res.Records), res.Total)
		}
		if truncated {
			break
		}
	}
	f.state = StateExhausted

	if len(res.Records) == 0 {
		return res, ErrEmptyResult
	}
	return res, nil
}
