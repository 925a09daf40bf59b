package ply

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"
)

// FieldType is a property type tag.
type FieldType int

const (
	Float FieldType = iota + 1
	Uchar
	Int
	Double
)

var fieldTypeNames = map[FieldType]string{
	Float:  "float",
	Uchar:  "uchar",
	Int:    "int",
	Double: "double",
}

// ParseFieldType resolves a header type tag.
func ParseFieldType(s string) (FieldType, error) {
	for t, name := range fieldTypeNames {
		if name == s {
			return t, nil
		}
	}
	return 0, errors.Wrapf(ErrUnsupportedFieldType, "%q", s)
}

func (t FieldType) String() string {
	if name, ok := fieldTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

// Size returns the encoded byte width, or 0 for an unknown type.
func (t FieldType) Size() int {
	switch t {
	case Float, Int:
		return 4
	case Uchar:
		return 1
	case Double:
		return 8
	default:
		return 0
	}
}

// FieldSpec is one property of the vertex element.
type FieldSpec struct {
	Type FieldType
	Name string
}

type decodeFunc func([]byte) float64
type encodeFunc func([]byte, float64)

// Layout is the fixed-width binary layout of a record.
// The per-field codecs are resolved once so that decoding does not dispatch
// on the type tag per record.
type Layout struct {
	Fields  []FieldSpec
	Offsets []int
	Stride  int

	dec []decodeFunc
	enc []encodeFunc
}

// NewLayout derives the layout of the given fields.
func NewLayout(fields []FieldSpec) (*Layout, error) {
	l := &Layout{
		Fields:  append([]FieldSpec{}, fields...),
		Offsets: make([]int, len(fields)),
		dec:     make([]decodeFunc, len(fields)),
		enc:     make([]encodeFunc, len(fields)),
	}
	for i, f := range fields {
		size := f.Type.Size()
		if size == 0 {
			return nil, errors.Wrapf(ErrUnsupportedFieldType, "property %q has type %d", f.Name, int(f.Type))
		}
		l.Offsets[i] = l.Stride
		l.dec[i], l.enc[i] = codec(f.Type)
		l.Stride += size
	}
	return l, nil
}

func codec(t FieldType) (decodeFunc, encodeFunc) {
	switch t {
	case Float:
		return decodeFloat, encodeFloat
	case Uchar:
		return decodeUchar, encodeUchar
	case Int:
		return decodeInt, encodeInt
	default:
		return decodeDouble, encodeDouble
	}
}

func decodeFloat(b []byte) float64 {
	return float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
}

func decodeUchar(b []byte) float64 {
	return float64(b[0])
}

func decodeInt(b []byte) float64 {
	return float64(int32(binary.LittleEndian.Uint32(b)))
}

func decodeDouble(b []byte) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(b))
}

func encodeFloat(b []byte, v float64) {
	binary.LittleEndian.PutUint32(b, math.Float32bits(float32(v)))
}

// encodeUchar wraps out of range values modulo 256, so that 300 is stored
// as 44 and -1 as 255.
func encodeUchar(b []byte, v float64) {
	n := int64(v) % 256
	if n < 0 {
		n += 256
	}
	b[0] = byte(n)
}

// encodeInt truncates toward zero and keeps the low 32 bits.
func encodeInt(b []byte, v float64) {
	binary.LittleEndian.PutUint32(b, uint32(int32(int64(v))))
}

func encodeDouble(b []byte, v float64) {
	binary.LittleEndian.PutUint64(b, math.Float64bits(v))
}
