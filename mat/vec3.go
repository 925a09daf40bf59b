package mat

import (
	"math"
)

// Vec3 is a point or a per-axis quantity in X, Y, Z order.
type Vec3 [3]float64

func (v Vec3) Mul(a float64) Vec3 {
	return Vec3{v[0] * a, v[1] * a, v[2] * a}
}

func (v Vec3) Sub(a Vec3) Vec3 {
	return Vec3{v[0] - a[0], v[1] - a[1], v[2] - a[2]}
}

func (v Vec3) Add(a Vec3) Vec3 {
	return Vec3{v[0] + a[0], v[1] + a[1], v[2] + a[2]}
}

// Equal compares with a relative tolerance suitable for values which went
// through float32 storage.
func (v Vec3) Equal(a Vec3) bool {
	for i := range v {
		d := math.Abs(v[i] - a[i])
		s := math.Max(math.Abs(v[i]), math.Abs(a[i]))
		if d > 1e-6 && d > s*1e-6 {
			return false
		}
	}
	return true
}
