package mathutil

import "math"

// Vec3 is a 3-component float32 vector, matching the precision stored in
// geometry files.
type Vec3 [3]float32

func (v Vec3) Len() float32 {
	return float32(math.Sqrt(float64(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])))
}

// Normalize returns v scaled to unit length. A zero vector is returned
// unchanged.
func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l > 0 {
		return Vec3{v[0] / l, v[1] / l, v[2] / l}
	}
	return v
}

// Near reports whether every component of a and b differs by less than eps.
func Near(a, b [3]float32, eps float32) bool {
	for i := 0; i < 3; i++ {
		d := a[i] - b[i]
		if d < 0 {
			d = -d
		}
		if !(d < eps) {
			return false
		}
	}
	return true
}
