package math

import (
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/exp/constraints"
)

// Clamp returns the value `f` clamped to the range [low, high].
// It works for any numeric type (integers and floats).
func Clamp[T constraints.Ordered](f, low, high T) T {
	if f < low {
		return low
	}
	if f > high {
		return high
	}
	return f
}

// ExtentsOf returns the axis aligned bounds of the given points.
// An empty slice yields zero extents.
func ExtentsOf(points []mgl32.Vec3) Extents3D {
	if len(points) == 0 {
		return Extents3D{}
	}
	e := Extents3D{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		for i := 0; i < 3; i++ {
			if p[i] < e.Min[i] {
				e.Min[i] = p[i]
			}
			if p[i] > e.Max[i] {
				e.Max[i] = p[i]
			}
		}
	}
	return e
}
