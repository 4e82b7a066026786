package math

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

func NewIVec3(x, y, z int32) IVec3 {
	return IVec3{X: x, Y: y, Z: z}
}

func (v IVec3) Add(other IVec3) IVec3 {
	return IVec3{X: v.X + other.X, Y: v.Y + other.Y, Z: v.Z + other.Z}
}

func (v IVec3) Sub(other IVec3) IVec3 {
	return IVec3{X: v.X - other.X, Y: v.Y - other.Y, Z: v.Z - other.Z}
}

func (v IVec3) MulScalar(s int32) IVec3 {
	return IVec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// LengthSquared is computed in int64 so large coordinates cannot overflow.
func (v IVec3) LengthSquared() int64 {
	x, y, z := int64(v.X), int64(v.Y), int64(v.Z)
	return x*x + y*y + z*z
}

func (v IVec3) ToVec3() mgl32.Vec3 {
	return mgl32.Vec3{float32(v.X), float32(v.Y), float32(v.Z)}
}

func (v IVec3) String() string {
	return fmt.Sprintf("(%d, %d, %d)", v.X, v.Y, v.Z)
}

// Compare orders vectors by X, then Y, then Z. Returns -1, 0 or 1.
func (v IVec3) Compare(other IVec3) int {
	switch {
	case v.X != other.X:
		return cmpInt32(v.X, other.X)
	case v.Y != other.Y:
		return cmpInt32(v.Y, other.Y)
	default:
		return cmpInt32(v.Z, other.Z)
	}
}

func cmpInt32(a, b int32) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}
