package math

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestClamp(t *testing.T) {
	if got := Clamp(17, 0, 16); got != 16 {
		t.Fatalf("Clamp(17, 0, 16) = %d", got)
	}
	if got := Clamp(-1, 0, 16); got != 0 {
		t.Fatalf("Clamp(-1, 0, 16) = %d", got)
	}
	if got := Clamp(0.5, 0.0, 1.0); got != 0.5 {
		t.Fatalf("Clamp(0.5, 0, 1) = %f", got)
	}
}

func TestIVec3(t *testing.T) {
	v := NewIVec3(1, -2, 3)
	if got := v.MulScalar(16); got != NewIVec3(16, -32, 48) {
		t.Fatalf("MulScalar = %v", got)
	}
	if got := v.LengthSquared(); got != 14 {
		t.Fatalf("LengthSquared = %d", got)
	}
	if got := v.Add(NewIVec3(1, 1, 1)).Sub(NewIVec3(2, -1, 4)); got != NewIVec3(0, 0, 0) {
		t.Fatalf("Add/Sub = %v", got)
	}
	if v.Compare(NewIVec3(1, -2, 4)) != -1 || v.Compare(v) != 0 || v.Compare(NewIVec3(0, 9, 9)) != 1 {
		t.Fatalf("Compare ordering is wrong")
	}
	big := NewIVec3(1<<30, 1<<30, 1<<30)
	if big.LengthSquared() <= 0 {
		t.Fatalf("LengthSquared overflowed")
	}
}

func TestExtentsOf(t *testing.T) {
	e := ExtentsOf([]mgl32.Vec3{{1, 5, -1}, {-2, 0, 3}, {0, 7, 0}})
	if e.Min != (mgl32.Vec3{-2, 0, -1}) || e.Max != (mgl32.Vec3{1, 7, 3}) {
		t.Fatalf("unexpected extents %+v", e)
	}
	if ExtentsOf(nil) != (Extents3D{}) {
		t.Fatalf("empty extents should be zero")
	}
}

func TestTransformWorld(t *testing.T) {
	tr := TransformFromPosition(mgl32.Vec3{16, 0, -32})
	tr.Translate(mgl32.Vec3{0, 16, 0})
	p := tr.GetWorld().Mul4x1(mgl32.Vec4{1, 1, 1, 1})
	if p != (mgl32.Vec4{17, 17, -31, 1}) {
		t.Fatalf("unexpected world position %v", p)
	}
}
