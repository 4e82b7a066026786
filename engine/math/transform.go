package math

import "github.com/go-gl/mathgl/mgl32"

func TransformCreate() Transform {
	return Transform{Position: mgl32.Vec3{}}
}

func TransformFromPosition(position mgl32.Vec3) Transform {
	return Transform{Position: position}
}

func (t *Transform) SetPosition(position mgl32.Vec3) {
	t.Position = position
}

func (t *Transform) Translate(translation mgl32.Vec3) {
	t.Position = t.Position.Add(translation)
}

// GetWorld returns the world matrix of the transform.
func (t Transform) GetWorld() mgl32.Mat4 {
	return mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z())
}
