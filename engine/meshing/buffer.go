package meshing

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/terra/engine/renderer/metadata"
)

// NullVertex marks a grid cell that did not produce a vertex.
const NullVertex uint32 = ^uint32(0)

// SurfaceNetsBuffer is the scratch output of one extraction. It is reset and
// reused between chunks so the slices keep their capacity.
type SurfaceNetsBuffer struct {
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	// Materials holds the material id of each vertex.
	Materials []uint16
	// Indices is a triangle list into Positions.
	Indices []uint32

	// StrideToIndex maps a grid index to its vertex, or NullVertex.
	StrideToIndex []uint32

	// SurfacePoints are the local coordinates of every cell crossing the surface.
	SurfacePoints [][3]uint32
	// SurfaceStrides are the grid indices of the same cells.
	SurfaceStrides []uint32
}

func NewSurfaceNetsBuffer() *SurfaceNetsBuffer {
	return &SurfaceNetsBuffer{}
}

// Reset clears the buffer for a grid of size samples.
func (b *SurfaceNetsBuffer) Reset(size int) {
	b.Positions = b.Positions[:0]
	b.Normals = b.Normals[:0]
	b.Materials = b.Materials[:0]
	b.Indices = b.Indices[:0]
	b.SurfacePoints = b.SurfacePoints[:0]
	b.SurfaceStrides = b.SurfaceStrides[:0]

	if cap(b.StrideToIndex) < size {
		b.StrideToIndex = make([]uint32, size)
	}
	b.StrideToIndex = b.StrideToIndex[:size]
	for i := range b.StrideToIndex {
		b.StrideToIndex[i] = NullVertex
	}
}

// IsEmpty reports whether the extraction produced no triangle.
func (b *SurfaceNetsBuffer) IsEmpty() bool {
	return len(b.Indices) == 0
}

// ToMesh copies the buffer into a mesh the scene can own. The material id is
// stored in the first UV component. Returns nil for an empty buffer.
func (b *SurfaceNetsBuffer) ToMesh() *metadata.Mesh {
	if b.IsEmpty() {
		return nil
	}
	mesh := &metadata.Mesh{
		Positions: make([]mgl32.Vec3, len(b.Positions)),
		Normals:   make([]mgl32.Vec3, len(b.Normals)),
		UVs:       make([]mgl32.Vec2, len(b.Materials)),
		Indices:   make([]uint32, len(b.Indices)),
	}
	copy(mesh.Positions, b.Positions)
	copy(mesh.Normals, b.Normals)
	copy(mesh.Indices, b.Indices)
	for i, m := range b.Materials {
		mesh.UVs[i] = mgl32.Vec2{float32(m), 0}
	}
	return mesh
}
