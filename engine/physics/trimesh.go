package physics

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/terra/engine/math"
	"github.com/spaghettifunk/terra/engine/renderer/metadata"
)

// NewTriMeshCollider builds a static collision shape from the triangles of mesh.
// It returns nil when the mesh has no complete triangle. Degenerate triangles
// with repeated indices are skipped.
func NewTriMeshCollider(mesh *metadata.Mesh) *metadata.Collider {
	if mesh == nil || len(mesh.Indices) < 3 {
		return nil
	}

	triangles := make([][3]uint32, 0, len(mesh.Indices)/3)
	for i := 0; i+2 < len(mesh.Indices); i += 3 {
		a, b, c := mesh.Indices[i], mesh.Indices[i+1], mesh.Indices[i+2]
		if a == b || b == c || a == c {
			continue
		}
		triangles = append(triangles, [3]uint32{a, b, c})
	}
	if len(triangles) == 0 {
		return nil
	}

	vertices := make([]mgl32.Vec3, len(mesh.Positions))
	copy(vertices, mesh.Positions)

	return &metadata.Collider{
		Vertices:  vertices,
		Triangles: triangles,
		Extents:   math.ExtentsOf(vertices),
	}
}
