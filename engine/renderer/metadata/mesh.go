package metadata

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/terra/engine/math"
)

/**
 * @brief The geometry buffers of one chunk, ready to be uploaded by a renderer.
 * Positions and Normals are parallel. UVs carry the material id in X.
 */
type Mesh struct {
	/** @brief Vertex positions in chunk local space. */
	Positions []mgl32.Vec3
	/** @brief Per vertex normals, same length as Positions. */
	Normals []mgl32.Vec3
	/** @brief Per vertex texture channel: [material id, 0]. */
	UVs []mgl32.Vec2
	/** @brief Triangle list, three indices per triangle. */
	Indices []uint32
}

func (m *Mesh) VertexCount() int {
	return len(m.Positions)
}

func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Extents returns the local bounds of the mesh.
func (m *Mesh) Extents() math.Extents3D {
	return math.ExtentsOf(m.Positions)
}

// MaterialAt returns the material id stored for vertex i.
func (m *Mesh) MaterialAt(i int) uint16 {
	return uint16(m.UVs[i][0])
}
