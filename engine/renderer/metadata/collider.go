package metadata

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/terra/engine/math"
)

/**
 * @brief A static triangle mesh collision shape. The physics integration owns
 * what it does with it; the terrain only builds it from the render geometry.
 */
type Collider struct {
	Vertices  []mgl32.Vec3
	Triangles [][3]uint32
	/** @brief Local bounds, used for broad phase. */
	Extents math.Extents3D
}
