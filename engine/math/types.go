package math

import "github.com/go-gl/mathgl/mgl32"

// IVec3 is an integer 3D vector, used for voxel-space coordinates.
type IVec3 struct {
	X, Y, Z int32
}

/**
 * @brief Represents the extents of a 3d object.
 */
type Extents3D struct {
	/** @brief The minimum extents of the object. */
	Min mgl32.Vec3
	/** @brief The maximum extents of the object. */
	Max mgl32.Vec3
}

/**
 * @brief Represents the placement of an object in the world.
 * Chunks are never rotated or scaled, so only a translation is kept.
 */
type Transform struct {
	/** @brief The position in the world. */
	Position mgl32.Vec3
}
