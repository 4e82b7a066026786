package voxel

import (
	"fmt"

	"github.com/spaghettifunk/terra/engine/math"
)

// ChunkCoordinate identifies a chunk in chunk space. It is a comparable value
// and is used directly as a map key.
type ChunkCoordinate struct {
	X, Y, Z int32
}

func NewChunkCoordinate(x, y, z int32) ChunkCoordinate {
	return ChunkCoordinate{X: x, Y: y, Z: z}
}

func (c ChunkCoordinate) IVec3() math.IVec3 {
	return math.NewIVec3(c.X, c.Y, c.Z)
}

// Origin returns the voxel-space position of the chunk's first interior sample.
func (c ChunkCoordinate) Origin(size int) math.IVec3 {
	return c.IVec3().MulScalar(int32(size))
}

// DistanceSquared is the squared distance to the chunk-space origin.
func (c ChunkCoordinate) DistanceSquared() int64 {
	return c.IVec3().LengthSquared()
}

func (c ChunkCoordinate) Compare(other ChunkCoordinate) int {
	return c.IVec3().Compare(other.IVec3())
}

func (c ChunkCoordinate) String() string {
	return fmt.Sprintf("chunk(%d, %d, %d)", c.X, c.Y, c.Z)
}

// Shape describes the padded sample grid of a chunk. A chunk of Size interior
// cells stores Size+2 samples per axis: Size+1 corners cover the interior
// cells, and one more layer holds the overlap cell shared with the next chunk
// so neighbouring meshes meet without gaps.
type Shape struct {
	Size int
}

func NewShape(size int) Shape {
	return Shape{Size: size}
}

// Samples is the number of samples along one axis.
func (s Shape) Samples() int {
	return s.Size + 2
}

// Len is the total number of samples in the grid.
func (s Shape) Len() int {
	n := s.Samples()
	return n * n * n
}

// Linearize maps local grid coordinates to an index. X varies fastest.
func (s Shape) Linearize(x, y, z int) int {
	n := s.Samples()
	return x + n*(y+n*z)
}

func (s Shape) Delinearize(i int) (int, int, int) {
	n := s.Samples()
	x := i % n
	i /= n
	y := i % n
	z := i / n
	return x, y, z
}

// Strides returns the index offsets of one step along X, Y and Z.
func (s Shape) Strides() [3]int {
	n := s.Samples()
	return [3]int{1, n, n * n}
}

// ChunkData is the dense SDF grid of one chunk. It is immutable once built.
type ChunkData struct {
	Position ChunkCoordinate
	Shape    Shape
	SDF      []SdfValue
}

func NewChunkData(position ChunkCoordinate, shape Shape) *ChunkData {
	sdf := make([]SdfValue, shape.Len())
	for i := range sdf {
		sdf[i] = DefaultSdfValue()
	}
	return &ChunkData{
		Position: position,
		Shape:    shape,
		SDF:      sdf,
	}
}

func (c *ChunkData) At(x, y, z int) SdfValue {
	return c.SDF[c.Shape.Linearize(x, y, z)]
}

// World converts local grid coordinates to voxel-space coordinates.
func (c *ChunkData) World(x, y, z int) math.IVec3 {
	return c.Position.Origin(c.Shape.Size).Add(math.NewIVec3(int32(x), int32(y), int32(z)))
}
