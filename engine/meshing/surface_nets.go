package meshing

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/terra/engine/voxel"
)

var cubeCorners = [8][3]int{
	{0, 0, 0},
	{1, 0, 0},
	{0, 1, 0},
	{1, 1, 0},
	{0, 0, 1},
	{1, 0, 1},
	{0, 1, 1},
	{1, 1, 1},
}

var cubeCornerVectors = [8]mgl32.Vec3{
	{0, 0, 0},
	{1, 0, 0},
	{0, 1, 0},
	{1, 1, 0},
	{0, 0, 1},
	{1, 0, 1},
	{0, 1, 1},
	{1, 1, 1},
}

// Corner pairs of the 12 cube edges. Bit 0 of a corner is x, bit 1 is y and bit 2 is z.
var cubeEdges = [12][2]int{
	{0b000, 0b001},
	{0b000, 0b010},
	{0b000, 0b100},
	{0b001, 0b011},
	{0b001, 0b101},
	{0b010, 0b011},
	{0b010, 0b110},
	{0b011, 0b111},
	{0b100, 0b101},
	{0b100, 0b110},
	{0b101, 0b111},
	{0b110, 0b111},
}

// Extract runs Surface Nets over the padded grid of chunk and writes the result
// into buf. Positions are local to the chunk origin.
//
// Every cell whose corners are all inside the grid gets at most one vertex.
// Quads are only emitted for edges between the first and the next to last layer
// of each axis, so two neighbouring chunks never emit the same face.
func Extract(chunk *voxel.ChunkData, buf *SurfaceNetsBuffer) {
	buf.Reset(chunk.Shape.Len())
	estimateSurface(chunk, buf)
	makeAllQuads(chunk, buf)
}

func estimateSurface(chunk *voxel.ChunkData, buf *SurfaceNetsBuffer) {
	shape := chunk.Shape
	cells := shape.Samples() - 1

	for z := 0; z < cells; z++ {
		for y := 0; y < cells; y++ {
			for x := 0; x < cells; x++ {
				stride := shape.Linearize(x, y, z)
				if estimateSurfaceInCube(chunk, x, y, z, buf) {
					buf.StrideToIndex[stride] = uint32(len(buf.Positions) - 1)
					buf.SurfacePoints = append(buf.SurfacePoints, [3]uint32{uint32(x), uint32(y), uint32(z)})
					buf.SurfaceStrides = append(buf.SurfaceStrides, uint32(stride))
				}
			}
		}
	}
}

// estimateSurfaceInCube places a vertex in the cube whose minimal corner is
// (x, y, z) at the centroid of its edge crossings. Returns false when the
// surface does not pass through the cube.
func estimateSurfaceInCube(chunk *voxel.ChunkData, x, y, z int, buf *SurfaceNetsBuffer) bool {
	var dists [8]float32
	solid := 0
	material := voxel.MaterialStone
	for i, c := range cubeCorners {
		s := chunk.At(x+c[0], y+c[1], z+c[2])
		dists[i] = s.Value
		if s.IsSolid() {
			if solid == 0 {
				material = s.MaterialID
			}
			solid++
		}
	}

	if solid == 0 || solid == 8 {
		return false
	}

	centroid := centroidOfEdgeIntersections(&dists)
	origin := mgl32.Vec3{float32(x), float32(y), float32(z)}

	buf.Positions = append(buf.Positions, origin.Add(centroid))
	buf.Normals = append(buf.Normals, normalize(sdfGradient(&dists, centroid)))
	buf.Materials = append(buf.Materials, material)
	return true
}

func centroidOfEdgeIntersections(dists *[8]float32) mgl32.Vec3 {
	count := 0
	var sum mgl32.Vec3
	for _, e := range cubeEdges {
		d1, d2 := dists[e[0]], dists[e[1]]
		if voxel.IsSolid(d1) != voxel.IsSolid(d2) {
			count++
			sum = sum.Add(estimateSurfaceEdgeIntersection(e[0], e[1], d1, d2))
		}
	}
	return sum.Mul(1 / float32(count))
}

func estimateSurfaceEdgeIntersection(corner1, corner2 int, value1, value2 float32) mgl32.Vec3 {
	t := value1 / (value1 - value2)
	return cubeCornerVectors[corner1].Mul(1 - t).Add(cubeCornerVectors[corner2].Mul(t))
}

// sdfGradient bilinearly interpolates the differences along the four cube
// edges of each axis at the surface point s.
func sdfGradient(d *[8]float32, s mgl32.Vec3) mgl32.Vec3 {
	p00 := mgl32.Vec3{d[0b001], d[0b010], d[0b100]}
	n00 := mgl32.Vec3{d[0b000], d[0b000], d[0b000]}

	p10 := mgl32.Vec3{d[0b101], d[0b011], d[0b110]}
	n10 := mgl32.Vec3{d[0b100], d[0b001], d[0b010]}

	p01 := mgl32.Vec3{d[0b011], d[0b110], d[0b101]}
	n01 := mgl32.Vec3{d[0b010], d[0b100], d[0b001]}

	p11 := mgl32.Vec3{d[0b111], d[0b111], d[0b111]}
	n11 := mgl32.Vec3{d[0b110], d[0b101], d[0b011]}

	d00 := p00.Sub(n00)
	d10 := p10.Sub(n10)
	d01 := p01.Sub(n01)
	d11 := p11.Sub(n11)

	neg := mgl32.Vec3{1, 1, 1}.Sub(s)
	negYZX, negZXY := yzx(neg), zxy(neg)
	sYZX, sZXY := yzx(s), zxy(s)

	return mulElem(mulElem(negYZX, negZXY), d00).
		Add(mulElem(mulElem(negYZX, sZXY), d10)).
		Add(mulElem(mulElem(sYZX, negZXY), d01)).
		Add(mulElem(mulElem(sYZX, sZXY), d11))
}

func makeAllQuads(chunk *voxel.ChunkData, buf *SurfaceNetsBuffer) {
	strides := chunk.Shape.Strides()
	last := uint32(chunk.Shape.Samples() - 2)

	for i, p := range buf.SurfacePoints {
		x, y, z := p[0], p[1], p[2]
		stride := int(buf.SurfaceStrides[i])

		// edges parallel with the X axis
		if y != 0 && z != 0 && x != last {
			maybeMakeQuad(chunk, buf, stride, stride+strides[0], strides[1], strides[2])
		}
		// edges parallel with the Y axis
		if x != 0 && z != 0 && y != last {
			maybeMakeQuad(chunk, buf, stride, stride+strides[1], strides[2], strides[0])
		}
		// edges parallel with the Z axis
		if x != 0 && y != 0 && z != last {
			maybeMakeQuad(chunk, buf, stride, stride+strides[2], strides[0], strides[1])
		}
	}
}

// maybeMakeQuad emits two triangles joining the four cells around the edge
// p1-p2 when its endpoints straddle the surface. Faces point from solid to air.
//
// Viewed face-front the quad vertices are laid out as
//
//	v1 v3
//	v2 v4
func maybeMakeQuad(chunk *voxel.ChunkData, buf *SurfaceNetsBuffer, p1, p2, axisB, axisC int) {
	s1 := chunk.SDF[p1].IsSolid()
	s2 := chunk.SDF[p2].IsSolid()

	var negativeFace bool
	switch {
	case s1 && !s2:
		negativeFace = false
	case !s1 && s2:
		negativeFace = true
	default:
		return
	}

	v1 := buf.StrideToIndex[p1]
	v2 := buf.StrideToIndex[p1-axisB]
	v3 := buf.StrideToIndex[p1-axisC]
	v4 := buf.StrideToIndex[p1-axisB-axisC]

	pos1, pos2 := buf.Positions[v1], buf.Positions[v2]
	pos3, pos4 := buf.Positions[v3], buf.Positions[v4]

	// split along the shorter diagonal
	var quad [6]uint32
	if distanceSquared(pos1, pos4) < distanceSquared(pos2, pos3) {
		if negativeFace {
			quad = [6]uint32{v1, v4, v2, v1, v3, v4}
		} else {
			quad = [6]uint32{v1, v2, v4, v1, v4, v3}
		}
	} else if negativeFace {
		quad = [6]uint32{v2, v3, v4, v2, v1, v3}
	} else {
		quad = [6]uint32{v2, v4, v3, v2, v3, v1}
	}
	buf.Indices = append(buf.Indices, quad[:]...)
}

func yzx(v mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{v[1], v[2], v[0]}
}

func zxy(v mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{v[2], v[0], v[1]}
}

func mulElem(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

func distanceSquared(a, b mgl32.Vec3) float32 {
	d := a.Sub(b)
	return d.Dot(d)
}

func normalize(v mgl32.Vec3) mgl32.Vec3 {
	if l := v.Len(); l > 0 {
		return v.Mul(1 / l)
	}
	return mgl32.Vec3{0, 1, 0}
}
