package meshing

import (
	stdmath "math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/terra/engine/voxel"
)

func fillChunk(size int, f func(x, y, z int) float32) *voxel.ChunkData {
	chunk := voxel.NewChunkData(voxel.NewChunkCoordinate(0, 0, 0), voxel.NewShape(size))
	for i := range chunk.SDF {
		x, y, z := chunk.Shape.Delinearize(i)
		chunk.SDF[i] = voxel.NewSdfValue(f(x, y, z), voxel.MaterialStone)
	}
	return chunk
}

var center = mgl32.Vec3{8.3, 8.6, 8.45}

func sphere(x, y, z int) float32 {
	d := mgl32.Vec3{float32(x), float32(y), float32(z)}.Sub(center)
	return d.Len() - 5.2
}

func TestExtractUniformChunkIsEmpty(t *testing.T) {
	buf := NewSurfaceNetsBuffer()
	for _, v := range []float32{1, -1, 0} {
		chunk := fillChunk(16, func(int, int, int) float32 { return v })
		Extract(chunk, buf)
		if len(buf.Positions) != 0 || len(buf.Indices) != 0 || !buf.IsEmpty() {
			t.Fatalf("uniform value %f produced %d positions and %d indices", v, len(buf.Positions), len(buf.Indices))
		}
		if buf.ToMesh() != nil {
			t.Fatalf("empty buffer should not produce a mesh")
		}
	}
}

func TestExtractSphereIsClosed(t *testing.T) {
	buf := NewSurfaceNetsBuffer()
	Extract(fillChunk(16, sphere), buf)

	if buf.IsEmpty() {
		t.Fatalf("sphere produced no geometry")
	}
	if len(buf.Indices)%3 != 0 {
		t.Fatalf("index count %d is not a triangle list", len(buf.Indices))
	}
	if len(buf.Normals) != len(buf.Positions) || len(buf.Materials) != len(buf.Positions) {
		t.Fatalf("vertex channels are not parallel")
	}

	edges := make(map[[2]uint32]int)
	for i := 0; i < len(buf.Indices); i += 3 {
		tri := buf.Indices[i : i+3]
		for k := 0; k < 3; k++ {
			if tri[k] >= uint32(len(buf.Positions)) {
				t.Fatalf("index %d out of range", tri[k])
			}
			a, b := tri[k], tri[(k+1)%3]
			if a > b {
				a, b = b, a
			}
			edges[[2]uint32{a, b}]++
		}

		// faces point away from the solid side
		p0, p1, p2 := buf.Positions[tri[0]], buf.Positions[tri[1]], buf.Positions[tri[2]]
		n := p1.Sub(p0).Cross(p2.Sub(p0))
		c := p0.Add(p1).Add(p2).Mul(1.0 / 3)
		if n.Dot(c.Sub(center)) <= 0 {
			t.Fatalf("triangle %d faces inwards", i/3)
		}
	}
	for e, n := range edges {
		if n != 2 {
			t.Fatalf("edge %v shared by %d triangles, want 2", e, n)
		}
	}

	for i, p := range buf.Positions {
		r := float64(p.Sub(center).Len())
		if stdmath.Abs(r-5.2) > 0.5 {
			t.Fatalf("vertex %d at radius %f is far from the surface", i, r)
		}
		if buf.Normals[i].Dot(p.Sub(center)) <= 0 {
			t.Fatalf("normal of vertex %d points inwards", i)
		}
	}
}

// Every sign changing edge owned by the chunk yields exactly one quad.
func TestExtractOneQuadPerCrossingEdge(t *testing.T) {
	chunk := fillChunk(16, func(x, y, z int) float32 {
		fx, fy, fz := float64(x), float64(y), float64(z)
		return float32(fy - 9 + 3*stdmath.Sin(fx*0.7)*stdmath.Cos(fz*0.5))
	})
	buf := NewSurfaceNetsBuffer()
	Extract(chunk, buf)

	n := chunk.Shape.Samples()
	last := n - 2
	crossings := 0
	for z := 0; z < n; z++ {
		for y := 0; y < n; y++ {
			for x := 0; x < n; x++ {
				s := chunk.At(x, y, z).IsSolid()
				if x+1 < n && y != 0 && z != 0 && x != last && y <= last && z <= last &&
					s != chunk.At(x+1, y, z).IsSolid() {
					crossings++
				}
				if y+1 < n && x != 0 && z != 0 && y != last && x <= last && z <= last &&
					s != chunk.At(x, y+1, z).IsSolid() {
					crossings++
				}
				if z+1 < n && x != 0 && y != 0 && z != last && x <= last && y <= last &&
					s != chunk.At(x, y, z+1).IsSolid() {
					crossings++
				}
			}
		}
	}
	if crossings == 0 {
		t.Fatalf("test field has no crossing edges")
	}
	if got := len(buf.Indices) / 6; got != crossings {
		t.Fatalf("emitted %d quads for %d crossing edges", got, crossings)
	}
}

func TestBufferReuse(t *testing.T) {
	buf := NewSurfaceNetsBuffer()
	Extract(fillChunk(16, sphere), buf)
	first := len(buf.Indices)

	Extract(fillChunk(16, func(int, int, int) float32 { return 1 }), buf)
	if !buf.IsEmpty() {
		t.Fatalf("reset did not clear previous output")
	}
	for _, v := range buf.StrideToIndex {
		if v != NullVertex {
			t.Fatalf("stale vertex mapping after reset")
		}
	}

	Extract(fillChunk(16, sphere), buf)
	if len(buf.Indices) != first {
		t.Fatalf("re-extraction gave %d indices, want %d", len(buf.Indices), first)
	}
}

func TestToMeshCarriesMaterial(t *testing.T) {
	chunk := fillChunk(16, sphere)
	for i := range chunk.SDF {
		if chunk.SDF[i].IsSolid() {
			chunk.SDF[i].MaterialID = voxel.MaterialGrass
		}
	}
	buf := NewSurfaceNetsBuffer()
	Extract(chunk, buf)
	mesh := buf.ToMesh()
	if mesh == nil {
		t.Fatalf("expected a mesh")
	}
	if mesh.VertexCount() != len(buf.Positions) || mesh.TriangleCount()*3 != len(buf.Indices) {
		t.Fatalf("mesh sizes do not match the buffer")
	}
	for i := range mesh.UVs {
		if mesh.MaterialAt(i) != voxel.MaterialGrass || mesh.UVs[i][1] != 0 {
			t.Fatalf("vertex %d has uv %v", i, mesh.UVs[i])
		}
	}
}

func TestNeighbouringChunksJoinWithoutSeams(t *testing.T) {
	const size = 8
	corner := mgl32.Vec3{8.2, 7.7, 8.4}
	field := func(p mgl32.Vec3) float32 {
		return p.Sub(corner).Len() - 5.2
	}

	// merge every chunk mesh in world space, welding vertices that land on
	// the same point
	welded := make(map[[3]int64]uint32)
	var triangles [][3]uint32
	buf := NewSurfaceNetsBuffer()
	for cz := int32(0); cz < 2; cz++ {
		for cy := int32(0); cy < 2; cy++ {
			for cx := int32(0); cx < 2; cx++ {
				chunk := voxel.NewChunkData(voxel.NewChunkCoordinate(cx, cy, cz), voxel.NewShape(size))
				for i := range chunk.SDF {
					w := chunk.World(chunk.Shape.Delinearize(i))
					chunk.SDF[i] = voxel.NewSdfValue(field(w.ToVec3()), voxel.MaterialStone)
				}
				Extract(chunk, buf)

				origin := chunk.Position.Origin(size).ToVec3()
				global := make([]uint32, len(buf.Positions))
				for i, p := range buf.Positions {
					w := p.Add(origin)
					key := [3]int64{
						int64(stdmath.Round(float64(w[0]) * 1e3)),
						int64(stdmath.Round(float64(w[1]) * 1e3)),
						int64(stdmath.Round(float64(w[2]) * 1e3)),
					}
					id, ok := welded[key]
					if !ok {
						id = uint32(len(welded))
						welded[key] = id
					}
					global[i] = id
				}
				for i := 0; i < len(buf.Indices); i += 3 {
					triangles = append(triangles, [3]uint32{
						global[buf.Indices[i]], global[buf.Indices[i+1]], global[buf.Indices[i+2]],
					})
				}
			}
		}
	}

	if len(triangles) == 0 {
		t.Fatalf("the block produced no geometry")
	}

	faces := make(map[[3]uint32]bool)
	edges := make(map[[2]uint32]int)
	for i, tri := range triangles {
		key := tri
		if key[0] > key[1] {
			key[0], key[1] = key[1], key[0]
		}
		if key[1] > key[2] {
			key[1], key[2] = key[2], key[1]
		}
		if key[0] > key[1] {
			key[0], key[1] = key[1], key[0]
		}
		if faces[key] {
			t.Fatalf("triangle %d %v is emitted twice", i, tri)
		}
		faces[key] = true

		for k := 0; k < 3; k++ {
			a, b := tri[k], tri[(k+1)%3]
			if a > b {
				a, b = b, a
			}
			edges[[2]uint32{a, b}]++
		}
	}
	for e, n := range edges {
		if n != 2 {
			t.Fatalf("edge %v is shared by %d triangles, want 2", e, n)
		}
	}
}
