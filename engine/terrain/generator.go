package terrain

import (
	"github.com/spaghettifunk/terra/engine/math"
	"github.com/spaghettifunk/terra/engine/voxel"
)

// Settings holds every knob of the terrain field. A Generator is built from a
// Settings value and never changes afterwards.
type Settings struct {
	Seed          uint32
	Octaves       int
	TerrainScale  float64
	CaveScale     float64
	HeightFalloff float64
	CaveWeight    float64
	SeaLevel      int32
	SandLevel     int32
	MaterialSeed  uint32
	SurfaceBand   int
}

func DefaultSettings() Settings {
	return Settings{
		Seed:          100,
		Octaves:       4,
		TerrainScale:  129,
		CaveScale:     70,
		HeightFalloff: 12,
		CaveWeight:    2.5,
		SeaLevel:      0,
		SandLevel:     2,
		MaterialSeed:  123,
		SurfaceBand:   3,
	}
}

// waterDensity is the value given to air below sea level.
const waterDensity float32 = -0.1

// Generator maps voxel coordinates to SDF samples. It is a pure function of
// its Settings and is safe for concurrent use.
type Generator struct {
	settings Settings
	fbm      *Fbm
	material *Perlin
}

func NewGenerator(settings Settings) *Generator {
	if settings.SurfaceBand < 1 {
		settings.SurfaceBand = 1
	}
	return &Generator{
		settings: settings,
		fbm:      NewFbm(settings.Seed, settings.Octaves),
		material: NewPerlin(settings.MaterialSeed),
	}
}

func (g *Generator) Settings() Settings {
	return g.settings
}

// Density is the raw field at p, before the water and material passes.
// Negative values are solid: the ground lies below the surface y = 12 * f_terrain.
func (g *Generator) Density(p math.IVec3) float32 {
	s := g.settings
	x, y, z := float64(p.X), float64(p.Y), float64(p.Z)

	fTerrain := g.fbm.Get2D(x/s.TerrainScale, z/s.TerrainScale)
	f3d := g.fbm.Get3D(x/s.CaveScale, y/s.CaveScale, z/s.CaveScale)

	return float32(y/s.HeightFalloff - fTerrain - f3d*s.CaveWeight)
}

// Sample returns the SDF value at p with water applied. Material is stone for
// every solid sample that is not water; surface materials come from Generate.
func (g *Generator) Sample(p math.IVec3) voxel.SdfValue {
	value := g.Density(p)
	if p.Y < g.settings.SeaLevel && !voxel.IsSolid(value) {
		return voxel.NewSdfValue(waterDensity, voxel.MaterialWater)
	}
	return voxel.NewSdfValue(value, voxel.MaterialStone)
}

// Generate fills every sample of the padded chunk grid, then classifies the
// surface materials column by column.
func (g *Generator) Generate(chunk *voxel.ChunkData) {
	shape := chunk.Shape
	for i := range chunk.SDF {
		x, y, z := shape.Delinearize(i)
		chunk.SDF[i] = g.Sample(chunk.World(x, y, z))
	}

	n := shape.Samples()
	for z := 0; z < n; z++ {
		for x := 0; x < n; x++ {
			g.classifyColumn(chunk, x, z)
		}
	}
}

// classifyColumn walks one column top to bottom tracking the depth below the
// nearest air. Depth 1 is the sample directly under air.
func (g *Generator) classifyColumn(chunk *voxel.ChunkData, x, z int) {
	top := chunk.Shape.Samples() - 1
	depth := g.depthAbove(chunk.World(x, top, z))

	for y := top; y >= 0; y-- {
		idx := chunk.Shape.Linearize(x, y, z)
		c := chunk.SDF[idx]

		if !c.IsSolid() || c.MaterialID == voxel.MaterialWater {
			depth = 0
			continue
		}
		depth++

		if c.MaterialID != voxel.MaterialStone {
			continue
		}
		p := chunk.World(x, y, z)
		chunk.SDF[idx].MaterialID = g.surfaceMaterial(p, depth)
	}
}

// depthAbove counts solid samples stacked directly above p. Depths past the
// deepest rule all classify the same, so the count stops there. Sampling past
// the grid keeps the classification identical in every chunk that holds the
// same voxel.
func (g *Generator) depthAbove(p math.IVec3) int {
	limit := max(g.settings.SurfaceBand, 2)
	depth := 0
	for i := 1; i <= limit; i++ {
		c := g.Sample(p.Add(math.NewIVec3(0, int32(i), 0)))
		if !c.IsSolid() || c.MaterialID == voxel.MaterialWater {
			break
		}
		depth++
	}
	return depth
}

func (g *Generator) surfaceMaterial(p math.IVec3, depth int) uint16 {
	switch {
	case p.Y < g.settings.SandLevel && depth <= 2 &&
		g.material.Noise2D(float64(p.X)/32, float64(p.Z)/32) > 0.1:
		return voxel.MaterialSand
	case depth <= 1:
		return voxel.MaterialGrass
	case depth < g.settings.SurfaceBand:
		return voxel.MaterialDirt
	default:
		return voxel.MaterialStone
	}
}
