package terrain

import (
	"math"

	perlin "github.com/aquilax/go-perlin"
)

// period is the lattice repeat of the library noise. Inputs are wrapped into
// [0, period) because the library only handles positive coordinates.
const period = perlin.B

var (
	scale2D = math.Sqrt2
	scale3D = 2 / math.Sqrt(3)
)

// Perlin is a single octave of seeded gradient noise, rescaled to [-1, 1].
type Perlin struct {
	noise *perlin.Perlin
}

func NewPerlin(seed uint32) *Perlin {
	return &Perlin{noise: perlin.NewPerlin(2, 2, 1, int64(seed))}
}

// Noise2D returns 2D gradient noise at (x, y). Integer lattice points are zero.
func (n *Perlin) Noise2D(x, y float64) float64 {
	return clampUnit(n.noise.Noise2D(wrap(x), wrap(y)) * scale2D)
}

// Noise3D returns 3D gradient noise at (x, y, z).
func (n *Perlin) Noise3D(x, y, z float64) float64 {
	return clampUnit(n.noise.Noise3D(wrap(x), wrap(y), wrap(z)) * scale3D)
}

func wrap(v float64) float64 {
	v = math.Mod(v, period)
	if v < 0 {
		v += period
	}
	return v
}

// Fbm layers octaves of Perlin noise. Each octave doubles the frequency, halves
// the amplitude and uses its own seed. The sum is normalized back to [-1, 1].
type Fbm struct {
	octaves     []*Perlin
	persistence float64
	lacunarity  float64
}

func NewFbm(seed uint32, octaves int) *Fbm {
	if octaves < 1 {
		octaves = 1
	}
	f := &Fbm{
		octaves:     make([]*Perlin, octaves),
		persistence: 0.5,
		lacunarity:  2.0,
	}
	for i := range f.octaves {
		f.octaves[i] = NewPerlin(seed + uint32(i))
	}
	return f
}

func (f *Fbm) Octaves() int {
	return len(f.octaves)
}

func (f *Fbm) Get2D(x, y float64) float64 {
	var total, maxVal float64
	frequency, amplitude := 1.0, 1.0
	for _, p := range f.octaves {
		total += p.Noise2D(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= f.persistence
		frequency *= f.lacunarity
	}
	return total / maxVal
}

func (f *Fbm) Get3D(x, y, z float64) float64 {
	var total, maxVal float64
	frequency, amplitude := 1.0, 1.0
	for _, p := range f.octaves {
		total += p.Noise3D(x*frequency, y*frequency, z*frequency) * amplitude
		maxVal += amplitude
		amplitude *= f.persistence
		frequency *= f.lacunarity
	}
	return total / maxVal
}

func clampUnit(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
