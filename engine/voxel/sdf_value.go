package voxel

// Material identifiers stored in SdfValue.MaterialID. The values index the
// terrain texture array.
const (
	MaterialDirt  uint16 = 0
	MaterialGrass uint16 = 11
	MaterialSand  uint16 = 18
	MaterialStone uint16 = 21
	MaterialWater uint16 = 23
)

// SdfValue is one sample of the signed distance field.
// A Value <= 0 is solid, a Value > 0 is air.
type SdfValue struct {
	Value      float32
	MaterialID uint16
}

func NewSdfValue(value float32, materialID uint16) SdfValue {
	return SdfValue{Value: value, MaterialID: materialID}
}

// DefaultSdfValue is air made of stone, the value a grid starts from.
func DefaultSdfValue() SdfValue {
	return SdfValue{Value: 1, MaterialID: MaterialStone}
}

func (s SdfValue) IsSolid() bool {
	return IsSolid(s.Value)
}

// IsSolid is the single inside/outside predicate shared by the generator and the extractor.
func IsSolid(value float32) bool {
	return value <= 0
}

func MaterialName(id uint16) string {
	switch id {
	case MaterialDirt:
		return "dirt"
	case MaterialGrass:
		return "grass"
	case MaterialSand:
		return "sand"
	case MaterialStone:
		return "stone"
	case MaterialWater:
		return "water"
	default:
		return "unknown"
	}
}
