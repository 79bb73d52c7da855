// Package primitive holds the canonical in-memory representation of the two
// geometric primitive kinds a scene can contain — boxes and indexed
// triangles — plus the material table they reference. See spec.md §3 and
// §4.1 ("Primitive model").
package primitive

import (
	"math"

	"github.com/brightforge/voxeltrace/common"
)

// AlphaMode mirrors the three-way alpha handling a material can request.
// See spec.md §3 ("Material") and §4.4 ("Alpha masking").
type AlphaMode uint32

const (
	AlphaModeOpaque AlphaMode = 0
	AlphaModeMask   AlphaMode = 1
	AlphaModeBlend  AlphaMode = 2
)

// Box is a static or oscillating axis-aligned box. Min/Max is the motion
// envelope — the AABB that contains the box at every t (spec.md §9's open
// question, decided here: for a static box Min/Max equals the instantaneous
// bounds since Center0 == Center1). Center0/Center1/HalfSize describe the
// box's instantaneous position at any t via BoundsAt. Grounded on
// original_source/src/types.rs BoxData::create_moving_box, which pads the
// envelope AABB rather than trusting Center0/Center1/HalfSize alone — this
// repo keeps that convention: Min/Max is computed from the envelope, not
// derived on the fly by the grid builder.
type Box struct {
	Min, Max           common.Vec3
	Color              common.Vec3
	Reflectivity       float32
	Center0, Center1   common.Vec3
	HalfSize           common.Vec3
	Moving             bool
}

// NewStaticBox builds a Box whose Center0/Center1 coincide, per spec.md §3:
// "A static box sets c0 = c1 = (min+max)/2 and h = (max-min)/2."
func NewStaticBox(min, max, color common.Vec3, reflectivity float32) Box {
	center := min.Add(max).Scale(0.5)
	half := max.Sub(min).Scale(0.5)
	return Box{
		Min: min, Max: max,
		Color:        color,
		Reflectivity: reflectivity,
		Center0:      center, Center1: center,
		HalfSize: half,
		Moving:   false,
	}
}

// NewMovingBox builds an oscillating Box. The caller supplies the two
// endpoint centers and the half-extent; Min/Max is derived as the motion
// envelope (the union of both endpoint boxes), matching
// original_source/src/types.rs's padded-AABB convention minus the extra
// 0.5-unit safety pad (the grid builder's own clip-to-scene-AABB step makes
// that pad unnecessary here; see grid package).
func NewMovingBox(center0, center1, halfSize, color common.Vec3, reflectivity float32) Box {
	env0 := common.AABB{Min: center0.Sub(halfSize), Max: center0.Add(halfSize)}
	env1 := common.AABB{Min: center1.Sub(halfSize), Max: center1.Add(halfSize)}
	envelope := env0.Union(env1)
	return Box{
		Min: envelope.Min, Max: envelope.Max,
		Color:        color,
		Reflectivity: reflectivity,
		Center0:      center0, Center1: center1,
		HalfSize: halfSize,
		Moving:   true,
	}
}

// EnvelopeBounds returns the motion envelope — the AABB the grid builder
// uses for cell assignment per spec.md §9's decided convention.
func (b Box) EnvelopeBounds() common.AABB {
	return common.AABB{Min: b.Min, Max: b.Max}
}

// BoundsAt derives the box's instantaneous AABB at time t. Spec.md §3:
// "At time t the box occupies center lerp(c0, c1, (sin(2t)+1)/2) with
// half-extent h."
func (b Box) BoundsAt(t float32) common.AABB {
	phase := (float32(math.Sin(float64(2*t))) + 1) / 2
	center := common.VecLerp(b.Center0, b.Center1, phase)
	return common.AABB{Min: center.Sub(b.HalfSize), Max: center.Add(b.HalfSize)}
}

// Triangle is a single indexed triangle in world space. See spec.md §3 and
// §4.1.
type Triangle struct {
	V0, V1, V2       common.Vec3
	UV0, UV1, UV2    [2]float32
	MaterialID       int32
}

// Bounds returns the AABB of the triangle's three vertices.
func (t Triangle) Bounds() common.AABB {
	b := common.AABB{Min: t.V0, Max: t.V0}
	b = b.UnionPoint(t.V1)
	b = b.UnionPoint(t.V2)
	return b
}

// Area returns ½·|edge1 × edge2|, used for emissive weighting (spec.md §4.1).
func (t Triangle) Area() float32 {
	e1 := t.V1.Sub(t.V0)
	e2 := t.V2.Sub(t.V0)
	return e1.Cross(e2).Length() * 0.5
}

// GeometricNormal returns normalize(edge1 × edge2), assuming CCW winding
// (spec.md §4.1).
func (t Triangle) GeometricNormal() common.Vec3 {
	e1 := t.V1.Sub(t.V0)
	e2 := t.V2.Sub(t.V0)
	return e1.Cross(e2).Normalize()
}

// Center returns the triangle's centroid, used as the point representative
// for emissive area-light sampling (spec.md §9 Open Questions — triangle
// centers, not a true area integral, by documented scope choice).
func (t Triangle) Center() common.Vec3 {
	return t.V0.Add(t.V1).Add(t.V2).Scale(1.0 / 3.0)
}

// Material holds the shading parameters a Triangle references by index.
// See spec.md §3.
type Material struct {
	BaseColor           [4]float32
	Emissive            common.Vec3
	Metallic            float32 // reused as reflectivity (spec.md §3)
	Roughness           float32
	TextureIndex        int32
	NormalTextureIndex  int32
	EmissiveTextureIndex int32
	AlphaMode           AlphaMode
	AlphaCutoff         float32
}

// NeutralMaterial is the fallback substituted for out-of-range material
// indices (spec.md §4.1: "out-of-range indices fall back to a neutral gray
// material with reflectivity=0, emissive=0, roughness=1").
var NeutralMaterial = Material{
	BaseColor:            [4]float32{0.5, 0.5, 0.5, 1},
	Emissive:             common.Vec3{},
	Metallic:             0,
	Roughness:            1,
	TextureIndex:         -1,
	NormalTextureIndex:   -1,
	EmissiveTextureIndex: -1,
	AlphaMode:            AlphaModeOpaque,
	AlphaCutoff:          0.5,
}

// List is the canonical parallel-array scene representation: boxes packed
// first, triangles second, in the same index space the fine grid's cell
// lists reference (spec.md §3 invariant).
type List struct {
	Boxes     []Box
	Triangles []Triangle
	Materials []Material
}

// NumBoxes, NumTriangles report the counts used throughout the grid builder
// and buffer packer to disambiguate the global primitive index space.
func (l List) NumBoxes() int     { return len(l.Boxes) }
func (l List) NumTriangles() int { return len(l.Triangles) }
func (l List) NumPrimitives() int { return len(l.Boxes) + len(l.Triangles) }

// MaterialAt looks up a material by index, substituting NeutralMaterial for
// any out-of-range index (spec.md §4.1).
func (l List) MaterialAt(idx int32) Material {
	if idx < 0 || int(idx) >= len(l.Materials) {
		return NeutralMaterial
	}
	return l.Materials[idx]
}

// Bounds returns the world-space bound a primitive occupies for grid
// assignment purposes: the motion envelope for boxes, the vertex AABB for
// triangles (spec.md §4.2 step 4).
func (l List) Bounds(globalIndex int) common.AABB {
	if globalIndex < len(l.Boxes) {
		return l.Boxes[globalIndex].EnvelopeBounds()
	}
	return l.Triangles[globalIndex-len(l.Boxes)].Bounds()
}
