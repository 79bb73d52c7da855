package primitive

import (
	"testing"

	"github.com/brightforge/voxeltrace/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStaticBoxEnvelopeMatchesBounds(t *testing.T) {
	min := common.Vec3{X: -1, Y: -1, Z: -1}
	max := common.Vec3{X: 1, Y: 1, Z: 1}
	b := NewStaticBox(min, max, common.Vec3{X: 1}, 0.2)

	assert.Equal(t, min, b.Min)
	assert.Equal(t, max, b.Max)
	assert.Equal(t, b.Center0, b.Center1)
	assert.Equal(t, common.Vec3{X: 1, Y: 1, Z: 1}, b.HalfSize)
	assert.False(t, b.Moving)

	// A static box's instantaneous bounds must never exceed its envelope,
	// at any t (spec.md §8 "Motion envelope" law).
	for _, tt := range []float32{0, 1, 3.14} {
		inst := b.BoundsAt(tt)
		env := b.EnvelopeBounds()
		require.True(t, inst.Min.X >= env.Min.X-1e-5 && inst.Max.X <= env.Max.X+1e-5)
	}
}

func TestNewMovingBoxInstantaneousBoundsInsideEnvelope(t *testing.T) {
	c0 := common.Vec3{X: -5}
	c1 := common.Vec3{X: 5}
	half := common.Vec3{X: 1, Y: 1, Z: 1}
	b := NewMovingBox(c0, c1, half, common.Vec3{Y: 1}, 0)

	assert.True(t, b.Moving)
	env := b.EnvelopeBounds()

	for tt := float32(0); tt < 6.3; tt += 0.3 {
		inst := b.BoundsAt(tt)
		assert.GreaterOrEqual(t, inst.Min.X, env.Min.X-1e-4)
		assert.LessOrEqual(t, inst.Max.X, env.Max.X+1e-4)
	}
}

func TestTriangleAreaAndNormal(t *testing.T) {
	tri := Triangle{
		V0: common.Vec3{},
		V1: common.Vec3{X: 1},
		V2: common.Vec3{Y: 1},
	}
	assert.InDelta(t, 0.5, tri.Area(), 1e-6)
	n := tri.GeometricNormal()
	assert.InDelta(t, 0, n.X, 1e-6)
	assert.InDelta(t, 0, n.Y, 1e-6)
	assert.InDelta(t, 1, n.Z, 1e-6)
}

func TestMaterialAtFallsBackToNeutral(t *testing.T) {
	list := List{Materials: []Material{{Roughness: 0.1}}}

	assert.Equal(t, float32(0.1), list.MaterialAt(0).Roughness)
	assert.Equal(t, NeutralMaterial, list.MaterialAt(5))
	assert.Equal(t, NeutralMaterial, list.MaterialAt(-1))
}

func TestListBoundsDisambiguatesByNumBoxes(t *testing.T) {
	box := NewStaticBox(common.Vec3{X: -1, Y: -1, Z: -1}, common.Vec3{X: 1, Y: 1, Z: 1}, common.Vec3{}, 0)
	tri := Triangle{V0: common.Vec3{X: 10}, V1: common.Vec3{X: 11}, V2: common.Vec3{X: 10, Y: 1}}
	list := List{Boxes: []Box{box}, Triangles: []Triangle{tri}}

	assert.Equal(t, 2, list.NumPrimitives())
	b0 := list.Bounds(0)
	assert.Equal(t, box.Min, b0.Min)
	b1 := list.Bounds(1)
	assert.Equal(t, tri.Bounds().Min, b1.Min)
}

func TestGPUBoxMarshalRoundTripSize(t *testing.T) {
	b := NewStaticBox(common.Vec3{X: -2, Y: -2, Z: -2}, common.Vec3{X: 2, Y: 2, Z: 2}, common.Vec3{X: 1}, 0.5)
	gb := ToGPUBox(b)
	require.Equal(t, 96, gb.Size())
	buf := gb.Marshal()
	require.Len(t, buf, 96)
}

func TestGPUTriangleAndMaterialSizes(t *testing.T) {
	tri := ToGPUTriangle(Triangle{MaterialID: 3})
	require.Equal(t, 80, tri.Size())
	require.Len(t, tri.Marshal(), 80)

	mat := ToGPUMaterial(NeutralMaterial)
	require.Equal(t, 64, mat.Size())
	require.Len(t, mat.Marshal(), 64)
}
