package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVec3DotAndCrossOrthogonality(t *testing.T) {
	x := Vec3{X: 1}
	y := Vec3{Y: 1}
	assert.Equal(t, float32(0), x.Dot(y))
	assert.Equal(t, Vec3{Z: 1}, x.Cross(y))
}

func TestVec3NormalizeIsUnitLength(t *testing.T) {
	v := Vec3{X: 3, Y: 4, Z: 0}
	n := v.Normalize()
	assert.InDelta(t, 1, n.Length(), 1e-5)
}

func TestVec3NormalizeZeroVectorIsSafe(t *testing.T) {
	z := Vec3{}
	n := z.Normalize()
	assert.Equal(t, Vec3{}, n)
}

func TestVecLerpEndpoints(t *testing.T) {
	a := Vec3{X: 0}
	b := Vec3{X: 10}
	assert.Equal(t, a, VecLerp(a, b, 0))
	assert.Equal(t, b, VecLerp(a, b, 1))
	assert.Equal(t, Vec3{X: 5}, VecLerp(a, b, 0.5))
}

func TestVecMinMaxComponentwise(t *testing.T) {
	a := Vec3{X: 1, Y: -2, Z: 3}
	b := Vec3{X: -1, Y: 2, Z: 0}
	assert.Equal(t, Vec3{X: -1, Y: -2, Z: 0}, VecMin(a, b))
	assert.Equal(t, Vec3{X: 1, Y: 2, Z: 3}, VecMax(a, b))
}
