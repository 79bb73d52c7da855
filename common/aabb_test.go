package common

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAABBIntersectRaySlabMethod(t *testing.T) {
	box := AABB{Min: Vec3{X: -1, Y: -1, Z: -1}, Max: Vec3{X: 1, Y: 1, Z: 1}}

	tNear, tFar, ok := box.IntersectRay(Vec3{X: -5}, Vec3{X: 1})
	assert.True(t, ok)
	assert.InDelta(t, 4, tNear, 1e-5)
	assert.InDelta(t, 6, tFar, 1e-5)
}

func TestAABBIntersectRayMissReturnsFalse(t *testing.T) {
	box := AABB{Min: Vec3{X: -1, Y: -1, Z: -1}, Max: Vec3{X: 1, Y: 1, Z: 1}}
	_, _, ok := box.IntersectRay(Vec3{X: -5, Y: 5}, Vec3{X: 1})
	assert.False(t, ok)
}

func TestAABBIntersectRayParallelToAxisNeverProducesNaN(t *testing.T) {
	box := AABB{Min: Vec3{X: -1, Y: -1, Z: -1}, Max: Vec3{X: 1, Y: 1, Z: 1}}
	tNear, tFar, ok := box.IntersectRay(Vec3{X: 0, Y: 0, Z: -5}, Vec3{X: 0, Y: 0, Z: 1})
	assert.True(t, ok)
	assert.False(t, math.IsNaN(float64(tNear)))
	assert.False(t, math.IsNaN(float64(tFar)))
}

func TestAABBUnionContainsBothInputs(t *testing.T) {
	a := AABB{Min: Vec3{X: -1, Y: -1, Z: -1}, Max: Vec3{X: 0, Y: 0, Z: 0}}
	b := AABB{Min: Vec3{X: 0, Y: 0, Z: 0}, Max: Vec3{X: 1, Y: 1, Z: 1}}
	u := a.Union(b)
	assert.True(t, u.ContainsPoint(a.Min))
	assert.True(t, u.ContainsPoint(b.Max))
}

func TestEmptyAABBIsInvalidUntilUnioned(t *testing.T) {
	e := EmptyAABB()
	assert.False(t, e.Valid())
	withPoint := e.UnionPoint(Vec3{X: 1, Y: 2, Z: 3})
	assert.True(t, withPoint.Valid())
}

func TestAABBDiagonalMatchesExtentLength(t *testing.T) {
	box := AABB{Min: Vec3{}, Max: Vec3{X: 3, Y: 4, Z: 0}}
	assert.InDelta(t, 5, box.Diagonal(), 1e-5)
}
