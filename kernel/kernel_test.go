package kernel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDispatchWorkgroupCountsCoverFullResolution(t *testing.T) {
	cases := []struct {
		width, height   int
		wantX, wantY uint32
	}{
		{800, 600, 100, 75},
		{801, 600, 101, 75},
		{1, 1, 1, 1},
		{8, 8, 1, 1},
		{9, 8, 2, 1},
	}
	for _, c := range cases {
		gx := (uint32(c.width) + WorkgroupSize - 1) / WorkgroupSize
		gy := (uint32(c.height) + WorkgroupSize - 1) / WorkgroupSize
		assert.Equal(t, c.wantX, gx)
		assert.Equal(t, c.wantY, gy)
	}
}

func TestBindingIndicesAreUniqueAndOrdered(t *testing.T) {
	bindings := []int{
		BindingCamera, BindingGridMetadata, BindingCoarseCounts, BindingFineCells,
		BindingBoxes, BindingTriangles, BindingMaterials, BindingSceneConfig,
		BindingDebugParams, BindingDebugRecord, BindingOutputTexture,
	}
	seen := map[int]bool{}
	for i, b := range bindings {
		assert.False(t, seen[b], "duplicate binding index %d", b)
		seen[b] = true
		assert.Equal(t, i, b, "binding indices must match spec.md §6's listed order")
	}
}
