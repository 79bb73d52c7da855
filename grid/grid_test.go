package grid

import (
	"sync"
	"testing"

	"github.com/brightforge/voxeltrace/common"
	"github.com/brightforge/voxeltrace/primitive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleList() primitive.List {
	return primitive.List{
		Boxes: []primitive.Box{
			primitive.NewStaticBox(common.Vec3{X: -4, Y: -4, Z: -4}, common.Vec3{X: -3, Y: -3, Z: -3}, common.Vec3{}, 0),
			primitive.NewStaticBox(common.Vec3{X: 3, Y: 3, Z: 3}, common.Vec3{X: 4, Y: 4, Z: 4}, common.Vec3{}, 0),
		},
	}
}

func TestBuildRoundTripWorldToCellIsOccupied(t *testing.T) {
	list := sampleList()
	g, stats, err := NewBuilder(WithFineCellSize(1)).Build(list)
	require.NoError(t, err)
	require.False(t, stats.EmptyScene)

	for i := 0; i < list.NumPrimitives(); i++ {
		b := list.Bounds(i)
		x, y, z := g.WorldToCell(b.Center())
		cell := g.FineCellAt(x, y, z)
		require.NotNil(t, cell)
		assert.Contains(t, cell.Indices, uint32(i))
	}
}

func TestBuildIsIdempotent(t *testing.T) {
	list := sampleList()
	builder := NewBuilder(WithFineCellSize(1))
	g1, _, err := builder.Build(list)
	require.NoError(t, err)
	g2, _, err := builder.Build(list)
	require.NoError(t, err)

	assert.Equal(t, g1.Levels, g2.Levels)
	assert.Equal(t, g1.Bounds, g2.Bounds)
	for i := range g1.FineCells {
		assert.ElementsMatch(t, g1.FineCells[i].Indices, g2.FineCells[i].Indices)
	}
}

func TestCoarseCountPositiveWhenFineCellNonEmpty(t *testing.T) {
	list := sampleList()
	g, _, err := NewBuilder(WithFineCellSize(1)).Build(list)
	require.NoError(t, err)

	fine := g.Levels[FineLevel]
	for z := 0; z < fine.Dim[2]; z++ {
		for y := 0; y < fine.Dim[1]; y++ {
			for x := 0; x < fine.Dim[0]; x++ {
				cell := g.FineCellAt(x, y, z)
				if cell == nil || cell.Count == 0 {
					continue
				}
				// The cell's coarsest ancestor must report nonzero occupancy:
				// fine occupancy implies coarse occupancy.
				coarse := g.Levels[0]
				cx := clampInt(x*coarse.Dim[0]/fine.Dim[0], 0, coarse.Dim[0]-1)
				cy := clampInt(y*coarse.Dim[1]/fine.Dim[1], 0, coarse.Dim[1]-1)
				cz := clampInt(z*coarse.Dim[2]/fine.Dim[2], 0, coarse.Dim[2]-1)
				assert.Greater(t, g.CoarseCountAt(0, cx, cy, cz), uint32(0))
			}
		}
	}
}

func TestTinyCellSizeClampsToMinCellAndDimCap(t *testing.T) {
	list := sampleList()
	g, stats, err := NewBuilder(WithFineCellSize(0), WithDimCap(8)).Build(list)
	require.NoError(t, err)
	assert.True(t, stats.ClampedCellSize)
	assert.GreaterOrEqual(t, g.Levels[FineLevel].CellSize, MinCell)
	for level := 0; level < NumLevels; level++ {
		for axis := 0; axis < 3; axis++ {
			assert.LessOrEqual(t, g.Levels[level].Dim[axis], 8)
		}
	}
}

func TestEmptySceneBuildsDegenerateGrid(t *testing.T) {
	g, stats, err := NewBuilder().Build(primitive.List{})
	require.NoError(t, err)
	assert.True(t, stats.EmptyScene)
	assert.True(t, g.Bounds.Valid())
	assert.Equal(t, 0, len(g.FineCells[0].Indices))
}

// TestFineCellCapacityOverflowIsCountedNotPanicked exercises binPrimitive
// directly at a small capacity rather than going through Build(), since
// CellCapacity is fixed at DefaultCellCapacity (matching the shader's
// MAX_CELL_INDICES) and is no longer a BuilderOption.
func TestFineCellCapacityOverflowIsCountedNotPanicked(t *testing.T) {
	g := &Grid{
		Bounds: common.AABB{Min: common.Vec3{X: -1, Y: -1, Z: -1}, Max: common.Vec3{X: 1, Y: 1, Z: 1}},
	}
	for level := 0; level < NumLevels; level++ {
		g.Levels[level] = Level{CellSize: 2, Dim: [3]int{1, 1, 1}}
	}
	g.FineCells = make([]FineCell, 1)

	mus := make([]sync.Mutex, 1)
	coarseMus := make([][]sync.Mutex, FineLevel)
	for level := 0; level < FineLevel; level++ {
		g.CoarseCounts[level] = make([]uint32, 1)
		coarseMus[level] = make([]sync.Mutex, 1)
	}

	var overflowMu sync.Mutex
	var overflowCount int64
	bound := common.AABB{Min: common.Vec3{X: -0.1, Y: -0.1, Z: -0.1}, Max: common.Vec3{X: 0.1, Y: 0.1, Z: 0.1}}
	for i := 0; i < 8; i++ {
		binPrimitive(g, bound, uint32(i), mus, coarseMus, 2, &overflowMu, &overflowCount)
	}

	assert.Greater(t, overflowCount, int64(0))
	cell := g.FineCellAt(0, 0, 0)
	require.NotNil(t, cell)
	assert.LessOrEqual(t, int(cell.Count), 2)
}

func TestLevelCellIndexMatchesFlatLayout(t *testing.T) {
	l := Level{Dim: [3]int{4, 5, 6}}
	assert.Equal(t, 0, l.CellIndex(0, 0, 0))
	assert.Equal(t, 1, l.CellIndex(1, 0, 0))
	assert.Equal(t, 4, l.CellIndex(0, 1, 0))
	assert.Equal(t, 4*5, l.CellIndex(0, 0, 1))
}
