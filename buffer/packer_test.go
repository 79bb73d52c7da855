package buffer

import (
	"testing"

	"github.com/brightforge/voxeltrace/common"
	"github.com/brightforge/voxeltrace/grid"
	"github.com/brightforge/voxeltrace/primitive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackCameraSize(t *testing.T) {
	buf := (&Packer{}).PackCamera(GPUCamera{Position: [3]float32{1, 2, 3}, ShowGrid: 1})
	require.Len(t, buf, 144)
}

func TestPackGridMetadataMatchesBuiltGrid(t *testing.T) {
	list := primitive.List{Boxes: []primitive.Box{
		primitive.NewStaticBox(common.Vec3{X: -1, Y: -1, Z: -1}, common.Vec3{X: 1, Y: 1, Z: 1}, common.Vec3{}, 0),
	}}
	g, _, err := grid.NewBuilder(grid.WithFineCellSize(1)).Build(list)
	require.NoError(t, err)

	buf := (&Packer{}).PackGridMetadata(g)
	require.Len(t, buf, 96)
}

func TestPackCoarseCountsSizeMatchesLevels(t *testing.T) {
	list := primitive.List{Boxes: []primitive.Box{
		primitive.NewStaticBox(common.Vec3{X: -1, Y: -1, Z: -1}, common.Vec3{X: 1, Y: 1, Z: 1}, common.Vec3{}, 0),
	}}
	g, _, err := grid.NewBuilder(grid.WithFineCellSize(1)).Build(list)
	require.NoError(t, err)

	buf := (&Packer{}).PackCoarseCounts(g)
	want := 0
	for level := 0; level < grid.FineLevel; level++ {
		want += len(g.CoarseCounts[level])
	}
	assert.Len(t, buf, want*4)
}

func TestPackFineCellsRecordStrideAndCount(t *testing.T) {
	list := primitive.List{Boxes: []primitive.Box{
		primitive.NewStaticBox(common.Vec3{X: -1, Y: -1, Z: -1}, common.Vec3{X: 1, Y: 1, Z: 1}, common.Vec3{}, 0),
	}}
	g, _, err := grid.NewBuilder(grid.WithFineCellSize(1)).Build(list)
	require.NoError(t, err)

	p := NewPacker()
	buf := p.PackFineCells(g)
	recordSize := fineCellRecordSize(grid.DefaultCellCapacity)
	assert.Equal(t, len(g.FineCells)*recordSize, len(buf))

	fine := g.Levels[grid.FineLevel]
	x, y, z := g.WorldToCell(common.Vec3{})
	occupiedIdx := fine.CellIndex(x, y, z)
	rec := buf[occupiedIdx*recordSize : (occupiedIdx+1)*recordSize]
	countOffset := grid.DefaultCellCapacity * 4
	count := uint32(rec[countOffset]) | uint32(rec[countOffset+1])<<8 | uint32(rec[countOffset+2])<<16 | uint32(rec[countOffset+3])<<24
	assert.Equal(t, uint32(1), count)
}

func TestPackMaterialsAlwaysPrependsSentinelAtIndexZero(t *testing.T) {
	list := primitive.List{Materials: []primitive.Material{{Roughness: 0.4}}}
	buf := (&Packer{}).PackMaterials(list)
	require.Len(t, buf, 128)

	neutral := primitive.ToGPUMaterial(primitive.NeutralMaterial)
	assert.Equal(t, neutral.Marshal(), buf[:64])
}

func TestPackBoxesAndTrianglesConcatenateInOrder(t *testing.T) {
	list := primitive.List{
		Boxes: []primitive.Box{
			primitive.NewStaticBox(common.Vec3{}, common.Vec3{X: 1, Y: 1, Z: 1}, common.Vec3{}, 0),
			primitive.NewStaticBox(common.Vec3{X: 2}, common.Vec3{X: 3, Y: 1, Z: 1}, common.Vec3{}, 0),
		},
		Triangles: []primitive.Triangle{{MaterialID: 1}},
	}
	boxBuf := (&Packer{}).PackBoxes(list)
	assert.Len(t, boxBuf, 2*96)

	triBuf := (&Packer{}).PackTriangles(list)
	assert.Len(t, triBuf, 80)
}

func TestPackSceneConfigAndDebugParams(t *testing.T) {
	list := primitive.List{Boxes: make([]primitive.Box, 3), Triangles: make([]primitive.Triangle, 5)}
	buf := (&Packer{}).PackSceneConfig(list)
	require.Len(t, buf, 16)

	dbg := (&Packer{}).PackDebugParams(GPUDebugParams{DebugPixel: [2]uint32{4, 5}, Enabled: 1})
	require.Len(t, dbg, 16)
}
