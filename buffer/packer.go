package buffer

import (
	"encoding/binary"

	"github.com/brightforge/voxeltrace/grid"
	"github.com/brightforge/voxeltrace/primitive"
)

// Packer produces device-resident byte buffers from a primitive.List and a
// built grid.Grid, in the exact layouts the traversal kernel expects
// (spec.md §4.3, §6).
type Packer struct {
	// CellCapacity is always grid.DefaultCellCapacity. It is not
	// constructor-configurable: kernel/assets/traversal.wgsl's FineCell
	// struct hardcodes its indices array at MAX_CELL_INDICES, so the
	// packer's fixed-stride fine-cell records must use the same K the grid
	// was built with and the shader was compiled with, or every fine-cell
	// read desynchronizes from the buffer the shader actually sees.
	CellCapacity int
}

// NewPacker returns a Packer using the fine-cell capacity K the grid
// builder and the traversal shader are both fixed to (grid.DefaultCellCapacity).
func NewPacker() *Packer {
	return &Packer{CellCapacity: grid.DefaultCellCapacity}
}

// PackCamera serializes the camera uniform.
func (p *Packer) PackCamera(c GPUCamera) []byte {
	return c.Marshal()
}

// PackGridMetadata serializes the grid metadata uniform from a built grid.
func (p *Packer) PackGridMetadata(g *grid.Grid) []byte {
	m := GPUGridMetadata{
		BoundsMin:      g.Bounds.Min.Array(),
		NumLevels:      grid.NumLevels,
		BoundsMax:      g.Bounds.Max.Array(),
		FinestCellSize: g.Levels[grid.FineLevel].CellSize,
	}
	for level := 0; level < grid.NumLevels; level++ {
		dim := g.Levels[level].Dim
		m.GridSizes[level] = [3]uint32{uint32(dim[0]), uint32(dim[1]), uint32(dim[2])}
	}
	return m.Marshal()
}

// PackCoarseCounts concatenates the occupancy-count arrays for levels 0..2
// into a single flat u32 buffer, in level order (spec.md §6 "Coarse counts
// storage").
func (p *Packer) PackCoarseCounts(g *grid.Grid) []byte {
	total := 0
	for level := 0; level < grid.FineLevel; level++ {
		total += len(g.CoarseCounts[level])
	}
	buf := make([]byte, total*4)
	offset := 0
	for level := 0; level < grid.FineLevel; level++ {
		for _, count := range g.CoarseCounts[level] {
			binary.LittleEndian.PutUint32(buf[offset:offset+4], count)
			offset += 4
		}
	}
	return buf
}

// fineCellRecordSize returns the byte size of one fine-cell record:
// indices: u32[K]; count: u32; pad[3]: u32 (spec.md §6 "Fine cells storage").
// K is always grid.DefaultCellCapacity (see Packer.CellCapacity).
func fineCellRecordSize(capacity int) int {
	return (capacity + 4) * 4
}

// PackFineCells serializes the fine level's per-cell primitive index lists,
// one fixed-stride record per cell, in flat-index order (spec.md §6
// "indexed by x + y*dim3.x + z*dim3.x*dim3.y" — matches grid.Level.CellIndex).
func (p *Packer) PackFineCells(g *grid.Grid) []byte {
	recordSize := fineCellRecordSize(p.CellCapacity)
	buf := make([]byte, len(g.FineCells)*recordSize)

	for i, cell := range g.FineCells {
		rec := buf[i*recordSize : (i+1)*recordSize]
		for j := 0; j < p.CellCapacity; j++ {
			var idx uint32
			if j < len(cell.Indices) {
				idx = cell.Indices[j]
			}
			binary.LittleEndian.PutUint32(rec[j*4:j*4+4], idx)
		}
		countOffset := p.CellCapacity * 4
		binary.LittleEndian.PutUint32(rec[countOffset:countOffset+4], cell.Count)
		// trailing pad[3] left zeroed
	}
	return buf
}

// PackBoxes serializes every box in list, in order, as the boxes storage
// buffer (spec.md §6 "Boxes storage").
func (p *Packer) PackBoxes(list primitive.List) []byte {
	buf := make([]byte, 0, len(list.Boxes)*96)
	for _, b := range list.Boxes {
		gb := primitive.ToGPUBox(b)
		buf = append(buf, gb.Marshal()...)
	}
	return buf
}

// PackTriangles serializes every triangle in list, in order, as the
// triangles storage buffer (spec.md §6 "Triangles storage").
func (p *Packer) PackTriangles(list primitive.List) []byte {
	buf := make([]byte, 0, len(list.Triangles)*80)
	for _, t := range list.Triangles {
		gt := primitive.ToGPUTriangle(t)
		buf = append(buf, gt.Marshal()...)
	}
	return buf
}

// PackMaterials serializes list's material table as the materials storage
// buffer, always prepending primitive.NeutralMaterial at index 0 (spec.md
// §4.3's sentinel requirement; this repo decides the sentinel's index is 0
// since the spec does not say which index — see DESIGN.md). Caller-supplied
// material indices on triangles index list.Materials directly and are not
// shifted by the packer; the traversal kernel's materialAt adds one when it
// reads this buffer and falls back to the sentinel for out-of-range indices.
func (p *Packer) PackMaterials(list primitive.List) []byte {
	buf := make([]byte, 0, (len(list.Materials)+1)*64)
	sentinel := primitive.ToGPUMaterial(primitive.NeutralMaterial)
	buf = append(buf, sentinel.Marshal()...)
	for _, m := range list.Materials {
		gm := primitive.ToGPUMaterial(m)
		buf = append(buf, gm.Marshal()...)
	}
	return buf
}

// PackSceneConfig serializes the scene config uniform.
func (p *Packer) PackSceneConfig(list primitive.List) []byte {
	return GPUSceneConfig{
		NumBoxes:     uint32(list.NumBoxes()),
		NumTriangles: uint32(list.NumTriangles()),
	}.Marshal()
}

// PackDebugParams serializes the debug params uniform.
func (p *Packer) PackDebugParams(d GPUDebugParams) []byte {
	return d.Marshal()
}
