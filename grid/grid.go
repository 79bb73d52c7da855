// Package grid builds and holds the four-level hierarchical uniform grid
// described in spec.md §3 and §4.2 ("Grid builder"). The grid assigns every
// primitive to each cell its current-frame bound overlaps, across the fine
// level and three coarser occupancy-only levels.
package grid

import (
	"github.com/brightforge/voxeltrace/common"
)

// NumLevels is the number of grid resolutions (spec.md §3: "four levels
// indexed L=0..3").
const NumLevels = 4

// FineLevel is the index of the finest grid level — the only level whose
// per-cell primitive lists are consulted by the traversal kernel.
const FineLevel = NumLevels - 1

// Level describes one grid resolution: its cell size and per-axis cell
// count.
type Level struct {
	CellSize float32
	Dim      [3]int
}

// TotalCells returns Dim.X * Dim.Y * Dim.Z.
func (l Level) TotalCells() int {
	return l.Dim[0] * l.Dim[1] * l.Dim[2]
}

// CellIndex computes the flat index of cell (x, y, z) within this level,
// matching the fine-cells storage buffer's indexing contract (spec.md §6:
// "indexed by x + y*dim3.x + z*dim3.x*dim3.y").
func (l Level) CellIndex(x, y, z int) int {
	return x + y*l.Dim[0] + z*l.Dim[0]*l.Dim[1]
}

// FineCell is a fixed-capacity list of primitive indices for one fine-grid
// cell, plus a count. Capacity is DefaultCellCapacity (spec.md §3:
// "capacity K, typically 64-256").
type FineCell struct {
	Indices []uint32
	Count   uint32
}

// Grid is the built hierarchical grid: the scene AABB, four level
// descriptors, coarse occupancy counts for levels 0..2, and the fine
// level's per-cell primitive lists.
type Grid struct {
	Bounds common.AABB
	Levels [NumLevels]Level

	// CoarseCounts holds one []uint32 per coarse level (indices 0..2),
	// each sized Levels[L].TotalCells().
	CoarseCounts [FineLevel][]uint32

	// FineCells holds Levels[FineLevel].TotalCells() entries.
	FineCells []FineCell

	// Capacity is always DefaultCellCapacity; see its doc comment for why
	// this is not configurable per grid.
	Capacity int
}

// WorldToCell converts a world-space point into fine-grid cell coordinates,
// clamped into [0, dim-1] on every axis (spec.md §4.2 step 4 and §8's
// "Round-trip" law).
func (g *Grid) WorldToCell(p common.Vec3) (x, y, z int) {
	fine := g.Levels[FineLevel]
	rel := p.Sub(g.Bounds.Min)
	x = clampInt(int(rel.X/fine.CellSize), 0, fine.Dim[0]-1)
	y = clampInt(int(rel.Y/fine.CellSize), 0, fine.Dim[1]-1)
	z = clampInt(int(rel.Z/fine.CellSize), 0, fine.Dim[2]-1)
	return
}

// FineCellAt returns the fine cell at (x, y, z), or nil if out of range.
func (g *Grid) FineCellAt(x, y, z int) *FineCell {
	fine := g.Levels[FineLevel]
	if x < 0 || y < 0 || z < 0 || x >= fine.Dim[0] || y >= fine.Dim[1] || z >= fine.Dim[2] {
		return nil
	}
	return &g.FineCells[fine.CellIndex(x, y, z)]
}

// CoarseCountAt returns the occupancy count at coarse level L (0..2) for
// cell (x, y, z).
func (g *Grid) CoarseCountAt(level int, x, y, z int) uint32 {
	l := g.Levels[level]
	if x < 0 || y < 0 || z < 0 || x >= l.Dim[0] || y >= l.Dim[1] || z >= l.Dim[2] {
		return 0
	}
	return g.CoarseCounts[level][l.CellIndex(x, y, z)]
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
