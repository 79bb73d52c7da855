package grid

import (
	"log"
	"math"
	"sync"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/brightforge/voxeltrace/common"
	"github.com/brightforge/voxeltrace/primitive"
)

// BuildStats reports diagnostics from a Build call: counts that the
// orchestrator's logging sink surfaces rather than failing the build on
// (spec.md §7 "Error Handling Design" — grid construction degrades, it
// never aborts the frame).
type BuildStats struct {
	// ClampedCellSize is true if the requested fine cell size was adjusted
	// to stay inside [MinCell, scene diagonal].
	ClampedCellSize bool

	// ClampedDims is true if any level's per-axis cell count was clamped to
	// DimCap.
	ClampedDims bool

	// OverflowedCells counts the primitive-to-fine-cell assignments that were
	// dropped because the cell had reached DefaultCellCapacity; a cell that
	// refuses several primitives adds one per refused primitive.
	OverflowedCells int

	// EmptyScene is true if the primitive list was empty or its bounds were
	// invalid; the grid is then built over the fallback bounds [-1, 1]^3
	// with no primitives in it.
	EmptyScene bool
}

// Builder constructs a Grid from a primitive.List according to a Config.
type Builder struct {
	cfg Config
}

// NewBuilder returns a Builder configured by the given options.
func NewBuilder(options ...BuilderOption) *Builder {
	return &Builder{cfg: NewConfig(options...)}
}

// Build assigns every primitive in list to every grid cell its bound
// overlaps, across all four levels, and returns the populated Grid
// (spec.md §4.2 "Grid builder"). Coarse levels (0..2) only carry occupancy
// counts; the fine level (3) carries per-cell primitive index lists.
func (b *Builder) Build(list primitive.List) (*Grid, BuildStats, error) {
	var stats BuildStats

	n := list.NumPrimitives()
	bounds := sceneBounds(list)
	if n == 0 || !bounds.Valid() {
		stats.EmptyScene = true
		bounds = common.AABB{Min: common.Vec3{X: -1, Y: -1, Z: -1}, Max: common.Vec3{X: 1, Y: 1, Z: 1}}
	}

	fineSize, clampedSize := clampCellSize(b.cfg.FineCellSize, bounds)
	stats.ClampedCellSize = clampedSize

	g := &Grid{Bounds: bounds, Capacity: DefaultCellCapacity}
	dimCap := b.cfg.DimCap
	if dimCap < 1 {
		dimCap = 1
	}
	extent := bounds.Extent()
	for level := 0; level < NumLevels; level++ {
		shift := FineLevel - level
		cellSize := fineSize * float32(math.Pow(2, float64(shift)))
		dim := levelDim(extent, cellSize, dimCap)
		if dim[0] == dimCap || dim[1] == dimCap || dim[2] == dimCap {
			stats.ClampedDims = true
		}
		g.Levels[level] = Level{CellSize: cellSize, Dim: dim}
	}

	for level := 0; level < FineLevel; level++ {
		g.CoarseCounts[level] = make([]uint32, g.Levels[level].TotalCells())
	}
	fine := g.Levels[FineLevel]
	g.FineCells = make([]FineCell, fine.TotalCells())
	for i := range g.FineCells {
		g.FineCells[i] = FineCell{Indices: make([]uint32, 0, DefaultCellCapacity)}
	}

	if stats.EmptyScene {
		return g, stats, nil
	}

	mus := make([]sync.Mutex, len(g.FineCells))
	coarseMus := make([][]sync.Mutex, FineLevel)
	for level := 0; level < FineLevel; level++ {
		coarseMus[level] = make([]sync.Mutex, len(g.CoarseCounts[level]))
	}

	pool := worker.NewDynamicWorkerPool(workers(b.cfg.Workers), 256, 0)

	var wg sync.WaitGroup
	var overflowCount int64
	var overflowMu sync.Mutex

	for i := 0; i < n; i++ {
		idx := uint32(i)
		bound := list.Bounds(i)

		wg.Add(1)
		pool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				binPrimitive(g, bound, idx, mus, coarseMus, DefaultCellCapacity, &overflowMu, &overflowCount)
				return nil, nil
			},
		})
	}
	wg.Wait()

	stats.OverflowedCells = int(overflowCount)
	if stats.OverflowedCells > 0 {
		log.Printf("[grid] %d primitive-cell assignments dropped, fine cells at capacity %d", stats.OverflowedCells, DefaultCellCapacity)
	}

	return g, stats, nil
}

// binPrimitive assigns one primitive's bound into every level's cells it
// overlaps: the fine level gets the primitive's index appended to each
// overlapped cell's list (capped at capacity), coarse levels only get their
// occupancy counter incremented once per overlapped cell. Grounded directly
// on original_source/src/grid.rs HierarchicalGrid::assign_object, which
// computes coarse occupancy from the primitive's bound mapped into each
// coarse level's own cell coordinates rather than by propagating fine-cell
// lists upward.
func binPrimitive(g *Grid, bound common.AABB, idx uint32, fineMus []sync.Mutex, coarseMus [][]sync.Mutex, capacity int, overflowMu *sync.Mutex, overflowCount *int64) {
	for level := 0; level < NumLevels; level++ {
		l := g.Levels[level]
		lo, hi := cellsInBounds(g.Bounds, l, bound)

		for z := lo[2]; z <= hi[2]; z++ {
			for y := lo[1]; y <= hi[1]; y++ {
				for x := lo[0]; x <= hi[0]; x++ {
					ci := l.CellIndex(x, y, z)
					if level == FineLevel {
						mu := &fineMus[ci]
						mu.Lock()
						cell := &g.FineCells[ci]
						if int(cell.Count) < capacity {
							cell.Indices = append(cell.Indices, idx)
							cell.Count++
						} else {
							overflowMu.Lock()
							*overflowCount++
							overflowMu.Unlock()
						}
						mu.Unlock()
					} else {
						mu := &coarseMus[level][ci]
						mu.Lock()
						if g.CoarseCounts[level][ci] < math.MaxUint32 {
							g.CoarseCounts[level][ci]++
						}
						mu.Unlock()
					}
				}
			}
		}
	}
}

// cellsInBounds returns the inclusive [lo, hi] cell-coordinate range that
// bound overlaps within level l of a grid spanning gridBounds.
func cellsInBounds(gridBounds common.AABB, l Level, bound common.AABB) (lo, hi [3]int) {
	relMin := bound.Min.Sub(gridBounds.Min)
	relMax := bound.Max.Sub(gridBounds.Min)

	lo[0] = clampInt(int(math.Floor(float64(relMin.X/l.CellSize))), 0, l.Dim[0]-1)
	lo[1] = clampInt(int(math.Floor(float64(relMin.Y/l.CellSize))), 0, l.Dim[1]-1)
	lo[2] = clampInt(int(math.Floor(float64(relMin.Z/l.CellSize))), 0, l.Dim[2]-1)

	hi[0] = clampInt(int(math.Floor(float64(relMax.X/l.CellSize))), 0, l.Dim[0]-1)
	hi[1] = clampInt(int(math.Floor(float64(relMax.Y/l.CellSize))), 0, l.Dim[1]-1)
	hi[2] = clampInt(int(math.Floor(float64(relMax.Z/l.CellSize))), 0, l.Dim[2]-1)
	return
}

// sceneBounds computes the union of every primitive's motion envelope
// (boxes) or vertex bound (triangles) in list.
func sceneBounds(list primitive.List) common.AABB {
	bounds := common.EmptyAABB()
	for i := 0; i < list.NumPrimitives(); i++ {
		bounds = bounds.Union(list.Bounds(i))
	}
	return bounds
}

// clampCellSize clamps the requested fine cell size into
// [MinCell, scene diagonal] (spec.md §7 "Tiny or zero cell size").
func clampCellSize(requested float32, bounds common.AABB) (size float32, clamped bool) {
	diag := bounds.Diagonal()
	if diag <= 0 {
		diag = 1
	}
	size = requested
	if size < MinCell {
		size, clamped = MinCell, true
	}
	if size > diag {
		size, clamped = diag, true
	}
	return
}

// levelDim computes a level's per-axis cell count from the scene's
// componentwise extent and the level's cell size, each axis clamped to
// [1, dimCap] independently (spec.md §3: dim_L = ceil((bounds.max -
// bounds.min) / s_L), matching original_source/src/grid.rs's
// calculate_grid_dimensions, which divides extent.x/y/z by cell_size
// separately rather than scaling a scalar diagonal uniformly across axes).
func levelDim(extent common.Vec3, cellSize float32, dimCap int) [3]int {
	nx := clampInt(int(math.Ceil(float64(extent.X/cellSize))), 1, dimCap)
	ny := clampInt(int(math.Ceil(float64(extent.Y/cellSize))), 1, dimCap)
	nz := clampInt(int(math.Ceil(float64(extent.Z/cellSize))), 1, dimCap)
	return [3]int{nx, ny, nz}
}

func workers(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
