package grid

// MinCell is the smallest permitted fine-cell size (spec.md §7: "Tiny or
// zero cell size -> clamped to MIN_CELL").
const MinCell float32 = 1e-3

// DefaultDimCap is the default per-axis dimension clamp (spec.md §3:
// "clamped componentwise to [1, DIM_MAX]").
const DefaultDimCap = 256

// DefaultCellCapacity is the fixed per-fine-cell primitive-index capacity K
// (spec.md §3: "capacity K, typically 64-256"). This is not exposed as a
// BuilderOption: it must equal kernel/assets/traversal.wgsl's
// MAX_CELL_INDICES constant, which sizes the shader's FineCell.indices
// array at compile time. Changing one without the other desynchronizes
// buffer.Packer's fixed-stride fine-cell records from what the shader
// reads, silently corrupting every fine-cell lookup past whichever value
// is smaller.
const DefaultCellCapacity = 128

// Config holds the grid builder's tunable parameters (spec.md §6
// "Configuration options recognized": fine_cell_size, grid_dim_cap). K is
// deliberately not a Config field — see DefaultCellCapacity.
type Config struct {
	FineCellSize float32
	DimCap       int
	Workers      int
}

// BuilderOption is a functional option applied to a Config during
// construction, matching the teacher's RendererBuilderOption /
// CameraBuilderOption convention.
type BuilderOption func(*Config)

// WithFineCellSize sets the requested fine-level cell size s3. It is
// clamped to [MinCell, scene_diagonal] during Build.
func WithFineCellSize(size float32) BuilderOption {
	return func(c *Config) { c.FineCellSize = size }
}

// WithDimCap sets the maximum per-axis cell count at any level
// (spec.md §6 "grid_dim_cap").
func WithDimCap(cap int) BuilderOption {
	return func(c *Config) { c.DimCap = cap }
}

// WithWorkers sets the worker-pool size used to parallelize per-primitive
// binning. Defaults to a small fixed pool if unset (0).
func WithWorkers(n int) BuilderOption {
	return func(c *Config) { c.Workers = n }
}

// NewConfig builds a Config with sane defaults, then applies options.
func NewConfig(options ...BuilderOption) Config {
	c := Config{
		FineCellSize: 1.0,
		DimCap:       DefaultDimCap,
		Workers:      4,
	}
	for _, opt := range options {
		opt(&c)
	}
	return c
}
