// Package frame owns the per-frame orchestration that replaces the
// teacher's multi-scene draw loop with a single bound scene and one
// kernel.Dispatch call per frame (spec.md §4.5, §6). Each frame writes the
// per-frame uniforms, then runs BeginComputeFrame → Dispatch →
// EndComputeFrame → present; the uniform writes follow
// camera/gpu_types.go's uniform-write pattern.
package frame

import (
	"context"
	"fmt"
	"log"
	"math"
	"sync/atomic"

	"github.com/brightforge/voxeltrace/buffer"
	"github.com/brightforge/voxeltrace/engine/renderer"
	"github.com/brightforge/voxeltrace/engine/renderer/bind_group_provider"
	"github.com/brightforge/voxeltrace/grid"
	"github.com/brightforge/voxeltrace/kernel"
	"github.com/brightforge/voxeltrace/primitive"
	"github.com/cogentcore/webgpu/wgpu"
)

// Diagnostic is a one-shot, non-fatal warning surfaced by a scene reload or
// a frame (spec.md §7: tiny cell size clamp, grid dimension clamp, fine-cell
// overflow). Subsystem matches the teacher's bracketed log tag convention
// (e.g. "[GridBuilder]").
type Diagnostic struct {
	Subsystem string
	Message   string
}

// Config collects the construction-time options for an Orchestrator,
// following the teacher's FooBuilderOption convention (camera.go,
// scene.go).
type Config struct {
	GridOptions []grid.BuilderOption

	// FOV is the vertical field of view in radians, used to derive the
	// camera uniform's fov_scale = tan(fov/2) (spec.md §4.4 step 1). Not a
	// CameraProvider concern: pose() reports position/orientation only.
	FOV float32
	// LODFactor scales the original_source LOD heuristic's apparent_size
	// term (spec.md §9 Open Question, carried as an optional quality dial
	// rather than a hard skip).
	LODFactor float32
	// MinPixelSize is the apparent-size threshold below which the LOD
	// heuristic would cull a primitive, when LODFactor > 0.
	MinPixelSize float32
	// ShowGrid overlays fine-cell boundaries as green seams on hit surfaces
	// (spec.md §6 "Configuration options recognized").
	ShowGrid bool
}

// OrchestratorBuilderOption configures an Orchestrator at construction.
type OrchestratorBuilderOption func(*Config)

// WithGridOptions forwards options to the underlying grid.Builder.
func WithGridOptions(options ...grid.BuilderOption) OrchestratorBuilderOption {
	return func(c *Config) { c.GridOptions = append(c.GridOptions, options...) }
}

// WithFOV sets the vertical field of view in radians.
func WithFOV(fov float32) OrchestratorBuilderOption {
	return func(c *Config) { c.FOV = fov }
}

// WithLODFactor sets the LOD culling heuristic's scale factor.
func WithLODFactor(factor float32) OrchestratorBuilderOption {
	return func(c *Config) { c.LODFactor = factor }
}

// WithMinPixelSize sets the apparent-size threshold for LOD culling.
func WithMinPixelSize(size float32) OrchestratorBuilderOption {
	return func(c *Config) { c.MinPixelSize = size }
}

// WithShowGrid enables or disables the fine-cell boundary overlay.
func WithShowGrid(show bool) OrchestratorBuilderOption {
	return func(c *Config) { c.ShowGrid = show }
}

// Orchestrator binds one Scene (primitives + grid + packed buffers) to a
// renderer and a traversal Kernel, and drives the per-frame compute dispatch
// and presentation. Replaces the teacher's per-scene PrepareCompute/DrawCalls
// fan-out with a single kernel.Dispatch, matching spec.md's "one compute
// invocation per frame" contract.
type Orchestrator struct {
	r      renderer.Renderer
	kernel *kernel.Kernel
	packer *buffer.Packer
	cfg    Config

	width, height int

	scene primitive.List
	built *grid.Grid

	debugX, debugY uint32
	debugEnabled   bool

	// frameCount is read externally via FrameCount(); the kernel itself
	// never reads it (spec.md Design Notes: "replace global mutable frame
	// counter with an atomic counter, don't expose to the kernel").
	frameCount atomic.Uint64

	// Diagnostics receives one-shot warnings from LoadScene and RenderFrame.
	// Buffered and drained lossily: a full channel drops the diagnostic
	// rather than blocking the render loop, mirroring the teacher's
	// single-slot tickRateChannel convention of a channel sized for "latest
	// pending value" rather than a queue guaranteed to deliver everything.
	Diagnostics chan Diagnostic
}

// New constructs an Orchestrator bound to r, with a Kernel sized width x
// height already registered against r. Grounded on kernel.New's
// construction sequence; the caller still owns scene loading via LoadScene.
func New(r renderer.Renderer, width, height int, options ...OrchestratorBuilderOption) (*Orchestrator, error) {
	cfg := Config{
		FOV:          45.0 * (math.Pi / 180.0),
		MinPixelSize: 1.0,
	}
	for _, opt := range options {
		opt(&cfg)
	}

	k, err := kernel.New(r, width, height)
	if err != nil {
		return nil, fmt.Errorf("frame: construct kernel: %w", err)
	}

	return &Orchestrator{
		r:           r,
		kernel:      k,
		packer:      buffer.NewPacker(),
		cfg:         cfg,
		width:       width,
		height:      height,
		Diagnostics: make(chan Diagnostic, 16),
	}, nil
}

func (o *Orchestrator) diagnose(subsystem, format string, args ...any) {
	d := Diagnostic{Subsystem: subsystem, Message: fmt.Sprintf(format, args...)}
	log.Printf("[%s] %s", d.Subsystem, d.Message)
	select {
	case o.Diagnostics <- d:
	default:
	}
}

// LoadScene pulls a new primitive.List from source, rebuilds the
// hierarchical grid, repacks every device buffer, and rebinds the kernel's
// bind group with the new scene-dependent buffer sizes. Called on reload
// events (spec.md §6), not per frame — grid building and buffer packing run
// on the calling thread and block until complete (spec.md §5 "Host side").
func (o *Orchestrator) LoadScene(source SceneSource) error {
	list, err := source.Load()
	if err != nil {
		return fmt.Errorf("frame: load scene: %w", err)
	}

	builder := grid.NewBuilder(o.cfg.GridOptions...)
	built, stats, err := builder.Build(list)
	if err != nil {
		return fmt.Errorf("frame: build grid: %w", err)
	}
	if stats.ClampedCellSize {
		o.diagnose("GridBuilder", "requested fine cell size clamped to [%g, scene diagonal]", grid.MinCell)
	}
	if stats.ClampedDims {
		o.diagnose("GridBuilder", "grid dimension clamped to dim cap")
	}
	if stats.OverflowedCells > 0 {
		o.diagnose("GridBuilder", "%d primitive-cell assignment(s) dropped, fine cells at capacity", stats.OverflowedCells)
	}
	if stats.EmptyScene {
		o.diagnose("GridBuilder", "empty or degenerate scene, using fallback unit grid")
	}

	o.scene = list
	o.built = built

	sizes := map[int]uint64{
		kernel.BindingCoarseCounts: uint64(len(o.packer.PackCoarseCounts(built))),
		kernel.BindingFineCells:    uint64(len(o.packer.PackFineCells(built))),
		kernel.BindingBoxes:        uint64(max(len(o.packer.PackBoxes(list)), 16)),
		kernel.BindingTriangles:    uint64(max(len(o.packer.PackTriangles(list)), 16)),
		kernel.BindingMaterials:    uint64(len(o.packer.PackMaterials(list))),
		kernel.BindingDebugRecord:  uint64(kernel.DebugRecordSize),
	}
	if err := o.kernel.BindScene(o.r, sizes); err != nil {
		return fmt.Errorf("frame: bind scene: %w", err)
	}

	provider := o.kernel.Provider()
	o.r.WriteBuffers([]bind_group_provider.BufferWrite{
		{Provider: provider, Binding: kernel.BindingGridMetadata, Data: o.packer.PackGridMetadata(built)},
		{Provider: provider, Binding: kernel.BindingCoarseCounts, Data: o.packer.PackCoarseCounts(built)},
		{Provider: provider, Binding: kernel.BindingFineCells, Data: o.packer.PackFineCells(built)},
		{Provider: provider, Binding: kernel.BindingBoxes, Data: o.packer.PackBoxes(list)},
		{Provider: provider, Binding: kernel.BindingTriangles, Data: o.packer.PackTriangles(list)},
		{Provider: provider, Binding: kernel.BindingMaterials, Data: o.packer.PackMaterials(list)},
		{Provider: provider, Binding: kernel.BindingSceneConfig, Data: o.packer.PackSceneConfig(list)},
	})

	return nil
}

// SetDebugPixel designates the pixel the kernel writes a DebugRecord for and
// enables debug capture (spec.md §4.6, §6). Takes effect on the next
// RenderFrame call — the debug params uniform is written there.
func (o *Orchestrator) SetDebugPixel(x, y uint32) {
	o.debugX, o.debugY = x, y
	o.debugEnabled = true
}

// DisableDebug stops writing a DebugRecord on subsequent frames.
func (o *Orchestrator) DisableDebug() {
	o.debugEnabled = false
}

// RenderFrame writes the camera and debug-params uniforms from cam's
// current pose, dispatches the traversal kernel, and hands the resulting
// output texture to presenter, in this order: per-frame uniform writes →
// BeginComputeFrame → Dispatch → EndComputeFrame → present.
func (o *Orchestrator) RenderFrame(cam CameraProvider, presenter Presenter) error {
	position, forward, right, up, elapsed := cam.Pose()

	showGrid := float32(0)
	if o.cfg.ShowGrid {
		showGrid = 1
	}
	camUniform := buffer.GPUCamera{
		Position:     position.Array(),
		Forward:      forward.Array(),
		Right:        right.Array(),
		Up:           up.Array(),
		Time:         elapsed,
		LODFactor:    o.cfg.LODFactor,
		MinPixelSize: o.cfg.MinPixelSize,
		ShowGrid:     showGrid,
		Aspect:       float32(o.width) / float32(o.height),
		FOVScale:     float32(math.Tan(float64(o.cfg.FOV) / 2)),
	}

	provider := o.kernel.Provider()
	debugEnabled := uint32(0)
	if o.debugEnabled {
		debugEnabled = 1
	}
	o.r.WriteBuffers([]bind_group_provider.BufferWrite{
		{Provider: provider, Binding: kernel.BindingCamera, Data: o.packer.PackCamera(camUniform)},
		{Provider: provider, Binding: kernel.BindingDebugParams, Data: o.packer.PackDebugParams(buffer.GPUDebugParams{
			DebugPixel: [2]uint32{o.debugX, o.debugY},
			Enabled:    debugEnabled,
		})},
	})

	if err := o.r.BeginComputeFrame(); err != nil {
		o.diagnose("Orchestrator", "dispatch skipped: %v", err)
		return fmt.Errorf("frame: begin compute frame: %w", err)
	}
	o.kernel.Dispatch(o.r)
	o.r.EndComputeFrame()

	o.frameCount.Add(1)

	if presenter != nil {
		if err := presenter.Present(o.kernel.OutputView()); err != nil {
			return fmt.Errorf("frame: present: %w", err)
		}
	}
	return nil
}

// FrameCount returns the number of frames rendered so far. External
// telemetry only — the kernel never reads this value.
func (o *Orchestrator) FrameCount() uint64 {
	return o.frameCount.Load()
}

// OutputView exposes the kernel's current output storage texture view
// directly, for integrators that need it outside the normal RenderFrame
// present path (e.g. a UI overlay compositing step). Callers must not hold
// onto it past the next Resize.
func (o *Orchestrator) OutputView() *wgpu.TextureView {
	return o.kernel.OutputView()
}

// ReadDebugRecord copies the kernel's single-element debug record storage
// buffer into a MapRead buffer and decodes it. Not part of the teacher's
// precedent — cogentcore/webgpu's MapAsync/GetMappedRange idiom is used
// nowhere else in the pack for a readback path, so this follows the
// library's own idiomatic shape rather than a teacher pattern directly.
func (o *Orchestrator) ReadDebugRecord(ctx context.Context) (kernel.DebugRecord, error) {
	if err := ctx.Err(); err != nil {
		return kernel.DebugRecord{}, err
	}

	src := o.kernel.Provider().Buffer(kernel.BindingDebugRecord)
	if src == nil {
		return kernel.DebugRecord{}, fmt.Errorf("frame: debug record buffer not bound, call LoadScene first")
	}

	readback, err := o.r.CreateReadbackBuffer(kernel.DebugRecordSize)
	if err != nil {
		return kernel.DebugRecord{}, fmt.Errorf("frame: create readback buffer: %w", err)
	}
	defer readback.Release()

	if err := o.r.CopyBufferToBuffer(src, 0, readback, 0, uint64(kernel.DebugRecordSize)); err != nil {
		return kernel.DebugRecord{}, fmt.Errorf("frame: copy debug record: %w", err)
	}

	buf, err := o.r.ReadBuffer(readback, kernel.DebugRecordSize)
	if err != nil {
		return kernel.DebugRecord{}, fmt.Errorf("frame: read debug record: %w", err)
	}

	return kernel.DecodeDebugRecord(buf), nil
}

// Resize reallocates the kernel's output storage texture and re-derives the
// camera aspect ratio used by subsequent RenderFrame calls.
func (o *Orchestrator) Resize(width, height int) error {
	if err := o.kernel.Resize(o.r, width, height); err != nil {
		return err
	}
	o.width, o.height = width, height
	return nil
}
