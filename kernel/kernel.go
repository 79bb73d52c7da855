// Package kernel owns the GPU traversal program: the WGSL compute shader
// that marches rays through the hierarchical grid, and the Go-side wrapper
// that registers its pipeline, owns its bind group, and dispatches it once
// per frame. See spec.md §4.4 and §6 ("Kernel dispatch contract").
package kernel

import (
	_ "embed"
	"fmt"

	"github.com/brightforge/voxeltrace/engine/renderer"
	"github.com/brightforge/voxeltrace/engine/renderer/bind_group_provider"
	"github.com/brightforge/voxeltrace/engine/renderer/pipeline"
	"github.com/brightforge/voxeltrace/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// TraversalSource is the canonical WGSL source of the traversal kernel,
// embedded for reference; nothing in the package reads it. The running shader is
// loaded from the same file by path via shader.NewShader, matching the
// teacher's demo mains' convention of loading WGSL assets from disk rather
// than from the embedded string.
//
//go:embed assets/traversal.wgsl
var TraversalSource string

// PipelineKey is the pipeline registry key the traversal kernel's compute
// pipeline is registered under.
const PipelineKey = "voxeltrace_traversal"

// WorkgroupSize matches the shader's @workgroup_size(8, 8, 1) (spec.md §6
// "Kernel dispatch contract").
const WorkgroupSize = 8

// Binding indices within bind group 0, in the order spec.md §6 lists them.
const (
	BindingCamera         = 0
	BindingGridMetadata   = 1
	BindingCoarseCounts   = 2
	BindingFineCells      = 3
	BindingBoxes          = 4
	BindingTriangles      = 5
	BindingMaterials      = 6
	BindingSceneConfig    = 7
	BindingDebugParams    = 8
	BindingDebugRecord    = 9
	BindingOutputTexture  = 10
)

// Kernel owns the traversal compute pipeline and its bind group provider. A
// Kernel is built once per renderer and reused across frames; only its
// buffers and output texture are rewritten per dispatch.
type Kernel struct {
	pipeline pipeline.Pipeline
	provider bind_group_provider.BindGroupProvider

	outputView *wgpu.TextureView
	outputTex  *wgpu.Texture
	width      int
	height     int
}

// New registers the traversal pipeline and its bind group against r, and
// allocates an output storage texture sized width x height. Grounded on the
// teacher's RegisterComputePipeline/InitBindGroup sequence used for the
// skeletal-animation compute pipeline in examples/scene_lit.go.
func New(r renderer.Renderer, width, height int) (*Kernel, error) {
	computeShader := shader.NewShader("voxeltrace_traversal", shader.ShaderTypeCompute, "kernel/assets/traversal.wgsl")

	p := pipeline.NewPipeline(PipelineKey, pipeline.PipelineTypeCompute, pipeline.WithComputeShader(computeShader))
	if err := r.RegisterPipelines(p); err != nil {
		return nil, fmt.Errorf("kernel: register compute pipeline: %w", err)
	}

	provider := bind_group_provider.NewBindGroupProvider("voxeltrace_traversal")

	outputView, outputTex, err := r.CreateOutputStorageTexture(width, height)
	if err != nil {
		return nil, fmt.Errorf("kernel: create output storage texture: %w", err)
	}
	provider.SetTextureView(BindingOutputTexture, outputView)

	k := &Kernel{pipeline: p, provider: provider, outputView: outputView, outputTex: outputTex, width: width, height: height}

	if err := r.InitBindGroup(provider, computeShader.BindGroupLayoutDescriptor(0), nil, nil); err != nil {
		return nil, fmt.Errorf("kernel: init bind group: %w", err)
	}

	return k, nil
}

// Resize reallocates the output storage texture at a new resolution. The
// bind group is rebuilt since the texture view binding changed.
func (k *Kernel) Resize(r renderer.Renderer, width, height int) error {
	if width == k.width && height == k.height {
		return nil
	}
	if k.outputTex != nil {
		k.outputTex.Release()
	}

	outputView, outputTex, err := r.CreateOutputStorageTexture(width, height)
	if err != nil {
		return fmt.Errorf("kernel: resize output storage texture: %w", err)
	}
	k.outputView, k.outputTex, k.width, k.height = outputView, outputTex, width, height
	k.provider.SetTextureView(BindingOutputTexture, outputView)
	k.provider.SetBindGroup(nil)

	computeShader := k.pipeline.Shader(shader.ShaderTypeCompute)
	return r.InitBindGroup(k.provider, computeShader.BindGroupLayoutDescriptor(0), nil, nil)
}

// BindScene rebuilds the kernel's bind group with explicit buffer sizes for
// the scene-dependent storage bindings (coarse counts, fine cells, boxes,
// triangles, materials) — their WGSL declarations are runtime-sized arrays,
// so InitBindGroup's MinBindingSize default cannot allocate them correctly.
// Each overridden binding's existing buffer is released and recreated at
// the new size; the debug record buffer also gets copy-source usage so it
// can be read back. Called by the orchestrator on SceneSource reload events,
// not per frame; mirrors Resize's SetBindGroup(nil)+InitBindGroup rebuild sequence.
func (k *Kernel) BindScene(r renderer.Renderer, sizeOverrides map[int]uint64) error {
	k.provider.SetBindGroup(nil)
	for binding := range sizeOverrides {
		if buf := k.provider.Buffer(binding); buf != nil {
			buf.Release()
			k.provider.SetBuffer(binding, nil)
		}
	}
	usage := map[int]wgpu.BufferUsage{BindingDebugRecord: wgpu.BufferUsageCopySrc}
	computeShader := k.pipeline.Shader(shader.ShaderTypeCompute)
	if err := r.InitBindGroup(k.provider, computeShader.BindGroupLayoutDescriptor(0), usage, sizeOverrides); err != nil {
		return fmt.Errorf("kernel: bind scene buffers: %w", err)
	}
	return nil
}

// Provider returns the kernel's bind group provider, for callers that need
// to issue BufferWrite entries (camera/debug/scene uniforms, grid and
// primitive storage buffers) before Dispatch.
func (k *Kernel) Provider() bind_group_provider.BindGroupProvider {
	return k.provider
}

// OutputView returns the current output storage texture view, for the
// orchestrator's Presenter.
func (k *Kernel) OutputView() *wgpu.TextureView {
	return k.outputView
}

// Dispatch issues one compute pass over ceil(width/8) x ceil(height/8)
// workgroups, matching spec.md §6's dispatch contract exactly. Must be
// called between r.BeginComputeFrame() and r.EndComputeFrame().
func (k *Kernel) Dispatch(r renderer.Renderer) {
	groupsX := (uint32(k.width) + WorkgroupSize - 1) / WorkgroupSize
	groupsY := (uint32(k.height) + WorkgroupSize - 1) / WorkgroupSize
	r.DispatchCompute(PipelineKey, k.provider, [3]uint32{groupsX, groupsY, 1})
}

// Release releases the kernel's device-owned output texture. The pipeline
// and bind group layout are owned by the renderer's registries and outlive
// individual Kernel instances.
func (k *Kernel) Release() {
	if k.outputTex != nil {
		k.outputTex.Release()
		k.outputTex = nil
	}
}
