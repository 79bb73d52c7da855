package frame

import (
	"github.com/brightforge/voxeltrace/common"
	"github.com/brightforge/voxeltrace/primitive"
	"github.com/cogentcore/webgpu/wgpu"
)

// CameraProvider supplies the camera pose the orchestrator writes into the
// camera uniform once per frame (spec.md §6: "CameraProvider::pose() →
// (position, forward, right, up, elapsed_time) — called once per frame.").
// The teacher inlines this into Camera/CameraController; here it is pulled
// out as its own collaborator since the core has no camera of its own.
type CameraProvider interface {
	Pose() (position, forward, right, up common.Vec3, elapsedTime float32)
}

// SceneSource supplies the primitive list the orchestrator packs into the
// device-resident storage buffers on a reload (spec.md §6:
// "SceneSource::load() → (boxes, triangles, materials) — called on reload
// events."). Unlike CameraProvider, Load is not called every frame.
type SceneSource interface {
	Load() (primitive.List, error)
}

// Presenter receives the kernel's output storage texture after dispatch
// (spec.md §6: "Presenter::present(texture) — called after dispatch."). A
// demo Presenter blits the texture into the swapchain; the core never
// presents anything itself.
type Presenter interface {
	Present(texture *wgpu.TextureView) error
}
