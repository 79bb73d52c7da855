package frame

import (
	"testing"

	"github.com/brightforge/voxeltrace/grid"
	"github.com/stretchr/testify/assert"
)

func TestOrchestratorBuilderOptionsApplyToConfig(t *testing.T) {
	cfg := Config{}
	for _, opt := range []OrchestratorBuilderOption{
		WithFOV(1.2),
		WithLODFactor(0.5),
		WithMinPixelSize(2.0),
		WithShowGrid(true),
		WithGridOptions(grid.WithWorkers(2)),
	} {
		opt(&cfg)
	}

	assert.Equal(t, float32(1.2), cfg.FOV)
	assert.Equal(t, float32(0.5), cfg.LODFactor)
	assert.Equal(t, float32(2.0), cfg.MinPixelSize)
	assert.True(t, cfg.ShowGrid)
	assert.Len(t, cfg.GridOptions, 1)
}

func TestSetDebugPixelEnablesDebugAndDisableClearsFlag(t *testing.T) {
	o := &Orchestrator{}
	assert.False(t, o.debugEnabled)

	o.SetDebugPixel(3, 4)
	assert.True(t, o.debugEnabled)
	assert.Equal(t, uint32(3), o.debugX)
	assert.Equal(t, uint32(4), o.debugY)

	o.DisableDebug()
	assert.False(t, o.debugEnabled)
	// Disabling does not forget the last designated pixel.
	assert.Equal(t, uint32(3), o.debugX)
}

func TestDiagnoseIsNonBlockingAndDropsWhenChannelFull(t *testing.T) {
	o := &Orchestrator{Diagnostics: make(chan Diagnostic, 1)}

	o.diagnose("GridBuilder", "first warning")
	o.diagnose("GridBuilder", "second warning dropped")

	select {
	case d := <-o.Diagnostics:
		assert.Equal(t, "GridBuilder", d.Subsystem)
		assert.Equal(t, "first warning", d.Message)
	default:
		t.Fatal("expected the first diagnostic to be buffered")
	}

	select {
	case <-o.Diagnostics:
		t.Fatal("channel should be empty after draining the single buffered slot")
	default:
	}
}

func TestFrameCountStartsAtZeroAndIsMonotonic(t *testing.T) {
	o := &Orchestrator{}
	assert.Equal(t, uint64(0), o.FrameCount())

	o.frameCount.Add(1)
	o.frameCount.Add(1)
	assert.Equal(t, uint64(2), o.FrameCount())
}
