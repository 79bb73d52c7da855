// Package buffer packs host-side primitive.List and grid.Grid data into the
// exact device buffer layouts the traversal kernel expects. See spec.md §4.3
// and §6 ("External Interfaces").
package buffer

import (
	"encoding/binary"
	"math"
)

// GPUCamera is the camera uniform's on-device layout (144 bytes). The
// explicit field list in spec.md §6 ("position, forward, right, up+time,
// lod_factor, min_pixel_size, show_grid, pad") sums to 80 bytes; this repo
// resolves the declared 144-byte total (an unstated detail — decided here,
// see DESIGN.md) by adding the aspect/fov_scale pair step 1's ray-generation
// math requires but the prose never assigns a uniform slot, then reserving
// three further vec4 slots, matching std140's practice of over-aligning
// uniform buffers with slack for forward-compatible fields (the same
// trailing-pad convention the teacher's GPUCameraUniform already follows).
type GPUCamera struct {
	Position      [3]float32
	Forward       [3]float32
	Right         [3]float32
	Up            [3]float32
	Time          float32
	LODFactor     float32
	MinPixelSize  float32
	ShowGrid      float32
	Aspect        float32
	FOVScale      float32
}

// Size returns the byte size of the packed camera uniform.
func (GPUCamera) Size() int { return 144 }

// Marshal serializes the camera uniform.
func (c GPUCamera) Marshal() []byte {
	buf := make([]byte, 144)
	putVec3(buf[0:], c.Position)
	putVec3(buf[16:], c.Forward)
	putVec3(buf[32:], c.Right)
	putVec3(buf[48:], c.Up)
	binary.LittleEndian.PutUint32(buf[60:64], math.Float32bits(c.Time))
	binary.LittleEndian.PutUint32(buf[64:68], math.Float32bits(c.LODFactor))
	binary.LittleEndian.PutUint32(buf[68:72], math.Float32bits(c.MinPixelSize))
	binary.LittleEndian.PutUint32(buf[72:76], math.Float32bits(c.ShowGrid))
	binary.LittleEndian.PutUint32(buf[76:80], 0)
	binary.LittleEndian.PutUint32(buf[80:84], math.Float32bits(c.Aspect))
	binary.LittleEndian.PutUint32(buf[84:88], math.Float32bits(c.FOVScale))
	// Remaining 56 bytes (offsets 88..144) are reserved padding.
	return buf
}

// GPUGridMetadata is the grid metadata uniform's on-device layout (96
// bytes): bounds_min+num_levels, bounds_max+finest_cell_size, then
// grid_sizes[4] as uvec4 (dims in xyz, w unused).
type GPUGridMetadata struct {
	BoundsMin      [3]float32
	NumLevels      uint32
	BoundsMax      [3]float32
	FinestCellSize float32
	GridSizes      [4][3]uint32
}

// Size returns the byte size of the packed grid metadata uniform.
func (GPUGridMetadata) Size() int { return 96 }

// Marshal serializes the grid metadata uniform.
func (m GPUGridMetadata) Marshal() []byte {
	buf := make([]byte, 96)
	putVec3(buf[0:], m.BoundsMin)
	binary.LittleEndian.PutUint32(buf[12:16], m.NumLevels)
	putVec3(buf[16:], m.BoundsMax)
	binary.LittleEndian.PutUint32(buf[28:32], math.Float32bits(m.FinestCellSize))
	for i, dim := range m.GridSizes {
		off := 32 + i*16
		binary.LittleEndian.PutUint32(buf[off:off+4], dim[0])
		binary.LittleEndian.PutUint32(buf[off+4:off+8], dim[1])
		binary.LittleEndian.PutUint32(buf[off+8:off+12], dim[2])
		binary.LittleEndian.PutUint32(buf[off+12:off+16], 0)
	}
	return buf
}

// GPUSceneConfig is the scene config uniform's on-device layout (16 bytes).
type GPUSceneConfig struct {
	NumBoxes     uint32
	NumTriangles uint32
}

// Size returns the byte size of the packed scene config uniform.
func (GPUSceneConfig) Size() int { return 16 }

// Marshal serializes the scene config uniform.
func (s GPUSceneConfig) Marshal() []byte {
	buf := make([]byte, 16)
	binary.LittleEndian.PutUint32(buf[0:4], s.NumBoxes)
	binary.LittleEndian.PutUint32(buf[4:8], s.NumTriangles)
	return buf
}

// GPUDebugParams is the debug params uniform's on-device layout (16 bytes).
type GPUDebugParams struct {
	DebugPixel [2]uint32
	Enabled    uint32
}

// Size returns the byte size of the packed debug params uniform.
func (GPUDebugParams) Size() int { return 16 }

// Marshal serializes the debug params uniform.
func (d GPUDebugParams) Marshal() []byte {
	buf := make([]byte, 16)
	binary.LittleEndian.PutUint32(buf[0:4], d.DebugPixel[0])
	binary.LittleEndian.PutUint32(buf[4:8], d.DebugPixel[1])
	binary.LittleEndian.PutUint32(buf[8:12], d.Enabled)
	return buf
}

func putVec3(buf []byte, v [3]float32) {
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(v[0]))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(v[1]))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(v[2]))
}
