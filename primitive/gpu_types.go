package primitive

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUBoxSource is the canonical WGSL definition of the BoxData struct.
// Matches GPUBox layout exactly (96 bytes, std430 aligned). See spec.md §6
// ("Boxes storage").
//
//go:embed assets/box.wgsl
var GPUBoxSource string

// GPUBox is the GPU-aligned representation of a single Box. Matches the
// WGSL BoxData struct layout exactly (see GPUBoxSource).
// Size: 96 bytes (six 16-byte vec4 slots).
type GPUBox struct {
	Min          [3]float32
	IsMoving     float32
	Max          [3]float32
	_pad0        float32
	Color        [3]float32
	Reflectivity float32
	Center0      [3]float32
	_pad1        float32
	Center1      [3]float32
	_pad2        float32
	HalfSize     [3]float32
	_pad3        float32
}

// Size returns the size of the GPUBox struct in bytes.
func (g *GPUBox) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUBox struct into a byte buffer suitable for GPU
// upload.
func (g *GPUBox) Marshal() []byte {
	buf := make([]byte, 96)
	putVec3(buf[0:], g.Min)
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(g.IsMoving))
	putVec3(buf[16:], g.Max)
	binary.LittleEndian.PutUint32(buf[28:32], 0)
	putVec3(buf[32:], g.Color)
	binary.LittleEndian.PutUint32(buf[44:48], math.Float32bits(g.Reflectivity))
	putVec3(buf[48:], g.Center0)
	binary.LittleEndian.PutUint32(buf[60:64], 0)
	putVec3(buf[64:], g.Center1)
	binary.LittleEndian.PutUint32(buf[76:80], 0)
	putVec3(buf[80:], g.HalfSize)
	binary.LittleEndian.PutUint32(buf[92:96], 0)
	return buf
}

// ToGPUBox converts a Box into its GPU-aligned representation. Min/Max is
// always the motion envelope (spec.md §9's decided convention — see Box
// doc comment in primitive.go).
func ToGPUBox(b Box) GPUBox {
	moving := float32(0)
	if b.Moving {
		moving = 1
	}
	return GPUBox{
		Min:          b.Min.Array(),
		IsMoving:     moving,
		Max:          b.Max.Array(),
		Color:        b.Color.Array(),
		Reflectivity: b.Reflectivity,
		Center0:      b.Center0.Array(),
		Center1:      b.Center1.Array(),
		HalfSize:     b.HalfSize.Array(),
	}
}

// GPUTriangleSource is the canonical WGSL definition of the TriangleData
// struct. Matches GPUTriangle layout exactly (80 bytes, std430 aligned).
//
//go:embed assets/triangle.wgsl
var GPUTriangleSource string

// GPUTriangle is the GPU-aligned representation of a single Triangle.
// Size: 80 bytes.
type GPUTriangle struct {
	V0         [3]float32
	MaterialID float32
	V1         [3]float32
	_pad0      float32
	V2         [3]float32
	_pad1      float32
	UV0        [2]float32
	UV1        [2]float32
	UV2        [2]float32
	_pad2      [2]float32
}

// Size returns the size of the GPUTriangle struct in bytes.
func (g *GPUTriangle) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUTriangle struct into a byte buffer suitable for
// GPU upload.
func (g *GPUTriangle) Marshal() []byte {
	buf := make([]byte, 80)
	putVec3(buf[0:], g.V0)
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(g.MaterialID))
	putVec3(buf[16:], g.V1)
	binary.LittleEndian.PutUint32(buf[28:32], 0)
	putVec3(buf[32:], g.V2)
	binary.LittleEndian.PutUint32(buf[44:48], 0)
	binary.LittleEndian.PutUint32(buf[48:52], math.Float32bits(g.UV0[0]))
	binary.LittleEndian.PutUint32(buf[52:56], math.Float32bits(g.UV0[1]))
	binary.LittleEndian.PutUint32(buf[56:60], math.Float32bits(g.UV1[0]))
	binary.LittleEndian.PutUint32(buf[60:64], math.Float32bits(g.UV1[1]))
	binary.LittleEndian.PutUint32(buf[64:68], math.Float32bits(g.UV2[0]))
	binary.LittleEndian.PutUint32(buf[68:72], math.Float32bits(g.UV2[1]))
	binary.LittleEndian.PutUint32(buf[72:76], 0)
	binary.LittleEndian.PutUint32(buf[76:80], 0)
	return buf
}

// ToGPUTriangle converts a Triangle into its GPU-aligned representation.
func ToGPUTriangle(t Triangle) GPUTriangle {
	return GPUTriangle{
		V0: t.V0.Array(), MaterialID: float32(t.MaterialID),
		V1: t.V1.Array(),
		V2: t.V2.Array(),
		UV0: t.UV0, UV1: t.UV1, UV2: t.UV2,
	}
}

// GPUMaterialSource is the canonical WGSL definition of the MaterialData
// struct. Matches GPUMaterial layout exactly (64 bytes, std430 aligned).
//
//go:embed assets/material.wgsl
var GPUMaterialSource string

// GPUMaterial is the GPU-aligned representation of a single Material.
// Size: 64 bytes.
type GPUMaterial struct {
	BaseColor            [4]float32
	Emissive             [3]float32
	TextureIndex         int32
	Metallic             float32
	Roughness            float32
	NormalTextureIndex   int32
	EmissiveTextureIndex int32
	AlphaMode            uint32
	AlphaCutoff          float32
	_pad                 [2]float32
}

// Size returns the size of the GPUMaterial struct in bytes.
func (g *GPUMaterial) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUMaterial struct into a byte buffer suitable for
// GPU upload.
func (g *GPUMaterial) Marshal() []byte {
	buf := make([]byte, 64)
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(g.BaseColor[0]))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(g.BaseColor[1]))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(g.BaseColor[2]))
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(g.BaseColor[3]))
	putVec3(buf[16:], g.Emissive)
	binary.LittleEndian.PutUint32(buf[28:32], uint32(g.TextureIndex))
	binary.LittleEndian.PutUint32(buf[32:36], math.Float32bits(g.Metallic))
	binary.LittleEndian.PutUint32(buf[36:40], math.Float32bits(g.Roughness))
	binary.LittleEndian.PutUint32(buf[40:44], uint32(g.NormalTextureIndex))
	binary.LittleEndian.PutUint32(buf[44:48], uint32(g.EmissiveTextureIndex))
	binary.LittleEndian.PutUint32(buf[48:52], g.AlphaMode)
	binary.LittleEndian.PutUint32(buf[52:56], math.Float32bits(g.AlphaCutoff))
	binary.LittleEndian.PutUint32(buf[56:60], 0)
	binary.LittleEndian.PutUint32(buf[60:64], 0)
	return buf
}

// ToGPUMaterial converts a Material into its GPU-aligned representation.
func ToGPUMaterial(m Material) GPUMaterial {
	return GPUMaterial{
		BaseColor:            m.BaseColor,
		Emissive:             m.Emissive.Array(),
		TextureIndex:         m.TextureIndex,
		Metallic:             m.Metallic,
		Roughness:            m.Roughness,
		NormalTextureIndex:   m.NormalTextureIndex,
		EmissiveTextureIndex: m.EmissiveTextureIndex,
		AlphaMode:            uint32(m.AlphaMode),
		AlphaCutoff:          m.AlphaCutoff,
	}
}

// putVec3 writes a [3]float32 at the start of buf using little-endian
// encoding, the shared primitive every Marshal() in this package builds on.
func putVec3(buf []byte, v [3]float32) {
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(v[0]))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(v[1]))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(v[2]))
}
