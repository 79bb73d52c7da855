package kernel

import (
	"encoding/binary"
	"math"
)

// DebugRecordSize is the byte size of the debug record storage buffer's
// single element (spec.md §4.6, §6 "Debug record storage").
const DebugRecordSize = 96

// DebugRecord mirrors the WGSL DebugRecord struct written by the traversal
// kernel's debug pixel (spec.md §4.6): the primary ray and hit it produced,
// plus the DDA/primitive step count consumed to find it.
type DebugRecord struct {
	RayOrigin [3]float32
	RayDir    [3]float32
	Hit       bool
	Distance  float32
	// ObjectID is a box index if < num_boxes, or a triangle index offset by
	// num_boxes otherwise (spec.md §4.6).
	ObjectID uint32
	Steps    uint32
	Position [3]float32
	Normal   [3]float32
	Color    [3]float32
}

// DecodeDebugRecord parses a mapped debug record storage buffer read back
// from the device into a DebugRecord. buf must be at least DebugRecordSize
// bytes, matching the WGSL DebugRecord struct's field order exactly.
func DecodeDebugRecord(buf []byte) DebugRecord {
	var d DebugRecord
	d.RayOrigin = getVec3(buf[0:])
	d.RayDir = getVec3(buf[16:])
	d.Hit = binary.LittleEndian.Uint32(buf[32:36]) != 0
	d.Distance = math.Float32frombits(binary.LittleEndian.Uint32(buf[36:40]))
	d.ObjectID = binary.LittleEndian.Uint32(buf[40:44])
	d.Steps = binary.LittleEndian.Uint32(buf[44:48])
	d.Position = getVec3(buf[48:])
	d.Normal = getVec3(buf[64:])
	d.Color = getVec3(buf[80:])
	return d
}

func getVec3(buf []byte) [3]float32 {
	return [3]float32{
		math.Float32frombits(binary.LittleEndian.Uint32(buf[0:4])),
		math.Float32frombits(binary.LittleEndian.Uint32(buf[4:8])),
		math.Float32frombits(binary.LittleEndian.Uint32(buf[8:12])),
	}
}
