package kernel

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeDebugRecordMatchesWrittenFields(t *testing.T) {
	buf := make([]byte, DebugRecordSize)
	putVec3Test(buf[0:], [3]float32{1, 2, 3})
	putVec3Test(buf[16:], [3]float32{0, 0, -1})
	binary.LittleEndian.PutUint32(buf[32:36], 1)
	binary.LittleEndian.PutUint32(buf[36:40], math.Float32bits(7.5))
	binary.LittleEndian.PutUint32(buf[40:44], 42)
	binary.LittleEndian.PutUint32(buf[44:48], 13)
	putVec3Test(buf[48:], [3]float32{4, 5, 6})
	putVec3Test(buf[64:], [3]float32{0, 1, 0})
	putVec3Test(buf[80:], [3]float32{0.5, 0.5, 0.5})

	rec := DecodeDebugRecord(buf)
	assert.Equal(t, [3]float32{1, 2, 3}, rec.RayOrigin)
	assert.Equal(t, [3]float32{0, 0, -1}, rec.RayDir)
	assert.True(t, rec.Hit)
	assert.InDelta(t, 7.5, rec.Distance, 1e-5)
	assert.Equal(t, uint32(42), rec.ObjectID)
	assert.Equal(t, uint32(13), rec.Steps)
	assert.Equal(t, [3]float32{4, 5, 6}, rec.Position)
	assert.Equal(t, [3]float32{0, 1, 0}, rec.Normal)
	assert.Equal(t, [3]float32{0.5, 0.5, 0.5}, rec.Color)
}

func putVec3Test(buf []byte, v [3]float32) {
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(v[0]))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(v[1]))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(v[2]))
}
