package db

import (
	"encoding/binary"
	"math"
)

// VectorToBytes serializes []float32 to a binary string (4 bytes per float, little-endian),
// the FLOAT32 blob layout expected by HASH vector fields and KNN query params.
func VectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}

// BytesToVector deserializes a binary string back to []float32.
// Returns nil when the length is not a multiple of 4.
func BytesToVector(s string) []float32 {
	if len(s)%4 != 0 {
		return nil
	}
	v := make([]float32, len(s)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32([]byte(s[i*4 : i*4+4])))
	}
	return v
}
