package local

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
)

// index.bin layout: a fixed header followed by count*dim float32 values in
// little-endian order. The format is opaque to everything outside this
// package; the only compatibility promise is across a Build/Load pair.
const (
	indexMagic   = 0x44535649 // "DSVI"
	indexVersion = 1
	headerSize   = 16
)

func writeVectors(path string, dim int, vectors [][]float32) error {
	buf := make([]byte, headerSize+len(vectors)*dim*4)
	binary.LittleEndian.PutUint32(buf[0:], indexMagic)
	binary.LittleEndian.PutUint32(buf[4:], indexVersion)
	binary.LittleEndian.PutUint32(buf[8:], uint32(len(vectors)))
	binary.LittleEndian.PutUint32(buf[12:], uint32(dim))

	off := headerSize
	for _, vec := range vectors {
		for _, f := range vec {
			binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(f))
			off += 4
		}
	}

	return os.WriteFile(path, buf, 0o600)
}

func readVectors(path string) (int, [][]float32, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, nil, err
	}
	if len(data) < headerSize {
		return 0, nil, fmt.Errorf("index file truncated: %d bytes", len(data))
	}
	if magic := binary.LittleEndian.Uint32(data[0:]); magic != indexMagic {
		return 0, nil, fmt.Errorf("bad index magic %#x", magic)
	}
	if version := binary.LittleEndian.Uint32(data[4:]); version != indexVersion {
		return 0, nil, fmt.Errorf("unsupported index version %d", version)
	}

	count := int(binary.LittleEndian.Uint32(data[8:]))
	dim := int(binary.LittleEndian.Uint32(data[12:]))
	want := headerSize + count*dim*4
	if len(data) != want {
		return 0, nil, fmt.Errorf("index file has %d bytes, want %d", len(data), want)
	}

	vectors := make([][]float32, count)
	off := headerSize
	for i := range vectors {
		vec := make([]float32, dim)
		for j := range vec {
			vec[j] = math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
			off += 4
		}
		vectors[i] = vec
	}
	return dim, vectors, nil
}

// cosine returns the cosine similarity of two equal-length vectors.
func cosine(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
