package storage

import (
	"encoding/binary"
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// EncodeGridCells packs the map cells little-endian and compresses them with
// zstd. Tile runs compress extremely well; a full map is typically a few KB.
func EncodeGridCells(cells []uint16) ([]byte, error) {
	raw := make([]byte, len(cells)*2)
	for i, c := range cells {
		binary.LittleEndian.PutUint16(raw[i*2:], c)
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd writer: %w", err)
	}
	defer enc.Close()

	return enc.EncodeAll(raw, nil), nil
}

// DecodeGridCells reverses EncodeGridCells. The expected cell count guards
// against truncated or mismatched blobs.
func DecodeGridCells(blob []byte, expect int) ([]uint16, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd reader: %w", err)
	}
	defer dec.Close()

	raw, err := dec.DecodeAll(blob, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress snapshot: %w", err)
	}
	if len(raw) != expect*2 {
		return nil, fmt.Errorf("snapshot size mismatch: got %d bytes, want %d", len(raw), expect*2)
	}

	cells := make([]uint16, expect)
	for i := range cells {
		cells[i] = binary.LittleEndian.Uint16(raw[i*2:])
	}
	return cells, nil
}
