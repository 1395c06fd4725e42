package storage

import (
	_ "embed"
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-shade/common"
	"github.com/go-gl/mathgl/mgl32"
)

// ArenaSize is the fixed number of records in a storage arena.
const ArenaSize = 10

// GPURecordSize is the size of one record in the storage buffer.
// WGSL aligns vec3<f32> to 16 bytes, so each vec3 is followed by 4 bytes of padding.
const GPURecordSize = 32

// ArenaBytes is the size of the whole storage buffer.
const ArenaBytes = ArenaSize * GPURecordSize

// ErrArenaSize is returned when a storage buffer is too short to hold a full arena.
var ErrArenaSize = errors.New("storage buffer shorter than arena")

// GPUStorageRecordSource is the canonical WGSL definition of the StorageRecord struct.
//
//go:embed assets/storage_record.wgsl
var GPUStorageRecordSource string

// Record is one element of the storage arena.
type Record struct {
	Position mgl32.Vec3
	Color    mgl32.Vec3
}

// Arena is the fixed-capacity record array shared between the host and the kernel.
// It is owned by the host and handed to the kernel by exclusive reference.
type Arena [ArenaSize]Record

// Get returns the record at index i. Out-of-range indices return the zero record and false.
//
// Parameters:
//   - i: the record index
//
// Returns:
//   - Record: the record
//   - bool: true if i was in range
func (a *Arena) Get(i int) (Record, bool) {
	if i < 0 || i >= ArenaSize {
		return Record{}, false
	}
	return a[i], true
}

// Set replaces the record at index i. Out-of-range indices are ignored.
//
// Parameters:
//   - i: the record index
//   - r: the new record
//
// Returns:
//   - bool: true if the record was written
func (a *Arena) Set(i int, r Record) bool {
	if i < 0 || i >= ArenaSize {
		return false
	}
	a[i] = r
	return true
}

// Marshal serializes the arena into the padded storage buffer layout.
//
// Returns:
//   - []byte: ArenaBytes bytes ready for GPU upload
func (a *Arena) Marshal() []byte {
	buf := make([]byte, ArenaBytes)
	for i, r := range a {
		off := i * GPURecordSize
		common.PutFloat32s(buf, off, r.Position[:]...)
		common.PutFloat32s(buf, off+16, r.Color[:]...)
	}
	return buf
}

// Unmarshal fills the arena from a storage buffer read back from the GPU.
// Bytes past ArenaBytes are ignored.
//
// Parameters:
//   - buf: the storage buffer contents
//
// Returns:
//   - error: ErrArenaSize if buf holds fewer than ArenaSize records
func (a *Arena) Unmarshal(buf []byte) error {
	if len(buf) < ArenaBytes {
		return fmt.Errorf("%w: got %d bytes, need %d", ErrArenaSize, len(buf), ArenaBytes)
	}
	for i := range a {
		off := i * GPURecordSize
		for j := range 3 {
			a[i].Position[j] = common.Float32At(buf, off+j*4)
			a[i].Color[j] = common.Float32At(buf, off+16+j*4)
		}
	}
	return nil
}
