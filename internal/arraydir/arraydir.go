// Package arraydir implements the bucket map of the linear hash engine, a growth only mapping from
// bucket index to the file offset of the bucket's primary block.
package arraydir

import (
	"github.com/gostonefire/filedict/dicterr"
	"github.com/gostonefire/filedict/internal/model"
)

// Directory - Growable index to offset table. Capacity grows by doubling, entries are never removed.
type Directory struct {
	data []model.Offset
	size int64
}

// New - Returns a pointer to a new Directory with room for initialCapacity entries before first growth
func New(initialCapacity int64) *Directory {
	if initialCapacity < 1 {
		initialCapacity = 1
	}
	return &Directory{data: make([]model.Offset, initialCapacity)}
}

// Get - Returns the offset stored for idx.
// It fails with dicterr.BadArgument if idx is outside the populated range or was never assigned.
func (D *Directory) Get(idx int64) (offset model.Offset, err error) {
	if idx < 0 || idx >= D.size {
		err = dicterr.NewBadArgument("bucket index %d outside directory range [0, %d)", idx, D.size)
		return
	}

	offset = D.data[idx]
	if offset.IsNil() {
		err = dicterr.NewBadArgument("bucket index %d has no location", idx)
	}

	return
}

// Insert - Stores offset for idx, doubling the capacity as many times as needed to fit idx
func (D *Directory) Insert(idx int64, offset model.Offset) (err error) {
	if idx < 0 {
		err = dicterr.NewBadArgument("bucket index can not be negative: %d", idx)
		return
	}

	if idx >= int64(len(D.data)) {
		newCap := int64(len(D.data))
		for idx >= newCap {
			newCap *= 2
		}
		data := make([]model.Offset, newCap)
		copy(data, D.data)
		D.data = data
	}

	D.data[idx] = offset
	if idx >= D.size {
		D.size = idx + 1
	}

	return
}

// Len - Returns the populated range, i.e. the highest inserted index plus one
func (D *Directory) Len() int64 {
	return D.size
}

// Cap - Returns the current capacity of the backing storage
func (D *Directory) Cap() int64 {
	return int64(len(D.data))
}
