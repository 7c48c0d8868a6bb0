package overflow

import (
	"fmt"

	"github.com/gostonefire/filedict/dicterr"
	"github.com/gostonefire/filedict/internal/model"
)

// Buckets - Is used to iterate over the blocks of one bucket chain, starting with the primary block and
// following overflow locations. Iteration stops with an error after maxBlocks blocks, which can only
// happen if the on-disk links form a cycle.
type Buckets struct {
	getBucketFunc func(model.Offset) (model.Bucket, error)
	address       model.Offset
	maxBlocks     int64
	visited       int64
}

// NewBuckets - Returns a pointer to a new Buckets iterator
//   - getBucketFunc reads and decodes the block at a given offset
//   - address is the offset of the first block in the chain
//   - maxBlocks is the number of blocks in the file, a bound on any valid chain length
func NewBuckets(getBucketFunc func(model.Offset) (model.Bucket, error), address model.Offset, maxBlocks int64) *Buckets {
	return &Buckets{
		getBucketFunc: getBucketFunc,
		address:       address,
		maxBlocks:     maxBlocks,
	}
}

// HasNext - Returns true if there are more blocks to be fetched from a call to Next.
func (O *Buckets) HasNext() bool {
	return !O.address.IsNil()
}

// Next - Returns the next block in the chain.
// It returns:
//   - bucket is the next block.
//   - err is either a standard error or if there are no more blocks when calling this function an error of type dicterr.NoRecordFound is returned.
func (O *Buckets) Next() (bucket model.Bucket, err error) {
	if O.address.IsNil() {
		err = dicterr.NoRecordFound{}
		return
	}

	if O.visited >= O.maxBlocks {
		err = fmt.Errorf("bucket chain longer than %d blocks, overflow links are inconsistent", O.maxBlocks)
		return
	}

	bucket, err = O.getBucketFunc(O.address)
	if err != nil {
		err = fmt.Errorf("error while retrieving bucket at offset %d: %w", O.address, err)
		return
	}

	O.visited++
	O.address = bucket.OverflowLocation

	return
}
