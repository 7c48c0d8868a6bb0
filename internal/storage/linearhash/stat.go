package linearhash

import (
	"github.com/RoaringBitmap/roaring/v2"
	"github.com/gostonefire/filedict/dictionary"
	"github.com/gostonefire/filedict/internal/model"
)

// Stat - Walks through the entire set of buckets and produces a Stat struct.
// For big tables this reads the whole file, and the BucketDistribution slice has one entry per bucket.
//   - includeDistribution set to true will include a slice with number of records per bucket
func (L *LinearHash) Stat(includeDistribution bool) (stat *dictionary.Stat, err error) {
	s := dictionary.Stat{
		Buckets:     L.state.numBuckets,
		UsedBuckets: roaring.New(),
	}
	if includeDistribution {
		s.BucketDistribution = make([]int64, L.state.numBuckets)
	}

	var bucket model.Bucket
	for idx := int64(0); idx < L.state.numBuckets; idx++ {
		iter, e := L.bucketChain(idx)
		if e != nil {
			err = e
			return
		}

		var records int64
		for iter.HasNext() {
			bucket, err = iter.Next()
			if err != nil {
				return
			}
			if bucket.Kind == model.BlockOverflow {
				s.OverflowBuckets++
			}
			records += bucket.RecordCount
		}

		s.Records += records
		if records > 0 {
			s.UsedBuckets.Add(uint32(idx))
		}
		if includeDistribution {
			s.BucketDistribution[idx] = records
		}
	}

	s.FreeBuckets, err = L.countFree()
	if err != nil {
		return
	}

	stat = &s

	return
}

// countFree - Walks the free list
func (L *LinearHash) countFree() (n int64, err error) {
	maxBlocks := (L.dataPointer.Int64() - FileHeaderLength) / L.bucketLength
	buf := make([]byte, bucketHeaderLength)

	var bucket model.Bucket
	for address := L.freeList; !address.IsNil(); address = bucket.OverflowLocation {
		if n >= maxBlocks {
			break
		}
		err = L.readAt(buf, address)
		if err != nil {
			return
		}
		bucket, err = bytesToBucketHeader(buf, address)
		if err != nil {
			return
		}
		n++
	}

	return
}
