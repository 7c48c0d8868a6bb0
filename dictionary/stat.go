package dictionary

import "github.com/RoaringBitmap/roaring/v2"

// Stat - Statistics on the overall usage and distribution over buckets
//   - Records is the total number of records found when walking all buckets
//   - Buckets is the number of buckets
//   - OverflowBuckets is the number of overflow blocks linked into bucket chains
//   - FreeBuckets is the number of reclaimed blocks waiting for reuse
//   - UsedBuckets is the set of bucket indexes holding at least one record
//   - BucketDistribution is the number of records stored in each bucket, nil unless asked for
type Stat struct {
	Records            int64
	Buckets            int64
	OverflowBuckets    int64
	FreeBuckets        int64
	UsedBuckets        *roaring.Bitmap
	BucketDistribution []int64
}

// Stater - Implemented by instances that can report storage statistics
type Stater interface {
	// Stat - Walks the storage and returns statistics, with per bucket counts if includeDistribution is true
	Stat(includeDistribution bool) (*Stat, error)
}
