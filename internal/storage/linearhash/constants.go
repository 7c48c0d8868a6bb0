package linearhash

// FileHeaderLength - Length of the linear hash file header
const FileHeaderLength int64 = 1024

// dictionaryIDOffset - Header offset to the dictionary id - 4 bytes
const dictionaryIDOffset int64 = 0

// keyTypeOffset - Header offset to the key type - 1 byte
const keyTypeOffset int64 = 4

// hashAlgorithmOffset - Header offset to whether using internal (1) or external (0) hash algorithm - 1 byte
const hashAlgorithmOffset int64 = 5

// keySizeOffset - Header offset to the key size - 4 bytes
const keySizeOffset int64 = 6

// valueSizeOffset - Header offset to the value size - 4 bytes
const valueSizeOffset int64 = 10

// initialSizeOffset - Header offset to the initial number of buckets - 8 bytes
const initialSizeOffset int64 = 14

// nextSplitOffset - Header offset to the index of the next bucket to split - 8 bytes
const nextSplitOffset int64 = 22

// splitThresholdOffset - Header offset to the split threshold in percent - 8 bytes
const splitThresholdOffset int64 = 30

// numBucketsOffset - Header offset to the number of buckets - 8 bytes
const numBucketsOffset int64 = 38

// numRecordsOffset - Header offset to the number of records - 8 bytes
const numRecordsOffset int64 = 46

// recordsPerBucketOffset - Header offset to the number of record slots per block - 8 bytes
const recordsPerBucketOffset int64 = 54

// roundBaseOffset - Header offset to the number of buckets at the start of the current split round - 8 bytes
const roundBaseOffset int64 = 62

// dataPointerOffset - Header offset to the end of the last allocated block - 8 bytes
const dataPointerOffset int64 = 70

// freeListOffset - Header offset to the first reclaimed block - 8 bytes
const freeListOffset int64 = 78

// headerUsedLength - Number of header bytes actually carrying data
const headerUsedLength int64 = 86

// bucketHeaderLength - Length of the header in each block
const bucketHeaderLength int64 = 33

// bucketKindOffset - Block header offset to the block kind - 1 byte
const bucketKindOffset int64 = 0

// bucketIdxOffset - Block header offset to the bucket index - 8 bytes
const bucketIdxOffset int64 = 1

// bucketRecordCountOffset - Block header offset to the number of live records - 8 bytes
const bucketRecordCountOffset int64 = 9

// bucketAnchorOffset - Block header offset to the first record of the local chain - 8 bytes
const bucketAnchorOffset int64 = 17

// bucketOverflowOffset - Block header offset to the next block in the bucket chain - 8 bytes
const bucketOverflowOffset int64 = 25

// recordHeaderLength - Length of the state byte and next link preceding key and value in a record slot
const recordHeaderLength int64 = 9

// recordNextOffset - Record slot offset to the next record in the local chain - 8 bytes
const recordNextOffset int64 = 1

// DefaultInitialSize - Number of buckets created when the schema gives no dictionary size
const DefaultInitialSize int64 = 4

// DefaultRecordsPerBucket - Number of record slots per block when not configured
const DefaultRecordsPerBucket int64 = 4

// DefaultSplitThreshold - Load factor in percent above which a bucket is split, when not configured
const DefaultSplitThreshold int64 = 85

// MaxSplitThreshold - Highest accepted split threshold in percent, keeps the load factor comparison within int64
const MaxSplitThreshold int64 = 10000
