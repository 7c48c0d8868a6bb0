package model

// BlockKind - Tells what a fixed size block in a linear hash file is currently used for
type BlockKind uint8

const (
	// BlockFree - Block has been reclaimed and sits on the free list
	BlockFree BlockKind = iota
	// BlockPrimary - Block is the head of a bucket chain and is addressed through the bucket map
	BlockPrimary
	// BlockOverflow - Block is linked from another block's overflow location
	BlockOverflow
)

// RecordEmpty - State indicating a record slot that is not in use (never used or deleted)
const RecordEmpty uint8 = 0

// RecordOccupied - State indicating a record slot that is in use
const RecordOccupied uint8 = 1

// RecordDeleted - State indicating a record slot that has been in use but was unlinked
const RecordDeleted uint8 = 2

// Header - Represents the linear hash file header data
type Header struct {
	DictionaryID     uint32
	KeyType          uint8
	InternalHash     bool
	KeySize          int64
	ValueSize        int64
	InitialSize      int64
	NextSplit        int64
	SplitThreshold   int64
	NumBuckets       int64
	NumRecords       int64
	RecordsPerBucket int64
	RoundBase        int64
	DataPointer      Offset
	FreeList         Offset
}

// Bucket - Represents one fixed size block of records, either a primary bucket or an overflow bucket
//   - Idx is the bucket index the block belongs to
//   - RecordCount is the number of live records in the block
//   - AnchorRecord is the offset of the first record in the block local chain
//   - OverflowLocation is the offset of the next block in the bucket chain
//   - Address is the offset of the block itself
//   - Records holds every record slot of the block, in slot order (not chain order)
type Bucket struct {
	Kind             BlockKind
	Idx              int64
	RecordCount      int64
	AnchorRecord     Offset
	OverflowLocation Offset
	Address          Offset
	Records          []Record
}

// HasOverflow - Returns true if another block follows in the chain
func (B Bucket) HasOverflow() bool {
	return !B.OverflowLocation.IsNil()
}

// Record - Represents one record slot in a block
type Record struct {
	State         uint8
	Next          Offset
	RecordAddress Offset
	Key           []byte
	Value         []byte
}
