package model

import (
	"math"

	"github.com/gostonefire/filedict/dicterr"
)

// Offset - A byte position within a dictionary file. Offset zero is always occupied by a file header
// which makes it usable as the "no link" value in on-disk chains.
type Offset int64

// NoOffset - Link value meaning "no record" or "no bucket"
const NoOffset Offset = 0

// NewOffset - Returns v as an Offset, failing for negative values
func NewOffset(v int64) (Offset, error) {
	if v < 0 {
		return NoOffset, dicterr.NewBadArgument("offset can not be negative: %d", v)
	}
	return Offset(v), nil
}

// OffsetFromUint64 - Converts a decoded on-disk value to an Offset, failing for values out of range
func OffsetFromUint64(v uint64) (Offset, error) {
	if v > math.MaxInt64 {
		return NoOffset, dicterr.NewBadArgument("offset out of range: %d", v)
	}
	return Offset(v), nil
}

// IsNil - Returns true if the offset represents no link
func (O Offset) IsNil() bool {
	return O == NoOffset
}

// Int64 - Returns the offset as an int64 suitable for io.ReaderAt/io.WriterAt
func (O Offset) Int64() int64 {
	return int64(O)
}

// Uint64 - Returns the offset in its on-disk representation
func (O Offset) Uint64() uint64 {
	return uint64(O)
}

// Add - Returns the offset moved n bytes forward
func (O Offset) Add(n int64) Offset {
	return O + Offset(n)
}
