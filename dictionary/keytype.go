package dictionary

import (
	"bytes"
	"encoding/binary"
)

// MaxNumericKeySize - Widest key in bytes a numeric key type can have
const MaxNumericKeySize = 8

// KeyType - Decides how keys of a dictionary are interpreted
type KeyType uint8

const (
	// NumericSigned - Little endian two's complement integer of KeySize bytes (1 to 8)
	NumericSigned KeyType = iota
	// NumericUnsigned - Little endian unsigned integer of KeySize bytes (1 to 8)
	NumericUnsigned
	// CharArray - Opaque fixed length byte array compared byte by byte
	CharArray
	// NullTerminatedString - Fixed length buffer holding a string terminated by the first zero byte
	NullTerminatedString
)

func (k KeyType) String() string {
	switch k {
	case NumericSigned:
		return "numeric-signed"
	case NumericUnsigned:
		return "numeric-unsigned"
	case CharArray:
		return "char-array"
	case NullTerminatedString:
		return "null-terminated-string"
	}
	return "unknown"
}

// Valid - Returns true if k is a known key type
func (k KeyType) Valid() bool {
	return k <= NullTerminatedString
}

// Numeric - Returns true for key types interpreted as integers
func (k KeyType) Numeric() bool {
	return k == NumericSigned || k == NumericUnsigned
}

// CompareKeys - Compares a and b according to key type and returns -1, 0 or +1
func CompareKeys(keyType KeyType, a, b []byte) int {
	switch keyType {
	case NumericSigned:
		x, y := SignedKey(a), SignedKey(b)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	case NumericUnsigned:
		x, y := UnsignedKey(a), UnsignedKey(b)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	case NullTerminatedString:
		return bytes.Compare(TrimNull(a), TrimNull(b))
	}
	return bytes.Compare(a, b)
}

// UnsignedKey - Decodes up to 8 little endian bytes as an unsigned integer
func UnsignedKey(key []byte) uint64 {
	var buf [8]byte
	copy(buf[:], key)
	return binary.LittleEndian.Uint64(buf[:])
}

// SignedKey - Decodes up to 8 little endian bytes as a sign extended integer
func SignedKey(key []byte) int64 {
	n := len(key)
	if n == 0 {
		return 0
	}
	if n > 8 {
		n = 8
	}
	v := UnsignedKey(key[:n])
	shift := uint(64 - 8*n)
	return int64(v<<shift) >> shift
}

// TrimNull - Returns key up to but not including the first zero byte
func TrimNull(key []byte) []byte {
	if i := bytes.IndexByte(key, 0); i >= 0 {
		return key[:i]
	}
	return key
}

// IntKey - Encodes v as a little endian key of size bytes, handy for numeric dictionaries
func IntKey(v int64, size int) []byte {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(v))
	key := make([]byte, size)
	copy(key, buf[:])
	if size > 8 && v < 0 {
		for i := 8; i < size; i++ {
			key[i] = 0xff
		}
	}
	return key
}
