package hash

import (
	"hash/crc32"

	"github.com/gostonefire/filedict/dictionary"
)

// KeyHashAlgorithm - The internally used key hash. Numeric keys hash to their own (little endian) integer value,
// which keeps small integer keys in order over buckets, while other key types are hashed with crc32.ChecksumIEEE.
// Null terminated strings are hashed up to but not including the first zero byte so that garbage after the
// terminator never changes the bucket.
type KeyHashAlgorithm struct {
	keyType dictionary.KeyType
}

// NewKeyHashAlgorithm - Returns a pointer to a new KeyHashAlgorithm instance for the given key type
func NewKeyHashAlgorithm(keyType dictionary.KeyType) *KeyHashAlgorithm {
	return &KeyHashAlgorithm{keyType: keyType}
}

// HashFunc - Given key it generates a hash value
func (K *KeyHashAlgorithm) HashFunc(key []byte) uint64 {
	switch K.keyType {
	case dictionary.NumericSigned, dictionary.NumericUnsigned:
		return dictionary.UnsignedKey(key)
	case dictionary.NullTerminatedString:
		return uint64(crc32.ChecksumIEEE(dictionary.TrimNull(key)))
	}

	return uint64(crc32.ChecksumIEEE(key))
}
