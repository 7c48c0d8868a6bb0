//go:build unit

package linearhash

import (
	"fmt"
	"io"
	"testing"

	"github.com/gostonefire/filedict/dictionary"
	"github.com/stretchr/testify/require"
)

// memStore - In memory BlockStore
type memStore struct {
	data   []byte
	syncs  int
	closed bool
}

func (M *memStore) ReadAt(p []byte, off int64) (n int, err error) {
	if off >= int64(len(M.data)) {
		return 0, io.EOF
	}
	n = copy(p, M.data[off:])
	if n < len(p) {
		err = io.EOF
	}
	return
}

func (M *memStore) WriteAt(p []byte, off int64) (n int, err error) {
	end := off + int64(len(p))
	if end > int64(len(M.data)) {
		grown := make([]byte, end)
		copy(grown, M.data)
		M.data = grown
	}
	return copy(M.data[off:], p), nil
}

func (M *memStore) Sync() error {
	M.syncs++
	return nil
}

func (M *memStore) Close() error {
	M.closed = true
	return nil
}

// identityHash - Hashes a numeric key to its own value
type identityHash struct{}

func (identityHash) HashFunc(key []byte) uint64 {
	return dictionary.UnsignedKey(key)
}

const testValueSize = 8

func numericSchema(initialSize uint32) dictionary.Schema {
	return dictionary.Schema{
		ID:             1,
		KeyType:        dictionary.NumericUnsigned,
		KeySize:        8,
		ValueSize:      testValueSize,
		DictionarySize: initialSize,
	}
}

func key(i int) []byte {
	return dictionary.IntKey(int64(i), 8)
}

func value(i int) []byte {
	return []byte(fmt.Sprintf("v%07d", i))
}

func newMemTable(t *testing.T, initialSize uint32, recordsPerBucket, splitThreshold int64) (*LinearHash, *memStore) {
	t.Helper()
	store := &memStore{}
	linearHash, err := New(store, Conf{
		Schema:           numericSchema(initialSize),
		RecordsPerBucket: recordsPerBucket,
		SplitThreshold:   splitThreshold,
	})
	require.NoError(t, err, "creates linear hash")
	return linearHash, store
}
