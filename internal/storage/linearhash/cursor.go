package linearhash

import (
	"github.com/gostonefire/filedict/dicterr"
	"github.com/gostonefire/filedict/dictionary"
	"github.com/gostonefire/filedict/internal/model"
)

// Cursor - Iterates over the records matching a predicate, one bucket chain at a time.
// An equality predicate only visits the key's home bucket, other predicates visit every bucket in index order.
// The set of buckets is fixed when the cursor is created, inserts made while iterating may or may not be seen
// and a split while iterating can make records show up twice or not at all.
type Cursor struct {
	linearHash *LinearHash
	predicate  dictionary.Predicate
	status     dictionary.CursorStatus
	nextBucket int64
	endBucket  int64
	pending    []model.Record
}

// Find - Returns a cursor over all records matching predicate
func (L *LinearHash) Find(predicate dictionary.Predicate) (cursor dictionary.Cursor, err error) {
	err = predicate.Validate(int(L.keyLength))
	if err != nil {
		return
	}

	c := &Cursor{
		linearHash: L,
		predicate:  predicate,
		status:     dictionary.CursorInitialized,
		endBucket:  L.state.numBuckets,
	}

	if predicate.Type == dictionary.Equality {
		c.nextBucket = L.hashToBucket(predicate.Key)
		c.endBucket = c.nextBucket + 1
	}

	cursor = c

	return
}

// Status - Returns the current cursor state
func (C *Cursor) Status() dictionary.CursorStatus {
	return C.status
}

// Next - Returns the next matching record, or dicterr.NoRecordFound when there are no more
func (C *Cursor) Next() (key, value []byte, err error) {
	if C.status == dictionary.CursorEndOfResults {
		err = dicterr.NoRecordFound{}
		return
	}

	for len(C.pending) == 0 && C.nextBucket < C.endBucket {
		err = C.loadBucket(C.nextBucket)
		if err != nil {
			return
		}
		C.nextBucket++
	}

	if len(C.pending) == 0 {
		C.status = dictionary.CursorEndOfResults
		err = dicterr.NoRecordFound{}
		return
	}

	record := C.pending[0]
	C.pending = C.pending[1:]
	C.status = dictionary.CursorActive

	key, value = record.Key, record.Value

	return
}

// Destroy - Releases the cursor
func (C *Cursor) Destroy() {
	C.pending = nil
	C.linearHash = nil
	C.status = dictionary.CursorEndOfResults
}

// loadBucket - Collects matching records of one bucket chain in link order
func (C *Cursor) loadBucket(idx int64) (err error) {
	L := C.linearHash

	iter, err := L.bucketChain(idx)
	if err != nil {
		return
	}

	var bucket model.Bucket
	var chain []int
	for iter.HasNext() {
		bucket, err = iter.Next()
		if err != nil {
			return
		}
		chain, err = L.localChain(bucket)
		if err != nil {
			return
		}
		for _, slot := range chain {
			if C.predicate.Matches(L.schema.KeyType, bucket.Records[slot].Key) {
				C.pending = append(C.pending, bucket.Records[slot])
			}
		}
	}

	return
}
