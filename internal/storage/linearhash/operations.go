package linearhash

import (
	"fmt"

	"github.com/gostonefire/filedict/dicterr"
	"github.com/gostonefire/filedict/dictionary"
	"github.com/gostonefire/filedict/internal/model"
)

// Insert - Adds a record to the key's home bucket. Duplicate keys are accepted and kept in insertion order.
// If the insert lifts the load factor above the split threshold exactly one bucket is split.
//   - key must have the key size of the schema
//   - value must have the value size of the schema
//
// It returns:
//   - err is a standard error, if something went wrong
func (L *LinearHash) Insert(key, value []byte) (err error) {
	err = L.checkRecord(key, value)
	if err != nil {
		return
	}

	idx := L.hashToBucket(key)
	err = L.insertIntoBucket(idx, key, value)
	if err != nil {
		err = fmt.Errorf("error while adding record to bucket %d: %w", idx, err)
		return
	}

	L.numRecords++
	err = L.writeHeader()
	if err != nil {
		return
	}

	if L.aboveThreshold() {
		err = L.split()
	}

	return
}

// Get - Returns the value of the first record matching key, searching the home bucket's primary block and
// then its overflow blocks in link order.
//
// It returns:
//   - value is the value of the matching record if found, if not found an error of type dicterr.NoRecordFound is also returned.
//   - err is either of type dicterr.NoRecordFound or a standard error, if something went wrong
func (L *LinearHash) Get(key []byte) (value []byte, err error) {
	if int64(len(key)) != L.keyLength {
		err = dicterr.NewBadArgument("wrong length of key, should be %d", L.keyLength)
		return
	}

	_, record, err := L.find(key)
	if err != nil {
		return
	}

	value = record.Value

	return
}

// Update - Overwrites the value of every record matching key. If no record matches, the record is inserted.
func (L *LinearHash) Update(key, value []byte) (err error) {
	err = L.checkRecord(key, value)
	if err != nil {
		return
	}

	iter, err := L.bucketChain(L.hashToBucket(key))
	if err != nil {
		return
	}

	var updated bool
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
			record := bucket.Records[slot]
			if dictionary.CompareKeys(L.schema.KeyType, key, record.Key) == 0 {
				record.Value = value
				err = L.setRecord(record)
				if err != nil {
					err = fmt.Errorf("error while updating record: %w", err)
					return
				}
				updated = true
			}
		}
	}

	if !updated {
		err = L.Insert(key, value)
	}

	return
}

// Delete - Unlinks the first record matching key from its block. Blocks are never merged and the table never
// shrinks.
//
// It returns:
//   - err is either of type dicterr.NoRecordFound or a standard error, if something went wrong
func (L *LinearHash) Delete(key []byte) (err error) {
	if int64(len(key)) != L.keyLength {
		err = dicterr.NewBadArgument("wrong length of key, should be %d", L.keyLength)
		return
	}

	bucket, record, err := L.find(key)
	if err != nil {
		return
	}

	err = L.unlinkFromBlock(&bucket, L.slotOf(bucket, record.RecordAddress))
	if err != nil {
		err = fmt.Errorf("error while deleting record: %w", err)
		return
	}

	L.numRecords--
	err = L.writeHeader()

	return
}

// NumRecords - Returns the number of records stored
func (L *LinearHash) NumRecords() int64 {
	return L.numRecords
}

// NumBuckets - Returns the number of buckets
func (L *LinearHash) NumBuckets() int64 {
	return L.state.numBuckets
}

// NextSplit - Returns the index of the bucket that will be split next
func (L *LinearHash) NextSplit() int64 {
	return L.state.nextSplit
}

// HashToBucket - Returns the bucket a key currently lives in
func (L *LinearHash) HashToBucket(key []byte) int64 {
	return L.hashToBucket(key)
}

func (L *LinearHash) hashToBucket(key []byte) int64 {
	return L.state.home(L.hashAlgorithm.HashFunc(key))
}

// checkRecord - Validates key and value lengths
func (L *LinearHash) checkRecord(key, value []byte) (err error) {
	if int64(len(key)) != L.keyLength {
		err = dicterr.NewBadArgument("wrong length of key, should be %d", L.keyLength)
		return
	}
	if int64(len(value)) != L.valueLength {
		err = dicterr.NewBadArgument("wrong length of value, should be %d", L.valueLength)
	}

	return
}

// aboveThreshold - Returns true if the load factor exceeds the split threshold
func (L *LinearHash) aboveThreshold() bool {
	return L.numRecords*100 > L.splitThreshold*L.state.numBuckets*L.recordsPerBucket
}

// find - Returns the first record matching key together with the block holding it
func (L *LinearHash) find(key []byte) (bucket model.Bucket, record model.Record, err error) {
	iter, err := L.bucketChain(L.hashToBucket(key))
	if err != nil {
		return
	}

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
			if dictionary.CompareKeys(L.schema.KeyType, key, bucket.Records[slot].Key) == 0 {
				record = bucket.Records[slot]
				return
			}
		}
	}

	bucket = model.Bucket{}
	err = dicterr.NoRecordFound{}

	return
}

// insertIntoBucket - Places a record in the first block of bucket idx with spare capacity, linking a new
// overflow block from the last block of the chain if all are full
func (L *LinearHash) insertIntoBucket(idx int64, key, value []byte) (err error) {
	iter, err := L.bucketChain(idx)
	if err != nil {
		return
	}

	var bucket model.Bucket
	for iter.HasNext() {
		bucket, err = iter.Next()
		if err != nil {
			return
		}
		if bucket.RecordCount < L.recordsPerBucket {
			return L.insertIntoBlock(&bucket, key, value)
		}
	}

	overflowBucket, err := L.createOverflowBucket(bucket)
	if err != nil {
		return
	}

	return L.insertIntoBlock(&overflowBucket, key, value)
}

// createOverflowBucket - Allocates a new block for the same bucket and links it from tail's overflow location
func (L *LinearHash) createOverflowBucket(tail model.Bucket) (bucket model.Bucket, err error) {
	bucket, err = L.allocateBlock(model.BlockOverflow, tail.Idx)
	if err != nil {
		err = fmt.Errorf("error while allocating overflow bucket: %w", err)
		return
	}

	tail.OverflowLocation = bucket.Address
	err = L.setBucketHeader(tail)
	if err != nil {
		err = fmt.Errorf("error while linking overflow bucket: %w", err)
		return
	}

	// The allocation moved data pointer or free list
	err = L.writeHeader()

	return
}

// insertIntoBlock - Writes the record into a free slot of the block and appends it to the block local chain
func (L *LinearHash) insertIntoBlock(bucket *model.Bucket, key, value []byte) (err error) {
	chain, err := L.localChain(*bucket)
	if err != nil {
		return
	}

	free := -1
	for i := range bucket.Records {
		if bucket.Records[i].State != model.RecordOccupied {
			free = i
			break
		}
	}
	if free < 0 {
		err = fmt.Errorf("block at %d has no free record slot", bucket.Address)
		return
	}

	record := model.Record{
		State:         model.RecordOccupied,
		Next:          model.NoOffset,
		RecordAddress: bucket.Records[free].RecordAddress,
		Key:           key,
		Value:         value,
	}
	err = L.setRecord(record)
	if err != nil {
		return
	}
	bucket.Records[free] = record

	if len(chain) == 0 {
		bucket.AnchorRecord = record.RecordAddress
	} else {
		tail := bucket.Records[chain[len(chain)-1]]
		tail.Next = record.RecordAddress
		err = L.setRecord(tail)
		if err != nil {
			return
		}
		bucket.Records[chain[len(chain)-1]] = tail
	}

	bucket.RecordCount++
	err = L.setBucketHeader(*bucket)

	return
}

// unlinkFromBlock - Removes the record in the given slot from the block local chain and marks the slot deleted
func (L *LinearHash) unlinkFromBlock(bucket *model.Bucket, slot int) (err error) {
	if slot < 0 || slot >= len(bucket.Records) {
		err = fmt.Errorf("record slot %d outside block at %d", slot, bucket.Address)
		return
	}

	chain, err := L.localChain(*bucket)
	if err != nil {
		return
	}

	record := bucket.Records[slot]
	position := -1
	for i, s := range chain {
		if s == slot {
			position = i
			break
		}
	}
	if position < 0 {
		err = fmt.Errorf("record at %d is not linked in its block", record.RecordAddress)
		return
	}

	if position == 0 {
		bucket.AnchorRecord = record.Next
	} else {
		previous := bucket.Records[chain[position-1]]
		previous.Next = record.Next
		err = L.setRecord(previous)
		if err != nil {
			return
		}
		bucket.Records[chain[position-1]] = previous
	}

	record.State = model.RecordDeleted
	record.Next = model.NoOffset
	err = L.setRecord(record)
	if err != nil {
		return
	}
	bucket.Records[slot] = record

	bucket.RecordCount--
	err = L.setBucketHeader(*bucket)

	return
}

// localChain - Returns the slot numbers of the block local chain in link order. The walk is bounded by the
// block's record count, a chain that leaves the block or disagrees with the count is reported as an error.
func (L *LinearHash) localChain(bucket model.Bucket) (chain []int, err error) {
	if bucket.RecordCount < 0 || bucket.RecordCount > int64(len(bucket.Records)) {
		err = fmt.Errorf("block at %d has invalid record count %d", bucket.Address, bucket.RecordCount)
		return
	}
	chain = make([]int, 0, bucket.RecordCount)

	next := bucket.AnchorRecord
	for !next.IsNil() {
		if int64(len(chain)) >= bucket.RecordCount {
			err = fmt.Errorf("record chain of block at %d longer than its record count %d", bucket.Address, bucket.RecordCount)
			return
		}
		slot := L.slotOf(bucket, next)
		if slot < 0 || bucket.Records[slot].State != model.RecordOccupied {
			err = fmt.Errorf("record chain of block at %d points at invalid record %d", bucket.Address, next)
			return
		}
		chain = append(chain, slot)
		next = bucket.Records[slot].Next
	}

	if int64(len(chain)) != bucket.RecordCount {
		err = fmt.Errorf("record chain of block at %d has %d records but record count is %d", bucket.Address, len(chain), bucket.RecordCount)
	}

	return
}

// slotOf - Returns the slot number a record address refers to within the block, or -1
func (L *LinearHash) slotOf(bucket model.Bucket, recordAddress model.Offset) int {
	rel := recordAddress.Int64() - bucket.Address.Int64() - bucketHeaderLength
	if rel < 0 || rel%L.recordLength != 0 || rel/L.recordLength >= int64(len(bucket.Records)) {
		return -1
	}
	return int(rel / L.recordLength)
}

// split - Splits the bucket at next split into itself and a new bucket at index number of buckets, using the
// expanded modulus. Overflow blocks emptied by the split are put on the free list.
func (L *LinearHash) split() (err error) {
	from, to := L.state.splitTarget()
	modulus := L.state.expandedModulus()

	newBucket, err := L.allocateBlock(model.BlockPrimary, to)
	if err != nil {
		err = fmt.Errorf("error while allocating bucket %d: %w", to, err)
		return
	}
	err = L.bucketMap.Insert(to, newBucket.Address)
	if err != nil {
		return
	}

	// Move records whose expanded address is the new bucket
	iter, err := L.bucketChain(from)
	if err != nil {
		return
	}

	var bucket model.Bucket
	var chain []int
	var moved int64
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
			record := bucket.Records[slot]
			if int64(L.hashAlgorithm.HashFunc(record.Key)%modulus) != to {
				continue
			}
			err = L.insertIntoBucket(to, record.Key, record.Value)
			if err != nil {
				err = fmt.Errorf("error while moving record to bucket %d: %w", to, err)
				return
			}
			err = L.unlinkFromBlock(&bucket, slot)
			if err != nil {
				return
			}
			moved++
		}
	}

	err = L.reclaimEmptyOverflow(from)
	if err != nil {
		return
	}

	if L.state.advance() {
		L.logger.Debug("split round complete", "numBuckets", L.state.numBuckets)
	}
	L.logger.Debug("split bucket", "from", from, "to", to, "moved", moved, "nextSplit", L.state.nextSplit)

	err = L.writeHeader()

	return
}

// reclaimEmptyOverflow - Unlinks overflow blocks without records from bucket idx and frees them
func (L *LinearHash) reclaimEmptyOverflow(idx int64) (err error) {
	address, err := L.bucketMap.Get(idx)
	if err != nil {
		return
	}

	previous, err := L.getBucket(address)
	if err != nil {
		return
	}

	var next model.Bucket
	for previous.HasOverflow() {
		next, err = L.getBucket(previous.OverflowLocation)
		if err != nil {
			return
		}

		if next.RecordCount > 0 {
			previous = next
			continue
		}

		previous.OverflowLocation = next.OverflowLocation
		err = L.setBucketHeader(previous)
		if err != nil {
			return
		}
		err = L.freeBlock(next)
		if err != nil {
			return
		}
	}

	return
}
