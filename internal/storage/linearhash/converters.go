package linearhash

import (
	"encoding/binary"
	"fmt"

	"github.com/gostonefire/filedict/internal/model"
)

// bytesToHeader - Converts a slice of bytes to a Header struct
func bytesToHeader(buf []byte) (header model.Header, err error) {
	if int64(len(buf)) < headerUsedLength {
		err = fmt.Errorf("length of data in buf (%d) less than header size (%d)", len(buf), headerUsedLength)
		return
	}

	header = model.Header{
		DictionaryID:     binary.LittleEndian.Uint32(buf[dictionaryIDOffset:]),
		KeyType:          buf[keyTypeOffset],
		InternalHash:     buf[hashAlgorithmOffset] == 1,
		KeySize:          int64(binary.LittleEndian.Uint32(buf[keySizeOffset:])),
		ValueSize:        int64(binary.LittleEndian.Uint32(buf[valueSizeOffset:])),
		InitialSize:      int64(binary.LittleEndian.Uint64(buf[initialSizeOffset:])),
		NextSplit:        int64(binary.LittleEndian.Uint64(buf[nextSplitOffset:])),
		SplitThreshold:   int64(binary.LittleEndian.Uint64(buf[splitThresholdOffset:])),
		NumBuckets:       int64(binary.LittleEndian.Uint64(buf[numBucketsOffset:])),
		NumRecords:       int64(binary.LittleEndian.Uint64(buf[numRecordsOffset:])),
		RecordsPerBucket: int64(binary.LittleEndian.Uint64(buf[recordsPerBucketOffset:])),
		RoundBase:        int64(binary.LittleEndian.Uint64(buf[roundBaseOffset:])),
	}

	header.DataPointer, err = model.OffsetFromUint64(binary.LittleEndian.Uint64(buf[dataPointerOffset:]))
	if err != nil {
		return
	}
	header.FreeList, err = model.OffsetFromUint64(binary.LittleEndian.Uint64(buf[freeListOffset:]))

	return
}

// headerToBytes - Converts a Header struct to a slice of bytes
func headerToBytes(header model.Header) (buf []byte) {
	buf = make([]byte, FileHeaderLength)

	binary.LittleEndian.PutUint32(buf[dictionaryIDOffset:], header.DictionaryID)
	buf[keyTypeOffset] = header.KeyType
	if header.InternalHash {
		buf[hashAlgorithmOffset] = 1
	}
	binary.LittleEndian.PutUint32(buf[keySizeOffset:], uint32(header.KeySize))
	binary.LittleEndian.PutUint32(buf[valueSizeOffset:], uint32(header.ValueSize))
	binary.LittleEndian.PutUint64(buf[initialSizeOffset:], uint64(header.InitialSize))
	binary.LittleEndian.PutUint64(buf[nextSplitOffset:], uint64(header.NextSplit))
	binary.LittleEndian.PutUint64(buf[splitThresholdOffset:], uint64(header.SplitThreshold))
	binary.LittleEndian.PutUint64(buf[numBucketsOffset:], uint64(header.NumBuckets))
	binary.LittleEndian.PutUint64(buf[numRecordsOffset:], uint64(header.NumRecords))
	binary.LittleEndian.PutUint64(buf[recordsPerBucketOffset:], uint64(header.RecordsPerBucket))
	binary.LittleEndian.PutUint64(buf[roundBaseOffset:], uint64(header.RoundBase))
	binary.LittleEndian.PutUint64(buf[dataPointerOffset:], header.DataPointer.Uint64())
	binary.LittleEndian.PutUint64(buf[freeListOffset:], header.FreeList.Uint64())

	return
}

// bytesToBucketHeader - Converts block header raw data to a Bucket struct without records
func bytesToBucketHeader(buf []byte, bucketAddress model.Offset) (bucket model.Bucket, err error) {
	if int64(len(buf)) < bucketHeaderLength {
		err = fmt.Errorf("length of data in buf (%d) less than bucket header size (%d)", len(buf), bucketHeaderLength)
		return
	}

	bucket = model.Bucket{
		Kind:        model.BlockKind(buf[bucketKindOffset]),
		Idx:         int64(binary.LittleEndian.Uint64(buf[bucketIdxOffset:])),
		RecordCount: int64(binary.LittleEndian.Uint64(buf[bucketRecordCountOffset:])),
		Address:     bucketAddress,
	}

	bucket.AnchorRecord, err = model.OffsetFromUint64(binary.LittleEndian.Uint64(buf[bucketAnchorOffset:]))
	if err != nil {
		return
	}
	bucket.OverflowLocation, err = model.OffsetFromUint64(binary.LittleEndian.Uint64(buf[bucketOverflowOffset:]))

	return
}

// bytesToBucket - Converts a whole block of raw data to a Bucket struct including all record slots
func bytesToBucket(buf []byte, bucketAddress model.Offset, recordsPerBucket, keyLength, valueLength int64) (bucket model.Bucket, err error) {
	recordLength := recordHeaderLength + keyLength + valueLength
	bucketLength := bucketHeaderLength + recordLength*recordsPerBucket
	if int64(len(buf)) < bucketLength {
		err = fmt.Errorf("length of data in buf (%d) less than bucket size (%d)", len(buf), bucketLength)
		return
	}

	bucket, err = bytesToBucketHeader(buf, bucketAddress)
	if err != nil {
		return
	}

	bucket.Records = make([]model.Record, recordsPerBucket)

	var n int64
	for i := bucketHeaderLength; i < bucketLength; i += recordLength {
		bucket.Records[n], err = bytesToRecord(buf[i:i+recordLength], bucketAddress.Add(i), keyLength, valueLength)
		if err != nil {
			return
		}
		n++
	}

	return
}

// bucketHeaderToBytes - Converts the header part of a Bucket struct to bytes
func bucketHeaderToBytes(bucket model.Bucket) (buf []byte) {
	buf = make([]byte, bucketHeaderLength)

	buf[bucketKindOffset] = uint8(bucket.Kind)
	binary.LittleEndian.PutUint64(buf[bucketIdxOffset:], uint64(bucket.Idx))
	binary.LittleEndian.PutUint64(buf[bucketRecordCountOffset:], uint64(bucket.RecordCount))
	binary.LittleEndian.PutUint64(buf[bucketAnchorOffset:], bucket.AnchorRecord.Uint64())
	binary.LittleEndian.PutUint64(buf[bucketOverflowOffset:], bucket.OverflowLocation.Uint64())

	return
}

// bytesToRecord - Converts record slot raw data to a Record struct
func bytesToRecord(buf []byte, recordAddress model.Offset, keyLength, valueLength int64) (record model.Record, err error) {
	expected := recordHeaderLength + keyLength + valueLength
	if int64(len(buf)) < expected {
		err = fmt.Errorf("length of data in buf (%d) less than record size (%d)", len(buf), expected)
		return
	}

	keyStart := recordHeaderLength
	valueStart := keyStart + keyLength

	key := make([]byte, keyLength)
	value := make([]byte, valueLength)
	_ = copy(key, buf[keyStart:valueStart])
	_ = copy(value, buf[valueStart:valueStart+valueLength])

	record = model.Record{
		State:         buf[0],
		RecordAddress: recordAddress,
		Key:           key,
		Value:         value,
	}
	record.Next, err = model.OffsetFromUint64(binary.LittleEndian.Uint64(buf[recordNextOffset:]))

	return
}

// recordToBytes - Converts a Record struct to record slot bytes
func recordToBytes(record model.Record, keyLength, valueLength int64) (buf []byte) {
	buf = make([]byte, recordHeaderLength, recordHeaderLength+keyLength+valueLength)
	buf[0] = record.State
	binary.LittleEndian.PutUint64(buf[recordNextOffset:], record.Next.Uint64())
	buf = append(buf, record.Key...)
	buf = append(buf, record.Value...)

	return
}
