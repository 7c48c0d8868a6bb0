//go:build unit

package linearhash

import (
	"testing"

	"github.com/gostonefire/filedict/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestHeaderConversion(t *testing.T) {
	t.Run("header survives encode and decode", func(t *testing.T) {
		// Prepare
		header := model.Header{
			DictionaryID:     7,
			KeyType:          3,
			InternalHash:     true,
			KeySize:          16,
			ValueSize:        32,
			InitialSize:      4,
			NextSplit:        2,
			SplitThreshold:   85,
			NumBuckets:       6,
			NumRecords:       19,
			RecordsPerBucket: 4,
			RoundBase:        4,
			DataPointer:      model.Offset(5000),
			FreeList:         model.Offset(2048),
		}

		// Execute
		buf := headerToBytes(header)
		decoded, err := bytesToHeader(buf)

		// Check
		assert.Equal(t, int(FileHeaderLength), len(buf), "header padded to full length")
		assert.NoError(t, err, "decodes header")
		assert.Equal(t, header, decoded, "every field reproduced")
	})

	t.Run("short buffer is rejected", func(t *testing.T) {
		// Execute
		_, err := bytesToHeader(make([]byte, headerUsedLength-1))

		// Check
		assert.Error(t, err, "too short")
	})
}

func TestBucketConversion(t *testing.T) {
	t.Run("block with records decodes with record addresses", func(t *testing.T) {
		// Prepare
		var keyLength, valueLength, recordsPerBucket int64 = 2, 3, 2
		recordLength := recordHeaderLength + keyLength + valueLength
		address := model.Offset(FileHeaderLength)
		bucket := model.Bucket{
			Kind:             model.BlockOverflow,
			Idx:              5,
			RecordCount:      1,
			AnchorRecord:     address.Add(bucketHeaderLength + recordLength),
			OverflowLocation: model.Offset(4096),
		}
		record := model.Record{
			State:         model.RecordOccupied,
			RecordAddress: bucket.AnchorRecord,
			Key:           []byte{1, 2},
			Value:         []byte{3, 4, 5},
		}

		buf := make([]byte, bucketHeaderLength+recordLength*recordsPerBucket)
		copy(buf, bucketHeaderToBytes(bucket))
		copy(buf[bucketHeaderLength+recordLength:], recordToBytes(record, keyLength, valueLength))

		// Execute
		decoded, err := bytesToBucket(buf, address, recordsPerBucket, keyLength, valueLength)

		// Check
		assert.NoError(t, err, "decodes block")
		assert.Equal(t, bucket.Kind, decoded.Kind)
		assert.Equal(t, bucket.Idx, decoded.Idx)
		assert.Equal(t, bucket.RecordCount, decoded.RecordCount)
		assert.Equal(t, bucket.AnchorRecord, decoded.AnchorRecord)
		assert.Equal(t, bucket.OverflowLocation, decoded.OverflowLocation)
		assert.True(t, decoded.HasOverflow(), "has overflow")
		assert.Len(t, decoded.Records, 2, "one record per slot")
		assert.Equal(t, model.RecordEmpty, decoded.Records[0].State, "first slot empty")
		assert.Equal(t, address.Add(bucketHeaderLength), decoded.Records[0].RecordAddress)
		assert.Equal(t, record, decoded.Records[1], "second slot reproduced")
	})
}
