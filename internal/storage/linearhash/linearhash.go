package linearhash

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/gostonefire/filedict/dicterr"
	"github.com/gostonefire/filedict/dictionary"
	"github.com/gostonefire/filedict/hashfunc"
	"github.com/gostonefire/filedict/internal/arraydir"
	"github.com/gostonefire/filedict/internal/hash"
	"github.com/gostonefire/filedict/internal/model"
	"github.com/gostonefire/filedict/internal/overflow"
)

// BlockStore - Random access storage a linear hash table lives in. *os.File is the production store.
type BlockStore interface {
	io.ReaderAt
	io.WriterAt
	Sync() error
	Close() error
}

// Conf - Is a struct to be passed in the call to New and Open and contains configuration that affects
// file processing.
//   - Schema is the dictionary schema, DictionarySize is used as initial number of buckets when creating
//   - RecordsPerBucket is the number of record slots in each block, used when creating
//   - SplitThreshold is the load factor in percent above which an insert triggers a split, used when creating
//   - HashAlgorithm is an optional custom key hash, nil selects the internal one
//   - Logger receives debug output on splits, nil discards
type Conf struct {
	Schema           dictionary.Schema
	RecordsPerBucket int64
	SplitThreshold   int64
	HashAlgorithm    hashfunc.HashAlgorithm
	Logger           *slog.Logger
}

// LinearHash - A dynamically growing hash table over a single BlockStore.
//
// The file consists of a header followed by fixed size blocks. Each block is either the primary block of a
// bucket, an overflow block linked from another block of the same bucket, or a reclaimed block on the free
// list. There is no journal: a crash in the middle of an insert, delete or split can leave counters or links
// inconsistent and nothing attempts to repair that on open.
type LinearHash struct {
	fileName          string
	store             BlockStore
	schema            dictionary.Schema
	keyLength         int64
	valueLength       int64
	recordLength      int64
	bucketLength      int64
	initialSize       int64
	splitThreshold    int64
	recordsPerBucket  int64
	numRecords        int64
	dataPointer       model.Offset
	freeList          model.Offset
	state             splitState
	bucketMap         *arraydir.Directory
	hashAlgorithm     hashfunc.HashAlgorithm
	internalAlgorithm bool
	logger            *slog.Logger
}

// New - Returns a pointer to a new linear hash table initialized on store, which is expected to be empty.
// It writes the header and the initial primary blocks.
func New(store BlockStore, conf Conf) (linearHash *LinearHash, err error) {
	schema := conf.Schema
	if schema.KeySize == 0 {
		err = dicterr.NewBadArgument("key size must be a positive value higher than 0 (zero)")
		return
	}
	if !schema.KeyType.Valid() {
		err = dicterr.NewBadArgument("unknown key type %d", schema.KeyType)
		return
	}
	if schema.KeyType.Numeric() && schema.KeySize > dictionary.MaxNumericKeySize {
		err = dicterr.NewBadArgument("numeric keys can be at most %d bytes, got %d", dictionary.MaxNumericKeySize, schema.KeySize)
		return
	}

	initialSize := int64(schema.DictionarySize)
	if initialSize == 0 {
		initialSize = DefaultInitialSize
	}
	recordsPerBucket := conf.RecordsPerBucket
	if recordsPerBucket == 0 {
		recordsPerBucket = DefaultRecordsPerBucket
	}
	if recordsPerBucket < 0 {
		err = dicterr.NewBadArgument("records per bucket must be a positive value")
		return
	}
	splitThreshold := conf.SplitThreshold
	if splitThreshold == 0 {
		splitThreshold = DefaultSplitThreshold
	}
	if splitThreshold < 0 || splitThreshold > MaxSplitThreshold {
		err = dicterr.NewBadArgument("split threshold must be a positive value not above %d", MaxSplitThreshold)
		return
	}

	conf.Schema.DictionarySize = uint32(initialSize)
	linearHash = newLinearHash(store, conf)
	linearHash.initialSize = initialSize
	linearHash.recordsPerBucket = recordsPerBucket
	linearHash.splitThreshold = splitThreshold
	linearHash.setLengths()
	linearHash.dataPointer = model.Offset(FileHeaderLength)
	linearHash.state = newSplitState(initialSize)
	linearHash.bucketMap = arraydir.New(initialSize)

	for idx := int64(0); idx < initialSize; idx++ {
		var bucket model.Bucket
		bucket, err = linearHash.allocateBlock(model.BlockPrimary, idx)
		if err != nil {
			err = fmt.Errorf("error while writing initial bucket %d: %w", idx, err)
			return
		}
		err = linearHash.bucketMap.Insert(idx, bucket.Address)
		if err != nil {
			return
		}
	}

	err = linearHash.writeHeader()

	return
}

// Open - Returns a pointer to a linear hash table read from an existing store.
// If the header doesn't describe a valid table, or the dictionary id or hash algorithm choice doesn't match,
// it fails with error. The bucket map is rebuilt by scanning all blocks.
func Open(store BlockStore, conf Conf) (linearHash *LinearHash, err error) {
	buf := make([]byte, FileHeaderLength)
	err = readFull(store, buf, 0)
	if err != nil {
		err = dicterr.NewFileError(dicterr.Read, "", err)
		return
	}

	header, err := bytesToHeader(buf)
	if err != nil {
		return
	}

	if conf.Schema.ID != 0 && header.DictionaryID != uint32(conf.Schema.ID) {
		err = fmt.Errorf("file belongs to dictionary %d, not %d", header.DictionaryID, conf.Schema.ID)
		return
	}
	if header.InternalHash && conf.HashAlgorithm != nil {
		err = fmt.Errorf("seems the linear hash file was used with the internal hash algorithm but an external was given")
		return
	}
	if !header.InternalHash && conf.HashAlgorithm == nil {
		err = fmt.Errorf("seems the linear hash file was used with an external hash algorithm but no external was given")
		return
	}
	if header.KeySize <= 0 || header.RecordsPerBucket <= 0 {
		err = fmt.Errorf("header holds invalid key size %d or records per bucket %d", header.KeySize, header.RecordsPerBucket)
		return
	}
	keyType := dictionary.KeyType(header.KeyType)
	if !keyType.Valid() || (keyType.Numeric() && header.KeySize > dictionary.MaxNumericKeySize) {
		err = dicterr.NewBadArgument("header holds invalid key type %d for key size %d", header.KeyType, header.KeySize)
		return
	}
	if header.SplitThreshold <= 0 || header.SplitThreshold > MaxSplitThreshold {
		err = dicterr.NewBadArgument("header holds invalid split threshold %d", header.SplitThreshold)
		return
	}

	// Key and value sizes come from the file, a catalog row can not override them
	conf.Schema.ID = dictionary.ID(header.DictionaryID)
	conf.Schema.KeyType = keyType
	conf.Schema.KeySize = uint16(header.KeySize)
	conf.Schema.ValueSize = uint16(header.ValueSize)
	conf.Schema.DictionarySize = uint32(header.InitialSize)

	linearHash = newLinearHash(store, conf)
	linearHash.initialSize = header.InitialSize
	linearHash.recordsPerBucket = header.RecordsPerBucket
	linearHash.splitThreshold = header.SplitThreshold
	linearHash.numRecords = header.NumRecords
	linearHash.dataPointer = header.DataPointer
	linearHash.freeList = header.FreeList
	linearHash.setLengths()
	linearHash.state = splitState{roundBase: header.RoundBase, nextSplit: header.NextSplit, numBuckets: header.NumBuckets}

	err = linearHash.state.validate()
	if err != nil {
		err = fmt.Errorf("invalid split state in header: %w", err)
		return
	}

	if stater, ok := store.(interface{ Stat() (os.FileInfo, error) }); ok {
		var stat os.FileInfo
		stat, err = stater.Stat()
		if err != nil {
			return
		}
		if stat.Size() != linearHash.dataPointer.Int64() {
			err = fmt.Errorf("actual file size doesn't conform with header indicated file size")
			return
		}
	}

	err = linearHash.rebuildBucketMap()

	return
}

// newLinearHash - Sets up the parts common to New and Open
func newLinearHash(store BlockStore, conf Conf) *LinearHash {
	linearHash := &LinearHash{
		store:         store,
		schema:        conf.Schema,
		keyLength:     int64(conf.Schema.KeySize),
		valueLength:   int64(conf.Schema.ValueSize),
		hashAlgorithm: conf.HashAlgorithm,
		logger:        conf.Logger,
	}

	if linearHash.hashAlgorithm == nil {
		linearHash.hashAlgorithm = hash.NewKeyHashAlgorithm(conf.Schema.KeyType)
		linearHash.internalAlgorithm = true
	}
	if linearHash.logger == nil {
		linearHash.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	linearHash.logger = linearHash.logger.With("dictionary", conf.Schema.ID)

	return linearHash
}

// setLengths - Derives record and block lengths from key, value and records per bucket
func (L *LinearHash) setLengths() {
	L.recordLength = recordHeaderLength + L.keyLength + L.valueLength
	L.bucketLength = bucketHeaderLength + L.recordLength*L.recordsPerBucket
}

// rebuildBucketMap - Scans every block in the file and records the location of each primary block
func (L *LinearHash) rebuildBucketMap() (err error) {
	L.bucketMap = arraydir.New(L.state.numBuckets)

	buf := make([]byte, bucketHeaderLength)
	var bucket model.Bucket
	for address := model.Offset(FileHeaderLength); address < L.dataPointer; address = address.Add(L.bucketLength) {
		err = L.readAt(buf, address)
		if err != nil {
			return
		}
		bucket, err = bytesToBucketHeader(buf, address)
		if err != nil {
			return
		}
		if bucket.Kind == model.BlockPrimary {
			err = L.bucketMap.Insert(bucket.Idx, address)
			if err != nil {
				return
			}
		}
	}

	if L.bucketMap.Len() != L.state.numBuckets {
		err = fmt.Errorf("found %d primary buckets but header says %d", L.bucketMap.Len(), L.state.numBuckets)
		return
	}
	for idx := int64(0); idx < L.state.numBuckets; idx++ {
		if _, err = L.bucketMap.Get(idx); err != nil {
			err = fmt.Errorf("bucket %d has no primary block: %w", idx, err)
			return
		}
	}

	return
}

// Schema - Returns the schema of the table
func (L *LinearHash) Schema() dictionary.Schema {
	return L.schema
}

// Close - Flushes and closes the store. Closing an already closed table does nothing.
func (L *LinearHash) Close() (err error) {
	if L.store == nil {
		return
	}

	_ = L.store.Sync()
	err = L.store.Close()
	L.store = nil
	if err != nil {
		err = dicterr.NewFileError(dicterr.Close, L.fileName, err)
	}

	return
}

// Remove - Closes the store and removes the backing file, if the table was opened from a file
func (L *LinearHash) Remove() (err error) {
	err = L.Close()
	if err != nil {
		return
	}

	if L.fileName == "" {
		return
	}

	err = os.Remove(L.fileName)
	if err != nil {
		err = dicterr.NewFileError(dicterr.Delete, L.fileName, err)
	}

	return
}

// createHeader - Creates a header instance from the current state
func (L *LinearHash) createHeader() model.Header {
	return model.Header{
		DictionaryID:     uint32(L.schema.ID),
		KeyType:          uint8(L.schema.KeyType),
		InternalHash:     L.internalAlgorithm,
		KeySize:          L.keyLength,
		ValueSize:        L.valueLength,
		InitialSize:      L.initialSize,
		NextSplit:        L.state.nextSplit,
		SplitThreshold:   L.splitThreshold,
		NumBuckets:       L.state.numBuckets,
		NumRecords:       L.numRecords,
		RecordsPerBucket: L.recordsPerBucket,
		RoundBase:        L.state.roundBase,
		DataPointer:      L.dataPointer,
		FreeList:         L.freeList,
	}
}

// writeHeader - Persists the table state
func (L *LinearHash) writeHeader() (err error) {
	err = L.writeAt(headerToBytes(L.createHeader()), 0)
	if err != nil {
		err = fmt.Errorf("error while writing header: %w", err)
	}

	return
}

// readAt - Reads len(buf) bytes at offset, a short read is an error
func (L *LinearHash) readAt(buf []byte, offset model.Offset) (err error) {
	if L.store == nil {
		return dicterr.NewBadArgument("linear hash dictionary %d is closed", L.schema.ID)
	}

	err = readFull(L.store, buf, offset.Int64())
	if err != nil {
		err = dicterr.NewFileError(dicterr.Read, L.fileName, err)
	}

	return
}

// readFull - Reads exactly len(buf) bytes at offset. A reader may report io.EOF together with a full read
// at end of input, that is not an error here.
func readFull(r io.ReaderAt, buf []byte, offset int64) error {
	n, err := r.ReadAt(buf, offset)
	if n == len(buf) {
		return nil
	}
	if err == nil {
		err = io.ErrUnexpectedEOF
	}
	return err
}

// writeAt - Writes buf at offset, a short write is an error
func (L *LinearHash) writeAt(buf []byte, offset model.Offset) (err error) {
	if L.store == nil {
		return dicterr.NewBadArgument("linear hash dictionary %d is closed", L.schema.ID)
	}

	_, err = L.store.WriteAt(buf, offset.Int64())
	if err != nil {
		err = dicterr.NewFileError(dicterr.Write, L.fileName, err)
	}

	return
}

// getBucket - Reads and decodes the whole block at address
func (L *LinearHash) getBucket(address model.Offset) (bucket model.Bucket, err error) {
	buf := make([]byte, L.bucketLength)
	err = L.readAt(buf, address)
	if err != nil {
		return
	}

	bucket, err = bytesToBucket(buf, address, L.recordsPerBucket, L.keyLength, L.valueLength)

	return
}

// setBucketHeader - Writes the header part of a block
func (L *LinearHash) setBucketHeader(bucket model.Bucket) error {
	return L.writeAt(bucketHeaderToBytes(bucket), bucket.Address)
}

// setRecord - Writes one record slot
func (L *LinearHash) setRecord(record model.Record) error {
	return L.writeAt(recordToBytes(record, L.keyLength, L.valueLength), record.RecordAddress)
}

// bucketChain - Returns an iterator over the blocks of bucket idx, resolved through the bucket map
func (L *LinearHash) bucketChain(idx int64) (iter *overflow.Buckets, err error) {
	address, err := L.bucketMap.Get(idx)
	if err != nil {
		return
	}

	maxBlocks := (L.dataPointer.Int64() - FileHeaderLength) / L.bucketLength
	iter = overflow.NewBuckets(L.getBucket, address, maxBlocks)

	return
}

// allocateBlock - Takes a block from the free list, or appends one at end of file, and writes it as an empty
// block of the given kind
func (L *LinearHash) allocateBlock(kind model.BlockKind, idx int64) (bucket model.Bucket, err error) {
	address := L.freeList
	if address.IsNil() {
		address = L.dataPointer
	} else {
		var free model.Bucket
		buf := make([]byte, bucketHeaderLength)
		err = L.readAt(buf, address)
		if err != nil {
			return
		}
		free, err = bytesToBucketHeader(buf, address)
		if err != nil {
			return
		}
		if free.Kind != model.BlockFree {
			err = fmt.Errorf("free list points at block %d which is not free", address)
			return
		}
		L.freeList = free.OverflowLocation
	}

	bucket = model.Bucket{
		Kind:    kind,
		Idx:     idx,
		Address: address,
	}

	buf := make([]byte, L.bucketLength)
	copy(buf, bucketHeaderToBytes(bucket))
	err = L.writeAt(buf, address)
	if err != nil {
		return
	}

	if address == L.dataPointer {
		L.dataPointer = L.dataPointer.Add(L.bucketLength)
	}

	bucket.Records = make([]model.Record, L.recordsPerBucket)
	for i := range bucket.Records {
		bucket.Records[i] = model.Record{
			RecordAddress: address.Add(bucketHeaderLength + int64(i)*L.recordLength),
			Key:           make([]byte, L.keyLength),
			Value:         make([]byte, L.valueLength),
		}
	}

	return
}

// freeBlock - Puts a block on the free list
func (L *LinearHash) freeBlock(bucket model.Bucket) (err error) {
	bucket.Kind = model.BlockFree
	bucket.RecordCount = 0
	bucket.AnchorRecord = model.NoOffset
	bucket.OverflowLocation = L.freeList

	err = L.setBucketHeader(bucket)
	if err != nil {
		return
	}

	L.freeList = bucket.Address

	return
}
