package mastertable

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/gostonefire/filedict/dicterr"
	"github.com/gostonefire/filedict/dictionary"
)

// Where - Position argument to Read and Write. Values from zero and up are explicit byte offsets.
type Where int64

const (
	// CalculatePos - Derive the position from the row id, i.e. id * RecordWidth
	CalculatePos Where = -1
	// WriteFromEnd - Write the row at the end of the file, only valid for Write
	WriteFromEnd Where = -2
)

// Direction - Scan direction for FindByUse
type Direction int

const (
	// FindFirst - Scan ids in ascending order and return the lowest matching id
	FindFirst Direction = 1
	// FindLast - Scan ids in descending order and return the highest matching id
	FindLast Direction = -1
)

// Table - The on-disk catalog of dictionaries. Slot 0 holds the next id counter, slot id holds dictionary id.
//
// Read and Write position the file cursor themselves and put it back where it was on return, which is not
// atomic with respect to other users of the same file. A Table must not be used from several goroutines or
// processes without external serialization.
type Table struct {
	fileName string
	file     *os.File
	nextID   dictionary.ID
}

// NewTable - Returns a pointer to a new Table for the given file name. The file is not touched until Open.
func NewTable(fileName string) *Table {
	return &Table{fileName: fileName, nextID: 1}
}

// FileName - Returns the name of the catalog file
func (T *Table) FileName() string {
	return T.fileName
}

// IsOpen - Returns true if the catalog file is open
func (T *Table) IsOpen() bool {
	return T.file != nil
}

// Open - Opens the catalog file, creating it with a fresh counter row if it doesn't exist, otherwise the
// next id counter is restored from slot 0. Calling Open on an already open Table does nothing.
func (T *Table) Open() (err error) {
	if T.file != nil {
		return
	}

	_, err = os.Stat(T.fileName)
	switch {
	case err == nil:
		T.file, err = os.OpenFile(T.fileName, os.O_RDWR, 0644)
		if err != nil {
			T.file = nil
			err = dicterr.NewFileError(dicterr.Open, T.fileName, err)
			return
		}

		var counter dictionary.Schema
		counter, err = T.Read(0, 0)
		if err != nil {
			_ = T.file.Close()
			T.file = nil
			err = fmt.Errorf("error while reading id counter from master table: %w", err)
			return
		}
		T.nextID = counter.ID

	case os.IsNotExist(err):
		T.file, err = os.OpenFile(T.fileName, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0644)
		if err != nil {
			T.file = nil
			err = dicterr.NewFileError(dicterr.Open, T.fileName, err)
			return
		}

		T.nextID = 1
		err = T.Write(dictionary.Schema{ID: T.nextID}, 0)
		if err != nil {
			_ = T.file.Close()
			T.file = nil
			err = fmt.Errorf("error while writing id counter to new master table: %w", err)
			return
		}

	default:
		err = dicterr.NewFileError(dicterr.Open, T.fileName, err)
	}

	return
}

// Close - Closes the catalog file. Closing a Table that is not open does nothing.
func (T *Table) Close() (err error) {
	if T.file == nil {
		return
	}

	_ = T.file.Sync()
	err = T.file.Close()
	T.file = nil
	if err != nil {
		err = dicterr.NewFileError(dicterr.Close, T.fileName, err)
	}

	return
}

// Remove - Closes and removes the catalog file
func (T *Table) Remove() (err error) {
	err = T.Close()
	if err != nil {
		return
	}

	err = os.Remove(T.fileName)
	if err != nil {
		err = dicterr.NewFileError(dicterr.Delete, T.fileName, err)
	}

	return
}

// Write - Writes a catalog row at the position given by where. The file cursor is restored on return,
// regardless of outcome.
//   - row is the row to write, its ID is used when where is CalculatePos
//   - where is an explicit byte offset, CalculatePos or WriteFromEnd
func (T *Table) Write(row dictionary.Schema, where Where) (err error) {
	if T.file == nil {
		err = dicterr.NewBadArgument("master table %s is not open", T.fileName)
		return
	}
	if where < WriteFromEnd {
		err = dicterr.NewBadArgument("invalid write position %d", where)
		return
	}
	if where == CalculatePos && row.ID == 0 {
		err = dicterr.NewBadArgument("row with id 0 would overwrite the id counter")
		return
	}

	restore, err := T.saveCursor()
	if err != nil {
		return
	}
	defer restore(&err)

	switch where {
	case CalculatePos:
		_, err = T.file.Seek(int64(row.ID)*RecordWidth, io.SeekStart)
	case WriteFromEnd:
		_, err = T.file.Seek(0, io.SeekEnd)
	default:
		_, err = T.file.Seek(int64(where), io.SeekStart)
	}
	if err != nil {
		err = dicterr.NewFileError(dicterr.Seek, T.fileName, err)
		return
	}

	_, err = T.file.Write(rowToBytes(row))
	if err != nil {
		err = dicterr.NewFileError(dicterr.Write, T.fileName, err)
	}

	return
}

// Read - Reads a catalog row from the position given by where. The file cursor is restored on return,
// regardless of outcome. A row with id zero is reported as dicterr.NoRecordFound.
//   - id is used to derive the position when where is CalculatePos
//   - where is an explicit byte offset or CalculatePos
func (T *Table) Read(id dictionary.ID, where Where) (row dictionary.Schema, err error) {
	if T.file == nil {
		err = dicterr.NewBadArgument("master table %s is not open", T.fileName)
		return
	}
	if where < CalculatePos {
		err = dicterr.NewBadArgument("invalid read position %d", where)
		return
	}

	restore, err := T.saveCursor()
	if err != nil {
		return
	}
	defer restore(&err)

	pos := int64(where)
	if where == CalculatePos {
		pos = int64(id) * RecordWidth
	}

	_, err = T.file.Seek(pos, io.SeekStart)
	if err != nil {
		err = dicterr.NewFileError(dicterr.Seek, T.fileName, err)
		return
	}

	buf := make([]byte, RecordWidth)
	_, err = io.ReadFull(T.file, buf)
	if err != nil {
		err = dicterr.NewFileError(dicterr.Read, T.fileName, err)
		return
	}

	row, err = bytesToRow(buf)
	if err != nil {
		return
	}

	if row.ID == 0 {
		err = dicterr.NewNoRecordFound("no catalog row at position %d", pos)
	}

	return
}

// saveCursor - Records the current file position and returns a function that puts it back.
// The returned function only overwrites *errp if no earlier error occurred.
func (T *Table) saveCursor() (restore func(errp *error), err error) {
	oldPos, err := T.file.Seek(0, io.SeekCurrent)
	if err != nil {
		err = dicterr.NewFileError(dicterr.Seek, T.fileName, err)
		return
	}

	restore = func(errp *error) {
		if _, seekErr := T.file.Seek(oldPos, io.SeekStart); seekErr != nil && *errp == nil {
			*errp = dicterr.NewFileError(dicterr.Seek, T.fileName, seekErr)
		}
	}

	return
}

// NextID - Returns the next dictionary id and advances the counter. The advanced counter is persisted to
// slot 0 before the id is handed out, so an id is never issued twice even if the caller fails to use it.
func (T *Table) NextID() (id dictionary.ID, err error) {
	if T.nextID == math.MaxUint32 {
		err = dicterr.NewBadArgument("dictionary id space exhausted")
		return
	}

	err = T.Write(dictionary.Schema{ID: T.nextID + 1}, 0)
	if err != nil {
		return
	}

	id = T.nextID
	T.nextID++

	return
}

// PeekNextID - Returns the id the next call to NextID will return, without consuming it
func (T *Table) PeekNextID() dictionary.ID {
	return T.nextID
}

// Lookup - Returns the catalog row of dictionary id.
// A slot that lies entirely beyond end of file belongs to an id that was allocated but never got a row
// written, it is reported as dicterr.NoRecordFound just like a deleted row.
func (T *Table) Lookup(id dictionary.ID) (row dictionary.Schema, err error) {
	if id == 0 {
		err = dicterr.NewBadArgument("dictionary id 0 is reserved for the id counter")
		return
	}

	row, err = T.Read(id, CalculatePos)
	if err != nil && errors.Is(err, io.EOF) {
		err = dicterr.NewNoRecordFound("dictionary %d has no catalog row", id)
	}

	return
}

// FindByUse - Returns the first catalog row with matching use type, scanning ids in the given direction
func (T *Table) FindByUse(useType dictionary.UseType, direction Direction) (row dictionary.Schema, err error) {
	if direction != FindFirst && direction != FindLast {
		err = dicterr.NewBadArgument("invalid scan direction %d", direction)
		return
	}

	next := int64(T.nextID)
	id := int64(1)
	if direction == FindLast {
		id = next - 1
	}

	var candidate dictionary.Schema
	for ; id < next && id > 0; id += int64(direction) {
		candidate, err = T.Lookup(dictionary.ID(id))
		if errors.Is(err, dicterr.NoRecordFound{}) {
			continue
		}
		if err != nil {
			return
		}

		if candidate.UseType == useType {
			row = candidate
			return
		}
	}

	err = dicterr.NewNoRecordFound("no dictionary with use type %d", useType)

	return
}

// Erase - Zeroes the catalog row of dictionary id. The id is retired, it will never be handed out again.
func (T *Table) Erase(id dictionary.ID) (err error) {
	if id == 0 {
		err = dicterr.NewBadArgument("dictionary id 0 is reserved for the id counter")
		return
	}

	return T.Write(dictionary.Schema{}, Where(int64(id)*RecordWidth))
}

// LiveIDs - Scans all allocated ids and returns those that have a catalog row
func (T *Table) LiveIDs() (ids *roaring.Bitmap, err error) {
	ids = roaring.New()
	for id := dictionary.ID(1); id < T.nextID; id++ {
		_, err = T.Lookup(id)
		if errors.Is(err, dicterr.NoRecordFound{}) {
			continue
		}
		if err != nil {
			ids = nil
			return
		}
		ids.Add(uint32(id))
	}

	err = nil

	return
}
