package filedict

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/gostonefire/filedict/dicterr"
	"github.com/gostonefire/filedict/dictionary"
	"github.com/gostonefire/filedict/internal/mastertable"
)

// Direction - Scan direction for FindByUse
type Direction = mastertable.Direction

const (
	// FindFirst - Return the dictionary with the lowest id
	FindFirst = mastertable.FindFirst
	// FindLast - Return the dictionary with the highest id
	FindLast = mastertable.FindLast
)

// Catalog - A session on a master table file, the persistent directory of all dictionaries and their schemas.
// A Catalog is not safe for concurrent use.
type Catalog struct {
	table  *mastertable.Table
	logger *Logger
}

// NewCatalog - Returns a pointer to a new Catalog using the given master table file. Nothing is read or
// written until Init is called.
//   - fileName is the name of the master table file, it is created by Init if it doesn't exist
//   - opts are functional options such as WithLogger
func NewCatalog(fileName string, opts ...Option) *Catalog {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}

	return &Catalog{
		table:  mastertable.NewTable(fileName),
		logger: o.logger,
	}
}

// Init - Opens the master table, creating it if needed. Calling Init on an initialized Catalog does nothing.
func (C *Catalog) Init() (err error) {
	err = C.table.Open()
	if err != nil {
		C.logger.Error("init failed", "file", C.table.FileName(), "error", err)
	}

	return
}

// Close - Closes the master table. Open dictionaries are not affected.
func (C *Catalog) Close() error {
	return C.table.Close()
}

// Remove - Closes and removes the master table file. Dictionary storage is left untouched.
func (C *Catalog) Remove() error {
	return C.table.Remove()
}

// PeekNextID - Returns the id the next created dictionary will get
func (C *Catalog) PeekNextID() dictionary.ID {
	return C.table.PeekNextID()
}

// CreateDictionary - Allocates a new dictionary id, lets handler create the storage and records the schema
// in the catalog. The id is consumed even if a later step fails, such an id never gets a catalog row.
// There is no rollback: if the catalog row can't be written the created storage is closed but left in place.
//   - handler creates the storage of the dictionary
//   - schema describes the dictionary, its ID is ignored
//
// It returns:
//   - instance is the open dictionary
//   - err is a standard error, if something went wrong
func (C *Catalog) CreateDictionary(handler dictionary.Handler, schema dictionary.Schema) (instance dictionary.Instance, err error) {
	if handler == nil {
		err = dicterr.NewBadArgument("handler can not be nil")
		return
	}

	id, err := C.table.NextID()
	C.logger.LogStep("create dictionary", "allocate id", id, err)
	if err != nil {
		return
	}

	created, err := handler.Create(id, schema)
	C.logger.LogStep("create dictionary", "create storage", id, err)
	if err != nil {
		err = fmt.Errorf("error while creating storage for dictionary %d: %w", id, err)
		return
	}

	row := created.Schema()
	row.ID = id
	row.UseType = schema.UseType

	err = C.table.Write(row, mastertable.CalculatePos)
	C.logger.LogStep("create dictionary", "write catalog row", id, err)
	if err != nil {
		_ = created.Close()
		err = fmt.Errorf("error while writing catalog row for dictionary %d: %w", id, err)
		return
	}

	instance = created

	return
}

// Lookup - Returns the schema of dictionary id, or dicterr.NoRecordFound if it doesn't exist
func (C *Catalog) Lookup(id dictionary.ID) (schema dictionary.Schema, err error) {
	return C.table.Lookup(id)
}

// FindByUse - Returns the schema of the first dictionary with matching use type, scanning ids from the
// lowest (FindFirst) or the highest (FindLast). If none matches dicterr.NoRecordFound is returned.
func (C *Catalog) FindByUse(useType dictionary.UseType, direction Direction) (schema dictionary.Schema, err error) {
	return C.table.FindByUse(useType, direction)
}

// OpenDictionary - Looks up dictionary id and lets handler open its storage
func (C *Catalog) OpenDictionary(handler dictionary.Handler, id dictionary.ID) (instance dictionary.Instance, err error) {
	if handler == nil {
		err = dicterr.NewBadArgument("handler can not be nil")
		return
	}

	schema, err := C.table.Lookup(id)
	if err != nil {
		return
	}

	instance, err = handler.Open(schema)
	C.logger.LogStep("open dictionary", "open storage", id, err)

	return
}

// CloseDictionary - Closes an open dictionary
func (C *Catalog) CloseDictionary(instance dictionary.Instance) (err error) {
	if instance == nil {
		err = dicterr.NewBadArgument("instance can not be nil")
		return
	}

	err = instance.Close()
	C.logger.LogStep("close dictionary", "close storage", instance.Schema().ID, err)

	return
}

// DeleteDictionary - Closes the dictionary, erases its catalog row and removes its storage, in that order.
// The first failing step ends the operation and its error is returned, earlier steps are not undone.
// The id of a deleted dictionary is never handed out again.
func (C *Catalog) DeleteDictionary(instance dictionary.Instance) (err error) {
	if instance == nil {
		err = dicterr.NewBadArgument("instance can not be nil")
		return
	}

	id := instance.Schema().ID

	err = instance.Close()
	C.logger.LogStep("delete dictionary", "close storage", id, err)
	if err != nil {
		return
	}

	err = C.table.Erase(id)
	C.logger.LogStep("delete dictionary", "erase catalog row", id, err)
	if err != nil {
		return
	}

	err = instance.Remove()
	C.logger.LogStep("delete dictionary", "remove storage", id, err)

	return
}

// IDs - Returns the ids of all dictionaries that have a catalog row
func (C *Catalog) IDs() (*roaring.Bitmap, error) {
	return C.table.LiveIDs()
}

// Stat - Returns storage statistics of an open dictionary. If the storage backend of instance can't report
// statistics an error of type dicterr.BadArgument is returned.
//   - includeDistribution set to true will include the number of records per bucket
func Stat(instance dictionary.Instance, includeDistribution bool) (stat *dictionary.Stat, err error) {
	stater, ok := instance.(dictionary.Stater)
	if !ok {
		err = dicterr.NewBadArgument("dictionary does not report statistics")
		return
	}

	return stater.Stat(includeDistribution)
}
