// Package dictionary holds the contract every dictionary storage backend implements.
//
// The catalog never interprets key or value bytes, it only hands a Schema to a Handler and
// keeps the returned Instance. A backend never allocates ids, it is given one.
package dictionary

// ID - Identifier of a dictionary in the catalog. Zero is never a valid dictionary id.
type ID uint32

// UseType - Tag classifying the functional role of a dictionary, used for use based catalog scans
type UseType uint8

// Schema - Describes a dictionary as stored in one catalog row
//   - ID is the catalog assigned id
//   - UseType is the functional role tag
//   - KeyType decides how keys are compared and hashed
//   - KeySize is the fixed length in bytes of every key
//   - ValueSize is the fixed length in bytes of every value
//   - DictionarySize is the backend specific capacity hint, for linear hash the initial number of buckets
type Schema struct {
	ID             ID
	UseType        UseType
	KeyType        KeyType
	KeySize        uint16
	ValueSize      uint16
	DictionarySize uint32
}

// Handler - Creates and opens dictionary instances of one storage backend
type Handler interface {
	// Create - Creates new backing storage for a dictionary with the given id and schema.
	// Any id already present in schema is overridden by id.
	Create(id ID, schema Schema) (Instance, error)

	// Open - Opens existing backing storage for a dictionary described by schema (as recovered from the catalog).
	Open(schema Schema) (Instance, error)
}

// Instance - One open dictionary
type Instance interface {
	// Schema - Returns the schema the instance was created or opened with
	Schema() Schema

	// Insert - Adds a record, keys and values must match the schema sizes
	Insert(key, value []byte) error

	// Get - Returns the value of the first record matching key, or dicterr.NoRecordFound
	Get(key []byte) ([]byte, error)

	// Update - Overwrites the value of every record matching key, or inserts the record if none matches
	Update(key, value []byte) error

	// Delete - Removes the first record matching key, or returns dicterr.NoRecordFound
	Delete(key []byte) error

	// Find - Returns a cursor over all records matching the predicate
	Find(predicate Predicate) (Cursor, error)

	// Close - Flushes and closes the backing storage
	Close() error

	// Remove - Removes the backing storage. The instance is closed first if still open.
	Remove() error
}
