package dictionary

import "github.com/gostonefire/filedict/dicterr"

// PredicateType - Kind of predicate a cursor evaluates
type PredicateType uint8

const (
	// Equality - Matches records whose key equals Predicate.Key
	Equality PredicateType = iota
	// Range - Matches records whose key is within [Predicate.Lower, Predicate.Upper]
	Range
	// AllRecords - Matches every record
	AllRecords
)

// Predicate - Selection criteria handed to Instance.Find
type Predicate struct {
	Type  PredicateType
	Key   []byte
	Lower []byte
	Upper []byte
}

// NewEqualityPredicate - Returns a predicate matching key
func NewEqualityPredicate(key []byte) Predicate {
	return Predicate{Type: Equality, Key: key}
}

// NewRangePredicate - Returns a predicate matching keys in [lower, upper] (inclusive)
func NewRangePredicate(lower, upper []byte) Predicate {
	return Predicate{Type: Range, Lower: lower, Upper: upper}
}

// NewAllRecordsPredicate - Returns a predicate matching every record
func NewAllRecordsPredicate() Predicate {
	return Predicate{Type: AllRecords}
}

// Validate - Checks the predicate against a key size
func (P Predicate) Validate(keySize int) (err error) {
	switch P.Type {
	case Equality:
		if len(P.Key) != keySize {
			err = dicterr.NewBadArgument("wrong length of predicate key, should be %d", keySize)
		}
	case Range:
		if len(P.Lower) != keySize || len(P.Upper) != keySize {
			err = dicterr.NewBadArgument("wrong length of predicate range bounds, should be %d", keySize)
		}
	case AllRecords:
	default:
		err = dicterr.NewBadArgument("unknown predicate type %d", P.Type)
	}

	return
}

// Matches - Returns true if key satisfies the predicate given key type
func (P Predicate) Matches(keyType KeyType, key []byte) bool {
	switch P.Type {
	case Equality:
		return CompareKeys(keyType, key, P.Key) == 0
	case Range:
		return CompareKeys(keyType, key, P.Lower) >= 0 && CompareKeys(keyType, key, P.Upper) <= 0
	case AllRecords:
		return true
	}
	return false
}

// CursorStatus - State of a cursor
type CursorStatus uint8

const (
	// CursorInitialized - Cursor was created but Next has not yet been called
	CursorInitialized CursorStatus = iota
	// CursorActive - Cursor has returned at least one record and may have more
	CursorActive
	// CursorEndOfResults - Cursor is exhausted (or destroyed)
	CursorEndOfResults
)

// Cursor - Iterator over the records matching a predicate
type Cursor interface {
	// Status - Returns the current cursor state
	Status() CursorStatus

	// Next - Returns the next matching record. When exhausted it returns dicterr.NoRecordFound and
	// the status becomes CursorEndOfResults.
	Next() (key, value []byte, err error)

	// Destroy - Releases the cursor, further calls to Next report end of results
	Destroy()
}
