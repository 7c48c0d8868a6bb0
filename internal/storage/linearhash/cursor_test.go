//go:build unit

package linearhash

import (
	"errors"
	"sort"
	"testing"

	"github.com/gostonefire/filedict/dicterr"
	"github.com/gostonefire/filedict/dictionary"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// drain - Reads a cursor to its end and returns the numeric keys seen, sorted
func drain(t *testing.T, cursor dictionary.Cursor) (keys []int) {
	t.Helper()
	for {
		k, v, err := cursor.Next()
		if errors.Is(err, dicterr.NoRecordFound{}) {
			break
		}
		require.NoError(t, err, "reads next record")
		i := int(dictionary.UnsignedKey(k))
		assert.Equal(t, value(i), v, "value belongs to key %d", i)
		keys = append(keys, i)
	}
	sort.Ints(keys)
	return
}

func TestLinearHash_Find(t *testing.T) {
	prepare := func(t *testing.T) *LinearHash {
		linearHash, _ := newMemTable(t, 4, 2, 0)
		for i := 0; i < 20; i++ {
			require.NoError(t, linearHash.Insert(key(i), value(i)))
		}
		return linearHash
	}

	t.Run("all records predicate visits every record once", func(t *testing.T) {
		// Prepare
		linearHash := prepare(t)

		// Execute
		cursor, err := linearHash.Find(dictionary.NewAllRecordsPredicate())
		require.NoError(t, err)
		keys := drain(t, cursor)

		// Check
		expected := make([]int, 20)
		for i := range expected {
			expected[i] = i
		}
		assert.Equal(t, expected, keys, "every key exactly once")
	})

	t.Run("range predicate is inclusive", func(t *testing.T) {
		// Prepare
		linearHash := prepare(t)

		// Execute
		cursor, err := linearHash.Find(dictionary.NewRangePredicate(key(5), key(9)))
		require.NoError(t, err)
		keys := drain(t, cursor)

		// Check
		assert.Equal(t, []int{5, 6, 7, 8, 9}, keys, "keys within bounds")
	})

	t.Run("equality predicate tracks status", func(t *testing.T) {
		// Prepare
		linearHash := prepare(t)
		cursor, err := linearHash.Find(dictionary.NewEqualityPredicate(key(7)))
		require.NoError(t, err)

		// Execute & Check
		assert.Equal(t, dictionary.CursorInitialized, cursor.Status(), "initialized")

		k, v, err := cursor.Next()
		assert.NoError(t, err, "first match")
		assert.Equal(t, key(7), k)
		assert.Equal(t, value(7), v)
		assert.Equal(t, dictionary.CursorActive, cursor.Status(), "active")

		_, _, err = cursor.Next()
		assert.True(t, errors.Is(err, dicterr.NoRecordFound{}), "exhausted")
		assert.Equal(t, dictionary.CursorEndOfResults, cursor.Status(), "end of results")

		_, _, err = cursor.Next()
		assert.True(t, errors.Is(err, dicterr.NoRecordFound{}), "stays exhausted")
	})

	t.Run("destroyed cursor reports end of results", func(t *testing.T) {
		// Prepare
		linearHash := prepare(t)
		cursor, err := linearHash.Find(dictionary.NewAllRecordsPredicate())
		require.NoError(t, err)

		// Execute
		cursor.Destroy()
		_, _, err = cursor.Next()

		// Check
		assert.Equal(t, dictionary.CursorEndOfResults, cursor.Status())
		assert.True(t, errors.Is(err, dicterr.NoRecordFound{}), "nothing after destroy")
	})

	t.Run("rejects predicates with wrong key length", func(t *testing.T) {
		// Prepare
		linearHash := prepare(t)

		// Execute
		_, errEqual := linearHash.Find(dictionary.NewEqualityPredicate([]byte{1}))
		_, errRange := linearHash.Find(dictionary.NewRangePredicate(key(1), []byte{1}))

		// Check
		assert.True(t, errors.Is(errEqual, dicterr.BadArgument{}), "equality")
		assert.True(t, errors.Is(errRange, dicterr.BadArgument{}), "range")
	})
}

func TestLinearHash_Find_Signed(t *testing.T) {
	t.Run("range over negative signed keys", func(t *testing.T) {
		// Prepare
		store := &memStore{}
		schema := numericSchema(4)
		schema.KeyType = dictionary.NumericSigned
		linearHash, err := New(store, Conf{Schema: schema, RecordsPerBucket: 2})
		require.NoError(t, err)
		for v := -10; v <= 10; v++ {
			require.NoError(t, linearHash.Insert(key(v), value(v+100)))
		}

		// Execute
		cursor, err := linearHash.Find(dictionary.NewRangePredicate(key(-4), key(1)))
		require.NoError(t, err)
		var found []int
		for {
			k, v, err := cursor.Next()
			if errors.Is(err, dicterr.NoRecordFound{}) {
				break
			}
			require.NoError(t, err)
			n := int(dictionary.SignedKey(k))
			assert.Equal(t, value(n+100), v, "value of key %d", n)
			found = append(found, n)
		}
		sort.Ints(found)

		// Check
		assert.Equal(t, []int{-4, -3, -2, -1, 0, 1}, found, "inclusive signed range")
		got, err := linearHash.Get(key(-7))
		assert.NoError(t, err)
		assert.Equal(t, value(93), got, "negative key retrievable")
	})
}
