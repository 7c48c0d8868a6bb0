//go:build unit

package mastertable

import (
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/gostonefire/filedict/dicterr"
	"github.com/gostonefire/filedict/dictionary"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTable(t *testing.T) *Table {
	t.Helper()
	table := NewTable(filepath.Join(t.TempDir(), "master-table.bin"))
	require.NoError(t, table.Open(), "opens master table")
	t.Cleanup(func() { _ = table.Close() })
	return table
}

func TestTable_Open(t *testing.T) {
	t.Run("creates a new file with a counter row", func(t *testing.T) {
		// Prepare
		table := NewTable(filepath.Join(t.TempDir(), "master-table.bin"))

		// Execute
		err := table.Open()

		// Check
		assert.NoError(t, err, "opens master table")
		assert.True(t, table.IsOpen(), "file is open")
		assert.Equal(t, dictionary.ID(1), table.PeekNextID(), "counter starts at 1")

		stat, err := os.Stat(table.FileName())
		assert.NoError(t, err, "file exists")
		assert.Equal(t, RecordWidth, stat.Size(), "only the counter row")

		// Clean up
		assert.NoError(t, table.Remove(), "removes master table")
		_, err = os.Stat(table.FileName())
		assert.True(t, os.IsNotExist(err), "file removed")
	})

	t.Run("is a no-op when already open", func(t *testing.T) {
		// Prepare
		table := newTestTable(t)
		_, err := table.NextID()
		require.NoError(t, err)

		// Execute
		err = table.Open()

		// Check
		assert.NoError(t, err, "second open")
		assert.Equal(t, dictionary.ID(2), table.PeekNextID(), "counter untouched")
	})

	t.Run("restores the counter from an existing file", func(t *testing.T) {
		// Prepare
		table := newTestTable(t)
		for i := 0; i < 3; i++ {
			_, err := table.NextID()
			require.NoError(t, err)
		}
		require.NoError(t, table.Close())

		reopened := NewTable(table.FileName())

		// Execute
		err := reopened.Open()

		// Check
		assert.NoError(t, err, "reopens master table")
		assert.Equal(t, dictionary.ID(4), reopened.PeekNextID(), "counter restored")

		// Clean up
		assert.NoError(t, reopened.Close())
	})
}

func TestTable_WriteRead(t *testing.T) {
	t.Run("round trips a row at its id derived position", func(t *testing.T) {
		// Prepare
		table := newTestTable(t)
		row := dictionary.Schema{
			ID:             5,
			UseType:        3,
			KeyType:        dictionary.NullTerminatedString,
			KeySize:        20,
			ValueSize:      40,
			DictionarySize: 1000,
		}

		// Execute
		err := table.Write(row, CalculatePos)
		require.NoError(t, err, "writes row")
		read, err := table.Read(5, CalculatePos)

		// Check
		assert.NoError(t, err, "reads row")
		assert.Equal(t, row, read, "every field reproduced")
	})

	t.Run("writes at end of file", func(t *testing.T) {
		// Prepare
		table := newTestTable(t)
		row := dictionary.Schema{ID: 1, KeySize: 4, ValueSize: 4}

		// Execute
		err := table.Write(row, WriteFromEnd)

		// Check
		assert.NoError(t, err, "appends row")
		read, err := table.Read(1, CalculatePos)
		assert.NoError(t, err, "reads appended row")
		assert.Equal(t, row, read, "appended row is in slot 1")
	})

	t.Run("restores the file cursor", func(t *testing.T) {
		// Prepare
		table := newTestTable(t)
		_, err := table.file.Seek(3, io.SeekStart)
		require.NoError(t, err)

		// Execute
		err = table.Write(dictionary.Schema{ID: 2, KeySize: 4}, CalculatePos)
		require.NoError(t, err)
		_, err = table.Read(2, CalculatePos)
		require.NoError(t, err)
		_, err = table.Read(7, CalculatePos)

		// Check
		assert.Error(t, err, "read beyond end of file fails")
		pos, err := table.file.Seek(0, io.SeekCurrent)
		assert.NoError(t, err)
		assert.Equal(t, int64(3), pos, "cursor restored after success and failure")
	})

	t.Run("reports a zeroed row as not found", func(t *testing.T) {
		// Prepare
		table := newTestTable(t)
		require.NoError(t, table.Write(dictionary.Schema{}, Where(2*RecordWidth)))

		// Execute
		_, err := table.Read(2, CalculatePos)

		// Check
		assert.True(t, errors.Is(err, dicterr.NoRecordFound{}), "not found rather than I/O error")
	})

	t.Run("reports a short read as read error", func(t *testing.T) {
		// Prepare
		table := newTestTable(t)

		// Execute
		_, err := table.Read(0, Where(RecordWidth/2))

		// Check
		assert.True(t, dicterr.IsFileOp(err, dicterr.Read), "read error")
		assert.False(t, errors.Is(err, dicterr.NoRecordFound{}), "not a not found")
	})

	t.Run("rejects unknown position sentinels", func(t *testing.T) {
		// Prepare
		table := newTestTable(t)

		// Execute
		errWrite := table.Write(dictionary.Schema{ID: 1}, Where(-3))
		_, errRead := table.Read(1, WriteFromEnd)

		// Check
		assert.True(t, errors.Is(errWrite, dicterr.BadArgument{}), "write rejects")
		assert.True(t, errors.Is(errRead, dicterr.BadArgument{}), "read rejects")
	})

	t.Run("refuses to overwrite the counter row by id", func(t *testing.T) {
		// Prepare
		table := newTestTable(t)

		// Execute
		err := table.Write(dictionary.Schema{}, CalculatePos)

		// Check
		assert.True(t, errors.Is(err, dicterr.BadArgument{}), "id 0 rejected")
		counter, err := table.Read(0, 0)
		assert.NoError(t, err, "counter row intact")
		assert.Equal(t, dictionary.ID(1), counter.ID)
	})

	t.Run("fails when not open", func(t *testing.T) {
		// Prepare
		table := NewTable(filepath.Join(t.TempDir(), "master-table.bin"))

		// Execute
		err := table.Write(dictionary.Schema{ID: 1}, CalculatePos)

		// Check
		assert.True(t, errors.Is(err, dicterr.BadArgument{}), "not open")
	})
}

func TestTable_NextID(t *testing.T) {
	t.Run("returns strictly increasing ids and persists the counter first", func(t *testing.T) {
		// Prepare
		table := newTestTable(t)

		// Execute & Check
		var last dictionary.ID
		for i := 0; i < 10; i++ {
			id, err := table.NextID()
			assert.NoError(t, err, "gets next id")
			assert.True(t, id > last, "strictly increasing")
			last = id

			counter, err := table.Read(0, 0)
			assert.NoError(t, err, "reads counter row")
			assert.Equal(t, id+1, counter.ID, "counter persisted before returning")
		}
	})
}

func TestTable_NextID_Exhausted(t *testing.T) {
	t.Run("fails at the end of the id space without touching the counter", func(t *testing.T) {
		// Prepare
		table := newTestTable(t)
		require.NoError(t, table.Write(dictionary.Schema{ID: math.MaxUint32}, 0))
		table.nextID = math.MaxUint32

		// Execute
		_, err := table.NextID()

		// Check
		assert.True(t, errors.Is(err, dicterr.BadArgument{}), "id space exhausted")
		require.NoError(t, table.Close())
		require.NoError(t, table.Open(), "reopens with counter intact")
		assert.Equal(t, dictionary.ID(math.MaxUint32), table.PeekNextID())
	})
}

func TestTable_Lookup(t *testing.T) {
	t.Run("finds written rows and reports missing ones", func(t *testing.T) {
		// Prepare
		table := newTestTable(t)
		id, err := table.NextID()
		require.NoError(t, err)
		row := dictionary.Schema{ID: id, KeyType: dictionary.NumericSigned, KeySize: 4, ValueSize: 8, DictionarySize: 4}
		require.NoError(t, table.Write(row, CalculatePos))
		orphan, err := table.NextID()
		require.NoError(t, err)

		// Execute
		found, err := table.Lookup(id)
		_, errOrphan := table.Lookup(orphan)
		_, errZero := table.Lookup(0)

		// Check
		assert.NoError(t, err, "finds row")
		assert.Equal(t, row, found, "row preserved")
		assert.True(t, errors.Is(errOrphan, dicterr.NoRecordFound{}), "allocated id without row is not found")
		assert.True(t, errors.Is(errZero, dicterr.BadArgument{}), "id 0 is reserved")
	})

	t.Run("erased row is not found and id is not reused", func(t *testing.T) {
		// Prepare
		table := newTestTable(t)
		id, err := table.NextID()
		require.NoError(t, err)
		require.NoError(t, table.Write(dictionary.Schema{ID: id, KeySize: 4}, CalculatePos))

		// Execute
		err = table.Erase(id)

		// Check
		assert.NoError(t, err, "erases row")
		_, err = table.Lookup(id)
		assert.True(t, errors.Is(err, dicterr.NoRecordFound{}), "erased row not found")
		next, err := table.NextID()
		assert.NoError(t, err)
		assert.Equal(t, id+1, next, "retired id not handed out again")
	})
}

func TestTable_FindByUse(t *testing.T) {
	prepare := func(t *testing.T) *Table {
		table := newTestTable(t)
		for _, useType := range []dictionary.UseType{1, 2, 1, 3, 2} {
			id, err := table.NextID()
			require.NoError(t, err)
			require.NoError(t, table.Write(dictionary.Schema{ID: id, UseType: useType, KeySize: 4}, CalculatePos))
		}
		return table
	}

	t.Run("ascending scan returns lowest id", func(t *testing.T) {
		// Prepare
		table := prepare(t)

		// Execute
		row, err := table.FindByUse(2, FindFirst)

		// Check
		assert.NoError(t, err, "finds row")
		assert.Equal(t, dictionary.ID(2), row.ID, "lowest matching id")
	})

	t.Run("descending scan returns highest id", func(t *testing.T) {
		// Prepare
		table := prepare(t)

		// Execute
		row, err := table.FindByUse(1, FindLast)

		// Check
		assert.NoError(t, err, "finds row")
		assert.Equal(t, dictionary.ID(3), row.ID, "highest matching id")
	})

	t.Run("skips erased rows", func(t *testing.T) {
		// Prepare
		table := prepare(t)
		require.NoError(t, table.Erase(2))

		// Execute
		row, err := table.FindByUse(2, FindFirst)

		// Check
		assert.NoError(t, err, "finds row")
		assert.Equal(t, dictionary.ID(5), row.ID, "erased row skipped")
	})

	t.Run("reports not found when no use type matches", func(t *testing.T) {
		// Prepare
		table := prepare(t)

		// Execute
		_, errFirst := table.FindByUse(9, FindFirst)
		_, errLast := table.FindByUse(9, FindLast)

		// Check
		assert.True(t, errors.Is(errFirst, dicterr.NoRecordFound{}), "not found ascending")
		assert.True(t, errors.Is(errLast, dicterr.NoRecordFound{}), "not found descending")
	})
}

func TestTable_LiveIDs(t *testing.T) {
	t.Run("collects ids with catalog rows", func(t *testing.T) {
		// Prepare
		table := newTestTable(t)
		for i := 0; i < 4; i++ {
			id, err := table.NextID()
			require.NoError(t, err)
			require.NoError(t, table.Write(dictionary.Schema{ID: id, KeySize: 4}, CalculatePos))
		}
		require.NoError(t, table.Erase(2))
		_, err := table.NextID()
		require.NoError(t, err)

		// Execute
		ids, err := table.LiveIDs()

		// Check
		assert.NoError(t, err, "scans table")
		assert.Equal(t, []uint32{1, 3, 4}, ids.ToArray(), "erased and orphaned ids excluded")
	})
}
