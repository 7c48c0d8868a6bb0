//go:build unit

package linearhash

import (
	"errors"
	"os"
	"testing"

	"github.com/gostonefire/filedict/dicterr"
	"github.com/gostonefire/filedict/dictionary"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler(t *testing.T) {
	t.Run("creates, reopens and removes a dictionary file", func(t *testing.T) {
		// Prepare
		handler := NewHandler(HandlerConf{Dir: t.TempDir(), RecordsPerBucket: 2})
		schema := numericSchema(0)
		schema.UseType = 4

		// Execute
		instance, err := handler.Create(3, schema)
		require.NoError(t, err, "creates dictionary")
		require.NoError(t, instance.Insert(key(1), value(1)))
		require.NoError(t, instance.Close())

		reopened, err := handler.Open(instance.Schema())

		// Check
		require.NoError(t, err, "reopens dictionary")
		assert.Equal(t, dictionary.ID(3), reopened.Schema().ID, "id set from create")
		assert.Equal(t, uint32(DefaultInitialSize), reopened.Schema().DictionarySize, "defaulted size recorded")
		v, err := reopened.Get(key(1))
		assert.NoError(t, err)
		assert.Equal(t, value(1), v, "record persisted")

		// Clean up
		assert.NoError(t, reopened.Remove(), "removes dictionary")
		_, err = os.Stat(handler.FileName(3))
		assert.True(t, os.IsNotExist(err), "file removed")
	})

	t.Run("failed create leaves no file", func(t *testing.T) {
		// Prepare
		handler := NewHandler(HandlerConf{Dir: t.TempDir()})
		schema := numericSchema(4)
		schema.KeySize = 0

		// Execute
		_, err := handler.Create(5, schema)
		_, errZero := handler.Create(0, numericSchema(4))

		// Check
		assert.True(t, errors.Is(err, dicterr.BadArgument{}), "zero key size")
		assert.True(t, errors.Is(errZero, dicterr.BadArgument{}), "id 0")
		_, err = os.Stat(handler.FileName(5))
		assert.True(t, os.IsNotExist(err), "partial file removed")
	})

	t.Run("open of unknown dictionary fails", func(t *testing.T) {
		// Prepare
		handler := NewHandler(HandlerConf{Dir: t.TempDir()})

		// Execute
		_, err := handler.Open(dictionary.Schema{ID: 9})

		// Check
		assert.True(t, dicterr.IsFileOp(err, dicterr.Open), "no file")
	})
}
