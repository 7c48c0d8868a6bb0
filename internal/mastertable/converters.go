package mastertable

import (
	"encoding/binary"
	"fmt"

	"github.com/gostonefire/filedict/dictionary"
)

// RecordWidth - Length of one catalog row, the sum of all field widths with no padding
const RecordWidth int64 = 14

// idOffset - Row offset to the dictionary id (or the next id counter in slot 0) - 4 bytes
const idOffset int64 = 0

// useTypeOffset - Row offset to the use type - 1 byte
const useTypeOffset int64 = 4

// keyTypeOffset - Row offset to the key type - 1 byte
const keyTypeOffset int64 = 5

// keySizeOffset - Row offset to the key size - 2 bytes
const keySizeOffset int64 = 6

// valueSizeOffset - Row offset to the value size - 2 bytes
const valueSizeOffset int64 = 8

// dictionarySizeOffset - Row offset to the dictionary size - 4 bytes
const dictionarySizeOffset int64 = 10

// rowToBytes - Converts a Schema to a catalog row
func rowToBytes(row dictionary.Schema) (buf []byte) {
	buf = make([]byte, RecordWidth)

	binary.LittleEndian.PutUint32(buf[idOffset:], uint32(row.ID))
	buf[useTypeOffset] = uint8(row.UseType)
	buf[keyTypeOffset] = uint8(row.KeyType)
	binary.LittleEndian.PutUint16(buf[keySizeOffset:], row.KeySize)
	binary.LittleEndian.PutUint16(buf[valueSizeOffset:], row.ValueSize)
	binary.LittleEndian.PutUint32(buf[dictionarySizeOffset:], row.DictionarySize)

	return
}

// bytesToRow - Converts a catalog row to a Schema
func bytesToRow(buf []byte) (row dictionary.Schema, err error) {
	if int64(len(buf)) < RecordWidth {
		err = fmt.Errorf("length of data in buf (%d) less than catalog row size (%d)", len(buf), RecordWidth)
		return
	}

	row = dictionary.Schema{
		ID:             dictionary.ID(binary.LittleEndian.Uint32(buf[idOffset:])),
		UseType:        dictionary.UseType(buf[useTypeOffset]),
		KeyType:        dictionary.KeyType(buf[keyTypeOffset]),
		KeySize:        binary.LittleEndian.Uint16(buf[keySizeOffset:]),
		ValueSize:      binary.LittleEndian.Uint16(buf[valueSizeOffset:]),
		DictionarySize: binary.LittleEndian.Uint32(buf[dictionarySizeOffset:]),
	}

	return
}
