package linearhash

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gostonefire/filedict/dicterr"
	"github.com/gostonefire/filedict/dictionary"
	"github.com/gostonefire/filedict/hashfunc"
)

// HandlerConf - Configuration for a Handler
//   - Dir is the directory where dictionary files are kept
//   - RecordsPerBucket is the number of record slots per block for new dictionaries, 0 gives the default
//   - SplitThreshold is the split load factor in percent for new dictionaries, 0 gives the default
//   - HashAlgorithm is an optional custom key hash, it must be the same every time a dictionary is opened
//   - Logger receives debug output, nil discards
type HandlerConf struct {
	Dir              string
	RecordsPerBucket int64
	SplitThreshold   int64
	HashAlgorithm    hashfunc.HashAlgorithm
	Logger           *slog.Logger
}

// Handler - Creates and opens linear hash dictionaries, one file per dictionary id
type Handler struct {
	conf HandlerConf
}

// NewHandler - Returns a pointer to a new Handler
func NewHandler(conf HandlerConf) *Handler {
	return &Handler{conf: conf}
}

// FileName - Returns the name of the file holding dictionary id
func (H *Handler) FileName(id dictionary.ID) string {
	return filepath.Join(H.conf.Dir, fmt.Sprintf("%d-lh.bin", id))
}

// Create - Creates the storage of a new dictionary with the given id. An existing file for the id is
// truncated. On failure any partially written file is removed.
func (H *Handler) Create(id dictionary.ID, schema dictionary.Schema) (instance dictionary.Instance, err error) {
	if id == 0 {
		err = dicterr.NewBadArgument("dictionary id must be higher than 0 (zero)")
		return
	}
	schema.ID = id
	fileName := H.FileName(id)

	file, err := os.OpenFile(fileName, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0644)
	if err != nil {
		err = dicterr.NewFileError(dicterr.Open, fileName, err)
		return
	}

	linearHash, err := New(file, H.linearHashConf(schema))
	if err != nil {
		_ = file.Close()
		_ = os.Remove(fileName)
		return
	}
	linearHash.fileName = fileName

	instance = linearHash

	return
}

// Open - Opens the storage of the existing dictionary described by schema
func (H *Handler) Open(schema dictionary.Schema) (instance dictionary.Instance, err error) {
	fileName := H.FileName(schema.ID)

	file, err := os.OpenFile(fileName, os.O_RDWR, 0644)
	if err != nil {
		err = dicterr.NewFileError(dicterr.Open, fileName, err)
		return
	}

	linearHash, err := Open(file, H.linearHashConf(schema))
	if err != nil {
		_ = file.Close()
		err = fmt.Errorf("error while opening dictionary %d: %w", schema.ID, err)
		return
	}
	linearHash.fileName = fileName

	instance = linearHash

	return
}

// linearHashConf - Combines schema with handler settings
func (H *Handler) linearHashConf(schema dictionary.Schema) Conf {
	return Conf{
		Schema:           schema,
		RecordsPerBucket: H.conf.RecordsPerBucket,
		SplitThreshold:   H.conf.SplitThreshold,
		HashAlgorithm:    H.conf.HashAlgorithm,
		Logger:           H.conf.Logger,
	}
}

var (
	_ dictionary.Handler  = (*Handler)(nil)
	_ dictionary.Instance = (*LinearHash)(nil)
	_ dictionary.Stater   = (*LinearHash)(nil)
)
