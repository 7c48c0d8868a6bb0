package filedict

import (
	"github.com/gostonefire/filedict/dictionary"
	"github.com/gostonefire/filedict/hashfunc"
	"github.com/gostonefire/filedict/internal/storage/linearhash"
)

// LinearHashConf - Configuration of the linear hash dictionary handler
//   - Dir is the directory where dictionary files are kept, one file per dictionary named <id>-lh.bin
//   - RecordsPerBucket is the number of record slots in each block of new dictionaries, 0 gives 4
//   - SplitThreshold is the load factor in percent above which an insert splits a bucket, 0 gives 85
//   - HashAlgorithm is an optional custom key hash following the hashfunc.HashAlgorithm interface. A dictionary
//     must always be opened with the same choice of internal or custom hash as it was created with.
//   - Logger receives split activity at debug level, nil discards
type LinearHashConf struct {
	Dir              string
	RecordsPerBucket int64
	SplitThreshold   int64
	HashAlgorithm    hashfunc.HashAlgorithm
	Logger           *Logger
}

// NewLinearHashHandler - Returns a dictionary handler storing each dictionary in its own linear hash file.
// The initial number of buckets is taken from Schema.DictionarySize, 0 gives 4.
func NewLinearHashHandler(conf LinearHashConf) dictionary.Handler {
	handlerConf := linearhash.HandlerConf{
		Dir:              conf.Dir,
		RecordsPerBucket: conf.RecordsPerBucket,
		SplitThreshold:   conf.SplitThreshold,
		HashAlgorithm:    conf.HashAlgorithm,
	}
	if conf.Logger != nil {
		handlerConf.Logger = conf.Logger.Logger
	}

	return linearhash.NewHandler(handlerConf)
}
