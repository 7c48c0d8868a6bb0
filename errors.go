package filedict

import "github.com/gostonefire/filedict/dicterr"

// NoRecordFound - Returned when a catalog row or a dictionary record does not exist, match with errors.Is
type NoRecordFound = dicterr.NoRecordFound

// BadArgument - Returned when a call is made with an invalid argument, match with errors.Is
type BadArgument = dicterr.BadArgument

// FileError - Wraps an error from the underlying file system together with the failing operation
type FileError = dicterr.FileError
