package dicterr

import (
	"errors"
	"fmt"
)

// NoRecordFound - Custom error to inform that no record (or catalog row) was found
type NoRecordFound struct {
	msg string
}

// NewNoRecordFound - Returns a NoRecordFound with a custom message
func NewNoRecordFound(format string, a ...any) NoRecordFound {
	return NoRecordFound{msg: fmt.Sprintf(format, a...)}
}

// Error - Used to notify that no record was found
func (E NoRecordFound) Error() string {
	if E.msg == "" {
		return "no record found"
	}
	return E.msg
}

// Is - Makes errors.Is(err, NoRecordFound{}) match regardless of message
func (E NoRecordFound) Is(target error) bool {
	_, ok := target.(NoRecordFound)
	return ok
}

// BadArgument - Custom error to inform that a call was made with an invalid argument
type BadArgument struct {
	msg string
}

// NewBadArgument - Returns a BadArgument with a custom message
func NewBadArgument(format string, a ...any) BadArgument {
	return BadArgument{msg: fmt.Sprintf(format, a...)}
}

// Error - Used to notify a bad argument
func (B BadArgument) Error() string {
	if B.msg == "" {
		return "bad argument"
	}
	return B.msg
}

// Is - Makes errors.Is(err, BadArgument{}) match regardless of message
func (B BadArgument) Is(target error) bool {
	_, ok := target.(BadArgument)
	return ok
}

// FileOp - Identifies which file operation failed in a FileError
type FileOp int

const (
	Seek FileOp = iota + 1
	Read
	Write
	Open
	Close
	Delete
)

func (o FileOp) String() string {
	switch o {
	case Seek:
		return "seek"
	case Read:
		return "read"
	case Write:
		return "write"
	case Open:
		return "open"
	case Close:
		return "close"
	case Delete:
		return "delete"
	}
	return "unknown"
}

// FileError - Custom error wrapping a failed file operation, including short reads and writes
type FileError struct {
	Op   FileOp
	Name string
	Err  error
}

// NewFileError - Returns a pointer to a FileError
func NewFileError(op FileOp, name string, err error) *FileError {
	return &FileError{Op: op, Name: name, Err: err}
}

// Error - Used to notify a failed file operation
func (F *FileError) Error() string {
	if F.Name == "" {
		return fmt.Sprintf("file %s error: %s", F.Op, F.Err)
	}
	return fmt.Sprintf("file %s error on %s: %s", F.Op, F.Name, F.Err)
}

// Unwrap - Returns the underlying error
func (F *FileError) Unwrap() error {
	return F.Err
}

// IsFileOp - Returns true if err is (or wraps) a FileError for the given operation
func IsFileOp(err error, op FileOp) bool {
	var fe *FileError
	return errors.As(err, &fe) && fe.Op == op
}
