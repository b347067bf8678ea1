package tabledb

import (
	"fmt"

	"github.com/dropbox/godropbox/errors"
)

type ErrorKind uint64

const (
	NoError ErrorKind = iota
	FileError
	DatabaseExists
	DatabaseDoesNotExist
	TableExists
	TableDoesNotExist
	AttributeExists
	AttributeDoesNotExist
	AttributeIsNotNull
	AttributeIsUnique
	UnknownOperator
	UnknownType
	NameTooLong
	InvalidArgument
	Closed
)

var errorKindNames = map[ErrorKind]string{
	NoError:               "NoError",
	FileError:             "File",
	DatabaseExists:        "DatabaseExists",
	DatabaseDoesNotExist:  "DatabaseDoesNotExist",
	TableExists:           "TableExists",
	TableDoesNotExist:     "TableDoesNotExist",
	AttributeExists:       "AttributeExists",
	AttributeDoesNotExist: "AttributeDoesNotExist",
	AttributeIsNotNull:    "AttributeIsNotNull",
	AttributeIsUnique:     "AttributeIsUnique",
	UnknownOperator:       "UnknownOperator",
	UnknownType:           "UnknownType",
	NameTooLong:           "NameTooLong",
	InvalidArgument:       "InvalidArgument",
	Closed:                "Closed",
}

func (k ErrorKind) String() string {
	if name, ok := errorKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", uint64(k))
}

// Error is returned by every fallible public operation.  Err holds the
// underlying error, including its stack trace.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Kind.String() + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Errorf(kind ErrorKind, format string, args ...interface{}) *Error {
	message := fmt.Sprintf(format, args...)
	return &Error{
		Kind:    kind,
		Message: message,
		Err:     errors.New(message),
	}
}

// WrapFile reports a failure of the storage layer.
func WrapFile(err error, format string, args ...interface{}) *Error {
	message := fmt.Sprintf(format, args...)
	return &Error{
		Kind:    FileError,
		Message: message + ": " + err.Error(),
		Err:     errors.Wrap(err, message),
	}
}

// KindOf returns NoError for nil and FileError for errors that didn't come
// from tabledb.
func KindOf(err error) ErrorKind {
	if err == nil {
		return NoError
	}
	if e, ok := err.(*Error); ok {
		return e.Kind
	}
	return FileError
}
