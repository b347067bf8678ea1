package tabledb

import (
	"encoding/binary"
	"math"
)

// All integers persisted by tabledb use this byte order.
var ByteOrder = binary.LittleEndian

const (
	// Names are stored in 256 byte zero-padded slots, so at most 255 bytes
	// are usable.
	NameSlotSize  = 256
	MaxNameLength = NameSlotSize - 1

	// Row files and result sets grow by this many rows at a time.
	RowIncrement = 32

	// Largest stride for which a row file header plus RowIncrement rows
	// still fits in an int64 file offset.
	MaxStride = (math.MaxInt64 - 16) / RowIncrement
)

type AttributeType uint64

const (
	Byte AttributeType = iota
	Uint64
	Sint64
	Float64
	// Fixed length, no terminator (e.g. an id).
	Char
	WChar
	// Variable length up to Count elements, zero terminated when shorter.
	VarChar
	WVarChar
)

type Constraints uint64

const (
	NoConstraints Constraints = 0
	NotNull       Constraints = 0b01
	Unique        Constraints = 0b10
)

func (c Constraints) Has(flag Constraints) bool {
	return c&flag == flag
}

type Attribute struct {
	Name        string
	Type        AttributeType
	Count       uint64
	Constraints Constraints
}

// ResolvedAttribute is an Attribute placed inside a row.
type ResolvedAttribute struct {
	Attribute

	// Byte offset of the attribute within a row.
	Offset uint64
	// TypeSize(Type) * Count
	Size uint64
}

type Operator uint64

const (
	OpEquals Operator = iota
	OpDifferent
	OpBigger
	OpSmaller
	OpContains
)

type Condition struct {
	Name     string
	Operator Operator
	// Raw attribute bytes to compare against; values shorter than the
	// attribute are zero padded.
	Value []byte
}

// Row holds the packed attribute bytes of a single row.
type Row []byte

type Iterator interface {
	Attributes() []ResolvedAttribute
	// Returns io.EOF once all rows have been returned.
	Next() (Row, error)
	Close() error
}
