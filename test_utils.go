package tabledb

import (
	"bytes"
	"io"

	. "gopkg.in/check.v1"

	. "github.com/dropbox/godropbox/gocheck2"
)

// CheckIterator should only be used in tests.
func CheckIterator(c *C, iter Iterator, expected []Row) {
	// Ensure that the Iterator contains exactly the expected Rows.
	for _, row := range expected {
		actual, err := iter.Next()
		c.Assert(err, IsNil)
		c.Assert(bytes.Equal(actual, row), IsTrue)
	}
	_, err := iter.Next()
	c.Assert(err, Equals, io.EOF)
	// Repeated calls to Next should continue to return io.EOF after the
	// reaching the end of the Iterator.
	_, err = iter.Next()
	c.Assert(err, Equals, io.EOF)
	// Repeated calls to Close should be handled properly.
	err = iter.Close()
	c.Assert(err, IsNil)
	err = iter.Close()
	c.Assert(err, IsNil)
}

// Uint64Value should only be used in tests.
func Uint64Value(x uint64) []byte {
	b := make([]byte, 8)
	ByteOrder.PutUint64(b, x)
	return b
}

// FixedValue pads s with zeros to size bytes; it should only be used in tests.
func FixedValue(s string, size int) []byte {
	b := make([]byte, size)
	copy(b, s)
	return b
}
