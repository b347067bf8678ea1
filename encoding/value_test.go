package encoding

import (
	"math"

	. "gopkg.in/check.v1"

	"github.com/robot-dreams/tabledb"
	"github.com/robot-dreams/tabledb/schema"
)

type ValueSuite struct{}

var _ = Suite(&ValueSuite{})

func (s *ValueSuite) TestNumbers(c *C) {
	attr := &tabledb.Attribute{Name: "n", Type: tabledb.Sint64, Count: 1}
	b, err := EncodeValue(attr, "-42")
	c.Assert(err, IsNil)
	c.Assert(int64(tabledb.ByteOrder.Uint64(b)), Equals, int64(-42))
	text, err := DecodeValue(attr, b)
	c.Assert(err, IsNil)
	c.Assert(text, Equals, "-42")

	attr = &tabledb.Attribute{Name: "f", Type: tabledb.Float64, Count: 1}
	b, err = EncodeValue(attr, "2.5")
	c.Assert(err, IsNil)
	c.Assert(math.Float64frombits(tabledb.ByteOrder.Uint64(b)), Equals, 2.5)

	// Missing elements are zero.
	attr = &tabledb.Attribute{Name: "v", Type: tabledb.Uint64, Count: 3}
	b, err = EncodeValue(attr, "7 8")
	c.Assert(err, IsNil)
	c.Assert(b, HasLen, 24)
	text, err = DecodeValue(attr, b)
	c.Assert(err, IsNil)
	c.Assert(text, Equals, "7 8 0")

	attr = &tabledb.Attribute{Name: "b", Type: tabledb.Byte, Count: 2}
	b, err = EncodeValue(attr, "255 1")
	c.Assert(err, IsNil)
	c.Assert(b, DeepEquals, []byte{255, 1})

	for _, text := range []string{"", "256", "1 2 3", "x"} {
		_, err = EncodeValue(attr, text)
		c.Assert(tabledb.KindOf(err), Equals, tabledb.InvalidArgument)
	}
}

func (s *ValueSuite) TestStrings(c *C) {
	attr := &tabledb.Attribute{Name: "s", Type: tabledb.VarChar, Count: 4}
	b, err := EncodeValue(attr, "ab")
	c.Assert(err, IsNil)
	c.Assert(b, DeepEquals, []byte{'a', 'b', 0, 0})
	text, err := DecodeValue(attr, []byte{'a', 'b', 0, 'x'})
	c.Assert(err, IsNil)
	c.Assert(text, Equals, "ab")
	_, err = EncodeValue(attr, "abcde")
	c.Assert(tabledb.KindOf(err), Equals, tabledb.InvalidArgument)

	attr = &tabledb.Attribute{Name: "id", Type: tabledb.Char, Count: 4}
	text, err = DecodeValue(attr, []byte{'a', 0, 'b', 0})
	c.Assert(err, IsNil)
	c.Assert(text, Equals, "a\x00b")
}

func (s *ValueSuite) TestWideStrings(c *C) {
	attr := &tabledb.Attribute{Name: "w", Type: tabledb.WVarChar, Count: 4}
	b, err := EncodeValue(attr, "hé")
	c.Assert(err, IsNil)
	c.Assert(b, DeepEquals, []byte{'h', 0, 0xe9, 0, 0, 0, 0, 0})
	text, err := DecodeValue(attr, b)
	c.Assert(err, IsNil)
	c.Assert(text, Equals, "hé")

	// A character outside the BMP takes two code units.
	b, err = EncodeValue(attr, "a😀")
	c.Assert(err, IsNil)
	text, err = DecodeValue(attr, b)
	c.Assert(err, IsNil)
	c.Assert(text, Equals, "a😀")
	_, err = EncodeValue(attr, "abcde")
	c.Assert(tabledb.KindOf(err), Equals, tabledb.InvalidArgument)

	attr = &tabledb.Attribute{Name: "w", Type: tabledb.WChar, Count: 2}
	text, err = DecodeValue(attr, []byte{'o', 0, 'k', 0})
	c.Assert(err, IsNil)
	c.Assert(text, Equals, "ok")
}

func (s *ValueSuite) TestDecodeSizeMismatch(c *C) {
	attr := &tabledb.Attribute{Name: "n", Type: tabledb.Uint64, Count: 1}
	_, err := DecodeValue(attr, []byte{1})
	c.Assert(tabledb.KindOf(err), Equals, tabledb.InvalidArgument)
	attr = &tabledb.Attribute{Name: "n", Type: tabledb.AttributeType(9), Count: 1}
	_, err = EncodeValue(attr, "1")
	c.Assert(tabledb.KindOf(err), Equals, tabledb.UnknownType)
}

func (s *ValueSuite) TestPackAndCondition(c *C) {
	ts, err := schema.New("users", []tabledb.Attribute{
		{Name: "id", Type: tabledb.Uint64, Count: 1},
		{Name: "name", Type: tabledb.VarChar, Count: 4},
	})
	c.Assert(err, IsNil)
	values, err := Pack(ts, []string{"name", "id"}, []string{"al", "3"})
	c.Assert(err, IsNil)
	c.Assert(values, DeepEquals, append([]byte{'a', 'l', 0, 0}, tabledb.Uint64Value(3)...))

	_, err = Pack(ts, []string{"id"}, nil)
	c.Assert(tabledb.KindOf(err), Equals, tabledb.InvalidArgument)
	_, err = Pack(ts, []string{"email"}, []string{"x"})
	c.Assert(tabledb.KindOf(err), Equals, tabledb.AttributeDoesNotExist)

	cond, err := Condition(ts, "id", tabledb.OpDifferent, "3")
	c.Assert(err, IsNil)
	c.Assert(cond.Operator, Equals, tabledb.OpDifferent)
	c.Assert(cond.Value, DeepEquals, tabledb.Uint64Value(3))

	row := append(tabledb.Uint64Value(9), 'b', 'o', 'b', 0)
	texts, err := FormatRow(ts.Attributes(), row)
	c.Assert(err, IsNil)
	c.Assert(texts, DeepEquals, []string{"9", "bob"})
	_, err = FormatRow(ts.Attributes(), row[:8])
	c.Assert(err, NotNil)
}
