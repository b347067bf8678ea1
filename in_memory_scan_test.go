package tabledb

import (
	. "gopkg.in/check.v1"

	. "github.com/dropbox/godropbox/gocheck2"
)

type ResultSetSuite struct{}

var _ = Suite(&ResultSetSuite{})

func newUsersResultSet(c *C) *ResultSet {
	rs, err := NewResultSet([]Attribute{
		{"id", Uint64, 1, 0},
		{"name", Char, 3, 0},
	})
	c.Assert(err, IsNil)
	return rs
}

func fillRow(c *C, rs *ResultSet, id uint64, name string) Row {
	row, err := rs.Row(rs.NextRow())
	c.Assert(err, IsNil)
	copy(row[0:8], Uint64Value(id))
	copy(row[8:11], name)
	return append(Row(nil), row...)
}

func (s *ResultSetSuite) TestScan(c *C) {
	rs := newUsersResultSet(c)
	var expected []Row
	for i, name := range []string{"ewd", "dmr", "rob", "ken", "gri"} {
		expected = append(expected, fillRow(c, rs, uint64(i+1), name))
	}
	c.Assert(rs.Count(), Equals, uint64(5))
	c.Assert(rs.Stride(), Equals, uint64(11))
	CheckIterator(c, rs.Scan(), expected)
}

func (s *ResultSetSuite) TestGrowth(c *C) {
	rs := newUsersResultSet(c)
	var expected []Row
	for i := 0; i < 3*RowIncrement+1; i++ {
		expected = append(expected, fillRow(c, rs, uint64(i), "abc"))
	}
	c.Assert(rs.capacity, Equals, uint64(4*RowIncrement))
	rows, err := ReadAll(rs.Scan())
	c.Assert(err, IsNil)
	c.Assert(rows, DeepEquals, expected)

	_, err = rs.Row(rs.Count())
	c.Assert(err, NotNil)
	_, err = rs.Value(0, 2)
	c.Assert(err, NotNil)
	value, err := rs.Value(2, 0)
	c.Assert(err, IsNil)
	c.Assert(value, DeepEquals, Uint64Value(2))
}

func (s *ResultSetSuite) TestRowIterator(c *C) {
	rs := newUsersResultSet(c)
	fillRow(c, rs, 1, "rob")
	fillRow(c, rs, 2, "ken")

	it := rs.IteratorBegin(1)
	c.Assert(it.IsEnd(), IsFalse)
	c.Assert(it.Attribute().Name, Equals, "id")
	c.Assert(it.Value(), DeepEquals, Uint64Value(2))
	it.Next()
	c.Assert(it.IsEnd(), IsFalse)
	c.Assert(it.Attribute().Name, Equals, "name")
	c.Assert(string(it.Value()), Equals, "ken")
	it.Next()
	c.Assert(it.IsEnd(), IsTrue)
}

func (s *ResultSetSuite) TestZeroStride(c *C) {
	rs, err := NewResultSet(nil)
	c.Assert(err, IsNil)
	for i := 0; i < RowIncrement+5; i++ {
		rs.NextRow()
	}
	c.Assert(rs.Count(), Equals, uint64(RowIncrement+5))
	c.Assert(rs.Stride(), Equals, uint64(0))
	c.Assert(rs.IteratorBegin(3).IsEnd(), IsTrue)
	rows, err := ReadAll(rs.Scan())
	c.Assert(err, IsNil)
	c.Assert(len(rows), Equals, RowIncrement+5)

	rs.Destroy()
	c.Assert(rs.Count(), Equals, uint64(0))
}
