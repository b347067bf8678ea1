package database

import (
	"bytes"
	"math"
	"path/filepath"

	. "gopkg.in/check.v1"

	. "github.com/dropbox/godropbox/gocheck2"
	"github.com/dropbox/godropbox/math2/rand2"
	"github.com/robot-dreams/tabledb"
)

var tag = []byte{'o', 0, 'k', 0}

func insertUser(t *Table, id uint64, name string) error {
	values := tabledb.Uint64Value(id)
	values = append(values, tabledb.FixedValue(name, 16)...)
	values = append(values, tag...)
	return t.Insert([]string{"id", "name", "tag"}, values)
}

type TableSuite struct {
	db *Database
	t  *Table
}

var _ = Suite(&TableSuite{})

func (s *TableSuite) open(c *C, opts Options) {
	name := filepath.Join(c.MkDir(), "shop")
	c.Assert(Create(name), IsNil)
	db, err := OpenWithOptions(name, opts)
	c.Assert(err, IsNil)
	c.Assert(db.CreateTable("users", userAttributes), IsNil)
	t, err := db.OpenTable("users")
	c.Assert(err, IsNil)
	s.db = db
	s.t = t
}

func (s *TableSuite) SetUpTest(c *C) {
	s.open(c, Options{})
}

func (s *TableSuite) TearDownTest(c *C) {
	c.Assert(s.db.Close(), IsNil)
}

func (s *TableSuite) TestInsertAndScan(c *C) {
	score := make([]byte, 8)
	tabledb.ByteOrder.PutUint64(score, math.Float64bits(2.5))
	values := append(tabledb.Uint64Value(7), tag...)
	values = append(values, score...)
	c.Assert(s.t.Insert([]string{"id", "tag", "score"}, values), IsNil)
	c.Assert(s.t.Count(), Equals, uint64(1))

	rs, err := s.t.Scan()
	c.Assert(err, IsNil)
	c.Assert(rs.Stride(), Equals, s.t.Stride())
	expected := append(tabledb.Uint64Value(7), make([]byte, 16)...)
	expected = append(expected, score...)
	expected = append(expected, tag...)
	tabledb.CheckIterator(c, rs.Scan(), []tabledb.Row{expected})
}

func (s *TableSuite) TestInsertErrors(c *C) {
	id := tabledb.Uint64Value(1)
	err := s.t.Insert([]string{"id", "email"}, id)
	c.Assert(tabledb.KindOf(err), Equals, tabledb.AttributeDoesNotExist)

	err = s.t.Insert([]string{"id", "id"}, append(id, id...))
	c.Assert(tabledb.KindOf(err), Equals, tabledb.InvalidArgument)

	err = s.t.Insert([]string{"id", "tag"}, id)
	c.Assert(tabledb.KindOf(err), Equals, tabledb.InvalidArgument)

	// Omitting a NOT NULL attribute fails.
	err = s.t.Insert([]string{"id"}, id)
	c.Assert(tabledb.KindOf(err), Equals, tabledb.AttributeIsNotNull)
	err = s.t.Insert([]string{"tag"}, tag)
	c.Assert(tabledb.KindOf(err), Equals, tabledb.AttributeIsNotNull)

	c.Assert(s.t.Count(), Equals, uint64(0))
}

func (s *TableSuite) TestUnique(c *C) {
	c.Assert(insertUser(s.t, 1, "alice"), IsNil)
	err := insertUser(s.t, 1, "bob")
	c.Assert(tabledb.KindOf(err), Equals, tabledb.AttributeIsUnique)
	c.Assert(s.t.Count(), Equals, uint64(1))

	// name isn't UNIQUE, so repeating it is fine.
	c.Assert(insertUser(s.t, 2, "alice"), IsNil)
	c.Assert(s.t.Count(), Equals, uint64(2))
}

func (s *TableSuite) TestUniqueComparesRawBytes(c *C) {
	c.Assert(s.db.CreateTable("codes", []tabledb.Attribute{
		{Name: "code", Type: tabledb.VarChar, Count: 4, Constraints: tabledb.Unique},
	}), IsNil)
	t, err := s.db.OpenTable("codes")
	c.Assert(err, IsNil)
	c.Assert(t.Insert([]string{"code"}, []byte{'a', 0, 'x', 0}), IsNil)
	// Equal as VarChars, but the bytes differ after the terminator.
	c.Assert(t.Insert([]string{"code"}, []byte{'a', 0, 'y', 0}), IsNil)
	err = t.Insert([]string{"code"}, []byte{'a', 0, 'x', 0})
	c.Assert(tabledb.KindOf(err), Equals, tabledb.AttributeIsUnique)

	// Both rows match a VarChar equality condition.
	rs, err := t.Select(
		[]string{"code"},
		[]tabledb.Condition{
			{Name: "code", Operator: tabledb.OpEquals, Value: []byte("a")},
		})
	c.Assert(err, IsNil)
	c.Assert(rs.Count(), Equals, uint64(2))
}

func (s *TableSuite) TestUniqueWithoutNamingAttribute(c *C) {
	c.Assert(s.db.CreateTable("codes", []tabledb.Attribute{
		{Name: "code", Type: tabledb.Uint64, Count: 1, Constraints: tabledb.Unique},
		{Name: "note", Type: tabledb.Char, Count: 2},
	}), IsNil)
	t, err := s.db.OpenTable("codes")
	c.Assert(err, IsNil)
	c.Assert(t.Insert([]string{"code"}, tabledb.Uint64Value(5)), IsNil)
	// Unnamed UNIQUE attributes aren't checked, and are stored as zero.
	c.Assert(t.Insert([]string{"note"}, []byte("hi")), IsNil)
	c.Assert(t.Insert([]string{"note"}, []byte("hi")), IsNil)
	err = t.Insert([]string{"code"}, tabledb.Uint64Value(0))
	c.Assert(tabledb.KindOf(err), Equals, tabledb.AttributeIsUnique)
}

func (s *TableSuite) checkGrowth(c *C) {
	n := tabledb.RowIncrement + 1
	ids := make([]uint64, n)
	for i := range ids {
		ids[i] = uint64(i)*1000 + uint64(rand2.Intn(1000))
		c.Assert(insertUser(s.t, ids[i], "u"), IsNil)
	}
	c.Assert(s.t.Count(), Equals, uint64(n))
	c.Assert(s.t.Capacity(), Equals, uint64(2*tabledb.RowIncrement))

	rs, err := s.t.Select([]string{"id"}, nil)
	c.Assert(err, IsNil)
	expected := make([]tabledb.Row, n)
	for i, id := range ids {
		expected[i] = tabledb.Uint64Value(id)
	}
	tabledb.CheckIterator(c, rs.Scan(), expected)

	// A duplicate is still caught after the grow.
	err = insertUser(s.t, ids[rand2.Intn(n)], "dup")
	c.Assert(tabledb.KindOf(err), Equals, tabledb.AttributeIsUnique)
}

func (s *TableSuite) TestGrowth(c *C) {
	s.checkGrowth(c)
}

func (s *TableSuite) TestGrowthWithoutUniqueFilter(c *C) {
	c.Assert(s.db.Close(), IsNil)
	s.open(c, Options{DisableUniqueFilter: true})
	s.checkGrowth(c)
}

func (s *TableSuite) TestRowsSurviveReopen(c *C) {
	c.Assert(insertUser(s.t, 1, "alice"), IsNil)
	c.Assert(insertUser(s.t, 2, "bob"), IsNil)
	name := s.db.Name()
	c.Assert(s.db.Close(), IsNil)

	db, err := Open(name)
	c.Assert(err, IsNil)
	s.db = db
	s.t, err = db.OpenTable("users")
	c.Assert(err, IsNil)
	c.Assert(s.t.Count(), Equals, uint64(2))
	// The filter is rebuilt from the stored rows.
	err = insertUser(s.t, 2, "carol")
	c.Assert(tabledb.KindOf(err), Equals, tabledb.AttributeIsUnique)
	c.Assert(insertUser(s.t, 3, "carol"), IsNil)
}

func (s *TableSuite) TestSelect(c *C) {
	c.Assert(s.db.CreateTable("items", []tabledb.Attribute{
		{Name: "id", Type: tabledb.Uint64, Count: 1},
		{Name: "name", Type: tabledb.VarChar, Count: 8},
	}), IsNil)
	t, err := s.db.OpenTable("items")
	c.Assert(err, IsNil)
	for i, name := range []string{"a", "b", "a"} {
		values := append(tabledb.Uint64Value(uint64(i+1)), tabledb.FixedValue(name, 8)...)
		c.Assert(t.Insert([]string{"id", "name"}, values), IsNil)
	}

	rs, err := t.Select(
		[]string{"id"},
		[]tabledb.Condition{
			{Name: "name", Operator: tabledb.OpEquals, Value: []byte("a")},
		})
	c.Assert(err, IsNil)
	tabledb.CheckIterator(c, rs.Scan(), []tabledb.Row{
		tabledb.Uint64Value(1),
		tabledb.Uint64Value(3),
	})

	rs, err = t.Select(
		[]string{"id"},
		[]tabledb.Condition{
			{Name: "name", Operator: tabledb.OpDifferent, Value: []byte("a")},
		})
	c.Assert(err, IsNil)
	tabledb.CheckIterator(c, rs.Scan(), []tabledb.Row{tabledb.Uint64Value(2)})

	for _, op := range []tabledb.Operator{tabledb.OpBigger, tabledb.OpSmaller, tabledb.OpContains} {
		rs, err = t.Select(
			[]string{"id"},
			[]tabledb.Condition{
				{Name: "id", Operator: op, Value: tabledb.Uint64Value(2)},
			})
		c.Assert(tabledb.KindOf(err), Equals, tabledb.UnknownOperator)
		c.Assert(rs, IsNil)
	}

	// The result set outlives the table.
	rs, err = t.Scan()
	c.Assert(err, IsNil)
	c.Assert(t.Close(), IsNil)
	c.Assert(rs.Count(), Equals, uint64(3))
	value, err := rs.Value(2, 1)
	c.Assert(err, IsNil)
	c.Assert(bytes.Equal(value, tabledb.FixedValue("a", 8)), IsTrue)
}
