package executor

import (
	. "gopkg.in/check.v1"

	"github.com/robot-dreams/tabledb"
)

type LimitSuite struct{}

var _ = Suite(&LimitSuite{})

func (s *LimitSuite) TestLimit(c *C) {
	rs, err := tabledb.NewResultSet([]tabledb.Attribute{
		{Name: "id", Type: tabledb.Uint64, Count: 1},
	})
	c.Assert(err, IsNil)
	for i := uint64(0); i < 3; i++ {
		r, err := rs.Row(rs.NextRow())
		c.Assert(err, IsNil)
		tabledb.ByteOrder.PutUint64(r, i)
	}
	limit := NewLimit(rs.Scan(), 2)
	c.Assert(limit.Attributes(), HasLen, 1)
	tabledb.CheckIterator(c, limit, []tabledb.Row{
		tabledb.Uint64Value(0),
		tabledb.Uint64Value(1),
	})

	// If the limit is greater than the number of Rows in the input Iterator,
	// then all elements should be returned.
	limit = NewLimit(rs.Scan(), 4)
	tabledb.CheckIterator(c, limit, []tabledb.Row{
		tabledb.Uint64Value(0),
		tabledb.Uint64Value(1),
		tabledb.Uint64Value(2),
	})

	limit = NewLimit(rs.Scan(), 0)
	tabledb.CheckIterator(c, limit, nil)
}
