package encoding

import (
	"os"

	. "gopkg.in/check.v1"

	"github.com/robot-dreams/tabledb"
	"github.com/robot-dreams/tabledb/schema"
)

type CSVScanSuite struct {
	ts *schema.TableSchema
}

var _ = Suite(&CSVScanSuite{})

func (s *CSVScanSuite) SetUpSuite(c *C) {
	ts, err := schema.New("movies", []tabledb.Attribute{
		{Name: "title", Type: tabledb.VarChar, Count: 32},
		{Name: "rating", Type: tabledb.Float64, Count: 1},
		{Name: "year", Type: tabledb.Uint64, Count: 1},
	})
	c.Assert(err, IsNil)
	s.ts = ts
}

func writeFile(c *C, data string) string {
	path := c.MkDir() + "/movies.csv"
	c.Assert(os.WriteFile(path, []byte(data), 0644), IsNil)
	return path
}

func (s *CSVScanSuite) TestCSVScan(c *C) {
	path := writeFile(c, `rating,title
9.3,The Shawshank Redemption
9.2,The Godfather
9.0,The Dark Knight
`)
	scan, err := NewCSVScan(path, s.ts)
	c.Assert(err, IsNil)
	c.Assert(scan.Names(), DeepEquals, []string{"rating", "title"})
	attrs := scan.Attributes()
	c.Assert(attrs, HasLen, 2)
	c.Assert(attrs[1].Offset, Equals, uint64(8))

	var expected []tabledb.Row
	for _, movie := range [][]string{
		{"9.3", "The Shawshank Redemption"},
		{"9.2", "The Godfather"},
		{"9.0", "The Dark Knight"},
	} {
		values, err := Pack(s.ts, []string{"rating", "title"}, movie)
		c.Assert(err, IsNil)
		expected = append(expected, values)
	}
	tabledb.CheckIterator(c, scan, expected)
}

func (s *CSVScanSuite) TestBadFiles(c *C) {
	_, err := NewCSVScan(c.MkDir()+"/missing.csv", s.ts)
	c.Assert(tabledb.KindOf(err), Equals, tabledb.FileError)

	_, err = NewCSVScan(writeFile(c, "title,director\n"), s.ts)
	c.Assert(tabledb.KindOf(err), Equals, tabledb.AttributeDoesNotExist)

	_, err = NewCSVScan(writeFile(c, "title,title\n"), s.ts)
	c.Assert(tabledb.KindOf(err), Equals, tabledb.AttributeExists)

	scan, err := NewCSVScan(writeFile(c, "title,year\nAlien,1979\nHeat,soon\n"), s.ts)
	c.Assert(err, IsNil)
	defer scan.Close()
	_, err = scan.Next()
	c.Assert(err, IsNil)
	_, err = scan.Next()
	c.Assert(tabledb.KindOf(err), Equals, tabledb.InvalidArgument)
}

type recordingInserter struct {
	ts     *schema.TableSchema
	names  [][]string
	values [][]byte
	failAt int
}

func (r *recordingInserter) Schema() *schema.TableSchema {
	return r.ts
}

func (r *recordingInserter) Insert(names []string, values []byte) error {
	if len(r.values) == r.failAt {
		return tabledb.Errorf(tabledb.AttributeIsUnique, "duplicate")
	}
	r.names = append(r.names, names)
	r.values = append(r.values, values)
	return nil
}

func (s *CSVScanSuite) TestLoad(c *C) {
	path := writeFile(c, "year,title\n1979,Alien\n1995,Heat\n")
	ins := &recordingInserter{ts: s.ts, failAt: -1}
	n, err := Load(ins, path)
	c.Assert(err, IsNil)
	c.Assert(n, Equals, uint64(2))
	c.Assert(ins.names[1], DeepEquals, []string{"year", "title"})
	expected, err := Pack(s.ts, []string{"year", "title"}, []string{"1995", "Heat"})
	c.Assert(err, IsNil)
	c.Assert(ins.values[1], DeepEquals, expected)

	// Rows before the failing one stay inserted.
	ins = &recordingInserter{ts: s.ts, failAt: 1}
	n, err = Load(ins, path)
	c.Assert(tabledb.KindOf(err), Equals, tabledb.AttributeIsUnique)
	c.Assert(n, Equals, uint64(1))
}
