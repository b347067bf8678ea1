package encoding

import (
	"bufio"
	"encoding/csv"
	"io"
	"os"

	"github.com/robot-dreams/tabledb"
	"github.com/robot-dreams/tabledb/schema"
)

// csvScan reads packed values from a CSV file whose header names a subset
// of a table's attributes, in any order.
type csvScan struct {
	r      *csv.Reader
	names  []string
	attrs  []tabledb.ResolvedAttribute
	closed bool
	c      io.Closer
}

var _ tabledb.Iterator = (*csvScan)(nil)

func NewCSVScan(path string, ts *schema.TableSchema) (*csvScan, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, tabledb.WrapFile(err, "Failed to open '%s'", path)
	}
	scan, err := newCSVScan(f, ts)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return scan, nil
}

func newCSVScan(rc io.ReadCloser, ts *schema.TableSchema) (*csvScan, error) {
	r := csv.NewReader(bufio.NewReader(rc))
	header, err := r.Read()
	if err != nil {
		return nil, tabledb.WrapFile(err, "Failed to read csv header")
	}
	attrs := make([]tabledb.Attribute, len(header))
	for i, name := range header {
		attr, err := ts.Resolve(name)
		if err != nil {
			return nil, err
		}
		attrs[i] = attr.Attribute
	}
	// Rows are packed in header order, which ResolveAttributes reproduces.
	resolved, _, err := tabledb.ResolveAttributes(attrs)
	if err != nil {
		return nil, err
	}
	r.FieldsPerRecord = len(header)
	return &csvScan{
		r:     r,
		names: header,
		attrs: resolved,
		c:     rc,
	}, nil
}

// Names returns the attribute names from the header, in column order.
func (c *csvScan) Names() []string {
	return c.names
}

func (c *csvScan) Attributes() []tabledb.ResolvedAttribute {
	return c.attrs
}

func (c *csvScan) Next() (tabledb.Row, error) {
	if c.closed {
		return nil, io.EOF
	}
	record, err := c.r.Read()
	if err == io.EOF {
		return nil, io.EOF
	} else if err != nil {
		return nil, tabledb.Errorf(tabledb.InvalidArgument, "Malformed csv: %v", err)
	}
	var row tabledb.Row
	for i, column := range record {
		value, err := EncodeValue(&c.attrs[i].Attribute, column)
		if err != nil {
			line, _ := c.r.FieldPos(i)
			return nil, tabledb.Errorf(tabledb.InvalidArgument, "line %d: %v", line, err)
		}
		row = append(row, value...)
	}
	return row, nil
}

func (c *csvScan) Close() error {
	if c.closed {
		return nil
	}
	defer func() {
		c.closed = true
	}()
	return c.c.Close()
}
