package tabledb

import (
	"github.com/dropbox/godropbox/errors"
)

// ResultSet is a growable, stride addressed collection of rows which doesn't
// depend on the table it was produced from.
type ResultSet struct {
	stride     uint64
	count      uint64
	capacity   uint64
	attributes []ResolvedAttribute
	data       []byte
}

// NewResultSet lays attrs out like a table row.  Unlike a table, a result set
// may repeat a column.
func NewResultSet(attrs []Attribute) (*ResultSet, error) {
	resolved, stride, err := resolveColumns(attrs)
	if err != nil {
		return nil, err
	}
	return &ResultSet{
		stride:     stride,
		capacity:   RowIncrement,
		attributes: resolved,
		data:       make([]byte, RowIncrement*stride),
	}, nil
}

func (rs *ResultSet) Stride() uint64 {
	return rs.stride
}

func (rs *ResultSet) Count() uint64 {
	return rs.count
}

func (rs *ResultSet) Attributes() []ResolvedAttribute {
	return rs.attributes
}

// NextRow appends a zeroed row and returns its index.
func (rs *ResultSet) NextRow() uint64 {
	if rs.count == rs.capacity {
		rs.capacity += RowIncrement
		data := make([]byte, rs.capacity*rs.stride)
		copy(data, rs.data)
		rs.data = data
	}
	row := rs.count
	rs.count++
	return row
}

// Row returns the bytes of the given row; writes through the returned slice
// are visible in the ResultSet until the next call to NextRow.
func (rs *ResultSet) Row(row uint64) (Row, error) {
	if row >= rs.count {
		return nil, errors.Newf("row must be in [0, %d); got %d", rs.count, row)
	}
	start := row * rs.stride
	return Row(rs.data[start : start+rs.stride : start+rs.stride]), nil
}

func (rs *ResultSet) Value(row uint64, attributeIndex int) ([]byte, error) {
	if attributeIndex < 0 || attributeIndex >= len(rs.attributes) {
		return nil, errors.Newf(
			"attribute index must be in [0, %d); got %d",
			len(rs.attributes),
			attributeIndex)
	}
	r, err := rs.Row(row)
	if err != nil {
		return nil, err
	}
	attr := rs.attributes[attributeIndex]
	return r[attr.Offset : attr.Offset+attr.Size], nil
}

func (rs *ResultSet) Destroy() {
	rs.data = nil
	rs.attributes = nil
	rs.count = 0
	rs.capacity = 0
}

// RowIterator walks the attributes of a single row in declaration order.
type RowIterator struct {
	rs     *ResultSet
	row    Row
	index  int
	offset uint64
}

// Precondition: row is in [0, Count())
func (rs *ResultSet) IteratorBegin(row uint64) *RowIterator {
	start := row * rs.stride
	return &RowIterator{
		rs:  rs,
		row: Row(rs.data[start : start+rs.stride]),
	}
}

func (it *RowIterator) IsEnd() bool {
	return it.offset == it.rs.stride
}

func (it *RowIterator) Next() {
	it.offset += it.rs.attributes[it.index].Size
	it.index++
}

func (it *RowIterator) Attribute() *ResolvedAttribute {
	return &it.rs.attributes[it.index]
}

func (it *RowIterator) Value() []byte {
	size := it.rs.attributes[it.index].Size
	return it.row[it.offset : it.offset+size]
}
