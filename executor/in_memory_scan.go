package executor

import (
	"github.com/dropbox/godropbox/errors"
	"github.com/robot-dreams/tabledb"
	"github.com/robot-dreams/tabledb/schema"
)

// inMemorySource serves rows that are already held in memory, e.g. rows
// decoded from a CSV file before they are inserted.
type inMemorySource struct {
	ts   *schema.TableSchema
	rows []tabledb.Row
}

var _ Source = (*inMemorySource)(nil)

// Every row must be exactly ts.Stride() bytes long.
func NewInMemorySource(ts *schema.TableSchema, rows []tabledb.Row) (*inMemorySource, error) {
	for i, row := range rows {
		if uint64(len(row)) != ts.Stride() {
			return nil, errors.Newf(
				"Row %d is %d bytes long; the stride of %s is %d",
				i,
				len(row),
				ts.Name(),
				ts.Stride())
		}
	}
	return &inMemorySource{
		ts:   ts,
		rows: rows,
	}, nil
}

func (m *inMemorySource) Schema() *schema.TableSchema {
	return m.ts
}

func (m *inMemorySource) Count() uint64 {
	return uint64(len(m.rows))
}

func (m *inMemorySource) ReadAt(row uint64, offset uint64, b []byte) error {
	if row >= uint64(len(m.rows)) {
		return errors.Newf("row must be in [0, %d); got %d", len(m.rows), row)
	}
	if offset+uint64(len(b)) > m.ts.Stride() {
		return errors.Newf(
			"Range [%d, %d) must be within the stride %d",
			offset,
			offset+uint64(len(b)),
			m.ts.Stride())
	}
	copy(b, m.rows[row][offset:])
	return nil
}
