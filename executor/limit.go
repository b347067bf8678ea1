package executor

import (
	"io"

	"github.com/robot-dreams/tabledb"
)

// limit sets an upper bound on the number of Rows that can be read from the
// input Iterator.
type limit struct {
	iter        tabledb.Iterator
	maxRows     int
	numRowsRead int
}

var _ tabledb.Iterator = (*limit)(nil)

func NewLimit(iter tabledb.Iterator, maxRows int) *limit {
	return &limit{
		iter:    iter,
		maxRows: maxRows,
	}
}

func (l *limit) Attributes() []tabledb.ResolvedAttribute {
	return l.iter.Attributes()
}

func (l *limit) Next() (tabledb.Row, error) {
	if l.numRowsRead >= l.maxRows {
		return nil, io.EOF
	}
	r, err := l.iter.Next()
	if err != nil {
		return nil, err
	}
	l.numRowsRead++
	return r, nil
}

func (l *limit) Close() error {
	return l.iter.Close()
}
