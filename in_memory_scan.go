package tabledb

import (
	"io"
)

type resultSetScan struct {
	rs   *ResultSet
	next uint64
}

var _ Iterator = (*resultSetScan)(nil)

// Scan returns an Iterator over the rows of rs.  The rows returned are copies,
// so they stay valid after rs grows or is destroyed.
func (rs *ResultSet) Scan() Iterator {
	return &resultSetScan{
		rs: rs,
	}
}

func (s *resultSetScan) Attributes() []ResolvedAttribute {
	return s.rs.attributes
}

func (s *resultSetScan) Next() (Row, error) {
	if s.next >= s.rs.count {
		return nil, io.EOF
	}
	r, err := s.rs.Row(s.next)
	if err != nil {
		return nil, err
	}
	s.next++
	row := make(Row, len(r))
	copy(row, r)
	return row, nil
}

func (s *resultSetScan) Close() error {
	s.next = s.rs.count
	return nil
}
