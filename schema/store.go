package schema

import (
	"github.com/robot-dreams/tabledb"
	"github.com/robot-dreams/tabledb/data_file"
)

// Store owns a database's schema file: a table count followed by one
// descriptor plus attribute records per table.
type Store struct {
	df        *data_file.File
	countView *data_file.View

	tableCount uint64

	// Offset just past the last table record.  Appends go here rather than
	// to the end of the file, so space left behind by a failed append is
	// reused.
	end int64
}

// Create writes a new schema file containing no tables.
func Create(path string) error {
	df, err := data_file.CreateFile(path, tableCountSize)
	if err != nil {
		return tabledb.WrapFile(err, "Failed to create database schema file '%s'", path)
	}
	defer df.Close()
	countView, err := df.OpenView(0, tableCountSize)
	if err != nil {
		return tabledb.WrapFile(err, "Failed to open table count view of '%s'", path)
	}
	defer countView.Close()
	err = countView.Write(0, make([]byte, tableCountSize))
	if err != nil {
		return tabledb.WrapFile(err, "Failed to write table count to '%s'", path)
	}
	return nil
}

// Open loads every table schema, in file order.  On failure nothing is
// left open.
func Open(path string) (*Store, []*TableSchema, error) {
	df, err := data_file.OpenFile(path)
	if err != nil {
		return nil, nil, tabledb.WrapFile(err, "Failed to open database schema file '%s'", path)
	}
	s := &Store{
		df: df,
	}
	schemas, err := s.load()
	if err != nil {
		_ = s.Close()
		return nil, nil, err
	}
	return s, schemas, nil
}

func (s *Store) openCountView() error {
	countView, err := s.df.OpenView(0, tableCountSize)
	if err != nil {
		return tabledb.WrapFile(err, "Failed to open table count view of '%s'", s.df.Path())
	}
	s.countView = countView
	return nil
}

func (s *Store) load() ([]*TableSchema, error) {
	err := s.openCountView()
	if err != nil {
		return nil, err
	}
	b := make([]byte, tableCountSize)
	err = s.countView.Read(0, b)
	if err != nil {
		return nil, tabledb.WrapFile(err, "Failed to read table count from '%s'", s.df.Path())
	}
	tableCount := tabledb.ByteOrder.Uint64(b)

	var schemas []*TableSchema
	seen := make(map[string]struct{})
	offset := int64(tableCountSize)
	for i := uint64(0); i < tableCount; i++ {
		ts, next, err := s.loadTable(offset, i)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[ts.name]; ok {
			return nil, tabledb.Errorf(
				tabledb.FileError,
				"Table '%s' appears more than once in '%s'",
				ts.name,
				s.df.Path())
		}
		seen[ts.name] = struct{}{}
		schemas = append(schemas, ts)
		offset = next
	}
	s.tableCount = tableCount
	s.end = offset
	return schemas, nil
}

// Returns the schema stored at offset along with the offset of the next
// table record.
func (s *Store) loadTable(offset int64, index uint64) (*TableSchema, int64, error) {
	descriptorView, err := s.df.OpenView(offset, DescriptorSize)
	if err != nil {
		return nil, 0, tabledb.WrapFile(
			err,
			"Failed to open descriptor of table at index %d in '%s'",
			index,
			s.df.Path())
	}
	defer descriptorView.Close()
	b := make([]byte, DescriptorSize)
	err = descriptorView.Read(0, b)
	if err != nil {
		return nil, 0, tabledb.WrapFile(
			err,
			"Failed to read descriptor of table at index %d in '%s'",
			index,
			s.df.Path())
	}
	d, err := DecodeDescriptor(b)
	if err != nil {
		return nil, 0, tabledb.WrapFile(
			err,
			"Invalid descriptor of table at index %d in '%s'",
			index,
			s.df.Path())
	}

	// Capacity bounds count, and every reserved slot must lie in the file.
	remaining := s.df.Size() - offset - DescriptorSize
	if d.AttributeCapacity > uint64(remaining/AttributeRecordSize) {
		return nil, 0, tabledb.Errorf(
			tabledb.FileError,
			"Table '%s' in '%s' reserves %d attributes but only %d bytes follow",
			d.Name,
			s.df.Path(),
			d.AttributeCapacity,
			remaining)
	}

	attributesView, err := s.df.OpenView(
		offset+DescriptorSize,
		int64(d.AttributeCount)*AttributeRecordSize)
	if err != nil {
		return nil, 0, tabledb.WrapFile(
			err,
			"Failed to open attributes of table '%s' in '%s'",
			d.Name,
			s.df.Path())
	}
	defer attributesView.Close()
	attrs := make([]tabledb.Attribute, d.AttributeCount)
	record := make([]byte, AttributeRecordSize)
	for j := range attrs {
		err = attributesView.Read(int64(j)*AttributeRecordSize, record)
		if err != nil {
			return nil, 0, tabledb.WrapFile(
				err,
				"Failed to read attribute %d of table '%s' in '%s'",
				j,
				d.Name,
				s.df.Path())
		}
		attrs[j], err = DecodeAttribute(record)
		if err != nil {
			return nil, 0, tabledb.WrapFile(
				err,
				"Invalid attribute %d of table '%s' in '%s'",
				j,
				d.Name,
				s.df.Path())
		}
	}
	ts, err := New(d.Name, attrs)
	if err != nil {
		return nil, 0, err
	}
	next := offset + DescriptorSize + int64(d.AttributeCapacity)*AttributeRecordSize
	return ts, next, nil
}

func (s *Store) TableCount() uint64 {
	return s.tableCount
}

// Append persists ts after the last table and bumps the table count.
func (s *Store) Append(ts *TableSchema) error {
	b, err := EncodeTable(ts)
	if err != nil {
		return err
	}
	end := s.end + int64(len(b))
	if end > s.df.Size() {
		err = s.df.Resize(end)
		if err != nil {
			return tabledb.WrapFile(
				err,
				"Failed to resize schema file when creating table '%s'",
				ts.name)
		}
		// Resizing invalidated the count view.
		_ = s.countView.Close()
		err = s.openCountView()
		if err != nil {
			return err
		}
	}

	tableView, err := s.df.OpenView(s.end, int64(len(b)))
	if err != nil {
		return tabledb.WrapFile(err, "Failed to open schema view of table '%s'", ts.name)
	}
	defer tableView.Close()
	err = tableView.Write(0, b)
	if err != nil {
		return tabledb.WrapFile(err, "Failed to write schema of table '%s'", ts.name)
	}

	count := make([]byte, tableCountSize)
	tabledb.ByteOrder.PutUint64(count, s.tableCount+1)
	err = s.countView.Write(0, count)
	if err != nil {
		return tabledb.WrapFile(err, "Failed to write table count of '%s'", s.df.Path())
	}
	s.tableCount++
	s.end = end
	return nil
}

func (s *Store) Close() error {
	if s.countView != nil {
		_ = s.countView.Close()
	}
	return s.df.Close()
}
