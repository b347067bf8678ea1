package database

import (
	"bytes"
	"log/slog"

	"github.com/willf/bloom"

	"github.com/robot-dreams/tabledb"
	"github.com/robot-dreams/tabledb/executor"
	"github.com/robot-dreams/tabledb/row_file"
	"github.com/robot-dreams/tabledb/schema"
)

// Bloom filter parameters for UNIQUE attributes.
const (
	m = 1 << 20
	k = 5
)

type Table struct {
	db     *Database
	ts     *schema.TableSchema
	rf     *row_file.RowFile
	logger *slog.Logger

	// Keyed by attribute index; built the first time an insert checks the
	// attribute.
	filters map[int]*bloom.BloomFilter

	closed bool
}

var _ executor.Source = (*Table)(nil)

func newTable(db *Database, ts *schema.TableSchema, rf *row_file.RowFile) *Table {
	t := &Table{
		db:      db,
		ts:      ts,
		rf:      rf,
		logger:  db.logger.With("table", ts.Name()),
		filters: make(map[int]*bloom.BloomFilter),
	}
	rf.OnGrow = func(capacity uint64) {
		t.logger.Debug("grew row file", "capacity", capacity)
	}
	return t
}

func (t *Table) Name() string {
	return t.ts.Name()
}

func (t *Table) Schema() *schema.TableSchema {
	return t.ts
}

func (t *Table) Stride() uint64 {
	return t.ts.Stride()
}

func (t *Table) Count() uint64 {
	return t.rf.Count()
}

func (t *Table) Capacity() uint64 {
	return t.rf.Capacity()
}

// AttributeByName returns nil if the table has no such attribute.
func (t *Table) AttributeByName(name string) *tabledb.ResolvedAttribute {
	return t.ts.ByName(name)
}

// AttributeByIndex returns nil if index is out of range.
func (t *Table) AttributeByIndex(index int) *tabledb.ResolvedAttribute {
	return t.ts.ByIndex(index)
}

func (t *Table) checkOpen() error {
	if t.closed {
		return tabledb.Errorf(tabledb.Closed, "Table '%s' is closed", t.Name())
	}
	return nil
}

func (t *Table) ReadAt(row uint64, offset uint64, b []byte) error {
	err := t.checkOpen()
	if err != nil {
		return err
	}
	err = t.rf.ReadAt(row, offset, b)
	if err != nil {
		return tabledb.WrapFile(err, "Failed to read row %d of table '%s'", row, t.Name())
	}
	return nil
}

// scatter describes where a slice of the caller's packed values goes within
// a row.
type scatter struct {
	attr        *tabledb.ResolvedAttribute
	index       int
	inputOffset uint64
}

func (t *Table) resolveInsert(names []string, values []byte) ([]scatter, error) {
	scatters := make([]scatter, len(names))
	seen := make(map[string]struct{}, len(names))
	var inputOffset uint64
	for i, name := range names {
		if _, ok := seen[name]; ok {
			return nil, tabledb.Errorf(
				tabledb.InvalidArgument,
				"Attribute '%s' is given more than once",
				name)
		}
		seen[name] = struct{}{}
		attr, err := t.ts.Resolve(name)
		if err != nil {
			return nil, err
		}
		index, _ := t.ts.Index(name)
		scatters[i] = scatter{
			attr:        attr,
			index:       index,
			inputOffset: inputOffset,
		}
		inputOffset += attr.Size
	}
	if inputOffset != uint64(len(values)) {
		return nil, tabledb.Errorf(
			tabledb.InvalidArgument,
			"Values are %d bytes long; the named attributes need %d",
			len(values),
			inputOffset)
	}
	for _, attr := range t.ts.Attributes() {
		if !attr.Constraints.Has(tabledb.NotNull) {
			continue
		}
		if _, ok := seen[attr.Name]; !ok {
			return nil, tabledb.Errorf(
				tabledb.AttributeIsNotNull,
				"Attribute '%s' of table '%s' must be given a value",
				attr.Name,
				t.Name())
		}
	}
	return scatters, nil
}

func (t *Table) filter(index int, attr *tabledb.ResolvedAttribute) (*bloom.BloomFilter, error) {
	if f, ok := t.filters[index]; ok {
		return f, nil
	}
	f := bloom.New(m, k)
	value := make([]byte, attr.Size)
	for row := uint64(0); row < t.rf.Count(); row++ {
		err := t.ReadAt(row, attr.Offset, value)
		if err != nil {
			return nil, err
		}
		f.Add(value)
	}
	t.filters[index] = f
	return f, nil
}

// isDuplicate compares raw bytes rather than using tabledb.Equal, so a
// VarChar value with different bytes after its terminator is not a
// duplicate.
func (t *Table) isDuplicate(s scatter, value []byte) (bool, error) {
	if !t.db.opts.DisableUniqueFilter {
		f, err := t.filter(s.index, s.attr)
		if err != nil {
			return false, err
		}
		if !f.Test(value) {
			return false, nil
		}
	}
	stored := make([]byte, s.attr.Size)
	for row := uint64(0); row < t.rf.Count(); row++ {
		err := t.ReadAt(row, s.attr.Offset, stored)
		if err != nil {
			return false, err
		}
		if bytes.Equal(stored, value) {
			return true, nil
		}
	}
	return false, nil
}

// Insert appends a row holding values for the named attributes; values is
// the concatenation of each attribute's bytes in the order of names.
// Attributes which aren't named are zero.
func (t *Table) Insert(names []string, values []byte) error {
	err := t.checkOpen()
	if err != nil {
		return err
	}
	scatters, err := t.resolveInsert(names, values)
	if err != nil {
		return err
	}
	row := make([]byte, t.ts.Stride())
	for _, s := range scatters {
		value := values[s.inputOffset : s.inputOffset+s.attr.Size]
		if s.attr.Constraints.Has(tabledb.Unique) {
			duplicate, err := t.isDuplicate(s, value)
			if err != nil {
				return err
			}
			if duplicate {
				return tabledb.Errorf(
					tabledb.AttributeIsUnique,
					"Table '%s' already has a row with this value of attribute '%s'",
					t.Name(),
					s.attr.Name)
			}
		}
		copy(row[s.attr.Offset:], value)
	}
	_, err = t.rf.Append(row)
	if err != nil {
		return tabledb.WrapFile(err, "Failed to insert into table '%s'", t.Name())
	}
	for index, f := range t.filters {
		attr := t.ts.ByIndex(index)
		f.Add(row[attr.Offset : attr.Offset+attr.Size])
	}
	return nil
}

// Select returns the named attributes of every row satisfying all conds.
func (t *Table) Select(
	names []string,
	conds []tabledb.Condition,
) (*tabledb.ResultSet, error) {
	err := t.checkOpen()
	if err != nil {
		return nil, err
	}
	return executor.Select(t, names, conds)
}

// Scan returns every attribute of every row.
func (t *Table) Scan() (*tabledb.ResultSet, error) {
	return t.Select(tabledb.AttributeNames(t.ts.Attributes()), nil)
}

// Close never writes to the row file.  Calling Close() multiple times is
// valid.
func (t *Table) Close() error {
	if t.closed {
		return nil
	}
	t.closed = true
	t.filters = nil
	t.db.release(t)
	err := t.rf.Close()
	if err != nil {
		return tabledb.WrapFile(err, "Failed to close table '%s'", t.Name())
	}
	return nil
}
