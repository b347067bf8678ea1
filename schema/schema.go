package schema

import (
	"github.com/robot-dreams/tabledb"
)

// TableSchema is the cached, resolved form of a table definition.  It is
// immutable once built and shared by every handle onto the table.
type TableSchema struct {
	name       string
	stride     uint64
	attributes []tabledb.ResolvedAttribute
	indices    map[string]int
}

func New(name string, attrs []tabledb.Attribute) (*TableSchema, error) {
	err := tabledb.ValidateName(name)
	if err != nil {
		return nil, err
	}
	resolved, stride, err := tabledb.ResolveAttributes(attrs)
	if err != nil {
		return nil, err
	}
	indices := make(map[string]int, len(resolved))
	for i, attr := range resolved {
		indices[attr.Name] = i
	}
	return &TableSchema{
		name:       name,
		stride:     stride,
		attributes: resolved,
		indices:    indices,
	}, nil
}

func (ts *TableSchema) Name() string {
	return ts.name
}

func (ts *TableSchema) Stride() uint64 {
	return ts.stride
}

func (ts *TableSchema) Len() int {
	return len(ts.attributes)
}

// Attributes must not be modified by the caller.
func (ts *TableSchema) Attributes() []tabledb.ResolvedAttribute {
	return ts.attributes
}

func (ts *TableSchema) Index(name string) (int, bool) {
	i, ok := ts.indices[name]
	return i, ok
}

// ByName returns nil if the table has no such attribute.
func (ts *TableSchema) ByName(name string) *tabledb.ResolvedAttribute {
	i, ok := ts.indices[name]
	if !ok {
		return nil
	}
	return &ts.attributes[i]
}

// ByIndex returns nil if index is out of range.
func (ts *TableSchema) ByIndex(index int) *tabledb.ResolvedAttribute {
	if index < 0 || index >= len(ts.attributes) {
		return nil
	}
	return &ts.attributes[index]
}

// Resolve looks up an attribute, reporting AttributeDoesNotExist when absent.
func (ts *TableSchema) Resolve(name string) (*tabledb.ResolvedAttribute, error) {
	attr := ts.ByName(name)
	if attr == nil {
		return nil, tabledb.Errorf(
			tabledb.AttributeDoesNotExist,
			"Attribute '%s' does not exist in table '%s'",
			name,
			ts.name)
	}
	return attr, nil
}
