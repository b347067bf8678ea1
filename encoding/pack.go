package encoding

import (
	"github.com/robot-dreams/tabledb"
	"github.com/robot-dreams/tabledb/schema"
)

// Pack encodes texts[i] for the attribute names[i] of ts and concatenates
// the results, producing the values buffer expected by Table.Insert.
func Pack(ts *schema.TableSchema, names []string, texts []string) ([]byte, error) {
	if len(names) != len(texts) {
		return nil, tabledb.Errorf(
			tabledb.InvalidArgument,
			"Got %d attribute names but %d values",
			len(names),
			len(texts))
	}
	var values []byte
	for i, name := range names {
		attr, err := ts.Resolve(name)
		if err != nil {
			return nil, err
		}
		b, err := EncodeValue(&attr.Attribute, texts[i])
		if err != nil {
			return nil, err
		}
		values = append(values, b...)
	}
	return values, nil
}

// Condition builds a condition on the named attribute of ts from its text
// value.
func Condition(
	ts *schema.TableSchema,
	name string,
	op tabledb.Operator,
	text string,
) (tabledb.Condition, error) {
	attr, err := ts.Resolve(name)
	if err != nil {
		return tabledb.Condition{}, err
	}
	value, err := EncodeValue(&attr.Attribute, text)
	if err != nil {
		return tabledb.Condition{}, err
	}
	return tabledb.Condition{
		Name:     name,
		Operator: op,
		Value:    value,
	}, nil
}

// FormatRow decodes every attribute of a result row.
func FormatRow(attrs []tabledb.ResolvedAttribute, row tabledb.Row) ([]string, error) {
	texts := make([]string, len(attrs))
	for i := range attrs {
		attr := &attrs[i]
		if attr.Offset+attr.Size > uint64(len(row)) {
			return nil, tabledb.Errorf(
				tabledb.InvalidArgument,
				"Row is %d bytes long; attribute '%s' ends at %d",
				len(row),
				attr.Name,
				attr.Offset+attr.Size)
		}
		text, err := DecodeValue(&attr.Attribute, row[attr.Offset:attr.Offset+attr.Size])
		if err != nil {
			return nil, err
		}
		texts[i] = text
	}
	return texts, nil
}
