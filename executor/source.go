package executor

import (
	"github.com/robot-dreams/tabledb"
	"github.com/robot-dreams/tabledb/schema"
)

// Source is a table-like collection of fixed-stride rows that Select can
// read attribute values from.
type Source interface {
	Schema() *schema.TableSchema
	Count() uint64
	// ReadAt fills b with the bytes of the given row starting at offset.
	ReadAt(row uint64, offset uint64, b []byte) error
}

func readValue(src Source, row uint64, attr *tabledb.ResolvedAttribute, b []byte) error {
	err := src.ReadAt(row, attr.Offset, b[:attr.Size])
	if err != nil {
		if _, ok := err.(*tabledb.Error); ok {
			return err
		}
		return tabledb.WrapFile(
			err,
			"Unable to read attribute '%s' of row %d",
			attr.Name,
			row)
	}
	return nil
}
