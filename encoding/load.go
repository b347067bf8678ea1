package encoding

import (
	"io"

	"github.com/robot-dreams/tabledb/schema"
)

type Inserter interface {
	Schema() *schema.TableSchema
	Insert(names []string, values []byte) error
}

// Load inserts every row of the CSV file at path and returns how many rows
// were inserted.  Rows before a failing one stay inserted.
func Load(ins Inserter, path string) (uint64, error) {
	scan, err := NewCSVScan(path, ins.Schema())
	if err != nil {
		return 0, err
	}
	defer scan.Close()
	var n uint64
	for {
		values, err := scan.Next()
		if err == io.EOF {
			return n, nil
		} else if err != nil {
			return n, err
		}
		err = ins.Insert(scan.Names(), values)
		if err != nil {
			return n, err
		}
		n++
	}
}
