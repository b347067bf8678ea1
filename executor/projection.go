package executor

import (
	"github.com/robot-dreams/tabledb"
	"github.com/robot-dreams/tabledb/schema"
)

// projection copies a subset of a Source's attributes, in the requested
// order, into the rows of a ResultSet.
type projection struct {
	attrs []*tabledb.ResolvedAttribute
}

func newProjection(ts *schema.TableSchema, names []string) (*projection, error) {
	attrs := make([]*tabledb.ResolvedAttribute, len(names))
	for i, name := range names {
		attr, err := ts.Resolve(name)
		if err != nil {
			return nil, err
		}
		attrs[i] = attr
	}
	return &projection{
		attrs: attrs,
	}, nil
}

func (p *projection) outputs() []tabledb.Attribute {
	outputs := make([]tabledb.Attribute, len(p.attrs))
	for i, attr := range p.attrs {
		outputs[i] = attr.Attribute
	}
	return outputs
}

func (p *projection) copyRow(src Source, row uint64, rs *tabledb.ResultSet) error {
	dest, err := rs.Row(rs.NextRow())
	if err != nil {
		return err
	}
	var offset uint64
	for _, attr := range p.attrs {
		err = readValue(src, row, attr, dest[offset:offset+attr.Size])
		if err != nil {
			return err
		}
		offset += attr.Size
	}
	return nil
}
