package executor

import (
	"github.com/robot-dreams/tabledb"
)

// mask tracks which rows of a Source are still part of the result.  Rows
// start out included and conditions can only exclude them.
type mask []bool

func newMask(count uint64) mask {
	m := make(mask, count)
	for i := range m {
		m[i] = true
	}
	return m
}

// narrow evaluates cond against every row that is still included and
// excludes the rows which don't satisfy it.
func (m mask) narrow(src Source, cond tabledb.Condition) error {
	attr, err := src.Schema().Resolve(cond.Name)
	if err != nil {
		return err
	}
	p, err := tabledb.ConditionPredicate(attr, cond)
	if err != nil {
		return err
	}
	value := make([]byte, attr.Size)
	for row, included := range m {
		if !included {
			continue
		}
		err = readValue(src, uint64(row), attr, value)
		if err != nil {
			return err
		}
		if !p(value) {
			m[row] = false
		}
	}
	return nil
}

// Select returns the requested attributes of every row of src which
// satisfies all of conds.  With no conditions every row matches; with no
// names the result has a zero stride but still one row per match.
func Select(
	src Source,
	names []string,
	conds []tabledb.Condition,
) (*tabledb.ResultSet, error) {
	p, err := newProjection(src.Schema(), names)
	if err != nil {
		return nil, err
	}
	m := newMask(src.Count())
	for _, cond := range conds {
		err = m.narrow(src, cond)
		if err != nil {
			return nil, err
		}
	}
	rs, err := tabledb.NewResultSet(p.outputs())
	if err != nil {
		return nil, err
	}
	for row, included := range m {
		if !included {
			continue
		}
		err = p.copyRow(src, uint64(row), rs)
		if err != nil {
			rs.Destroy()
			return nil, err
		}
	}
	return rs, nil
}
