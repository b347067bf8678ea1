package tabledb

// ValuePredicate reports whether a stored attribute value satisfies a
// condition.
type ValuePredicate func(value []byte) bool

// ConditionPredicate builds the predicate for cond against attr.  The
// condition value is normalized to attr.Size bytes.
func ConditionPredicate(attr *ResolvedAttribute, cond Condition) (ValuePredicate, error) {
	if uint64(len(cond.Value)) > attr.Size {
		return nil, Errorf(
			InvalidArgument,
			"Condition value for attribute '%s' is %d bytes; at most %d allowed",
			attr.Name,
			len(cond.Value),
			attr.Size)
	}
	value := make([]byte, attr.Size)
	copy(value, cond.Value)
	type_ := attr.Type
	count := attr.Count
	switch cond.Operator {
	case OpEquals:
		return func(stored []byte) bool {
			return Equal(type_, stored, value, count)
		}, nil
	case OpDifferent:
		return func(stored []byte) bool {
			return !Equal(type_, stored, value, count)
		}, nil
	case OpBigger, OpSmaller, OpContains:
		return nil, Errorf(
			UnknownOperator,
			"Operator %d is not implemented yet. attribute: '%s'",
			uint64(cond.Operator),
			attr.Name)
	default:
		return nil, Errorf(
			UnknownOperator,
			"Operator %d is not recognized. attribute: '%s'",
			uint64(cond.Operator),
			attr.Name)
	}
}
