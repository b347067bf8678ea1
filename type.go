package tabledb

import (
	"bytes"
	"fmt"
	"math"
	"strings"
)

var attributeTypeNames = []string{
	Byte:     "byte",
	Uint64:   "uint64",
	Sint64:   "sint64",
	Float64:  "float64",
	Char:     "char",
	WChar:    "wchar",
	VarChar:  "varchar",
	WVarChar: "wvarchar",
}

func (t AttributeType) String() string {
	if uint64(t) < uint64(len(attributeTypeNames)) {
		return attributeTypeNames[t]
	}
	return fmt.Sprintf("type(%d)", uint64(t))
}

func ParseAttributeType(s string) (AttributeType, error) {
	for i, name := range attributeTypeNames {
		if strings.EqualFold(s, name) {
			return AttributeType(i), nil
		}
	}
	return 0, Errorf(UnknownType, "Unknown type '%s'", s)
}

func TypeSize(type_ AttributeType) (uint64, error) {
	switch type_ {
	case Byte, Char, VarChar:
		return 1, nil
	case WChar, WVarChar:
		return 2, nil
	case Uint64, Sint64, Float64:
		return 8, nil
	default:
		return 0, Errorf(UnknownType, "Unknown type of value %d", uint64(type_))
	}
}

func AttributeSize(type_ AttributeType, count uint64) (uint64, error) {
	size, err := TypeSize(type_)
	if err != nil {
		return 0, err
	}
	if count > MaxStride/size {
		return 0, Errorf(
			InvalidArgument,
			"%d elements of type %v don't fit in a row",
			count,
			type_)
	}
	return size * count, nil
}

// Equal compares count elements of a and b as values of the given type.
// Variable length types stop at the first terminator shared by both values,
// so bytes following the terminator are ignored.
//
// Precondition: len(a) and len(b) are at least AttributeSize(type_, count)
func Equal(type_ AttributeType, a []byte, b []byte, count uint64) bool {
	switch type_ {
	case Byte, Char:
		return bytes.Equal(a[:count], b[:count])
	case Uint64, Sint64:
		for i := uint64(0); i < count; i++ {
			if ByteOrder.Uint64(a[i*8:]) != ByteOrder.Uint64(b[i*8:]) {
				return false
			}
		}
		return true
	case Float64:
		for i := uint64(0); i < count; i++ {
			x := math.Float64frombits(ByteOrder.Uint64(a[i*8:]))
			y := math.Float64frombits(ByteOrder.Uint64(b[i*8:]))
			if x != y {
				return false
			}
		}
		return true
	case WChar:
		for i := uint64(0); i < count; i++ {
			if ByteOrder.Uint16(a[i*2:]) != ByteOrder.Uint16(b[i*2:]) {
				return false
			}
		}
		return true
	case VarChar:
		for i := uint64(0); i < count; i++ {
			if a[i] != b[i] {
				return false
			}
			if a[i] == 0 {
				return true
			}
		}
		return true
	case WVarChar:
		for i := uint64(0); i < count; i++ {
			x := ByteOrder.Uint16(a[i*2:])
			if x != ByteOrder.Uint16(b[i*2:]) {
				return false
			}
			if x == 0 {
				return true
			}
		}
		return true
	default:
		return false
	}
}

func (c Constraints) String() string {
	var parts []string
	if c.Has(NotNull) {
		parts = append(parts, "NOT NULL")
	}
	if c.Has(Unique) {
		parts = append(parts, "UNIQUE")
	}
	return strings.Join(parts, " ")
}

var operatorNames = []string{
	OpEquals:    "=",
	OpDifferent: "!=",
	OpBigger:    ">",
	OpSmaller:   "<",
	OpContains:  "~",
}

func (o Operator) String() string {
	if uint64(o) < uint64(len(operatorNames)) {
		return operatorNames[o]
	}
	return fmt.Sprintf("operator(%d)", uint64(o))
}

func ParseOperator(s string) (Operator, error) {
	for i, name := range operatorNames {
		if s == name {
			return Operator(i), nil
		}
	}
	return 0, Errorf(UnknownOperator, "Operator '%s' is not recognized", s)
}
