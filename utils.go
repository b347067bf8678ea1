package tabledb

import (
	"io"
	"strings"
)

func ValidateName(name string) error {
	if name == "" {
		return Errorf(InvalidArgument, "Name must not be empty")
	}
	if len(name) > MaxNameLength {
		return Errorf(
			NameTooLong,
			"Name '%s...' is %d bytes long; at most %d are allowed",
			name[:16],
			len(name),
			MaxNameLength)
	}
	if strings.IndexByte(name, 0) >= 0 {
		return Errorf(InvalidArgument, "Name %q contains a NUL byte", name)
	}
	return nil
}

// ResolveAttributes places attrs one after another in declaration order and
// returns the resulting stride.  Names must be unique.
func ResolveAttributes(attrs []Attribute) ([]ResolvedAttribute, uint64, error) {
	return placeAttributes(attrs, true)
}

// Like ResolveAttributes, but the same name may appear more than once.  Used
// for result sets, where a column can be projected repeatedly.
func resolveColumns(attrs []Attribute) ([]ResolvedAttribute, uint64, error) {
	return placeAttributes(attrs, false)
}

func placeAttributes(
	attrs []Attribute,
	unique bool) ([]ResolvedAttribute, uint64, error) {

	resolved := make([]ResolvedAttribute, len(attrs))
	seen := make(map[string]struct{}, len(attrs))
	var stride uint64
	for i, attr := range attrs {
		err := ValidateName(attr.Name)
		if err != nil {
			return nil, 0, err
		}
		if _, ok := seen[attr.Name]; ok && unique {
			return nil, 0, Errorf(
				AttributeExists,
				"Attribute '%s' is defined more than once",
				attr.Name)
		}
		seen[attr.Name] = struct{}{}
		if attr.Count == 0 {
			return nil, 0, Errorf(
				InvalidArgument,
				"Attribute '%s' must have a count of at least 1",
				attr.Name)
		}
		size, err := AttributeSize(attr.Type, attr.Count)
		if err != nil {
			return nil, 0, err
		}
		if stride > MaxStride-size {
			return nil, 0, Errorf(
				InvalidArgument,
				"Attribute '%s' makes the row larger than %d bytes",
				attr.Name,
				uint64(MaxStride))
		}
		resolved[i] = ResolvedAttribute{
			Attribute: attr,
			Offset:    stride,
			Size:      size,
		}
		stride += size
	}
	return resolved, stride, nil
}

// Strips the placement information from resolved attributes.
func Unresolved(attrs []ResolvedAttribute) []Attribute {
	result := make([]Attribute, len(attrs))
	for i, attr := range attrs {
		result[i] = attr.Attribute
	}
	return result
}

func AttributePosition(attrs []ResolvedAttribute, name string) int {
	for i, attr := range attrs {
		if attr.Name == name {
			return i
		}
	}
	return -1
}

func AttributeNames(attrs []ResolvedAttribute) []string {
	names := make([]string, len(attrs))
	for i, attr := range attrs {
		names[i] = attr.Name
	}
	return names
}

// ReadAll drains iter; unlike io.ReadAll it does not treat an empty iterator
// as an error.
func ReadAll(iter Iterator) ([]Row, error) {
	var rows []Row
	for {
		row, err := iter.Next()
		if err == io.EOF {
			return rows, nil
		} else if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
}
