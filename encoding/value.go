// Package encoding converts between the text form of attribute values (as
// typed in the shell or read from CSV files) and their stored bytes.
package encoding

import (
	"bytes"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"

	"github.com/robot-dreams/tabledb"
)

// Wide characters are stored as UTF-16 code units.
var wide = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

func invalidValue(attr *tabledb.Attribute, text string, err error) error {
	return tabledb.Errorf(
		tabledb.InvalidArgument,
		"Invalid %v value %q for attribute '%s': %v",
		attr.Type,
		text,
		attr.Name,
		err)
}

func tooLong(attr *tabledb.Attribute, text string, size int) error {
	return tabledb.Errorf(
		tabledb.InvalidArgument,
		"Value %q for attribute '%s' needs %d bytes; at most %d fit",
		text,
		attr.Name,
		size,
		attr.Count*mustTypeSize(attr.Type))
}

func mustTypeSize(type_ tabledb.AttributeType) uint64 {
	size, _ := tabledb.TypeSize(type_)
	return size
}

// EncodeValue returns the attr-sized bytes for text.  Numeric attributes
// take a space separated list of up to Count elements; strings are zero
// padded.  Missing elements are zero.
func EncodeValue(attr *tabledb.Attribute, text string) ([]byte, error) {
	size, err := tabledb.AttributeSize(attr.Type, attr.Count)
	if err != nil {
		return nil, err
	}
	b := make([]byte, size)
	switch attr.Type {
	case tabledb.Byte, tabledb.Uint64, tabledb.Sint64, tabledb.Float64:
		elements := strings.Fields(text)
		if len(elements) == 0 {
			return nil, tabledb.Errorf(
				tabledb.InvalidArgument,
				"Missing %v value for attribute '%s'",
				attr.Type,
				attr.Name)
		}
		if uint64(len(elements)) > attr.Count {
			return nil, tabledb.Errorf(
				tabledb.InvalidArgument,
				"Attribute '%s' holds %d elements; got %d",
				attr.Name,
				attr.Count,
				len(elements))
		}
		for i, element := range elements {
			err = encodeNumber(attr.Type, element, b[uint64(i)*mustTypeSize(attr.Type):])
			if err != nil {
				return nil, invalidValue(attr, text, err)
			}
		}
	case tabledb.Char, tabledb.VarChar:
		if len(text) > len(b) {
			return nil, tooLong(attr, text, len(text))
		}
		copy(b, text)
	case tabledb.WChar, tabledb.WVarChar:
		encoded, err := wide.NewEncoder().Bytes([]byte(text))
		if err != nil {
			return nil, invalidValue(attr, text, err)
		}
		if len(encoded) > len(b) {
			return nil, tooLong(attr, text, len(encoded))
		}
		copy(b, encoded)
	}
	return b, nil
}

func encodeNumber(type_ tabledb.AttributeType, text string, b []byte) error {
	switch type_ {
	case tabledb.Byte:
		x, err := strconv.ParseUint(text, 10, 8)
		if err != nil {
			return err
		}
		b[0] = byte(x)
	case tabledb.Uint64:
		x, err := strconv.ParseUint(text, 10, 64)
		if err != nil {
			return err
		}
		tabledb.ByteOrder.PutUint64(b, x)
	case tabledb.Sint64:
		x, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return err
		}
		tabledb.ByteOrder.PutUint64(b, uint64(x))
	case tabledb.Float64:
		x, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return err
		}
		tabledb.ByteOrder.PutUint64(b, math.Float64bits(x))
	}
	return nil
}

// DecodeValue renders the stored bytes of attr as text.  Multi-element
// numeric attributes are rendered as a space separated list.
func DecodeValue(attr *tabledb.Attribute, b []byte) (string, error) {
	size, err := tabledb.AttributeSize(attr.Type, attr.Count)
	if err != nil {
		return "", err
	}
	if uint64(len(b)) != size {
		return "", tabledb.Errorf(
			tabledb.InvalidArgument,
			"Attribute '%s' is %d bytes long; got %d",
			attr.Name,
			size,
			len(b))
	}
	switch attr.Type {
	case tabledb.Byte:
		elements := make([][]byte, len(b))
		for i, x := range b {
			elements[i] = strconv.AppendUint(nil, uint64(x), 10)
		}
		return string(bytes.Join(elements, []byte(" "))), nil
	case tabledb.Uint64, tabledb.Sint64, tabledb.Float64:
		elements := make([][]byte, 0, attr.Count)
		for i := 0; i < len(b); i += 8 {
			x := tabledb.ByteOrder.Uint64(b[i:])
			var element []byte
			switch attr.Type {
			case tabledb.Uint64:
				element = strconv.AppendUint(nil, x, 10)
			case tabledb.Sint64:
				element = strconv.AppendInt(nil, int64(x), 10)
			default:
				element = strconv.AppendFloat(nil, math.Float64frombits(x), 'g', -1, 64)
			}
			elements = append(elements, element)
		}
		return string(bytes.Join(elements, []byte(" "))), nil
	case tabledb.Char:
		return string(bytes.TrimRight(b, "\x00")), nil
	case tabledb.VarChar:
		if i := bytes.IndexByte(b, 0); i >= 0 {
			b = b[:i]
		}
		return string(b), nil
	default:
		end := len(b)
		if attr.Type == tabledb.WVarChar {
			for i := 0; i+1 < len(b); i += 2 {
				if b[i] == 0 && b[i+1] == 0 {
					end = i
					break
				}
			}
		} else {
			for end >= 2 && b[end-2] == 0 && b[end-1] == 0 {
				end -= 2
			}
		}
		decoded, err := wide.NewDecoder().Bytes(b[:end])
		if err != nil {
			return "", invalidValue(attr, "", err)
		}
		return string(decoded), nil
	}
}
