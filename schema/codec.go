package schema

import (
	"bytes"

	"github.com/dropbox/godropbox/errors"
	"github.com/robot-dreams/tabledb"
)

const (
	tableCountSize = 8

	// {name[256], attribCountCurrent u64, attribCountCapacity u64}
	DescriptorSize = tabledb.NameSlotSize + 16

	// {name[256], type u64, count u64, constraints u64}
	AttributeRecordSize = tabledb.NameSlotSize + 24
)

// Descriptor is the fixed size record preceding a table's attributes in the
// schema file.  AttributeCapacity slots are reserved for attributes, of which
// the first AttributeCount are in use.
type Descriptor struct {
	Name              string
	AttributeCount    uint64
	AttributeCapacity uint64
}

func putName(b []byte, name string) error {
	err := tabledb.ValidateName(name)
	if err != nil {
		return err
	}
	copy(b[:tabledb.NameSlotSize], name)
	return nil
}

// Names are zero padded; the name ends at the first zero byte.
func getName(b []byte) string {
	slot := b[:tabledb.NameSlotSize]
	if i := bytes.IndexByte(slot, 0); i >= 0 {
		slot = slot[:i]
	}
	return string(slot)
}

func EncodeDescriptor(d Descriptor) ([]byte, error) {
	if d.AttributeCount > d.AttributeCapacity {
		return nil, errors.Newf(
			"Attribute count %d exceeds capacity %d",
			d.AttributeCount,
			d.AttributeCapacity)
	}
	b := make([]byte, DescriptorSize)
	err := putName(b, d.Name)
	if err != nil {
		return nil, err
	}
	tabledb.ByteOrder.PutUint64(b[tabledb.NameSlotSize:], d.AttributeCount)
	tabledb.ByteOrder.PutUint64(b[tabledb.NameSlotSize+8:], d.AttributeCapacity)
	return b, nil
}

func DecodeDescriptor(b []byte) (Descriptor, error) {
	if len(b) != DescriptorSize {
		return Descriptor{}, errors.Newf(
			"len(b) must be %d; got %d", DescriptorSize, len(b))
	}
	d := Descriptor{
		Name:              getName(b),
		AttributeCount:    tabledb.ByteOrder.Uint64(b[tabledb.NameSlotSize:]),
		AttributeCapacity: tabledb.ByteOrder.Uint64(b[tabledb.NameSlotSize+8:]),
	}
	if d.AttributeCount > d.AttributeCapacity {
		return Descriptor{}, errors.Newf(
			"Table %v has %d attributes but only room for %d",
			d.Name,
			d.AttributeCount,
			d.AttributeCapacity)
	}
	return d, nil
}

func EncodeAttribute(attr tabledb.Attribute) ([]byte, error) {
	b := make([]byte, AttributeRecordSize)
	err := putName(b, attr.Name)
	if err != nil {
		return nil, err
	}
	tabledb.ByteOrder.PutUint64(b[tabledb.NameSlotSize:], uint64(attr.Type))
	tabledb.ByteOrder.PutUint64(b[tabledb.NameSlotSize+8:], attr.Count)
	tabledb.ByteOrder.PutUint64(b[tabledb.NameSlotSize+16:], uint64(attr.Constraints))
	return b, nil
}

func DecodeAttribute(b []byte) (tabledb.Attribute, error) {
	if len(b) != AttributeRecordSize {
		return tabledb.Attribute{}, errors.Newf(
			"len(b) must be %d; got %d", AttributeRecordSize, len(b))
	}
	return tabledb.Attribute{
		Name:        getName(b),
		Type:        tabledb.AttributeType(tabledb.ByteOrder.Uint64(b[tabledb.NameSlotSize:])),
		Count:       tabledb.ByteOrder.Uint64(b[tabledb.NameSlotSize+8:]),
		Constraints: tabledb.Constraints(tabledb.ByteOrder.Uint64(b[tabledb.NameSlotSize+16:])),
	}, nil
}

// EncodeTable returns the descriptor followed by every attribute record.
func EncodeTable(ts *TableSchema) ([]byte, error) {
	n := uint64(len(ts.attributes))
	b, err := EncodeDescriptor(Descriptor{
		Name:              ts.name,
		AttributeCount:    n,
		AttributeCapacity: n,
	})
	if err != nil {
		return nil, err
	}
	for _, attr := range ts.attributes {
		record, err := EncodeAttribute(attr.Attribute)
		if err != nil {
			return nil, err
		}
		b = append(b, record...)
	}
	return b, nil
}
