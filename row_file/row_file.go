package row_file

import (
	"github.com/dropbox/godropbox/errors"
	"github.com/robot-dreams/tabledb"
	"github.com/robot-dreams/tabledb/data_file"
)

// {current u64, capacity u64}
const HeaderSize = 16

// RowFile stores fixed-stride rows after a header holding the current and
// maximum row counts.  The data region always spans capacity rows.
type RowFile struct {
	df       *data_file.File
	stride   uint64
	current  uint64
	capacity uint64

	headerView *data_file.View
	dataView   *data_file.View

	// Called after the file grows, with the new capacity.
	OnGrow func(capacity uint64)

	closed bool
}

// Create writes an empty row file with room for tabledb.RowIncrement rows.
func Create(path string, stride uint64) error {
	df, err := data_file.CreateFile(
		path,
		HeaderSize+int64(stride)*tabledb.RowIncrement)
	if err != nil {
		return err
	}
	defer df.Close()
	headerView, err := df.OpenView(0, HeaderSize)
	if err != nil {
		return err
	}
	defer headerView.Close()
	return headerView.Write(0, encodeHeader(0, tabledb.RowIncrement))
}

func Open(path string, stride uint64) (*RowFile, error) {
	df, err := data_file.OpenFile(path)
	if err != nil {
		return nil, err
	}
	rf := &RowFile{
		df:     df,
		stride: stride,
	}
	err = rf.openHeaderView()
	if err == nil {
		err = rf.readHeader()
	}
	if err == nil {
		err = rf.openDataView()
	}
	if err != nil {
		_ = rf.Close()
		return nil, err
	}
	return rf, nil
}

func encodeHeader(current uint64, capacity uint64) []byte {
	b := make([]byte, HeaderSize)
	tabledb.ByteOrder.PutUint64(b[0:8], current)
	tabledb.ByteOrder.PutUint64(b[8:16], capacity)
	return b
}

func (rf *RowFile) openHeaderView() error {
	headerView, err := rf.df.OpenView(0, HeaderSize)
	if err != nil {
		return err
	}
	rf.headerView = headerView
	return nil
}

func (rf *RowFile) readHeader() error {
	b := make([]byte, HeaderSize)
	err := rf.headerView.Read(0, b)
	if err != nil {
		return err
	}
	current := tabledb.ByteOrder.Uint64(b[0:8])
	capacity := tabledb.ByteOrder.Uint64(b[8:16])
	if current > capacity {
		return errors.Newf(
			"Row file %v holds %d rows but only has room for %d",
			rf.df.Path(),
			current,
			capacity)
	}
	rf.current = current
	rf.capacity = capacity
	return nil
}

func (rf *RowFile) openDataView() error {
	dataView, err := rf.df.OpenView(HeaderSize, int64(rf.capacity*rf.stride))
	if err != nil {
		return err
	}
	rf.dataView = dataView
	return nil
}

func (rf *RowFile) Path() string {
	return rf.df.Path()
}

func (rf *RowFile) Stride() uint64 {
	return rf.stride
}

func (rf *RowFile) Count() uint64 {
	return rf.current
}

func (rf *RowFile) Capacity() uint64 {
	return rf.capacity
}

// grow makes room for tabledb.RowIncrement more rows.  Both views are
// reopened before returning, so no stale view survives the resize.
func (rf *RowFile) grow() error {
	capacity := rf.capacity + tabledb.RowIncrement
	err := rf.df.Resize(rf.df.Size() + int64(tabledb.RowIncrement*rf.stride))
	if err != nil {
		return err
	}
	_ = rf.headerView.Close()
	_ = rf.dataView.Close()
	err = rf.openHeaderView()
	if err != nil {
		return err
	}
	dataView, err := rf.df.OpenView(HeaderSize, int64(capacity*rf.stride))
	if err != nil {
		return err
	}
	rf.dataView = dataView
	rf.capacity = capacity
	if rf.OnGrow != nil {
		rf.OnGrow(capacity)
	}
	return nil
}

// Append writes row at the end of the file and returns its index.  The row
// only counts once the header has been updated; a failure after the row data
// was written leaves the bytes in place but uncounted.
func (rf *RowFile) Append(row []byte) (uint64, error) {
	if rf.closed {
		return 0, errors.Newf("Row file %v is closed", rf.df.Path())
	}
	if uint64(len(row)) != rf.stride {
		return 0, errors.Newf("len(row) must be %d; got %d", rf.stride, len(row))
	}
	if rf.current == rf.capacity {
		err := rf.grow()
		if err != nil {
			return 0, err
		}
	}
	index := rf.current
	err := rf.dataView.Write(int64(index*rf.stride), row)
	if err != nil {
		return 0, err
	}
	err = rf.headerView.Write(0, encodeHeader(index+1, rf.capacity))
	if err != nil {
		return 0, err
	}
	rf.current++
	return index, nil
}

// ReadAt fills b with the bytes of the given row starting at offset.
func (rf *RowFile) ReadAt(row uint64, offset uint64, b []byte) error {
	if rf.closed {
		return errors.Newf("Row file %v is closed", rf.df.Path())
	}
	if row >= rf.current {
		return errors.Newf("row must be in [0, %d); got %d", rf.current, row)
	}
	if offset+uint64(len(b)) > rf.stride {
		return errors.Newf(
			"Range [%d, %d) must be within the stride %d",
			offset,
			offset+uint64(len(b)),
			rf.stride)
	}
	return rf.dataView.Read(int64(row*rf.stride+offset), b)
}

func (rf *RowFile) ReadRow(row uint64) ([]byte, error) {
	b := make([]byte, rf.stride)
	err := rf.ReadAt(row, 0, b)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Close never writes to the file.
func (rf *RowFile) Close() error {
	if rf.closed {
		return nil
	}
	defer func() {
		rf.closed = true
	}()
	if rf.headerView != nil {
		_ = rf.headerView.Close()
	}
	if rf.dataView != nil {
		_ = rf.dataView.Close()
	}
	return rf.df.Close()
}
