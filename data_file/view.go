package data_file

import (
	"github.com/dropbox/godropbox/errors"
)

// View is a bounded window onto a File.  All offsets passed to a View are
// relative to the start of the window.
type View struct {
	df         *File
	offset     int64
	length     int64
	generation uint64
	closed     bool
}

func (v *View) Offset() int64 {
	return v.offset
}

func (v *View) Length() int64 {
	return v.length
}

func (v *View) check(localOffset int64, n int) error {
	if v.closed {
		return errors.New("View is closed")
	}
	if v.df.closed {
		return errors.Newf("File %v is closed", v.df.path)
	}
	if v.generation != v.df.generation {
		return errors.Newf(
			"View [%d, %d) of %v is stale; the file was resized",
			v.offset,
			v.offset+v.length,
			v.df.path)
	}
	if localOffset < 0 || localOffset+int64(n) > v.length {
		return errors.Newf(
			"Range [%d, %d) must be within [0, %d)",
			localOffset,
			localOffset+int64(n),
			v.length)
	}
	return nil
}

// Read fills b with the bytes starting at localOffset.
func (v *View) Read(localOffset int64, b []byte) error {
	err := v.check(localOffset, len(b))
	if err != nil {
		return err
	}
	_, err = v.df.f.ReadAt(b, v.offset+localOffset)
	if err != nil {
		return errors.Wrapf(err, "Failed to read %d bytes from %v", len(b), v.df.path)
	}
	return nil
}

func (v *View) Write(localOffset int64, b []byte) error {
	err := v.check(localOffset, len(b))
	if err != nil {
		return err
	}
	_, err = v.df.f.WriteAt(b, v.offset+localOffset)
	if err != nil {
		return errors.Wrapf(err, "Failed to write %d bytes to %v", len(b), v.df.path)
	}
	return nil
}

func (v *View) Close() error {
	v.closed = true
	return nil
}
