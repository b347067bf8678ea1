package data_file

import (
	"os"

	"github.com/dropbox/godropbox/errors"
)

func DirectoryExists(path string) bool {
	stat, err := os.Stat(path)
	return err == nil && stat.IsDir()
}

func CreateDirectory(path string) error {
	err := os.Mkdir(path, 0755)
	if err != nil {
		return errors.Wrapf(err, "Failed to create directory %v", path)
	}
	return nil
}

func FileExists(path string) bool {
	stat, err := os.Stat(path)
	return err == nil && stat.Mode().IsRegular()
}

// File is a resizable file which hands out Views onto byte ranges of its
// contents.  Resizing invalidates every View opened before the resize.
type File struct {
	f    *os.File
	path string
	size int64

	// Incremented on each resize; Views remember the generation they were
	// opened in.
	generation uint64

	closed bool
}

// CreateFile creates a new zero-filled file of the given size; it fails if
// the file already exists.
func CreateFile(path string, initialSize int64) (*File, error) {
	if initialSize < 0 {
		return nil, errors.Newf("initialSize must be non-negative; got %d", initialSize)
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to create file %v", path)
	}
	err = f.Truncate(initialSize)
	if err != nil {
		_ = f.Close()
		return nil, errors.Wrapf(err, "Failed to size file %v", path)
	}
	return &File{
		f:    f,
		path: path,
		size: initialSize,
	}, nil
}

func OpenFile(path string) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0644)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to open file %v", path)
	}
	stat, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, errors.Wrapf(err, "Failed to stat file %v", path)
	}
	return &File{
		f:    f,
		path: path,
		size: stat.Size(),
	}, nil
}

func (df *File) Path() string {
	return df.path
}

func (df *File) Size() int64 {
	return df.size
}

func (df *File) Resize(newSize int64) error {
	if df.closed {
		return errors.Newf("File %v is closed", df.path)
	}
	if newSize < 0 {
		return errors.Newf("newSize must be non-negative; got %d", newSize)
	}
	err := df.f.Truncate(newSize)
	if err != nil {
		return errors.Wrapf(err, "Failed to resize %v to %d bytes", df.path, newSize)
	}
	df.size = newSize
	df.generation++
	return nil
}

// OpenView returns a View onto [offset, offset+length).
func (df *File) OpenView(offset int64, length int64) (*View, error) {
	if df.closed {
		return nil, errors.Newf("File %v is closed", df.path)
	}
	if offset < 0 || length < 0 || offset+length > df.size {
		return nil, errors.Newf(
			"View [%d, %d) is outside of %v which has %d bytes",
			offset,
			offset+length,
			df.path,
			df.size)
	}
	return &View{
		df:         df,
		offset:     offset,
		length:     length,
		generation: df.generation,
	}, nil
}

// Sync flushes the file contents to stable storage.
func (df *File) Sync() error {
	if df.closed {
		return errors.Newf("File %v is closed", df.path)
	}
	return df.f.Sync()
}

func (df *File) Close() error {
	if df.closed {
		return nil
	}
	defer func() {
		df.closed = true
	}()
	return df.f.Close()
}
